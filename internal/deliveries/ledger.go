package deliveries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Delivery is one delivered archive.
type Delivery struct {
	Provider         string
	Variant          string
	Fingerprint      int64
	ObservationCount int64
	ArchivePath      string
	RunID            string
	DeliveredAt      time.Time
}

const deliveryColumns = "provider, variant, fingerprint, observation_count, archive_path, run_id, delivered_at"

func scanDelivery(scanner interface{ Scan(dest ...any) error }) (Delivery, error) {
	var (
		d           Delivery
		runID       sql.NullString
		deliveredAt string
	)
	if err := scanner.Scan(&d.Provider, &d.Variant, &d.Fingerprint, &d.ObservationCount, &d.ArchivePath, &runID, &deliveredAt); err != nil {
		return Delivery{}, err
	}
	d.RunID = runID.String
	if ts, err := time.Parse(time.RFC3339Nano, deliveredAt); err == nil {
		d.DeliveredAt = ts
	}
	return d, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

// Fingerprint returns the last delivered fingerprint of provider for variant.
// The boolean is false when nothing has been delivered yet.
func (s *Store) Fingerprint(ctx context.Context, provider, variant string) (int64, bool, error) {
	ctx = ensureContext(ctx)
	var fp int64
	err := s.db.QueryRowContext(ctx,
		`SELECT fingerprint FROM deliveries WHERE provider = ? AND variant = ?`,
		provider, variant,
	).Scan(&fp)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read fingerprint: %w", err)
	}
	return fp, true, nil
}

// Record stores d as the latest delivery of its provider and variant and
// appends it to the history.
func (s *Store) Record(ctx context.Context, d Delivery) error {
	ctx = ensureContext(ctx)
	if d.Provider == "" || d.Variant == "" {
		return errors.New("delivery provider and variant are required")
	}
	if d.DeliveredAt.IsZero() {
		d.DeliveredAt = time.Now()
	}
	ts := d.DeliveredAt.UTC().Format(time.RFC3339Nano)
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO deliveries (`+deliveryColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)
             ON CONFLICT(provider, variant) DO UPDATE SET
                fingerprint = excluded.fingerprint,
                observation_count = excluded.observation_count,
                archive_path = excluded.archive_path,
                run_id = excluded.run_id,
                delivered_at = excluded.delivered_at`,
			d.Provider, d.Variant, d.Fingerprint, d.ObservationCount, d.ArchivePath, nullableString(d.RunID), ts,
		); err != nil {
			return fmt.Errorf("upsert delivery: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO delivery_history (`+deliveryColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			d.Provider, d.Variant, d.Fingerprint, d.ObservationCount, d.ArchivePath, nullableString(d.RunID), ts,
		); err != nil {
			return fmt.Errorf("append delivery history: %w", err)
		}
		return tx.Commit()
	})
}

// List returns the latest delivery of every provider and variant.
func (s *Store) List(ctx context.Context) ([]Delivery, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `SELECT `+deliveryColumns+` FROM deliveries ORDER BY provider, variant`)
	if err != nil {
		return nil, fmt.Errorf("list deliveries: %w", err)
	}
	defer rows.Close()
	return collect(rows)
}

// History returns past deliveries of provider, newest first. A limit <= 0
// returns all of them.
func (s *Store) History(ctx context.Context, provider string, limit int) ([]Delivery, error) {
	ctx = ensureContext(ctx)
	query := `SELECT ` + deliveryColumns + ` FROM delivery_history WHERE provider = ? ORDER BY id DESC`
	args := []any{provider}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()
	return collect(rows)
}

// Forget drops the latest delivery of provider for variant so the next run
// delivers it again. History is kept.
func (s *Store) Forget(ctx context.Context, provider, variant string) (bool, error) {
	ctx = ensureContext(ctx)
	var affected int64
	err := retryOnBusy(ctx, func() error {
		res, err := s.db.ExecContext(ctx, `DELETE FROM deliveries WHERE provider = ? AND variant = ?`, provider, variant)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return false, fmt.Errorf("forget delivery: %w", err)
	}
	return affected > 0, nil
}

func collect(rows *sql.Rows) ([]Delivery, error) {
	var out []Delivery
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, fmt.Errorf("scan delivery: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
