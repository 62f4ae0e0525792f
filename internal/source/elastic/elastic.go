// Package elastic reads observation batches from an Elasticsearch index with
// search_after paging.
package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	es "github.com/elastic/go-elasticsearch/v8"

	"dwcexport/internal/config"
	"dwcexport/internal/logging"
	"dwcexport/internal/observation"
	"dwcexport/internal/source"
)

// Field names in the observation index.
const (
	ProviderField = "dataProviderId"
	SortField     = "occurrence.occurrenceId"
)

// Source pages through the observations of one provider at a time.
type Source struct {
	client *es.Client
	index  string
	logger *slog.Logger
}

// New builds a source from the elasticsearch configuration section.
func New(cfg config.Elasticsearch, logger *slog.Logger) (*Source, error) {
	if strings.TrimSpace(cfg.Index) == "" {
		return nil, errors.New("elasticsearch index is required")
	}
	clientConfig := es.Config{
		Addresses: []string{normalizeURL(cfg.URL)},
	}
	if cfg.TimeoutSeconds > 0 {
		clientConfig.Transport = &http.Transport{
			ResponseHeaderTimeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		}
	}
	if cfg.APIKey != "" {
		clientConfig.APIKey = cfg.APIKey
	} else if cfg.Username != "" && cfg.Password != "" {
		clientConfig.Username = cfg.Username
		clientConfig.Password = cfg.Password
	}
	client, err := es.NewClient(clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Source{
		client: client,
		index:  cfg.Index,
		logger: logging.NewComponentLogger(logger, "elastic-source"),
	}, nil
}

func normalizeURL(url string) string {
	if url == "" {
		return "http://localhost:9200"
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return "http://" + url
	}
	return url
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID     string          `json:"_id"`
			Source json.RawMessage `json:"_source"`
			Sort   []any           `json:"sort"`
		} `json:"hits"`
	} `json:"hits"`
}

func buildQuery(providerID int, after []any) map[string]any {
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"filter": []any{
					map[string]any{"term": map[string]any{ProviderField: providerID}},
				},
			},
		},
		"sort": []any{
			map[string]any{SortField: map[string]any{"order": "asc"}},
		},
		"track_total_hits": false,
	}
	if len(after) > 0 {
		query["search_after"] = after
	}
	return query
}

// Batches implements source.Source.
func (s *Source) Batches(ctx context.Context, provider observation.DataProvider, size int, fn func(source.Batch) error) error {
	if size <= 0 {
		return fmt.Errorf("batch size must be positive, got %d", size)
	}
	var after []any
	for n := 0; ; n++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		records, next, hits, err := s.page(ctx, provider, size, after)
		if err != nil {
			return err
		}
		if len(records) > 0 {
			if err := fn(source.Batch{ID: source.BatchID(provider, n), Records: records}); err != nil {
				return err
			}
		}
		if hits < size || len(next) == 0 {
			return nil
		}
		after = next
	}
}

// page fetches one page and returns its decoded records, the sort values of
// its last hit and the number of hits. A hit that does not decode fails the page.
func (s *Source) page(ctx context.Context, provider observation.DataProvider, size int, after []any) ([]*observation.Observation, []any, int, error) {
	queryJSON, err := json.Marshal(buildQuery(provider.ID, after))
	if err != nil {
		return nil, nil, 0, fmt.Errorf("marshal query: %w", err)
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(bytes.NewReader(queryJSON)),
		s.client.Search.WithSize(size),
	)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("search %s: %w", s.index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return nil, nil, 0, fmt.Errorf("search %s: %s: %s", s.index, res.Status(), strings.TrimSpace(string(body)))
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, nil, 0, fmt.Errorf("decode search response: %w", err)
	}

	records := make([]*observation.Observation, 0, len(parsed.Hits.Hits))
	var next []any
	for _, hit := range parsed.Hits.Hits {
		var rec observation.Observation
		if err := json.Unmarshal(hit.Source, &rec); err != nil {
			return nil, nil, 0, fmt.Errorf("decode document %s in %s: %w", hit.ID, s.index, err)
		}
		if rec.DataProviderID == 0 {
			rec.DataProviderID = provider.ID
		}
		records = append(records, &rec)
		next = hit.Sort
	}
	s.logger.Debug("search page fetched",
		logging.String(logging.FieldProvider, provider.Identifier),
		logging.Int("hits", len(parsed.Hits.Hits)),
	)
	return records, next, len(parsed.Hits.Hits), nil
}

// Ping checks that the cluster answers.
func (s *Source) Ping(ctx context.Context) error {
	res, err := s.client.Info(s.client.Info.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch ping: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("elasticsearch ping: %s", res.Status())
	}
	return nil
}
