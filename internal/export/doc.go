// Package export runs one Darwin Core Archive export end to end.
//
// A run takes the single-instance lock on the export directory, stages every
// enabled provider's records in parallel through the staging coordinator,
// assembles one archive per provider in parallel, then builds the combined
// archive from every provider that staged cleanly. Each archive ends in an
// Outcome: delivered, skipped (low volume, unchanged, missing verbatim
// source), cancelled, or failed. Staging files are removed when the run ends
// regardless of outcome.
//
// Re-delivery is idempotent: a provider archive whose fingerprint matches the
// one recorded in the deliveries ledger is discarded and the previously
// delivered file stays in place. The combined archive is discarded when no
// provider archive changed.
package export
