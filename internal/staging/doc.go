// Package staging accumulates encoded archive rows on disk while a run is in
// progress.
//
// Each run owns a directory under the staging root. Inside it every provider
// gets a directory, and every batch written for that provider produces one
// headerless file per table kind. Events and event measurements are written
// at most once per run no matter how many batches or providers carry them.
package staging
