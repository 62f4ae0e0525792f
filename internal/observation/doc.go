// Package observation defines the already-processed observation records the
// exporter consumes, plus the data provider reference.
//
// Records arrive with taxonomy, coordinates, and vocabularies resolved; this
// package adds only the small predicates the archive pipeline needs, such as
// the access-rights restriction check and measurement composite keys.
package observation
