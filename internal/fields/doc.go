// Package fields is the registry of every column an archive table can carry.
//
// Two catalogs exist, one per archive core: Occurrence and Event. Each field
// has a stable ascending id, the Darwin Core term name, and its schema URI.
// A Selection is the per-job column mask; encoders and the meta.xml builder
// both iterate Selection.Fields so column order agrees everywhere.
package fields
