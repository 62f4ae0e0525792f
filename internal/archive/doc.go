// Package archive assembles staged rows into Darwin Core Archive zip files.
//
// Build writes every table entry as the schema header followed by the raw
// concatenation of the staging files of that table, then meta.xml, eml.xml
// and optionally processinfo.xml. The archive is written to a temporary file
// and renamed onto its destination only when complete.
//
// Each build also yields a fingerprint: the summed length of all entries with
// the eml publication date left out. Rebuilding unchanged data produces the
// same fingerprint, which is how unchanged archives are recognised.
package archive
