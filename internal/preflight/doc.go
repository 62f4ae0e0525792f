// Package preflight provides readiness checks for the filesystem paths and
// external services an export run depends on.
//
// These checks run in two contexts:
//   - The export manager calls RunAll before staging. If any check fails, the
//     run stops before touching staging or export directories.
//   - The CLI "dwcexport check" command prints every result as a table.
//
// Service checks are gated by the configured source and provenance kinds;
// a service the configuration does not use is reported as skipped.
package preflight
