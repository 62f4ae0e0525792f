// Package main hosts the dwcexport CLI entrypoint and command graph.
//
// The Cobra command tree runs exports, samples and validates delivered
// archives, lists the field catalogs, and maintains the staging directory and
// the delivery ledger. Configuration resolution and logger construction live
// in the command context so subcommands only deal with presentation.
//
// Keep this package lean: new behavior belongs in the internal packages and is
// surfaced here through a dedicated command or flag.
package main
