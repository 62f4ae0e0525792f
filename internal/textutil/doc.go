// Package textutil provides small text helpers for naming things on disk.
//
// Provider identifiers and batch ids become staging directory and file names,
// so they are reduced to filesystem-safe tokens here before use.
package textutil
