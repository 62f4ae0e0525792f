// Package dwca encodes observations into Darwin Core Archive tables and
// renders the meta.xml schema descriptor.
//
// Encoders are data driven: each is an ordered column list built once per job
// from a fields.Selection (core tables) or a fixed extension layout
// (measurements, multimedia). Headers, rows, and meta.xml fields are all
// derived from that list, which keeps column order identical across them.
//
// Rows are tab separated, newline terminated, and never quoted. Free-text
// cells are stripped of tab, newline, and carriage return characters.
package dwca
