// Package validate extracts a bounded sample from a built archive and reports
// data problems found in it.
//
// The sample keeps a window of core rows and every extension row linked to a
// core row in that window. Duplicate core identifiers and cells holding
// control or format characters are reported in validation.txt, which is
// written into the sample archive next to the copied metadata entries.
// Findings never stop extraction; only a missing core table or meta.xml does.
package validate
