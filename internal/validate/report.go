package validate

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Report holds the findings of one extraction.
type Report struct {
	Source     string
	CoreFile   string
	Skip       int
	Take       int
	CoreRows   int
	Duplicates []Duplicate
	Tables     []TableReport
}

// Duplicate is a core identifier seen more than once in the sample.
type Duplicate struct {
	ID    string
	Count int
}

// TableReport describes one table of the sample.
type TableReport struct {
	Name         string
	RowsRead     int
	RowsKept     int
	ErrorRows    []ErrorRow
	ErrorColumns []string
}

// ErrorRow is a row holding at least one disallowed character.
type ErrorRow struct {
	// Line is the 1-based data row number within the table.
	Line  int
	Row   string
	Cells []ErrorCell
}

// ErrorCell is one offending cell.
type ErrorCell struct {
	Column string
	Value  string
}

// ErrorRowCount totals the offending rows over all tables.
func (r *Report) ErrorRowCount() int {
	n := 0
	for _, t := range r.Tables {
		n += len(t.ErrorRows)
	}
	return n
}

// HasFindings reports whether any duplicate or malformed cell was found.
func (r *Report) HasFindings() bool {
	return len(r.Duplicates) > 0 || r.ErrorRowCount() > 0
}

// Table returns the report of the named table.
func (r *Report) Table(name string) (TableReport, bool) {
	for _, t := range r.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return TableReport{}, false
}

// WriteText renders the plain-text report.
func (r *Report) WriteText(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Validation report for %s\n", r.Source)
	fmt.Fprintf(&b, "Core table %s: rows %d-%d requested, %d extracted\n\n", r.CoreFile, r.Skip+1, r.Skip+r.Take, r.CoreRows)

	summary := table.NewWriter()
	summary.SetStyle(table.StyleLight)
	summary.AppendHeader(table.Row{"Table", "Rows read", "Rows kept", "Error rows"})
	for _, t := range r.Tables {
		summary.AppendRow(table.Row{t.Name, t.RowsRead, t.RowsKept, len(t.ErrorRows)})
	}
	b.WriteString(summary.Render())
	b.WriteString("\n\n")

	if len(r.Duplicates) == 0 {
		b.WriteString("Duplicate identifiers: none\n")
	} else {
		fmt.Fprintf(&b, "Duplicate identifiers (%d):\n", len(r.Duplicates))
		for _, d := range r.Duplicates {
			fmt.Fprintf(&b, "  %s (%d occurrences)\n", d.ID, d.Count)
		}
	}

	for _, t := range r.Tables {
		if len(t.ErrorRows) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s: %d row(s) with disallowed characters\n", t.Name, len(t.ErrorRows))
		fmt.Fprintf(&b, "Error columns: %s\n", strings.Join(t.ErrorColumns, ", "))

		cells := table.NewWriter()
		cells.SetStyle(table.StyleLight)
		cells.AppendHeader(table.Row{"Row", "Column", "Value"})
		for _, er := range t.ErrorRows {
			for _, c := range er.Cells {
				cells.AppendRow(table.Row{er.Line, c.Column, strconv.QuoteToASCII(c.Value)})
			}
		}
		b.WriteString(cells.Render())
		b.WriteString("\nError rows:\n")
		for _, er := range t.ErrorRows {
			fmt.Fprintf(&b, "  %d: %s\n", er.Line, strconv.QuoteToASCII(er.Row))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
