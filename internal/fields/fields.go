package fields

import (
	"fmt"
	"strings"
)

// Namespaces for the schema terms used by the catalogs.
const (
	DwcNamespace     = "http://rs.tdwg.org/dwc/terms/"
	DcNamespace      = "http://purl.org/dc/terms/"
	ObisNamespace    = "http://rs.iobis.org/obis/terms/"
	GbifNamespace    = "http://rs.gbif.org/terms/1.0/"
	occurrenceIDName = "occurrenceID"
	eventIDName      = "eventID"
)

// Group classifies a field by the Darwin Core class it belongs to.
type Group int

const (
	GroupRecord Group = iota
	GroupOccurrence
	GroupOrganism
	GroupMaterialSample
	GroupEvent
	GroupLocation
	GroupGeologicalContext
	GroupIdentification
	GroupTaxon
)

var groupNames = map[Group]string{
	GroupRecord:            "record",
	GroupOccurrence:        "occurrence",
	GroupOrganism:          "organism",
	GroupMaterialSample:    "materialSample",
	GroupEvent:             "event",
	GroupLocation:          "location",
	GroupGeologicalContext: "geologicalContext",
	GroupIdentification:    "identification",
	GroupTaxon:             "taxon",
}

func (g Group) String() string {
	if name, ok := groupNames[g]; ok {
		return name
	}
	return fmt.Sprintf("group(%d)", int(g))
}

// Field describes one output column. IDs are stable and ascending in catalog order.
type Field struct {
	ID    int
	Name  string
	Term  string
	Group Group
}

// Catalog is an immutable, id-ordered list of every column a table can carry.
// The first field is always the table's primary identifier.
type Catalog struct {
	name   string
	fields []Field
	byName map[string]int
	maxID  int
}

func newCatalog(name string, fields []Field) *Catalog {
	c := &Catalog{name: name, fields: fields, byName: make(map[string]int, len(fields))}
	for i, f := range fields {
		if i > 0 && f.ID <= fields[i-1].ID {
			panic(fmt.Sprintf("fields: catalog %s: id %d (%s) not ascending", name, f.ID, f.Name))
		}
		if _, dup := c.byName[f.Name]; dup {
			panic(fmt.Sprintf("fields: catalog %s: duplicate field %s", name, f.Name))
		}
		c.byName[f.Name] = i
		if f.ID > c.maxID {
			c.maxID = f.ID
		}
	}
	return c
}

// Name returns the catalog name ("occurrence" or "event").
func (c *Catalog) Name() string { return c.name }

// Fields returns a copy of the full catalog in id order.
func (c *Catalog) Fields() []Field {
	out := make([]Field, len(c.fields))
	copy(out, c.fields)
	return out
}

// Identifier returns the table's primary identifier field.
func (c *Catalog) Identifier() Field { return c.fields[0] }

// Lookup finds a field by its term name (case-sensitive, e.g. "decimalLatitude").
func (c *Catalog) Lookup(name string) (Field, bool) {
	idx, ok := c.byName[strings.TrimSpace(name)]
	if !ok {
		return Field{}, false
	}
	return c.fields[idx], true
}

// Len reports the number of fields in the catalog.
func (c *Catalog) Len() int { return len(c.fields) }

// All selects every field in the catalog.
func (c *Catalog) All() Selection {
	sel := c.emptySelection()
	for _, f := range c.fields {
		sel.set(f.ID)
	}
	return sel
}

// Select builds a selection from term names. An empty list selects the whole
// catalog. The identifier field is always included. Unknown names are an error.
func (c *Catalog) Select(names []string) (Selection, error) {
	if len(names) == 0 {
		return c.All(), nil
	}
	sel := c.emptySelection()
	sel.set(c.Identifier().ID)
	var unknown []string
	for _, name := range names {
		f, ok := c.Lookup(name)
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		sel.set(f.ID)
	}
	if len(unknown) > 0 {
		return Selection{}, fmt.Errorf("%s fields: unknown term(s) %s", c.name, strings.Join(unknown, ", "))
	}
	return sel, nil
}

// SelectFields builds a selection from already-resolved field descriptions.
func (c *Catalog) SelectFields(selected []Field) Selection {
	sel := c.emptySelection()
	for _, f := range selected {
		if idx, ok := c.byName[f.Name]; ok && c.fields[idx].ID == f.ID {
			sel.set(f.ID)
		}
	}
	return sel
}

func (c *Catalog) emptySelection() Selection {
	return Selection{catalog: c, bits: make([]uint64, c.maxID/64+1)}
}

// Selection is the column-presence mask for one export job.
type Selection struct {
	catalog *Catalog
	bits    []uint64
}

func (s Selection) set(id int) {
	s.bits[id/64] |= 1 << (uint(id) % 64)
}

// Has reports whether the field id is selected.
func (s Selection) Has(id int) bool {
	if id < 0 || id/64 >= len(s.bits) {
		return false
	}
	return s.bits[id/64]&(1<<(uint(id)%64)) != 0
}

// Catalog returns the catalog the selection was built from.
func (s Selection) Catalog() *Catalog { return s.catalog }

// Fields returns the selected fields in ascending id order.
func (s Selection) Fields() []Field {
	if s.catalog == nil {
		return nil
	}
	out := make([]Field, 0, len(s.catalog.fields))
	for _, f := range s.catalog.fields {
		if s.Has(f.ID) {
			out = append(out, f)
		}
	}
	return out
}

// Count returns the number of selected fields.
func (s Selection) Count() int {
	n := 0
	if s.catalog == nil {
		return 0
	}
	for _, f := range s.catalog.fields {
		if s.Has(f.ID) {
			n++
		}
	}
	return n
}

// Without returns a copy of the selection with the named field cleared.
func (s Selection) Without(name string) Selection {
	if s.catalog == nil {
		return s
	}
	out := Selection{catalog: s.catalog, bits: append([]uint64(nil), s.bits...)}
	if f, ok := s.catalog.Lookup(name); ok {
		out.bits[f.ID/64] &^= 1 << (uint(f.ID) % 64)
	}
	return out
}
