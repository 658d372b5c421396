// Package schema builds the logical schema tree from the footer's flat
// element list and computes the per-leaf nesting facts the read pipeline
// works from: maximum definition/repetition levels and the per-level
// presence and null thresholds.
package schema

import (
	"github.com/hexbee-net/errors"

	"github.com/corvidlake/parq/parquet"
)

const (
	errColumnNotFound = errors.Error("column not found")
)

type Schema struct {
	Root *Column

	leaves   []*Column
	selected []string // dotted names; empty means all columns
}

// Load builds the schema tree from the footer's element list. The first
// element is the root.
func Load(elements []*parquet.SchemaElement) (*Schema, error) {
	if len(elements) < 1 {
		return nil, errors.New("no schema element found")
	}

	root := elements[0]
	elements = elements[1:]

	s := &Schema{
		Root: &Column{
			index:    -1,
			name:     root.Name,
			flatName: "",
			children: make([]*Column, 0, len(elements)),
			element:  root,
		},
	}

	for idx := 0; idx < len(elements); {
		c := &Column{}

		var err error
		if elements[idx].Type == nil {
			idx, err = c.readGroupSchema(elements, "", idx, 0, 0)
		} else {
			idx, err = c.readColumnSchema(elements, "", idx, 0, 0)
		}

		if err != nil {
			return nil, errors.WithStack(err)
		}

		s.Root.children = append(s.Root.children, c)
	}

	s.assignLeaves()

	return s, nil
}

// assignLeaves numbers the leaves in schema order and computes their
// per-level thresholds from the path of repeated/optional ancestors.
func (s *Schema) assignLeaves() {
	var walk func(c *Column, def uint16, presentDef, validDef []uint16)

	walk = func(c *Column, def uint16, presentDef, validDef []uint16) {
		if c.rep != parquet.FieldRepetitionType_REQUIRED {
			def++
		}

		if c.rep == parquet.FieldRepetitionType_REPEATED {
			// the enclosing level's entry is non-null once the levels
			// reach everything declared above this repeated node.
			validDef = append(validDef, def-1)
			presentDef = append(presentDef, def)
		}

		if c.IsLeaf() {
			c.index = len(s.leaves)

			c.presentDef = make([]uint16, 0, len(presentDef)+1)
			c.presentDef = append(c.presentDef, 0)
			c.presentDef = append(c.presentDef, presentDef...)

			c.validDef = make([]uint16, 0, len(validDef)+1)
			c.validDef = append(c.validDef, validDef...)
			c.validDef = append(c.validDef, c.maxD)

			s.leaves = append(s.leaves, c)

			return
		}

		for _, child := range c.children {
			walk(child, def, presentDef, validDef)
		}
	}

	for _, child := range s.Root.children {
		walk(child, 0, nil, nil)
	}
}

// Leaves returns all data-carrying columns in schema order.
func (s *Schema) Leaves() []*Column {
	return s.leaves
}

// GetColumnByName returns a leaf column by its dotted notation name.
func (s *Schema) GetColumnByName(path string) *Column {
	for _, c := range s.leaves {
		if c.flatName == path {
			return c
		}
	}

	return nil
}

// SetSelectedColumns restricts the read to the named columns, in dotted
// notation. Selecting no columns selects all of them. Unknown names are a
// configuration error.
func (s *Schema) SetSelectedColumns(selected ...string) error {
	for _, name := range selected {
		if s.GetColumnByName(name) == nil {
			return errors.WithFields(
				errors.WithStack(errColumnNotFound),
				errors.Fields{
					"name": name,
				})
		}
	}

	s.selected = selected

	return nil
}

// IsSelected reports whether the named leaf participates in the read.
func (s *Schema) IsSelected(path string) bool {
	if len(s.selected) == 0 {
		return true
	}

	for _, name := range s.selected {
		if name == path {
			return true
		}
	}

	return false
}

// SelectedLeaves returns the selected leaves in schema order.
func (s *Schema) SelectedLeaves() []*Column {
	if len(s.selected) == 0 {
		return s.leaves
	}

	ret := make([]*Column, 0, len(s.selected))

	for _, c := range s.leaves {
		if s.IsSelected(c.flatName) {
			ret = append(ret, c)
		}
	}

	return ret
}

// Equal compares two schemas structurally. Sources read together must
// agree on every selected column; comparing the full tree keeps the rule
// simple and conservative.
func (s *Schema) Equal(other *Schema) bool {
	if len(s.Root.children) != len(other.Root.children) {
		return false
	}

	for i := range s.Root.children {
		if !equalColumn(s.Root.children[i], other.Root.children[i]) {
			return false
		}
	}

	return true
}

// MaxDepth returns the deepest nesting depth across the given leaves. It
// is at least one even for flat schemas, so that the nesting records have
// one uniform shape everywhere.
func MaxDepth(leaves []*Column) uint16 {
	depth := uint16(1)

	for _, c := range leaves {
		if d := c.MaxDepth(); d > depth {
			depth = d
		}
	}

	return depth
}

// HasLists reports whether any of the given leaves sits under a repeated
// node.
func HasLists(leaves []*Column) bool {
	for _, c := range leaves {
		if c.HasLists() {
			return true
		}
	}

	return false
}
