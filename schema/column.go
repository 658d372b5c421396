package schema

import (
	"github.com/hexbee-net/errors"

	"github.com/corvidlake/parq/parquet"
)

// Column is one node of the schema tree. Leaf nodes carry a physical type
// and the per-nesting-level thresholds the decoder needs; group nodes only
// carry children.
type Column struct {
	index    int
	name     string
	flatName string

	children []*Column

	rep parquet.FieldRepetitionType

	maxR uint16
	maxD uint16

	// presentDef[l] is the minimum definition level at which an entry
	// exists at nesting level l; validDef[l] the minimum at which it is
	// non-null. Both have MaxDepth entries and are set on leaves only.
	presentDef []uint16
	validDef   []uint16

	element *parquet.SchemaElement
}

// Children returns the column's child columns.
func (c *Column) Children() []*Column {
	return c.children
}

// IsLeaf returns true if the column holds values rather than children.
func (c *Column) IsLeaf() bool {
	return c.element != nil && c.element.Type != nil
}

// Index returns the leaf index of the column in schema order, -1 for groups.
func (c *Column) Index() int {
	return c.index
}

// Name returns the column name.
func (c *Column) Name() string {
	return c.name
}

// FlatName returns the name of the column and its parents in dotted notation.
func (c *Column) FlatName() string {
	return c.flatName
}

// Element returns the schema element the column was loaded from.
func (c *Column) Element() *parquet.SchemaElement {
	return c.element
}

// Type returns the physical type of a leaf column.
func (c *Column) Type() parquet.Type {
	return *c.element.Type
}

// RepetitionType returns the repetition type of the column itself.
func (c *Column) RepetitionType() parquet.FieldRepetitionType {
	return c.rep
}

// MaxDefinitionLevel returns the maximum definition level for this column.
func (c *Column) MaxDefinitionLevel() uint16 {
	return c.maxD
}

// MaxRepetitionLevel returns the maximum repetition level for this column.
func (c *Column) MaxRepetitionLevel() uint16 {
	return c.maxR
}

// MaxDepth returns the number of output nesting levels of a leaf: the row
// level plus one level per repeated ancestor.
func (c *Column) MaxDepth() uint16 {
	return c.maxR + 1
}

// HasLists returns true if any ancestor of the leaf is repeated.
func (c *Column) HasLists() bool {
	return c.maxR > 0
}

// PresentDef returns the per-level presence thresholds of a leaf.
func (c *Column) PresentDef() []uint16 {
	return c.presentDef
}

// ValidDef returns the per-level non-null thresholds of a leaf.
func (c *Column) ValidDef() []uint16 {
	return c.validDef
}

func (c *Column) readGroupSchema(schema []*parquet.SchemaElement, name string, idx int, dLevel, rLevel uint16) (newIndex int, err error) {
	if len(schema) <= idx {
		return 0, errors.WithFields(
			errors.New("schema index out of bound"),
			errors.Fields{
				"index": idx,
				"size":  len(schema),
			})
	}

	s := schema[idx]

	if s.Type != nil {
		return 0, errors.WithFields(
			errors.New("field type is not nil for group"),
			errors.Fields{
				"index": idx,
			})
	}

	if s.NumChildren == nil || *s.NumChildren <= 0 {
		return 0, errors.WithFields(
			errors.New("field NumChildren is invalid"),
			errors.Fields{
				"index": idx,
			})
	}

	l := int(*s.NumChildren)

	if len(schema) <= idx+l {
		return 0, errors.WithFields(
			errors.New("not enough elements in schema list"),
			errors.Fields{
				"index": idx,
			})
	}

	if s.RepetitionType != nil && *s.RepetitionType != parquet.FieldRepetitionType_REQUIRED {
		dLevel++
	}

	if s.RepetitionType != nil && *s.RepetitionType == parquet.FieldRepetitionType_REPEATED {
		rLevel++
	}

	c.maxD = dLevel
	c.maxR = rLevel

	if name == "" {
		name = s.Name
	} else {
		name += "." + s.Name
	}

	c.index = -1
	c.flatName = name
	c.name = s.Name
	c.element = s
	c.children = make([]*Column, 0, l)

	if s.RepetitionType != nil {
		c.rep = *s.RepetitionType
	}

	idx++ // move idx from this group to the first child

	for i := 0; i < l; i++ {
		child := &Column{}

		if schema[idx].Type == nil {
			idx, err = child.readGroupSchema(schema, name, idx, dLevel, rLevel)
		} else {
			idx, err = child.readColumnSchema(schema, name, idx, dLevel, rLevel)
		}

		if err != nil {
			return 0, err
		}

		c.children = append(c.children, child)
	}

	return idx, nil
}

func (c *Column) readColumnSchema(schema []*parquet.SchemaElement, name string, idx int, dLevel, rLevel uint16) (newIndex int, err error) {
	s := schema[idx]

	if s.Name == "" {
		return 0, errors.WithFields(
			errors.New("name in schema is empty"),
			errors.Fields{
				"index": idx,
			})
	}

	if s.RepetitionType == nil {
		return 0, errors.WithFields(
			errors.New("field RepetitionType is nil"),
			errors.Fields{
				"index": idx,
			})
	}

	if *s.RepetitionType != parquet.FieldRepetitionType_REQUIRED {
		dLevel++
	}

	if *s.RepetitionType == parquet.FieldRepetitionType_REPEATED {
		rLevel++
	}

	if name == "" {
		name = s.Name
	} else {
		name += "." + s.Name
	}

	c.element = s
	c.maxR = rLevel
	c.maxD = dLevel
	c.rep = *s.RepetitionType
	c.name = s.Name
	c.flatName = name

	return idx + 1, nil
}

// equalColumn compares two schema nodes structurally: names, physical
// types, repetition and children. Logical annotations must match as well,
// so that decimal scales and string flags cannot silently diverge between
// sources.
func equalColumn(a, b *Column) bool {
	if a.name != b.name || a.rep != b.rep {
		return false
	}

	if a.IsLeaf() != b.IsLeaf() {
		return false
	}

	if a.IsLeaf() {
		if *a.element.Type != *b.element.Type {
			return false
		}

		if !equalInt32Ptr((*int32)(a.element.ConvertedType), (*int32)(b.element.ConvertedType)) {
			return false
		}

		if !equalInt32Ptr(a.element.TypeLength, b.element.TypeLength) {
			return false
		}

		if !equalInt32Ptr(a.element.Scale, b.element.Scale) {
			return false
		}

		return equalInt32Ptr(a.element.Precision, b.element.Precision)
	}

	if len(a.children) != len(b.children) {
		return false
	}

	for i := range a.children {
		if !equalColumn(a.children[i], b.children[i]) {
			return false
		}
	}

	return true
}

func equalInt32Ptr(a, b *int32) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	return *a == *b
}
