package parq

import (
	"github.com/corvidlake/parq/column"
	"github.com/corvidlake/parq/schema"
)

// Table is the materialized result of one read: one buffer per selected
// leaf column, all with the same row count.
type Table struct {
	Columns []*column.Buffer
	NumRows int64
}

// TableMetadata carries the file-level facts of the sources a table was
// read from.
type TableMetadata struct {
	// Schema is the unified schema shared by every source.
	Schema *schema.Schema

	// KeyValue merges the key-value metadata of all sources. Later
	// sources win on duplicate keys.
	KeyValue map[string]string

	// CreatedBy holds the writer signature of each source, in source
	// order. Empty string when a source does not record one.
	CreatedBy []string
}

// TableWithMetadata bundles a read result with its source metadata.
type TableWithMetadata struct {
	Table *Table
	Meta  *TableMetadata
}
