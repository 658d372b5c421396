package parquet

import (
	"github.com/apache/thrift/lib/go/thrift"
)

// FileMetaData is the footer structure describing the whole file: the flat
// schema element list, the total row count and the row groups.
type FileMetaData struct {
	Version          int32
	Schema           []*SchemaElement
	NumRows          int64
	RowGroups        []*RowGroup
	KeyValueMetadata []*KeyValue
	CreatedBy        *string
}

func (m *FileMetaData) Read(p thrift.TProtocol) error {
	return readFields(p, func(id int16, typ thrift.TType) (bool, error) {
		switch {
		case id == 1 && typ == thrift.I32:
			v, err := p.ReadI32()
			m.Version = v
			return true, err

		case id == 2 && typ == thrift.LIST:
			_, size, err := p.ReadListBegin()
			if err != nil {
				return true, err
			}

			m.Schema = make([]*SchemaElement, size)
			for i := 0; i < size; i++ {
				m.Schema[i] = &SchemaElement{}
				if err := m.Schema[i].Read(p); err != nil {
					return true, err
				}
			}

			return true, p.ReadListEnd()

		case id == 3 && typ == thrift.I64:
			v, err := p.ReadI64()
			m.NumRows = v
			return true, err

		case id == 4 && typ == thrift.LIST:
			_, size, err := p.ReadListBegin()
			if err != nil {
				return true, err
			}

			m.RowGroups = make([]*RowGroup, size)
			for i := 0; i < size; i++ {
				m.RowGroups[i] = &RowGroup{}
				if err := m.RowGroups[i].Read(p); err != nil {
					return true, err
				}
			}

			return true, p.ReadListEnd()

		case id == 5 && typ == thrift.LIST:
			_, size, err := p.ReadListBegin()
			if err != nil {
				return true, err
			}

			m.KeyValueMetadata = make([]*KeyValue, size)
			for i := 0; i < size; i++ {
				m.KeyValueMetadata[i] = &KeyValue{}
				if err := m.KeyValueMetadata[i].Read(p); err != nil {
					return true, err
				}
			}

			return true, p.ReadListEnd()

		case id == 6 && typ == thrift.STRING:
			v, err := p.ReadString()
			m.CreatedBy = &v
			return true, err

		default:
			return false, nil
		}
	})
}

func (m *FileMetaData) Write(p thrift.TProtocol) error {
	if err := p.WriteStructBegin("FileMetaData"); err != nil {
		return err
	}

	if err := writeField(p, "version", thrift.I32, 1, func() error { return p.WriteI32(m.Version) }); err != nil {
		return err
	}

	if err := writeField(p, "schema", thrift.LIST, 2, func() error {
		if err := p.WriteListBegin(thrift.STRUCT, len(m.Schema)); err != nil {
			return err
		}
		for _, s := range m.Schema {
			if err := s.Write(p); err != nil {
				return err
			}
		}
		return p.WriteListEnd()
	}); err != nil {
		return err
	}

	if err := writeField(p, "num_rows", thrift.I64, 3, func() error { return p.WriteI64(m.NumRows) }); err != nil {
		return err
	}

	if err := writeField(p, "row_groups", thrift.LIST, 4, func() error {
		if err := p.WriteListBegin(thrift.STRUCT, len(m.RowGroups)); err != nil {
			return err
		}
		for _, g := range m.RowGroups {
			if err := g.Write(p); err != nil {
				return err
			}
		}
		return p.WriteListEnd()
	}); err != nil {
		return err
	}

	if len(m.KeyValueMetadata) > 0 {
		if err := writeField(p, "key_value_metadata", thrift.LIST, 5, func() error {
			if err := p.WriteListBegin(thrift.STRUCT, len(m.KeyValueMetadata)); err != nil {
				return err
			}
			for _, kv := range m.KeyValueMetadata {
				if err := kv.Write(p); err != nil {
					return err
				}
			}
			return p.WriteListEnd()
		}); err != nil {
			return err
		}
	}

	if m.CreatedBy != nil {
		if err := writeField(p, "created_by", thrift.STRING, 6, func() error { return p.WriteString(*m.CreatedBy) }); err != nil {
			return err
		}
	}

	if err := p.WriteFieldStop(); err != nil {
		return err
	}

	return p.WriteStructEnd()
}

// SchemaElement is one node of the flattened schema tree. Group nodes have
// a nil Type and a non-nil NumChildren.
type SchemaElement struct {
	Type           *Type
	TypeLength     *int32
	RepetitionType *FieldRepetitionType
	Name           string
	NumChildren    *int32
	ConvertedType  *ConvertedType
	Scale          *int32
	Precision      *int32
	FieldID        *int32
}

func (m *SchemaElement) Read(p thrift.TProtocol) error {
	return readFields(p, func(id int16, typ thrift.TType) (bool, error) {
		switch {
		case id == 1 && typ == thrift.I32:
			v, err := p.ReadI32()
			t := Type(v)
			m.Type = &t
			return true, err

		case id == 2 && typ == thrift.I32:
			v, err := p.ReadI32()
			m.TypeLength = &v
			return true, err

		case id == 3 && typ == thrift.I32:
			v, err := p.ReadI32()
			t := FieldRepetitionType(v)
			m.RepetitionType = &t
			return true, err

		case id == 4 && typ == thrift.STRING:
			v, err := p.ReadString()
			m.Name = v
			return true, err

		case id == 5 && typ == thrift.I32:
			v, err := p.ReadI32()
			m.NumChildren = &v
			return true, err

		case id == 6 && typ == thrift.I32:
			v, err := p.ReadI32()
			t := ConvertedType(v)
			m.ConvertedType = &t
			return true, err

		case id == 7 && typ == thrift.I32:
			v, err := p.ReadI32()
			m.Scale = &v
			return true, err

		case id == 8 && typ == thrift.I32:
			v, err := p.ReadI32()
			m.Precision = &v
			return true, err

		case id == 9 && typ == thrift.I32:
			v, err := p.ReadI32()
			m.FieldID = &v
			return true, err

		default:
			return false, nil
		}
	})
}

func (m *SchemaElement) Write(p thrift.TProtocol) error {
	if err := p.WriteStructBegin("SchemaElement"); err != nil {
		return err
	}

	if m.Type != nil {
		if err := writeField(p, "type", thrift.I32, 1, func() error { return p.WriteI32(int32(*m.Type)) }); err != nil {
			return err
		}
	}

	if m.TypeLength != nil {
		if err := writeField(p, "type_length", thrift.I32, 2, func() error { return p.WriteI32(*m.TypeLength) }); err != nil {
			return err
		}
	}

	if m.RepetitionType != nil {
		if err := writeField(p, "repetition_type", thrift.I32, 3, func() error { return p.WriteI32(int32(*m.RepetitionType)) }); err != nil {
			return err
		}
	}

	if err := writeField(p, "name", thrift.STRING, 4, func() error { return p.WriteString(m.Name) }); err != nil {
		return err
	}

	if m.NumChildren != nil {
		if err := writeField(p, "num_children", thrift.I32, 5, func() error { return p.WriteI32(*m.NumChildren) }); err != nil {
			return err
		}
	}

	if m.ConvertedType != nil {
		if err := writeField(p, "converted_type", thrift.I32, 6, func() error { return p.WriteI32(int32(*m.ConvertedType)) }); err != nil {
			return err
		}
	}

	if m.Scale != nil {
		if err := writeField(p, "scale", thrift.I32, 7, func() error { return p.WriteI32(*m.Scale) }); err != nil {
			return err
		}
	}

	if m.Precision != nil {
		if err := writeField(p, "precision", thrift.I32, 8, func() error { return p.WriteI32(*m.Precision) }); err != nil {
			return err
		}
	}

	if m.FieldID != nil {
		if err := writeField(p, "field_id", thrift.I32, 9, func() error { return p.WriteI32(*m.FieldID) }); err != nil {
			return err
		}
	}

	if err := p.WriteFieldStop(); err != nil {
		return err
	}

	return p.WriteStructEnd()
}

// RowGroup describes one horizontal partition: one column chunk per column
// plus the partition's row count.
type RowGroup struct {
	Columns       []*ColumnChunk
	TotalByteSize int64
	NumRows       int64
}

func (m *RowGroup) Read(p thrift.TProtocol) error {
	return readFields(p, func(id int16, typ thrift.TType) (bool, error) {
		switch {
		case id == 1 && typ == thrift.LIST:
			_, size, err := p.ReadListBegin()
			if err != nil {
				return true, err
			}

			m.Columns = make([]*ColumnChunk, size)
			for i := 0; i < size; i++ {
				m.Columns[i] = &ColumnChunk{}
				if err := m.Columns[i].Read(p); err != nil {
					return true, err
				}
			}

			return true, p.ReadListEnd()

		case id == 2 && typ == thrift.I64:
			v, err := p.ReadI64()
			m.TotalByteSize = v
			return true, err

		case id == 3 && typ == thrift.I64:
			v, err := p.ReadI64()
			m.NumRows = v
			return true, err

		default:
			return false, nil
		}
	})
}

func (m *RowGroup) Write(p thrift.TProtocol) error {
	if err := p.WriteStructBegin("RowGroup"); err != nil {
		return err
	}

	if err := writeField(p, "columns", thrift.LIST, 1, func() error {
		if err := p.WriteListBegin(thrift.STRUCT, len(m.Columns)); err != nil {
			return err
		}
		for _, c := range m.Columns {
			if err := c.Write(p); err != nil {
				return err
			}
		}
		return p.WriteListEnd()
	}); err != nil {
		return err
	}

	if err := writeField(p, "total_byte_size", thrift.I64, 2, func() error { return p.WriteI64(m.TotalByteSize) }); err != nil {
		return err
	}

	if err := writeField(p, "num_rows", thrift.I64, 3, func() error { return p.WriteI64(m.NumRows) }); err != nil {
		return err
	}

	if err := p.WriteFieldStop(); err != nil {
		return err
	}

	return p.WriteStructEnd()
}

// ColumnChunk locates one column's pages inside a row group.
type ColumnChunk struct {
	FilePath   *string
	FileOffset int64
	MetaData   *ColumnMetaData
}

func (m *ColumnChunk) Read(p thrift.TProtocol) error {
	return readFields(p, func(id int16, typ thrift.TType) (bool, error) {
		switch {
		case id == 1 && typ == thrift.STRING:
			v, err := p.ReadString()
			m.FilePath = &v
			return true, err

		case id == 2 && typ == thrift.I64:
			v, err := p.ReadI64()
			m.FileOffset = v
			return true, err

		case id == 3 && typ == thrift.STRUCT:
			m.MetaData = &ColumnMetaData{}
			return true, m.MetaData.Read(p)

		default:
			return false, nil
		}
	})
}

func (m *ColumnChunk) Write(p thrift.TProtocol) error {
	if err := p.WriteStructBegin("ColumnChunk"); err != nil {
		return err
	}

	if m.FilePath != nil {
		if err := writeField(p, "file_path", thrift.STRING, 1, func() error { return p.WriteString(*m.FilePath) }); err != nil {
			return err
		}
	}

	if err := writeField(p, "file_offset", thrift.I64, 2, func() error { return p.WriteI64(m.FileOffset) }); err != nil {
		return err
	}

	if m.MetaData != nil {
		if err := writeField(p, "meta_data", thrift.STRUCT, 3, func() error { return m.MetaData.Write(p) }); err != nil {
			return err
		}
	}

	if err := p.WriteFieldStop(); err != nil {
		return err
	}

	return p.WriteStructEnd()
}

// ColumnMetaData carries the byte span, codec, value count and page offsets
// of one column chunk.
type ColumnMetaData struct {
	Type                  Type
	Encodings             []Encoding
	PathInSchema          []string
	Codec                 CompressionCodec
	NumValues             int64
	TotalUncompressedSize int64
	TotalCompressedSize   int64
	KeyValueMetadata      []*KeyValue
	DataPageOffset        int64
	IndexPageOffset       *int64
	DictionaryPageOffset  *int64
}

func (m *ColumnMetaData) Read(p thrift.TProtocol) error {
	return readFields(p, func(id int16, typ thrift.TType) (bool, error) {
		switch {
		case id == 1 && typ == thrift.I32:
			v, err := p.ReadI32()
			m.Type = Type(v)
			return true, err

		case id == 2 && typ == thrift.LIST:
			_, size, err := p.ReadListBegin()
			if err != nil {
				return true, err
			}

			m.Encodings = make([]Encoding, size)
			for i := 0; i < size; i++ {
				v, err := p.ReadI32()
				if err != nil {
					return true, err
				}
				m.Encodings[i] = Encoding(v)
			}

			return true, p.ReadListEnd()

		case id == 3 && typ == thrift.LIST:
			_, size, err := p.ReadListBegin()
			if err != nil {
				return true, err
			}

			m.PathInSchema = make([]string, size)
			for i := 0; i < size; i++ {
				if m.PathInSchema[i], err = p.ReadString(); err != nil {
					return true, err
				}
			}

			return true, p.ReadListEnd()

		case id == 4 && typ == thrift.I32:
			v, err := p.ReadI32()
			m.Codec = CompressionCodec(v)
			return true, err

		case id == 5 && typ == thrift.I64:
			v, err := p.ReadI64()
			m.NumValues = v
			return true, err

		case id == 6 && typ == thrift.I64:
			v, err := p.ReadI64()
			m.TotalUncompressedSize = v
			return true, err

		case id == 7 && typ == thrift.I64:
			v, err := p.ReadI64()
			m.TotalCompressedSize = v
			return true, err

		case id == 8 && typ == thrift.LIST:
			_, size, err := p.ReadListBegin()
			if err != nil {
				return true, err
			}

			m.KeyValueMetadata = make([]*KeyValue, size)
			for i := 0; i < size; i++ {
				m.KeyValueMetadata[i] = &KeyValue{}
				if err := m.KeyValueMetadata[i].Read(p); err != nil {
					return true, err
				}
			}

			return true, p.ReadListEnd()

		case id == 9 && typ == thrift.I64:
			v, err := p.ReadI64()
			m.DataPageOffset = v
			return true, err

		case id == 10 && typ == thrift.I64:
			v, err := p.ReadI64()
			m.IndexPageOffset = &v
			return true, err

		case id == 11 && typ == thrift.I64:
			v, err := p.ReadI64()
			m.DictionaryPageOffset = &v
			return true, err

		default:
			return false, nil
		}
	})
}

func (m *ColumnMetaData) Write(p thrift.TProtocol) error {
	if err := p.WriteStructBegin("ColumnMetaData"); err != nil {
		return err
	}

	if err := writeField(p, "type", thrift.I32, 1, func() error { return p.WriteI32(int32(m.Type)) }); err != nil {
		return err
	}

	if err := writeField(p, "encodings", thrift.LIST, 2, func() error {
		if err := p.WriteListBegin(thrift.I32, len(m.Encodings)); err != nil {
			return err
		}
		for _, e := range m.Encodings {
			if err := p.WriteI32(int32(e)); err != nil {
				return err
			}
		}
		return p.WriteListEnd()
	}); err != nil {
		return err
	}

	if err := writeField(p, "path_in_schema", thrift.LIST, 3, func() error {
		if err := p.WriteListBegin(thrift.STRING, len(m.PathInSchema)); err != nil {
			return err
		}
		for _, s := range m.PathInSchema {
			if err := p.WriteString(s); err != nil {
				return err
			}
		}
		return p.WriteListEnd()
	}); err != nil {
		return err
	}

	if err := writeField(p, "codec", thrift.I32, 4, func() error { return p.WriteI32(int32(m.Codec)) }); err != nil {
		return err
	}

	if err := writeField(p, "num_values", thrift.I64, 5, func() error { return p.WriteI64(m.NumValues) }); err != nil {
		return err
	}

	if err := writeField(p, "total_uncompressed_size", thrift.I64, 6, func() error { return p.WriteI64(m.TotalUncompressedSize) }); err != nil {
		return err
	}

	if err := writeField(p, "total_compressed_size", thrift.I64, 7, func() error { return p.WriteI64(m.TotalCompressedSize) }); err != nil {
		return err
	}

	if err := writeField(p, "data_page_offset", thrift.I64, 9, func() error { return p.WriteI64(m.DataPageOffset) }); err != nil {
		return err
	}

	if m.IndexPageOffset != nil {
		if err := writeField(p, "index_page_offset", thrift.I64, 10, func() error { return p.WriteI64(*m.IndexPageOffset) }); err != nil {
			return err
		}
	}

	if m.DictionaryPageOffset != nil {
		if err := writeField(p, "dictionary_page_offset", thrift.I64, 11, func() error { return p.WriteI64(*m.DictionaryPageOffset) }); err != nil {
			return err
		}
	}

	if err := p.WriteFieldStop(); err != nil {
		return err
	}

	return p.WriteStructEnd()
}

// KeyValue is a free-form metadata entry.
type KeyValue struct {
	Key   string
	Value *string
}

func (m *KeyValue) Read(p thrift.TProtocol) error {
	return readFields(p, func(id int16, typ thrift.TType) (bool, error) {
		switch {
		case id == 1 && typ == thrift.STRING:
			v, err := p.ReadString()
			m.Key = v
			return true, err

		case id == 2 && typ == thrift.STRING:
			v, err := p.ReadString()
			m.Value = &v
			return true, err

		default:
			return false, nil
		}
	})
}

func (m *KeyValue) Write(p thrift.TProtocol) error {
	if err := p.WriteStructBegin("KeyValue"); err != nil {
		return err
	}

	if err := writeField(p, "key", thrift.STRING, 1, func() error { return p.WriteString(m.Key) }); err != nil {
		return err
	}

	if m.Value != nil {
		if err := writeField(p, "value", thrift.STRING, 2, func() error { return p.WriteString(*m.Value) }); err != nil {
			return err
		}
	}

	if err := p.WriteFieldStop(); err != nil {
		return err
	}

	return p.WriteStructEnd()
}
