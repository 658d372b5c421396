package parquet

import (
	"github.com/apache/thrift/lib/go/thrift"
)

// PageHeader prefixes every page in a column chunk's byte stream. Exactly
// one of the sub-headers matching Type is set.
type PageHeader struct {
	Type                 PageType
	UncompressedPageSize int32
	CompressedPageSize   int32
	CRC                  *int32
	DataPageHeader       *DataPageHeader
	DictionaryPageHeader *DictionaryPageHeader
	DataPageHeaderV2     *DataPageHeaderV2
}

func (m *PageHeader) GetCompressedPageSize() int32   { return m.CompressedPageSize }
func (m *PageHeader) GetUncompressedPageSize() int32 { return m.UncompressedPageSize }

func (m *PageHeader) Read(p thrift.TProtocol) error {
	return readFields(p, func(id int16, typ thrift.TType) (bool, error) {
		switch {
		case id == 1 && typ == thrift.I32:
			v, err := p.ReadI32()
			m.Type = PageType(v)
			return true, err

		case id == 2 && typ == thrift.I32:
			v, err := p.ReadI32()
			m.UncompressedPageSize = v
			return true, err

		case id == 3 && typ == thrift.I32:
			v, err := p.ReadI32()
			m.CompressedPageSize = v
			return true, err

		case id == 4 && typ == thrift.I32:
			v, err := p.ReadI32()
			m.CRC = &v
			return true, err

		case id == 5 && typ == thrift.STRUCT:
			m.DataPageHeader = &DataPageHeader{}
			return true, m.DataPageHeader.Read(p)

		case id == 7 && typ == thrift.STRUCT:
			m.DictionaryPageHeader = &DictionaryPageHeader{}
			return true, m.DictionaryPageHeader.Read(p)

		case id == 8 && typ == thrift.STRUCT:
			m.DataPageHeaderV2 = &DataPageHeaderV2{}
			return true, m.DataPageHeaderV2.Read(p)

		default:
			return false, nil
		}
	})
}

func (m *PageHeader) Write(p thrift.TProtocol) error {
	if err := p.WriteStructBegin("PageHeader"); err != nil {
		return err
	}

	if err := writeField(p, "type", thrift.I32, 1, func() error { return p.WriteI32(int32(m.Type)) }); err != nil {
		return err
	}

	if err := writeField(p, "uncompressed_page_size", thrift.I32, 2, func() error { return p.WriteI32(m.UncompressedPageSize) }); err != nil {
		return err
	}

	if err := writeField(p, "compressed_page_size", thrift.I32, 3, func() error { return p.WriteI32(m.CompressedPageSize) }); err != nil {
		return err
	}

	if m.CRC != nil {
		if err := writeField(p, "crc", thrift.I32, 4, func() error { return p.WriteI32(*m.CRC) }); err != nil {
			return err
		}
	}

	if m.DataPageHeader != nil {
		if err := writeField(p, "data_page_header", thrift.STRUCT, 5, func() error { return m.DataPageHeader.Write(p) }); err != nil {
			return err
		}
	}

	if m.DictionaryPageHeader != nil {
		if err := writeField(p, "dictionary_page_header", thrift.STRUCT, 7, func() error { return m.DictionaryPageHeader.Write(p) }); err != nil {
			return err
		}
	}

	if m.DataPageHeaderV2 != nil {
		if err := writeField(p, "data_page_header_v2", thrift.STRUCT, 8, func() error { return m.DataPageHeaderV2.Write(p) }); err != nil {
			return err
		}
	}

	if err := p.WriteFieldStop(); err != nil {
		return err
	}

	return p.WriteStructEnd()
}

// DataPageHeader describes a v1 data page. Levels and values share one
// possibly compressed block.
type DataPageHeader struct {
	NumValues               int32
	Encoding                Encoding
	DefinitionLevelEncoding Encoding
	RepetitionLevelEncoding Encoding
}

func (m *DataPageHeader) Read(p thrift.TProtocol) error {
	return readFields(p, func(id int16, typ thrift.TType) (bool, error) {
		switch {
		case id == 1 && typ == thrift.I32:
			v, err := p.ReadI32()
			m.NumValues = v
			return true, err

		case id == 2 && typ == thrift.I32:
			v, err := p.ReadI32()
			m.Encoding = Encoding(v)
			return true, err

		case id == 3 && typ == thrift.I32:
			v, err := p.ReadI32()
			m.DefinitionLevelEncoding = Encoding(v)
			return true, err

		case id == 4 && typ == thrift.I32:
			v, err := p.ReadI32()
			m.RepetitionLevelEncoding = Encoding(v)
			return true, err

		default:
			return false, nil
		}
	})
}

func (m *DataPageHeader) Write(p thrift.TProtocol) error {
	if err := p.WriteStructBegin("DataPageHeader"); err != nil {
		return err
	}

	if err := writeField(p, "num_values", thrift.I32, 1, func() error { return p.WriteI32(m.NumValues) }); err != nil {
		return err
	}

	if err := writeField(p, "encoding", thrift.I32, 2, func() error { return p.WriteI32(int32(m.Encoding)) }); err != nil {
		return err
	}

	if err := writeField(p, "definition_level_encoding", thrift.I32, 3, func() error { return p.WriteI32(int32(m.DefinitionLevelEncoding)) }); err != nil {
		return err
	}

	if err := writeField(p, "repetition_level_encoding", thrift.I32, 4, func() error { return p.WriteI32(int32(m.RepetitionLevelEncoding)) }); err != nil {
		return err
	}

	if err := p.WriteFieldStop(); err != nil {
		return err
	}

	return p.WriteStructEnd()
}

// DictionaryPageHeader describes the single dictionary page of a chunk.
type DictionaryPageHeader struct {
	NumValues int32
	Encoding  Encoding
	IsSorted  *bool
}

func (m *DictionaryPageHeader) Read(p thrift.TProtocol) error {
	return readFields(p, func(id int16, typ thrift.TType) (bool, error) {
		switch {
		case id == 1 && typ == thrift.I32:
			v, err := p.ReadI32()
			m.NumValues = v
			return true, err

		case id == 2 && typ == thrift.I32:
			v, err := p.ReadI32()
			m.Encoding = Encoding(v)
			return true, err

		case id == 3 && typ == thrift.BOOL:
			v, err := p.ReadBool()
			m.IsSorted = &v
			return true, err

		default:
			return false, nil
		}
	})
}

func (m *DictionaryPageHeader) Write(p thrift.TProtocol) error {
	if err := p.WriteStructBegin("DictionaryPageHeader"); err != nil {
		return err
	}

	if err := writeField(p, "num_values", thrift.I32, 1, func() error { return p.WriteI32(m.NumValues) }); err != nil {
		return err
	}

	if err := writeField(p, "encoding", thrift.I32, 2, func() error { return p.WriteI32(int32(m.Encoding)) }); err != nil {
		return err
	}

	if m.IsSorted != nil {
		if err := writeField(p, "is_sorted", thrift.BOOL, 3, func() error { return p.WriteBool(*m.IsSorted) }); err != nil {
			return err
		}
	}

	if err := p.WriteFieldStop(); err != nil {
		return err
	}

	return p.WriteStructEnd()
}

// DataPageHeaderV2 describes a v2 data page: level streams are stored
// uncompressed ahead of the value block.
type DataPageHeaderV2 struct {
	NumValues                  int32
	NumNulls                   int32
	NumRows                    int32
	Encoding                   Encoding
	DefinitionLevelsByteLength int32
	RepetitionLevelsByteLength int32
	IsCompressed               bool
}

func (m *DataPageHeaderV2) Read(p thrift.TProtocol) error {
	m.IsCompressed = true

	return readFields(p, func(id int16, typ thrift.TType) (bool, error) {
		switch {
		case id == 1 && typ == thrift.I32:
			v, err := p.ReadI32()
			m.NumValues = v
			return true, err

		case id == 2 && typ == thrift.I32:
			v, err := p.ReadI32()
			m.NumNulls = v
			return true, err

		case id == 3 && typ == thrift.I32:
			v, err := p.ReadI32()
			m.NumRows = v
			return true, err

		case id == 4 && typ == thrift.I32:
			v, err := p.ReadI32()
			m.Encoding = Encoding(v)
			return true, err

		case id == 5 && typ == thrift.I32:
			v, err := p.ReadI32()
			m.DefinitionLevelsByteLength = v
			return true, err

		case id == 6 && typ == thrift.I32:
			v, err := p.ReadI32()
			m.RepetitionLevelsByteLength = v
			return true, err

		case id == 7 && typ == thrift.BOOL:
			v, err := p.ReadBool()
			m.IsCompressed = v
			return true, err

		default:
			return false, nil
		}
	})
}

func (m *DataPageHeaderV2) Write(p thrift.TProtocol) error {
	if err := p.WriteStructBegin("DataPageHeaderV2"); err != nil {
		return err
	}

	if err := writeField(p, "num_values", thrift.I32, 1, func() error { return p.WriteI32(m.NumValues) }); err != nil {
		return err
	}

	if err := writeField(p, "num_nulls", thrift.I32, 2, func() error { return p.WriteI32(m.NumNulls) }); err != nil {
		return err
	}

	if err := writeField(p, "num_rows", thrift.I32, 3, func() error { return p.WriteI32(m.NumRows) }); err != nil {
		return err
	}

	if err := writeField(p, "encoding", thrift.I32, 4, func() error { return p.WriteI32(int32(m.Encoding)) }); err != nil {
		return err
	}

	if err := writeField(p, "definition_levels_byte_length", thrift.I32, 5, func() error { return p.WriteI32(m.DefinitionLevelsByteLength) }); err != nil {
		return err
	}

	if err := writeField(p, "repetition_levels_byte_length", thrift.I32, 6, func() error { return p.WriteI32(m.RepetitionLevelsByteLength) }); err != nil {
		return err
	}

	if err := writeField(p, "is_compressed", thrift.BOOL, 7, func() error { return p.WriteBool(m.IsCompressed) }); err != nil {
		return err
	}

	if err := p.WriteFieldStop(); err != nil {
		return err
	}

	return p.WriteStructEnd()
}
