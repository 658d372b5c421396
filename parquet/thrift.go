package parquet

import (
	"io"

	"github.com/apache/thrift/lib/go/thrift"
	"github.com/hexbee-net/errors"
)

// ReadFrom deserializes a thrift structure from a raw byte stream using the
// compact protocol.
// Make sure the reader is not buffered: reading ahead of the structure end
// would lose the position of the data that follows it.
func ReadFrom(tr thrift.TStruct, r io.Reader) error {
	transport := &thrift.StreamTransport{Reader: r}
	proto := thrift.NewTCompactProtocol(transport)

	return tr.Read(proto)
}

// WriteTo serializes a thrift structure to a raw byte stream using the
// compact protocol. The transport writes through unbuffered, so no flush is
// needed.
func WriteTo(tr thrift.TStruct, w io.Writer) error {
	transport := &thrift.StreamTransport{Writer: w}
	proto := thrift.NewTCompactProtocol(transport)

	return tr.Write(proto)
}

// readFields drives the field loop shared by every structure in this
// package. The callback returns false when it did not consume the field, in
// which case the field is skipped.
func readFields(p thrift.TProtocol, field func(id int16, typ thrift.TType) (bool, error)) error {
	if _, err := p.ReadStructBegin(); err != nil {
		return errors.Wrap(err, "failed to read struct begin")
	}

	for {
		_, typ, id, err := p.ReadFieldBegin()
		if err != nil {
			return errors.Wrap(err, "failed to read field begin")
		}

		if typ == thrift.STOP {
			break
		}

		consumed, err := field(id, typ)
		if err != nil {
			return errors.WithFields(
				errors.Wrap(err, "failed to read field"),
				errors.Fields{
					"field-id": id,
				})
		}

		if !consumed {
			if err := p.Skip(typ); err != nil {
				return errors.Wrap(err, "failed to skip field")
			}
		}

		if err := p.ReadFieldEnd(); err != nil {
			return errors.Wrap(err, "failed to read field end")
		}
	}

	return p.ReadStructEnd()
}

func writeField(p thrift.TProtocol, name string, typ thrift.TType, id int16, value func() error) error {
	if err := p.WriteFieldBegin(name, typ, id); err != nil {
		return err
	}

	if err := value(); err != nil {
		return err
	}

	return p.WriteFieldEnd()
}
