package hdfs

import (
	"github.com/colinmarc/hdfs/v2"
	"github.com/hexbee-net/errors"
)

type Reader struct {
	file

	reader *hdfs.FileReader
}

func NewReader(hosts []string, user, name string) (*Reader, error) {
	reader := &Reader{
		file: file{
			Hosts:          hosts,
			User:           user,
			FilePath:       name,
			externalClient: false,
		},
	}

	client, err := hdfs.NewClient(hdfs.ClientOptions{
		Addresses: hosts,
		User:      user,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create HDFS client")
	}

	reader.client = client

	if reader.reader, err = client.Open(name); err != nil {
		return nil, errors.Wrap(err, "failed to create HDFS reader")
	}

	return reader, nil
}

func NewReaderWithClient(client *hdfs.Client, name string) (reader *Reader, err error) {
	reader = &Reader{
		file: file{
			FilePath:       name,
			client:         client,
			externalClient: true,
		},
	}

	if reader.reader, err = client.Open(name); err != nil {
		return nil, errors.Wrap(err, "failed to create HDFS reader")
	}

	return reader, nil
}

func (r *Reader) ReadAt(p []byte, off int64) (int, error) {
	return r.reader.ReadAt(p, off)
}

func (r *Reader) Size() int64 {
	return r.reader.Stat().Size()
}

func (r *Reader) Name() string {
	return r.FilePath
}

func (r *Reader) Close() (err error) {
	if r.reader != nil {
		err = r.reader.Close()
		r.reader = nil

		if err != nil {
			return errors.Wrap(err, "failed to close HDFS reader")
		}
	}

	return r.file.Close()
}
