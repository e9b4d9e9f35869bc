package stream

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/ssargent/xhfile/pkg/codec"
)

// zstdMagic is the frame magic of a zstd stream.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Reader provides sequential access to the records of an XH stream
type Reader struct {
	reader *bufio.Reader
	closer io.Closer
	info   codec.FormatInfo
	codec  *codec.HeaderCodec
	header []byte
	offset int64
	config ReaderConfig
	state  State
	err    error
}

// NewReader sniffs r and prepares it for scanning. The sniff only peeks, so
// the first record is decoded from the start of r. The caller keeps
// ownership of r; Close does not close it.
func NewReader(r io.Reader, config ReaderConfig) (*Reader, error) {
	rd := &Reader{
		reader: bufio.NewReaderSize(r, codec.HeaderSize*4),
		header: make([]byte, codec.HeaderSize),
		config: config,
		state:  StateStart,
	}
	if err := rd.sniff(); err != nil {
		return nil, err
	}
	return rd, nil
}

// Open opens the file named by config.FilePath and prepares it for scanning.
// zstd-compressed files are decompressed transparently.
func Open(config ReaderConfig) (*Reader, error) {
	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, err
	}

	src := bufio.NewReader(file)
	magic, _ := src.Peek(len(zstdMagic))

	var (
		r      io.Reader = src
		closer io.Closer = file
	)
	if bytes.Equal(magic, zstdMagic) {
		dec, err := zstd.NewReader(src)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("open zstd stream: %w", err)
		}
		r = dec
		closer = closerFunc(func() error {
			dec.Close()
			return file.Close()
		})
	}

	rd, err := NewReader(r, config)
	if err != nil {
		closer.Close()
		return nil, err
	}
	rd.closer = closer
	return rd, nil
}

func (r *Reader) sniff() error {
	r.state = StateSniffing
	info, status := codec.SniffReader(r.reader)
	switch status {
	case codec.Recognized:
	case codec.UnsupportedVersion:
		return r.fail(codec.NewError(codec.KindUnsupportedVersion, 0,
			"version %q, want %q", info.Version, codec.SupportedVersion))
	default:
		return r.fail(codec.ErrNotRecognized.At(0))
	}
	r.info = info
	r.codec = codec.NewHeaderCodec(info.ByteOrder)
	r.state = StateScanning
	return nil
}

// Next reads the next record. It returns io.EOF once the stream ends exactly
// on a record boundary. Any other error is terminal and is returned again by
// every later call.
func (r *Reader) Next() (*TraceRecord, error) {
	switch r.state {
	case StateDone:
		return nil, io.EOF
	case StateFailed:
		return nil, r.err
	}

	start := r.offset
	n, err := io.ReadFull(r.reader, r.header)
	r.offset += int64(n)
	if err != nil {
		if err == io.EOF {
			r.state = StateDone
			return nil, io.EOF
		}
		if err == io.ErrUnexpectedEOF {
			return nil, r.fail(codec.NewError(codec.KindTruncatedRecord, start,
				"header has %d of %d bytes", n, codec.HeaderSize))
		}
		return nil, r.fail(fmt.Errorf("read header at offset %d: %w", start, err))
	}

	header, err := r.codec.Decode(r.header)
	if err != nil {
		return nil, r.fail(positioned(err, start))
	}
	if err := r.checkHeader(header); err != nil {
		return nil, r.fail(positioned(err, start))
	}

	// Copy through a growing buffer so a corrupt NData cannot force a huge
	// allocation before the short read is detected.
	size := header.PayloadSize()
	var payload bytes.Buffer
	m, err := io.CopyN(&payload, r.reader, size)
	r.offset += m
	if err != nil {
		if err == io.EOF {
			return nil, r.fail(codec.NewError(codec.KindTruncatedRecord, start+codec.HeaderSize,
				"payload has %d of %d bytes", m, size))
		}
		return nil, r.fail(fmt.Errorf("read payload at offset %d: %w", start+codec.HeaderSize, err))
	}

	return &TraceRecord{
		Header:  header,
		Samples: codec.DecodeSamples(payload.Bytes(), r.info.ByteOrder),
		Offset:  start,
	}, nil
}

func (r *Reader) checkHeader(h *codec.Header) error {
	if h.NData < 0 {
		return codec.NewError(codec.KindCorruptHeader, -1, "negative sample count %d", h.NData)
	}
	if r.config.MaxSamples > 0 && int64(h.NData) > r.config.MaxSamples {
		return codec.NewError(codec.KindCorruptHeader, -1, "sample count %d exceeds limit %d", h.NData, r.config.MaxSamples)
	}
	if r.config.Strict {
		return h.Validate()
	}
	return nil
}

func (r *Reader) fail(err error) error {
	r.state = StateFailed
	r.err = err
	return err
}

// positioned rebases a codec error offset, which is relative to the header
// block, onto the stream.
func positioned(err error, base int64) error {
	var xe *codec.Error
	if !errors.As(err, &xe) {
		return err
	}
	if xe.Offset < 0 {
		return xe.At(base)
	}
	return xe.At(base + xe.Offset)
}

// Info returns the format established by the sniff.
func (r *Reader) Info() codec.FormatInfo {
	return r.info
}

// State returns the current scan state.
func (r *Reader) State() State {
	return r.state
}

// Offset returns the current read offset
func (r *Reader) Offset() int64 {
	return r.offset
}

// Iterator returns a streaming iterator for records
func (r *Reader) Iterator() RecordIterator {
	return &recordIterator{reader: r}
}

// Close releases the underlying file, if the Reader opened one.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	err := r.closer.Close()
	r.closer = nil
	return err
}

// ReadAll decodes every remaining record.
func (r *Reader) ReadAll() ([]*TraceRecord, error) {
	var records []*TraceRecord
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return records, err
		}
		records = append(records, rec)
	}
}

// ReadFile opens path and decodes every record in it.
func ReadFile(path string) ([]*TraceRecord, error) {
	r, err := Open(ReaderConfig{FilePath: path})
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return r.ReadAll()
}

// recordIterator implements RecordIterator for streaming access
type recordIterator struct {
	reader *Reader
	record *TraceRecord
	err    error
}

func (it *recordIterator) Next() bool {
	it.record, it.err = it.reader.Next()
	return it.err == nil
}

func (it *recordIterator) Record() *TraceRecord {
	return it.record
}

// Err returns the error that stopped iteration, or nil at a clean end.
func (it *recordIterator) Err() error {
	if it.err == io.EOF {
		return nil
	}
	return it.err
}

func (it *recordIterator) Close() error {
	return it.reader.Close()
}

type closerFunc func() error

func (f closerFunc) Close() error {
	return f()
}
