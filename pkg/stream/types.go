package stream

import (
	"github.com/ssargent/xhfile/pkg/codec"
)

// ReaderConfig holds configuration for the record reader
type ReaderConfig struct {
	FilePath   string // Path to the XH file (Open only)
	Strict     bool   // Validate both byte-order markers of every header
	MaxSamples int64  // Reject headers declaring more samples (0 = unbounded)
}

// WriterConfig holds configuration for the record writer
type WriterConfig struct {
	FilePath string
}

// TraceRecord is one decoded record: a header and its samples. Offset is the
// byte offset of the header within the stream.
type TraceRecord struct {
	Header  *codec.Header
	Samples []float32
	Offset  int64
}

// Size returns the encoded size of the record in bytes.
func (t *TraceRecord) Size() int64 {
	return codec.HeaderSize + int64(len(t.Samples))*codec.SampleSize
}

// RecordIterator provides streaming access to records
type RecordIterator interface {
	Next() bool
	Record() *TraceRecord
	Err() error
	Close() error
}

// State is the position of a Reader in its scan.
type State int

const (
	StateStart State = iota
	StateSniffing
	StateScanning
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateSniffing:
		return "sniffing"
	case StateScanning:
		return "scanning"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
