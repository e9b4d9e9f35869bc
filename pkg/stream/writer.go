package stream

import (
	"github.com/ssargent/xhfile/pkg/codec"
)

// Writer is the write side of the XH format. Serialization is not supported;
// every call fails with a NotImplemented error and no file is touched.
type Writer struct {
	config WriterConfig
}

// NewWriter creates a writer for the given configuration
func NewWriter(config WriterConfig) *Writer {
	return &Writer{config: config}
}

// Write always fails with codec.ErrNotImplemented.
func (w *Writer) Write(*TraceRecord) error {
	return codec.NewError(codec.KindNotImplemented, -1, "writing XH file %q is not supported", w.config.FilePath)
}

// Close is a no-op.
func (w *Writer) Close() error {
	return nil
}

// WriteFile always fails with codec.ErrNotImplemented.
func WriteFile(path string, records []*TraceRecord) error {
	w := NewWriter(WriterConfig{FilePath: path})
	defer w.Close()
	if len(records) == 0 {
		return w.Write(nil)
	}
	return w.Write(records[0])
}
