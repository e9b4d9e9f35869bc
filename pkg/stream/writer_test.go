package stream

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ssargent/xhfile/pkg/codec"
)

func TestWriter_NotImplemented(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xh")

	w := NewWriter(WriterConfig{FilePath: path})
	err := w.Write(&TraceRecord{Header: codec.NewHeader()})
	assert.True(t, errors.Is(err, codec.ErrNotImplemented))
	assert.Contains(t, err.Error(), "not implemented")
	assert.NoError(t, w.Close())

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestWriteFile_NotImplemented(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xh")

	assert.True(t, errors.Is(WriteFile(path, nil), codec.ErrNotImplemented))
	assert.True(t, errors.Is(WriteFile(path, []*TraceRecord{{}}), codec.ErrNotImplemented))

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}
