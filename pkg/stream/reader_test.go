package stream

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/xhfile/internal/xhtest"
	"github.com/ssargent/xhfile/pkg/codec"
)

func TestNewReader_EmptyInput(t *testing.T) {
	reader, err := NewReader(bytes.NewReader(nil), ReaderConfig{})
	assert.Nil(t, reader)
	require.Error(t, err)
	assert.True(t, errors.Is(err, codec.ErrNotRecognized))
}

func TestNewReader_UnsupportedVersion(t *testing.T) {
	h := xhtest.Header("XX", "STA", 1, 0, 0)
	h.Version = 0.97
	data := xhtest.Record(t, binary.LittleEndian, h, nil)

	reader, err := NewReader(bytes.NewReader(data), ReaderConfig{})
	assert.Nil(t, reader)
	require.Error(t, err)
	assert.True(t, errors.Is(err, codec.ErrUnsupportedVersion))
	assert.Contains(t, err.Error(), "0.97")
}

func TestReader_SingleEmptyRecord(t *testing.T) {
	data := xhtest.Stream(t, binary.BigEndian, 0)

	reader, err := NewReader(bytes.NewReader(data), ReaderConfig{})
	require.NoError(t, err)
	assert.Equal(t, StateScanning, reader.State())
	assert.Equal(t, binary.BigEndian, reader.Info().ByteOrder)
	assert.Equal(t, "0.98", reader.Info().Version)

	rec, err := reader.Next()
	require.NoError(t, err)
	assert.Empty(t, rec.Samples)
	assert.Equal(t, int32(0), rec.Header.NData)
	assert.Equal(t, int64(0), rec.Offset)

	rec, err = reader.Next()
	assert.Nil(t, rec)
	assert.Equal(t, io.EOF, err)
	assert.Equal(t, StateDone, reader.State())

	// Done is terminal.
	_, err = reader.Next()
	assert.Equal(t, io.EOF, err)
}

func TestReader_TrailingPartialHeader(t *testing.T) {
	data := xhtest.Stream(t, binary.LittleEndian, 10)
	recordLen := int64(len(data))
	data = append(data, make([]byte, 500)...)

	reader, err := NewReader(bytes.NewReader(data), ReaderConfig{})
	require.NoError(t, err)

	rec, err := reader.Next()
	require.NoError(t, err)
	assert.Len(t, rec.Samples, 10)

	rec, err = reader.Next()
	assert.Nil(t, rec)
	require.Error(t, err)
	assert.True(t, errors.Is(err, codec.ErrTruncatedRecord))

	var xe *codec.Error
	require.True(t, errors.As(err, &xe))
	assert.Equal(t, recordLen, xe.Offset)
	assert.Equal(t, StateFailed, reader.State())

	// Failed is terminal and sticky.
	_, again := reader.Next()
	assert.Equal(t, err, again)
}

func TestReader_TruncatedPayload(t *testing.T) {
	data := xhtest.Stream(t, binary.LittleEndian, 4, 100)
	data = data[:len(data)-3]

	reader, err := NewReader(bytes.NewReader(data), ReaderConfig{})
	require.NoError(t, err)

	first, err := reader.Next()
	require.NoError(t, err)
	assert.Len(t, first.Samples, 4)

	rec, err := reader.Next()
	assert.Nil(t, rec)
	assert.True(t, errors.Is(err, codec.ErrTruncatedRecord))

	var xe *codec.Error
	require.True(t, errors.As(err, &xe))
	assert.Equal(t, first.Size()+codec.HeaderSize, xe.Offset)
}

func TestReader_MultipleRecords(t *testing.T) {
	for _, order := range []binary.ByteOrder{binary.LittleEndian, binary.BigEndian} {
		t.Run(order.String(), func(t *testing.T) {
			data := xhtest.Stream(t, order, 3, 250)

			reader, err := NewReader(bytes.NewReader(data), ReaderConfig{})
			require.NoError(t, err)

			records, err := reader.ReadAll()
			require.NoError(t, err)
			require.Len(t, records, 2)

			assert.Equal(t, "STA", records[0].Header.Station.Value)
			assert.Equal(t, "STB", records[1].Header.Station.Value)
			assert.Equal(t, xhtest.Samples(3), records[0].Samples)
			assert.Equal(t, xhtest.Samples(250), records[1].Samples)
			assert.Equal(t, int64(0), records[0].Offset)
			assert.Equal(t, records[0].Size(), records[1].Offset)
			assert.Equal(t, int64(len(data)), reader.Offset())
		})
	}
}

func TestReader_EarlyTermination(t *testing.T) {
	data := xhtest.Stream(t, binary.LittleEndian, 5, 5, 5)
	// A corrupt tail is never reached if the caller stops early.
	data = append(data, 1, 2, 3)

	reader, err := NewReader(bytes.NewReader(data), ReaderConfig{})
	require.NoError(t, err)

	rec, err := reader.Next()
	require.NoError(t, err)
	assert.Equal(t, "STA", rec.Header.Station.Value)
	assert.Equal(t, StateScanning, reader.State())
	assert.NoError(t, reader.Close())
}

func TestReader_NegativeSampleCount(t *testing.T) {
	h := xhtest.Header("XX", "NEG", 1, 0, 0)
	h.NData = -1
	data := xhtest.Record(t, binary.LittleEndian, h, nil)

	reader, err := NewReader(bytes.NewReader(data), ReaderConfig{})
	require.NoError(t, err)

	_, err = reader.Next()
	assert.True(t, errors.Is(err, codec.ErrCorruptHeader))
}

func TestReader_MaxSamples(t *testing.T) {
	data := xhtest.Stream(t, binary.LittleEndian, 10)

	reader, err := NewReader(bytes.NewReader(data), ReaderConfig{MaxSamples: 5})
	require.NoError(t, err)

	_, err = reader.Next()
	assert.True(t, errors.Is(err, codec.ErrCorruptHeader))
}

func TestReader_HugeSampleCountOnShortStream(t *testing.T) {
	h := xhtest.Header("XX", "BIG", 1, 0, 0)
	h.NData = 1 << 30
	data := xhtest.Record(t, binary.LittleEndian, h, xhtest.Samples(8))

	reader, err := NewReader(bytes.NewReader(data), ReaderConfig{})
	require.NoError(t, err)

	_, err = reader.Next()
	assert.True(t, errors.Is(err, codec.ErrTruncatedRecord))
}

func TestReader_Strict(t *testing.T) {
	h := xhtest.Header("XX", "BAD", 1, 0, 2)
	h.F12345678 = 1
	data := xhtest.Record(t, binary.LittleEndian, h, xhtest.Samples(2))

	t.Run("lenient by default", func(t *testing.T) {
		reader, err := NewReader(bytes.NewReader(data), ReaderConfig{})
		require.NoError(t, err)
		_, err = reader.Next()
		assert.NoError(t, err)
	})

	t.Run("strict rejects bad marker", func(t *testing.T) {
		reader, err := NewReader(bytes.NewReader(data), ReaderConfig{Strict: true})
		require.NoError(t, err)
		_, err = reader.Next()
		assert.True(t, errors.Is(err, codec.ErrCorruptHeader))
		var xe *codec.Error
		require.True(t, errors.As(err, &xe))
		assert.Equal(t, int64(0), xe.Offset)
	})
}

func TestReader_DecodeErrorOffset(t *testing.T) {
	data := xhtest.Stream(t, binary.LittleEndian, 2, 2)
	second := int64(codec.HeaderSize + 2*codec.SampleSize)
	data[second+894] = 0xff

	reader, err := NewReader(bytes.NewReader(data), ReaderConfig{})
	require.NoError(t, err)

	_, err = reader.Next()
	require.NoError(t, err)

	_, err = reader.Next()
	var xe *codec.Error
	require.True(t, errors.As(err, &xe))
	assert.Equal(t, codec.KindDecodeError, xe.Kind)
	assert.Equal(t, second+894, xe.Offset)
}

func TestReader_Iterator(t *testing.T) {
	data := xhtest.Stream(t, binary.BigEndian, 1, 2, 3)

	reader, err := NewReader(bytes.NewReader(data), ReaderConfig{})
	require.NoError(t, err)

	it := reader.Iterator()
	var counts []int
	for it.Next() {
		counts = append(counts, len(it.Record().Samples))
	}
	assert.NoError(t, it.Err())
	assert.Equal(t, []int{1, 2, 3}, counts)
	assert.NoError(t, it.Close())
}

func TestReader_IteratorError(t *testing.T) {
	data := xhtest.Stream(t, binary.BigEndian, 1)
	data = append(data, 0)

	reader, err := NewReader(bytes.NewReader(data), ReaderConfig{})
	require.NoError(t, err)

	it := reader.Iterator()
	n := 0
	for it.Next() {
		n++
	}
	assert.Equal(t, 1, n)
	assert.True(t, errors.Is(it.Err(), codec.ErrTruncatedRecord))
}

func TestOpen(t *testing.T) {
	data := xhtest.Stream(t, binary.LittleEndian, 7, 0, 9)
	path := xhtest.WriteFile(t, "test.xh", data)

	reader, err := Open(ReaderConfig{FilePath: path})
	require.NoError(t, err)
	defer reader.Close()

	records, err := reader.ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 3)
	assert.NoError(t, reader.Close())
}

func TestOpen_NonExistentFile(t *testing.T) {
	reader, err := Open(ReaderConfig{FilePath: "/non/existent/file.xh"})
	assert.Error(t, err)
	assert.Nil(t, reader)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestOpen_NotXH(t *testing.T) {
	path := xhtest.WriteFile(t, "notes.txt", []byte("this is not an XH file at all"))

	reader, err := Open(ReaderConfig{FilePath: path})
	assert.Nil(t, reader)
	assert.True(t, errors.Is(err, codec.ErrNotRecognized))
}

func TestOpen_Zstd(t *testing.T) {
	data := xhtest.Stream(t, binary.BigEndian, 12, 34)

	var compressed bytes.Buffer
	enc, err := zstd.NewWriter(&compressed)
	require.NoError(t, err)
	_, err = enc.Write(data)
	require.NoError(t, err)
	require.NoError(t, enc.Close())

	path := xhtest.WriteFile(t, "test.xh.zst", compressed.Bytes())

	records, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, xhtest.Samples(34), records[1].Samples)
}

func TestReadFile_Truncated(t *testing.T) {
	data := xhtest.Stream(t, binary.LittleEndian, 3, 3)
	path := xhtest.WriteFile(t, "short.xh", data[:len(data)-1])

	records, err := ReadFile(path)
	assert.True(t, errors.Is(err, codec.ErrTruncatedRecord))
	assert.Len(t, records, 1)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "scanning", StateScanning.String())
	assert.Equal(t, "failed", StateFailed.String())
}
