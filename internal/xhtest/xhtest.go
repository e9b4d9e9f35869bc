// Package xhtest builds XH byte streams for tests.
package xhtest

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/ssargent/xhfile/pkg/codec"
)

// Header returns a valid header for a station with n samples at 20 Hz,
// starting 2015-03-04T05:06:07.5Z.
func Header(network, station string, chid, locc int32, n int) *codec.Header {
	h := codec.NewHeader()
	h.Network = codec.Text(network)
	h.Station = codec.Text(station)
	h.Channel = codec.Text("BHZ")
	h.WaveformType = codec.Text("vel")
	h.ChID = chid
	h.LocC = locc
	h.NData = int32(n)
	h.Delta = 20
	h.OT = codec.Time{Year: 2015, Month: 3, Day: 4, Hour: 5, Minute: 0, Second: 0}
	h.TStart = codec.Time{Year: 2015, Month: 3, Day: 4, Hour: 5, Minute: 6, Second: 7.5}
	h.DS = 1500
	h.A0 = 2.5
	h.Poles[0] = complex(-0.037, 0.037)
	h.Poles[1] = complex(-0.037, -0.037)
	h.Zeros[0] = 0
	return h
}

// Samples returns n deterministic sample values.
func Samples(n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(i%7) - 3
	}
	return out
}

// Record encodes one header and its samples. h.NData is not adjusted, so
// callers can build inconsistent records on purpose.
func Record(tb testing.TB, order binary.ByteOrder, h *codec.Header, samples []float32) []byte {
	tb.Helper()
	block, err := codec.NewHeaderCodec(order).Encode(h)
	if err != nil {
		tb.Fatalf("encode header: %v", err)
	}
	return append(block, codec.EncodeSamples(samples, order)...)
}

// Stream concatenates records with n samples each, one per entry of sizes.
func Stream(tb testing.TB, order binary.ByteOrder, sizes ...int) []byte {
	tb.Helper()
	var buf bytes.Buffer
	for i, n := range sizes {
		h := Header("XX", "ST"+string(rune('A'+i)), 1, 0, n)
		buf.Write(Record(tb, order, h, Samples(n)))
	}
	return buf.Bytes()
}

// WriteFile writes data to name inside a fresh temporary directory and
// returns the path.
func WriteFile(tb testing.TB, name string, data []byte) string {
	tb.Helper()
	path := filepath.Join(tb.TempDir(), name)
	if err := os.WriteFile(path, data, 0600); err != nil {
		tb.Fatalf("write %s: %v", path, err)
	}
	return path
}
