package codec

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"strconv"
)

const (
	// SupportedVersion is the only format version this package reads.
	SupportedVersion = "0.98"

	// MarkerInt and MarkerFloat are the byte-order self-check values stored in
	// every header.
	MarkerInt   int32   = 12345678
	MarkerFloat float32 = 12345678.0

	// SniffSize is the number of leading bytes Sniff inspects.
	SniffSize = 12
)

// SniffStatus is the classification produced by Sniff.
type SniffStatus int

const (
	NotRecognized SniffStatus = iota
	Recognized
	UnsupportedVersion
)

func (s SniffStatus) String() string {
	switch s {
	case Recognized:
		return "recognized"
	case UnsupportedVersion:
		return "unsupported version"
	default:
		return "not recognized"
	}
}

// Err converts a non-Recognized status into the matching sentinel error.
func (s SniffStatus) Err() error {
	switch s {
	case Recognized:
		return nil
	case UnsupportedVersion:
		return ErrUnsupportedVersion
	default:
		return ErrNotRecognized
	}
}

// FormatInfo describes a stream established by Sniff. It holds for the whole
// stream.
type FormatInfo struct {
	ByteOrder binary.ByteOrder
	Version   string
}

// Sniff inspects the first SniffSize bytes of a stream. The i12345678 field at
// bytes[8:12] must decode to MarkerInt in exactly one byte order; bytes[0:4]
// then give the version. bytes[4:8] (nhdr) are skipped. Version is filled in
// for UnsupportedVersion so callers can report it.
func Sniff(prefix []byte) (FormatInfo, SniffStatus) {
	if len(prefix) < SniffSize {
		return FormatInfo{}, NotRecognized
	}

	marker := prefix[8:12]
	le := int32(binary.LittleEndian.Uint32(marker)) == MarkerInt
	be := int32(binary.BigEndian.Uint32(marker)) == MarkerInt

	var order binary.ByteOrder
	switch {
	case le && !be:
		order = binary.LittleEndian
	case be && !le:
		order = binary.BigEndian
	default:
		return FormatInfo{}, NotRecognized
	}

	info := FormatInfo{
		ByteOrder: order,
		Version:   versionText(math.Float32frombits(order.Uint32(prefix[0:4]))),
	}
	if info.Version != SupportedVersion {
		return info, UnsupportedVersion
	}
	return info, Recognized
}

// versionText renders the version float the way the format's reference
// tooling does: shortest decimal form of the widened value, cut to four
// characters. 0.98f widens to 0.9800000190734863 and renders "0.98".
func versionText(v float32) string {
	s := strconv.FormatFloat(float64(v), 'g', -1, 64)
	if len(s) > 4 {
		s = s[:4]
	}
	return s
}

// SniffReader peeks at br without consuming any bytes.
func SniffReader(br *bufio.Reader) (FormatInfo, SniffStatus) {
	prefix, _ := br.Peek(SniffSize)
	return Sniff(prefix)
}

// IsXH reports whether r starts with a supported XH header. It consumes up to
// SniffSize bytes of r.
func IsXH(r io.Reader) bool {
	prefix := make([]byte, SniffSize)
	if _, err := io.ReadFull(r, prefix); err != nil {
		return false
	}
	_, status := Sniff(prefix)
	return status == Recognized
}
