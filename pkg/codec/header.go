package codec

import (
	"encoding/binary"
	"math"
)

// Layout constants for format version 0.98.
const (
	HeaderSize  = 1024
	NumCalPts   = 30 // poles and zeros
	NumPicks    = 20 // tpcks, flt and intg
	CharSize    = 8
	CommentSize = 72
	CMTSize     = 14
	PadSize     = 34
	SampleSize  = 4

	// FormatVersion is the value stored in the version field.
	FormatVersion float32 = 0.98
)

// Time is the calendar time struct embedded twice in a header.
type Time struct {
	Year   int32
	Month  int32
	Day    int32
	Hour   int32
	Minute int32
	Second float32
}

// Header is one decoded 1024-byte XH header block. Field order matches the
// on-disk order.
type Header struct {
	Version   float32
	NHdr      int32
	I12345678 int32

	ELat float32 // source latitude, degrees
	ELon float32 // source longitude, degrees
	EDep float32 // source depth
	Mb   float32
	Ms   float32
	Mw   float32
	SLat float32 // receiver latitude, degrees
	SLon float32 // receiver longitude, degrees
	Elev float32 // receiver elevation
	Azim float32 // sensor alignment from north
	Incl float32 // sensor inclination from horizontal

	OT     Time // reference/origin time
	TStart Time // first sample time

	NData  int32
	Delta  float32 // samples per second
	TShift float32 // static time shift, seconds
	MaxAmp float32
	Qual   int32
	ChID   int32
	LocC   int32

	Poles [NumCalPts]complex64
	Zeros [NumCalPts]complex64

	DS        float32
	A0        float32
	F12345678 float32

	TPicks [NumPicks]float32
	Floats [NumPicks]float32
	Ints   [NumPicks]int32

	CMTCode      NullString
	EventCode    NullString
	Network      NullString
	Station      NullString
	Channel      NullString
	Comment      NullString
	WaveformType NullString // "raw", "dis", "vel" or "acc"

	Padding [PadSize]byte
}

// NewHeader returns a header with the version, size and byte-order markers set
// and every text field present but empty.
func NewHeader() *Header {
	return &Header{
		Version:      FormatVersion,
		NHdr:         HeaderSize,
		I12345678:    MarkerInt,
		F12345678:    MarkerFloat,
		CMTCode:      Text(""),
		EventCode:    Text(""),
		Network:      Text(""),
		Station:      Text(""),
		Channel:      Text(""),
		Comment:      Text(""),
		WaveformType: Text(""),
	}
}

// Validate checks both byte-order markers.
func (h *Header) Validate() error {
	if h.I12345678 != MarkerInt {
		return NewError(KindCorruptHeader, -1, "integer marker %d != %d", h.I12345678, MarkerInt)
	}
	if h.F12345678 != MarkerFloat {
		return NewError(KindCorruptHeader, -1, "float marker %g != %g", h.F12345678, MarkerFloat)
	}
	return nil
}

// PayloadSize returns the byte length of the sample payload following the
// header. Callers must reject a negative NData first.
func (h *Header) PayloadSize() int64 {
	return int64(h.NData) * SampleSize
}

// HeaderCodec decodes and encodes header blocks in one byte order.
type HeaderCodec struct {
	Order binary.ByteOrder
}

// NewHeaderCodec creates a header codec for the given byte order.
func NewHeaderCodec(order binary.ByteOrder) *HeaderCodec {
	return &HeaderCodec{Order: order}
}

// Decode parses the first HeaderSize bytes of data. The reserved padding is
// copied but never interpreted.
func (c *HeaderCodec) Decode(data []byte) (*Header, error) {
	if len(data) < HeaderSize {
		return nil, NewError(KindTruncatedRecord, -1, "header needs %d bytes, have %d", HeaderSize, len(data))
	}

	r := &fieldReader{buf: data[:HeaderSize], order: c.Order}
	h := &Header{}

	h.Version = r.f32()
	h.NHdr = r.i32()
	h.I12345678 = r.i32()
	for _, f := range []*float32{&h.ELat, &h.ELon, &h.EDep, &h.Mb, &h.Ms, &h.Mw,
		&h.SLat, &h.SLon, &h.Elev, &h.Azim, &h.Incl} {
		*f = r.f32()
	}
	h.OT = r.time()
	h.TStart = r.time()
	h.NData = r.i32()
	h.Delta = r.f32()
	h.TShift = r.f32()
	h.MaxAmp = r.f32()
	h.Qual = r.i32()
	h.ChID = r.i32()
	h.LocC = r.i32()
	copy(h.Poles[:], r.complexes(NumCalPts))
	copy(h.Zeros[:], r.complexes(NumCalPts))
	h.DS = r.f32()
	h.A0 = r.f32()
	h.F12345678 = r.f32()
	for i := range h.TPicks {
		h.TPicks[i] = r.f32()
	}
	for i := range h.Floats {
		h.Floats[i] = r.f32()
	}
	for i := range h.Ints {
		h.Ints[i] = r.i32()
	}

	texts := []struct {
		dst   *NullString
		width int
	}{
		{&h.CMTCode, CMTSize},
		{&h.EventCode, CharSize},
		{&h.Network, CharSize},
		{&h.Station, CharSize},
		{&h.Channel, CharSize},
		{&h.Comment, CommentSize},
		{&h.WaveformType, CharSize},
	}
	for _, t := range texts {
		start := r.off
		s, err := DecodeFixedString(r.bytes(t.width))
		if err != nil {
			return nil, err.(*Error).At(int64(start))
		}
		*t.dst = s
	}
	copy(h.Padding[:], r.bytes(PadSize))

	return h, nil
}

// Encode serializes h into a new HeaderSize-byte block.
func (c *HeaderCodec) Encode(h *Header) ([]byte, error) {
	buf := make([]byte, HeaderSize)
	w := &fieldWriter{buf: buf, order: c.Order}

	w.f32(h.Version)
	w.i32(h.NHdr)
	w.i32(h.I12345678)
	for _, f := range []float32{h.ELat, h.ELon, h.EDep, h.Mb, h.Ms, h.Mw,
		h.SLat, h.SLon, h.Elev, h.Azim, h.Incl} {
		w.f32(f)
	}
	w.time(h.OT)
	w.time(h.TStart)
	w.i32(h.NData)
	w.f32(h.Delta)
	w.f32(h.TShift)
	w.f32(h.MaxAmp)
	w.i32(h.Qual)
	w.i32(h.ChID)
	w.i32(h.LocC)
	w.complexes(h.Poles[:])
	w.complexes(h.Zeros[:])
	w.f32(h.DS)
	w.f32(h.A0)
	w.f32(h.F12345678)
	for _, v := range h.TPicks {
		w.f32(v)
	}
	for _, v := range h.Floats {
		w.f32(v)
	}
	for _, v := range h.Ints {
		w.i32(v)
	}

	texts := []struct {
		src   NullString
		width int
	}{
		{h.CMTCode, CMTSize},
		{h.EventCode, CharSize},
		{h.Network, CharSize},
		{h.Station, CharSize},
		{h.Channel, CharSize},
		{h.Comment, CommentSize},
		{h.WaveformType, CharSize},
	}
	for _, t := range texts {
		start := w.off
		if err := EncodeFixedString(w.bytes(t.width), t.src); err != nil {
			return nil, err.(*Error).At(int64(start))
		}
	}
	copy(w.bytes(PadSize), h.Padding[:])

	return buf, nil
}

// DecodeSamples converts a raw payload into float32 samples.
func DecodeSamples(data []byte, order binary.ByteOrder) []float32 {
	out := make([]float32, len(data)/SampleSize)
	for i := range out {
		out[i] = math.Float32frombits(order.Uint32(data[i*SampleSize:]))
	}
	return out
}

// EncodeSamples is the inverse of DecodeSamples.
func EncodeSamples(samples []float32, order binary.ByteOrder) []byte {
	buf := make([]byte, len(samples)*SampleSize)
	for i, v := range samples {
		order.PutUint32(buf[i*SampleSize:], math.Float32bits(v))
	}
	return buf
}

// fieldReader walks a header block in declaration order.
type fieldReader struct {
	buf   []byte
	off   int
	order binary.ByteOrder
}

func (r *fieldReader) bytes(n int) []byte {
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b
}

func (r *fieldReader) u32() uint32 {
	return r.order.Uint32(r.bytes(4))
}

func (r *fieldReader) i32() int32 {
	return int32(r.u32())
}

func (r *fieldReader) f32() float32 {
	return math.Float32frombits(r.u32())
}

func (r *fieldReader) time() Time {
	return Time{
		Year:   r.i32(),
		Month:  r.i32(),
		Day:    r.i32(),
		Hour:   r.i32(),
		Minute: r.i32(),
		Second: r.f32(),
	}
}

func (r *fieldReader) complexes(n int) []complex64 {
	return DecodeComplexArray(r.bytes(n*complexSize), r.order, n)
}

type fieldWriter struct {
	buf   []byte
	off   int
	order binary.ByteOrder
}

func (w *fieldWriter) bytes(n int) []byte {
	b := w.buf[w.off : w.off+n]
	w.off += n
	return b
}

func (w *fieldWriter) i32(v int32) {
	w.order.PutUint32(w.bytes(4), uint32(v))
}

func (w *fieldWriter) f32(v float32) {
	w.order.PutUint32(w.bytes(4), math.Float32bits(v))
}

func (w *fieldWriter) time(t Time) {
	w.i32(t.Year)
	w.i32(t.Month)
	w.i32(t.Day)
	w.i32(t.Hour)
	w.i32(t.Minute)
	w.f32(t.Second)
}

func (w *fieldWriter) complexes(values []complex64) {
	EncodeComplexArray(w.bytes(len(values)*complexSize), w.order, values)
}
