package codec

import (
	"encoding/binary"
	"math"
)

// complexSize is the encoded width of one complex64: real then imaginary f32.
const complexSize = 8

// DecodeComplexArray reads n complex values from b in the given byte order.
// b must hold at least n*8 bytes.
func DecodeComplexArray(b []byte, order binary.ByteOrder, n int) []complex64 {
	out := make([]complex64, n)
	for i := range out {
		re := math.Float32frombits(order.Uint32(b[i*complexSize:]))
		im := math.Float32frombits(order.Uint32(b[i*complexSize+4:]))
		out[i] = complex(re, im)
	}
	return out
}

// EncodeComplexArray writes values into dst in the given byte order. dst must
// hold at least len(values)*8 bytes.
func EncodeComplexArray(dst []byte, order binary.ByteOrder, values []complex64) {
	for i, v := range values {
		order.PutUint32(dst[i*complexSize:], math.Float32bits(real(v)))
		order.PutUint32(dst[i*complexSize+4:], math.Float32bits(imag(v)))
	}
}
