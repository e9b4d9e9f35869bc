//go:build bench
// +build bench

package codec

import (
	"encoding/binary"
	"strconv"
	"testing"
)

func BenchmarkHeaderCodec_Encode(b *testing.B) {
	for _, order := range []binary.ByteOrder{binary.LittleEndian, binary.BigEndian} {
		codec := NewHeaderCodec(order)
		h := sampleHeader()
		b.Run(order.String(), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := codec.Encode(h); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkHeaderCodec_Decode(b *testing.B) {
	for _, order := range []binary.ByteOrder{binary.LittleEndian, binary.BigEndian} {
		codec := NewHeaderCodec(order)
		block, err := codec.Encode(sampleHeader())
		if err != nil {
			b.Fatal(err)
		}
		b.Run(order.String(), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(HeaderSize)
			for i := 0; i < b.N; i++ {
				if _, err := codec.Decode(block); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkDecodeSamples(b *testing.B) {
	for _, n := range []int{100, 10_000, 1_000_000} {
		samples := make([]float32, n)
		for i := range samples {
			samples[i] = float32(i)
		}
		data := EncodeSamples(samples, binary.BigEndian)
		b.Run(strconv.Itoa(n), func(b *testing.B) {
			b.SetBytes(int64(len(data)))
			for i := 0; i < b.N; i++ {
				_ = DecodeSamples(data, binary.BigEndian)
			}
		})
	}
}

func BenchmarkSniff(b *testing.B) {
	block, err := NewHeaderCodec(binary.LittleEndian).Encode(sampleHeader())
	if err != nil {
		b.Fatal(err)
	}
	prefix := block[:SniffSize]
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, status := Sniff(prefix); status != Recognized {
			b.Fatal(status)
		}
	}
}
