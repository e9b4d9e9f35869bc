// Package assemble turns decoded XH records into Trace values: labelled
// channel and location codes, absolute timestamps, an attribute bag for the
// XH-only fields and a best-effort single-stage instrument response.
package assemble

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/ssargent/xhfile/pkg/codec"
	"github.com/ssargent/xhfile/pkg/stream"
)

// ErrInvalidTime is returned for a header time that is not a calendar time.
var ErrInvalidTime = errors.New("invalid calendar time")

// The response model carries no frequency information, so both the
// sensitivity and the pole-zero stage are referenced to 1 Hz.
const referenceFrequency = 1.0

const (
	unitsVelocity  = "M/S"
	unitsVolts     = "V"
	unitsCounts    = "COUNTS"
	laplaceRadians = "LAPLACE (RADIANS/SECOND)"
)

// Assemble builds a Trace from one record. The samples slice is shared with
// rec, not copied.
func Assemble(rec *stream.TraceRecord) (*Trace, error) {
	h := rec.Header

	channel, err := ChannelLabel(h.ChID)
	if err != nil {
		return nil, err
	}
	location, err := LocationLabel(h.LocC)
	if err != nil {
		return nil, err
	}
	start, err := ToTime(h.TStart)
	if err != nil {
		return nil, fmt.Errorf("start time: %w", err)
	}
	reference, err := ToTime(h.OT)
	if err != nil {
		return nil, fmt.Errorf("reference time: %w", err)
	}

	// delta holds samples per second despite its name.
	return &Trace{
		Stats: Stats{
			Network:      h.Network.String(),
			Station:      h.Station.String(),
			Location:     location,
			Channel:      channel,
			SamplingRate: float64(h.Delta),
			StartTime:    start,
			NPTS:         len(rec.Samples),
			Response:     BuildResponse(h),
			XH:           attributes(h, reference),
		},
		Samples: rec.Samples,
	}, nil
}

// ToTime converts a header time to UTC with microsecond precision.
func ToTime(t codec.Time) (time.Time, error) {
	sec := float64(t.Second)
	if t.Month < 1 || t.Month > 12 || t.Day < 1 || t.Day > 31 ||
		t.Hour < 0 || t.Hour > 23 || t.Minute < 0 || t.Minute > 59 ||
		math.IsNaN(sec) || sec < 0 || sec >= 61 {
		return time.Time{}, fmt.Errorf("%w: %04d-%02d-%02d %02d:%02d:%g",
			ErrInvalidTime, t.Year, t.Month, t.Day, t.Hour, t.Minute, sec)
	}

	base := time.Date(int(t.Year), time.Month(t.Month), int(t.Day), int(t.Hour), int(t.Minute), 0, 0, time.UTC)
	if base.Day() != int(t.Day) {
		return time.Time{}, fmt.Errorf("%w: day %d of %04d-%02d", ErrInvalidTime, t.Day, t.Year, t.Month)
	}
	micros := math.Round(sec * 1e6)
	return base.Add(time.Duration(micros) * time.Microsecond), nil
}

// BuildResponse derives a single-stage response from DS, A0 and the
// poles and zeros. DS is taken as both the total sensitivity and the stage
// gain, and A0 as the normalization factor.
func BuildResponse(h *codec.Header) *Response {
	stage := PolesZerosStage{
		SequenceNumber:         1,
		Gain:                   float64(h.DS),
		GainFrequency:          referenceFrequency,
		InputUnits:             unitsVelocity,
		OutputUnits:            unitsVolts,
		TransferFunctionType:   laplaceRadians,
		NormalizationFrequency: referenceFrequency,
		NormalizationFactor:    float64(h.A0),
		Zeros:                  widen(h.Zeros[:]),
		Poles:                  widen(h.Poles[:]),
	}
	return &Response{
		InstrumentSensitivity: InstrumentSensitivity{
			Value:       float64(h.DS),
			Frequency:   referenceFrequency,
			InputUnits:  unitsVelocity,
			OutputUnits: unitsCounts,
		},
		Stages: []PolesZerosStage{stage},
	}
}

func widen(values []complex64) []complex128 {
	out := make([]complex128, len(values))
	for i, v := range values {
		out[i] = complex128(v)
	}
	return out
}

func attributes(h *codec.Header, reference time.Time) Attributes {
	return Attributes{
		ReferenceTime:              reference,
		SourceLatitude:             h.ELat,
		SourceLongitude:            h.ELon,
		SourceDepthInKm:            h.EDep,
		SourceBodyWaveMagnitude:    h.Mb,
		SourceSurfaceWaveMagnitude: h.Ms,
		SourceMomentMagnitude:      h.Mw,
		ReceiverLatitude:           h.SLat,
		ReceiverLongitude:          h.SLon,
		ReceiverElevationInM:       h.Elev,
		SensorAzimuth:              h.Azim,
		SensorInclination:          h.Incl,
		MaximumAmplitude:           h.MaxAmp,
		WaveformQuality:            h.Qual,
		StaticTimeShiftInSec:       h.TShift,
		Comment:                    h.Comment,
		EventCode:                  h.EventCode,
		CMTCode:                    h.CMTCode,
		ChannelName:                h.Channel,
		PhasePicks:                 append([]float32(nil), h.TPicks[:]...),
		Floats:                     append([]float32(nil), h.Floats[:]...),
		Integers:                   append([]int32(nil), h.Ints[:]...),
		WaveformType:               h.WaveformType,
	}
}
