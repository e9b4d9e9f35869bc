package assemble

import (
	"time"

	"github.com/ssargent/xhfile/pkg/codec"
)

// Trace is a decoded record in a toolkit-neutral shape.
type Trace struct {
	Stats   Stats     `json:"stats"`
	Samples []float32 `json:"-"`
}

// Stats is the standard per-trace metadata.
type Stats struct {
	Network      string     `json:"network"`
	Station      string     `json:"station"`
	Location     string     `json:"location"`
	Channel      string     `json:"channel"`
	SamplingRate float64    `json:"sampling_rate"`
	StartTime    time.Time  `json:"starttime"`
	NPTS         int        `json:"npts"`
	Response     *Response  `json:"response"`
	XH           Attributes `json:"xh"`
}

// ID returns the NET.STA.LOC.CHA identifier.
func (s Stats) ID() string {
	return s.Network + "." + s.Station + "." + s.Location + "." + s.Channel
}

// EndTime returns the time of the last sample.
func (s Stats) EndTime() time.Time {
	if s.NPTS == 0 || s.SamplingRate <= 0 {
		return s.StartTime
	}
	span := float64(s.NPTS-1) / s.SamplingRate
	return s.StartTime.Add(time.Duration(span * float64(time.Second)))
}

// Attributes holds the XH fields that have no place in Stats.
type Attributes struct {
	ReferenceTime              time.Time        `json:"reference_time"`
	SourceLatitude             float32          `json:"source_latitude"`
	SourceLongitude            float32          `json:"source_longitude"`
	SourceDepthInKm            float32          `json:"source_depth_in_km"`
	SourceBodyWaveMagnitude    float32          `json:"source_body_wave_magnitude"`
	SourceSurfaceWaveMagnitude float32          `json:"source_surface_wave_magnitude"`
	SourceMomentMagnitude      float32          `json:"source_moment_magnitude"`
	ReceiverLatitude           float32          `json:"receiver_latitude"`
	ReceiverLongitude          float32          `json:"receiver_longitude"`
	ReceiverElevationInM       float32          `json:"receiver_elevation_in_m"`
	SensorAzimuth              float32          `json:"sensor_azimuth"`
	SensorInclination          float32          `json:"sensor_inclination"`
	MaximumAmplitude           float32          `json:"maximum_amplitude"`
	WaveformQuality            int32            `json:"waveform_quality"`
	StaticTimeShiftInSec       float32          `json:"static_time_shift_in_sec"`
	Comment                    codec.NullString `json:"comment"`
	EventCode                  codec.NullString `json:"event_code"`
	CMTCode                    codec.NullString `json:"cmt_code"`
	ChannelName                codec.NullString `json:"channel_name"`
	PhasePicks                 []float32        `json:"phase_picks"`
	Floats                     []float32        `json:"floats"`
	Integers                   []int32          `json:"integers"`
	WaveformType               codec.NullString `json:"waveform_type"`
}

// Response is a single-stage instrument response.
type Response struct {
	InstrumentSensitivity InstrumentSensitivity `json:"instrument_sensitivity"`
	Stages                []PolesZerosStage     `json:"stages"`
}

// InstrumentSensitivity is the overall gain of the recording chain.
type InstrumentSensitivity struct {
	Value       float64 `json:"value"`
	Frequency   float64 `json:"frequency"`
	InputUnits  string  `json:"input_units"`
	OutputUnits string  `json:"output_units"`
}

// PolesZerosStage is one Laplace pole-zero response stage.
type PolesZerosStage struct {
	SequenceNumber         int          `json:"stage_sequence_number"`
	Gain                   float64      `json:"stage_gain"`
	GainFrequency          float64      `json:"stage_gain_frequency"`
	InputUnits             string       `json:"input_units"`
	OutputUnits            string       `json:"output_units"`
	TransferFunctionType   string       `json:"pz_transfer_function_type"`
	NormalizationFrequency float64      `json:"normalization_frequency"`
	NormalizationFactor    float64      `json:"normalization_factor"`
	Zeros                  []complex128 `json:"-"`
	Poles                  []complex128 `json:"-"`
}
