package catalog

import (
	"errors"
	"time"

	"github.com/segmentio/ksuid"

	"github.com/ssargent/xhfile/pkg/assemble"
)

// ErrNotFound is returned by Get for an unknown id.
var ErrNotFound = errors.New("trace not found")

// Entry describes one trace found in an XH file.
type Entry struct {
	ID           ksuid.KSUID          `json:"id" msgpack:"-"`
	Path         string               `json:"path" msgpack:"path"`
	Index        int                  `json:"index" msgpack:"index"`
	Offset       int64                `json:"offset" msgpack:"offset"`
	Network      string               `json:"network" msgpack:"network"`
	Station      string               `json:"station" msgpack:"station"`
	Location     string               `json:"location" msgpack:"location"`
	Channel      string               `json:"channel" msgpack:"channel"`
	StartTime    time.Time            `json:"starttime" msgpack:"starttime"`
	EndTime      time.Time            `json:"endtime" msgpack:"endtime"`
	SamplingRate float64              `json:"sampling_rate" msgpack:"sampling_rate"`
	NPTS         int                  `json:"npts" msgpack:"npts"`
	Stats        assemble.SampleStats `json:"stats" msgpack:"stats"`
}

// SeedID returns the NET.STA.LOC.CHA identifier of the entry.
func (e *Entry) SeedID() string {
	return e.Network + "." + e.Station + "." + e.Location + "." + e.Channel
}

// NewEntry describes trace tr, the index-th record of path starting at offset.
func NewEntry(path string, index int, offset int64, tr *assemble.Trace) *Entry {
	return &Entry{
		Path:         path,
		Index:        index,
		Offset:       offset,
		Network:      tr.Stats.Network,
		Station:      tr.Stats.Station,
		Location:     tr.Stats.Location,
		Channel:      tr.Stats.Channel,
		StartTime:    tr.Stats.StartTime,
		EndTime:      tr.Stats.EndTime(),
		SamplingRate: tr.Stats.SamplingRate,
		NPTS:         tr.Stats.NPTS,
		Stats:        assemble.ComputeStats(tr.Samples),
	}
}

// Filter selects entries by exact match. Empty fields match everything.
type Filter struct {
	Path     string
	Network  string
	Station  string
	Location string
	Channel  string
}

func (f Filter) match(e *Entry) bool {
	return (f.Path == "" || f.Path == e.Path) &&
		(f.Network == "" || f.Network == e.Network) &&
		(f.Station == "" || f.Station == e.Station) &&
		(f.Location == "" || f.Location == e.Location) &&
		(f.Channel == "" || f.Channel == e.Channel)
}

// Summary aggregates the whole catalog.
type Summary struct {
	Traces   int   `json:"traces"`
	Files    int   `json:"files"`
	Channels int   `json:"channels"`
	Samples  int64 `json:"samples"`
}
