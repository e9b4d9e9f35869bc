package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/ssargent/xhfile/pkg/assemble"
	"github.com/ssargent/xhfile/pkg/catalog"
)

const timeLayout = "2006-01-02T15:04:05.000000Z"

// outputJSON writes v as indented JSON
func outputJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputEntriesTable displays catalog entries in table format
func outputEntriesTable(w io.Writer, entries []*catalog.Entry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "ID\tSEED ID\tSTART\tRATE\tNPTS\tPATH\tINDEX")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%g\t%d\t%s\t%d\n",
			e.ID, e.SeedID(), e.StartTime.Format(timeLayout), e.SamplingRate, e.NPTS, e.Path, e.Index)
	}
	return tw.Flush()
}

// outputFileReport displays one inspected file
func outputFileReport(w io.Writer, report *fileReport) error {
	if report.ByteOrder == "" {
		_, err := fmt.Fprintf(w, "%s: %s\n", report.Path, report.Error)
		return err
	}

	fmt.Fprintf(w, "%s: XH %s, %s, %d records\n", report.Path, report.Version, report.ByteOrder, len(report.Traces))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, tr := range report.Traces {
		fmt.Fprintf(tw, "  #%d\t@%d\t%s\t%s\t%g Hz\t%d samples\n",
			tr.Index, tr.Offset, tr.ID, tr.Stats.StartTime.Format(timeLayout), tr.Stats.SamplingRate, tr.Stats.NPTS)
		if tr.Samples != nil {
			fmt.Fprintf(tw, "\tmin %g\tmax %g\tmean %g\tstd %g\tnon-finite %d\n",
				tr.Samples.Min, tr.Samples.Max, tr.Samples.Mean, tr.Samples.StdDev, tr.Samples.NonFinite)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if report.Error != "" {
		fmt.Fprintf(w, "  error: %s\n", report.Error)
	}
	return nil
}

// formatDuration renders an ingest duration for humans
func formatDuration(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}

// traceReport is one record of an inspected file
type traceReport struct {
	Index   int                   `json:"index"`
	Offset  int64                 `json:"offset"`
	ID      string                `json:"id"`
	Stats   assemble.Stats        `json:"stats"`
	Samples *assemble.SampleStats `json:"samples,omitempty"`
}

// fileReport is the result of inspecting one file
type fileReport struct {
	Path      string        `json:"path"`
	ByteOrder string        `json:"byte_order,omitempty"`
	Version   string        `json:"version,omitempty"`
	Traces    []traceReport `json:"traces"`
	Error     string        `json:"error,omitempty"`
}
