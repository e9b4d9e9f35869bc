package api

import (
	"github.com/segmentio/ksuid"

	"github.com/ssargent/xhfile/pkg/catalog"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// TraceList is the body of a trace listing
type TraceList struct {
	Count  int              `json:"count"`
	Traces []*catalog.Entry `json:"traces"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Bind string
	Port int
}

// TraceStore is the read side of the trace catalog
type TraceStore interface {
	Get(id ksuid.KSUID) (*catalog.Entry, error)
	List(filter catalog.Filter) ([]*catalog.Entry, error)
	Summarize() (catalog.Summary, error)
}
