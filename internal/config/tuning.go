// Package config loads the optional tuning file that adjusts the
// collector's real-time and queue parameters. All fields are pointers so a
// partial file overrides only what it names; everything else keeps its
// compiled-in default. The sampling interval is not tunable here; it is the
// mandatory startup argument and a process-lifetime constant.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/banshee-data/sightline/internal/queue"
	"github.com/banshee-data/sightline/internal/rt"
	"github.com/banshee-data/sightline/internal/scan"
)

// Tuning is the root of the tuning file schema.
type Tuning struct {
	// Queue params
	QueueCapacity *int    `json:"queue_capacity,omitempty"`
	FullPolicy    *string `json:"full_policy,omitempty"` // "drop" or "block"

	// Real-time params
	CPU                *int `json:"cpu,omitempty"`
	TaskPriority       *int `json:"task_priority,omitempty"`
	StackPrefaultBytes *int `json:"stack_prefault_bytes,omitempty"`

	// Sampling params
	FilterPolicy *string `json:"filter_policy,omitempty"` // "text-sentinel" or "nul-prefix"
	SerialBaud   *int    `json:"serial_baud,omitempty"`
}

// Default returns a Tuning with no overrides set; every getter falls back to
// its compiled-in default.
func Default() *Tuning {
	return &Tuning{}
}

// Load reads a tuning file. Fields omitted from the JSON retain their
// defaults, so partial configs are safe.
func Load(path string) (*Tuning, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("tuning file must have .json extension, got %q", ext)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read tuning file: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse tuning file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tuning file: %w", err)
	}
	return cfg, nil
}

// Validate checks every set field for range and enum validity.
func (t *Tuning) Validate() error {
	if t.QueueCapacity != nil && *t.QueueCapacity <= 0 {
		return fmt.Errorf("queue_capacity must be positive, got %d", *t.QueueCapacity)
	}
	if t.FullPolicy != nil {
		if _, err := queue.ParseFullPolicy(*t.FullPolicy); err != nil {
			return err
		}
	}
	if t.CPU != nil && *t.CPU < 0 {
		return fmt.Errorf("cpu must be non-negative, got %d", *t.CPU)
	}
	if t.TaskPriority != nil && (*t.TaskPriority < 1 || *t.TaskPriority > 99) {
		return fmt.Errorf("task_priority must be in 1..99, got %d", *t.TaskPriority)
	}
	if t.StackPrefaultBytes != nil && *t.StackPrefaultBytes <= 0 {
		return fmt.Errorf("stack_prefault_bytes must be positive, got %d", *t.StackPrefaultBytes)
	}
	if t.FilterPolicy != nil {
		if _, err := scan.ParseFilterPolicy(*t.FilterPolicy); err != nil {
			return err
		}
	}
	if t.SerialBaud != nil && *t.SerialBaud <= 0 {
		return fmt.Errorf("serial_baud must be positive, got %d", *t.SerialBaud)
	}
	return nil
}

// GetQueueCapacity returns the queue capacity, default 32 slots.
func (t *Tuning) GetQueueCapacity() int {
	if t.QueueCapacity != nil {
		return *t.QueueCapacity
	}
	return queue.DefaultCapacity
}

// GetFullPolicy returns the queue full policy, default drop: the deployed
// collector favours bounded sampling latency over lossless capture.
func (t *Tuning) GetFullPolicy() queue.FullPolicy {
	if t.FullPolicy != nil {
		p, _ := queue.ParseFullPolicy(*t.FullPolicy)
		return p
	}
	return queue.DropNewest
}

// GetCPU returns the CPU the process is pinned to, default 0.
func (t *Tuning) GetCPU() int {
	if t.CPU != nil {
		return *t.CPU
	}
	return 0
}

// GetTaskPriority returns the shared SCHED_RR priority for both tasks.
func (t *Tuning) GetTaskPriority() int {
	if t.TaskPriority != nil {
		return *t.TaskPriority
	}
	return rt.DefaultTaskPriority
}

// GetStackPrefaultBytes returns the prefault region size.
func (t *Tuning) GetStackPrefaultBytes() int {
	if t.StackPrefaultBytes != nil {
		return *t.StackPrefaultBytes
	}
	return rt.DefaultStackPrefaultBytes
}

// GetFilterPolicy returns the sentinel filter, default the text-literal
// match observed in the deployed scanner wrapper.
func (t *Tuning) GetFilterPolicy() scan.FilterFunc {
	if t.FilterPolicy != nil {
		f, _ := scan.ParseFilterPolicy(*t.FilterPolicy)
		return f
	}
	return scan.TextSentinelFilter
}

// GetSerialBaud returns the serial source line rate, default 115200.
func (t *Tuning) GetSerialBaud() int {
	if t.SerialBaud != nil {
		return *t.SerialBaud
	}
	return 115200
}
