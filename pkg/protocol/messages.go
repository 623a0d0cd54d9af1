// ABOUTME: Tone control protocol message type definitions
// ABOUTME: JSON envelopes exchanged over the /tone websocket
package protocol

import (
	"encoding/json"
	"fmt"
)

// Version is the control protocol version
const Version = 1

// Message types
const (
	TypeServerHello   = "server/hello"
	TypeToneSet       = "tone/set"
	TypeStatusRequest = "tone/status_request"
	TypeToneStatus    = "tone/status"
	TypeError         = "error"
)

// Message is the top-level wrapper for all protocol messages
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// ServerHello is sent by the generator when a controller connects
type ServerHello struct {
	ServerID   string      `json:"server_id"`
	Name       string      `json:"name"`
	Version    int         `json:"version"`
	DeviceInfo *DeviceInfo `json:"device_info,omitempty"`
	Status     ToneStatus  `json:"status"`
}

// DeviceInfo contains device identification
type DeviceInfo struct {
	ProductName     string `json:"product_name"`
	Manufacturer    string `json:"manufacturer"`
	SoftwareVersion string `json:"software_version"`
}

// ToneSet changes tone parameters; absent fields are left alone
type ToneSet struct {
	Frequency *float64 `json:"frequency,omitempty"`
	Volume    *float64 `json:"volume,omitempty"`
}

// ToneStatus reports the tone parameters and transport counters
type ToneStatus struct {
	Frequency    float64 `json:"frequency"`
	Volume       float64 `json:"volume"`
	SampleRate   int     `json:"sample_rate"`
	BlockSamples int     `json:"block_samples"`
	Clock        string  `json:"clock"`
	State        string  `json:"state"`
	Refills      uint64  `json:"refills"`
	Misses       uint64  `json:"misses"`
	Overruns     uint64  `json:"overruns"`
	LastRefillUs int64   `json:"last_refill_us"`
	MaxRefillUs  int64   `json:"max_refill_us"`
	BudgetUs     int64   `json:"budget_us"`
	UptimeMs     int64   `json:"uptime_ms"`
}

// Error reports a rejected request
type Error struct {
	Message string `json:"message"`
}

// DecodePayload re-decodes msg.Payload into v
func DecodePayload(msg Message, v interface{}) error {
	data, err := json.Marshal(msg.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", msg.Type, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s payload: %w", msg.Type, err)
	}
	return nil
}
