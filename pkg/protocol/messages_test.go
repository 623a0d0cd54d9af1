// ABOUTME: Tests for tone control protocol message types
// ABOUTME: Verifies JSON field names and payload decoding
package protocol

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestToneSetOmitsAbsentFields(t *testing.T) {
	hz := 880.0
	data, err := json.Marshal(Message{Type: TypeToneSet, Payload: ToneSet{Frequency: &hz}})
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}
	s := string(data)
	if !strings.Contains(s, `"frequency":880`) {
		t.Errorf("missing frequency in %s", s)
	}
	if strings.Contains(s, "volume") {
		t.Errorf("absent volume should be omitted: %s", s)
	}
}

func TestDecodePayload(t *testing.T) {
	raw := `{"type":"tone/status","payload":{"frequency":440,"volume":0.5,"sample_rate":48000,"state":"streaming","misses":2}}`

	var msg Message
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if msg.Type != TypeToneStatus {
		t.Fatalf("type = %s", msg.Type)
	}

	var st ToneStatus
	if err := DecodePayload(msg, &st); err != nil {
		t.Fatalf("DecodePayload: %v", err)
	}
	if st.Frequency != 440 || st.Volume != 0.5 || st.SampleRate != 48000 {
		t.Errorf("decoded %+v", st)
	}
	if st.State != "streaming" || st.Misses != 2 {
		t.Errorf("decoded %+v", st)
	}
}

func TestDecodePayloadTypeMismatch(t *testing.T) {
	msg := Message{Type: TypeToneSet, Payload: map[string]interface{}{"frequency": "loud"}}
	var set ToneSet
	if err := DecodePayload(msg, &set); err == nil {
		t.Error("expected error for string frequency")
	}
}
