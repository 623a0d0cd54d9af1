// ABOUTME: Tone control wire protocol package
// ABOUTME: Defines protocol messages and a WebSocket client
// Package protocol implements the JSON control protocol spoken on a tone
// generator's /tone websocket.
//
// On connect the generator sends server/hello. Each tone/set or
// tone/status_request is answered with tone/status, or with error when the
// request cannot be parsed.
//
// Example:
//
//	client, err := protocol.Dial("localhost:8928", "")
//	hz := 880.0
//	status, err := client.Set(protocol.ToneSet{Frequency: &hz})
package protocol
