// ABOUTME: Package control documentation
// ABOUTME: Remote frequency and volume control over websocket

// Package control serves the tone control protocol on /tone and optionally
// advertises it with mDNS so controllers on the local network can find the
// generator.
package control
