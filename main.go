// ABOUTME: Entry point for the resonate-tone generator
// ABOUTME: Parses CLI flags, starts the tone stream, control endpoint and TUI
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Resonate-Protocol/resonate-tone/internal/control"
	"github.com/Resonate-Protocol/resonate-tone/internal/ui"
	"github.com/Resonate-Protocol/resonate-tone/internal/version"
	"github.com/Resonate-Protocol/resonate-tone/pkg/audio"
	"github.com/Resonate-Protocol/resonate-tone/pkg/audio/output"
	"github.com/Resonate-Protocol/resonate-tone/pkg/oscillator"
	"github.com/Resonate-Protocol/resonate-tone/pkg/tonegen"
	"golang.org/x/term"
)

var (
	sampleRate  = flag.Int("rate", audio.DefaultSampleRate, "Sample rate in Hz")
	block       = flag.Int("block", audio.DefaultBlockSamples, "Frames per buffer half")
	freq        = flag.Float64("freq", oscillator.DefaultFrequency, "Tone frequency in Hz")
	volume      = flag.Float64("volume", oscillator.DefaultVolume, "Linear volume 0..1")
	amplitude   = flag.Int("amplitude", oscillator.DefaultAmplitude, "Peak sample value at full volume")
	inline      = flag.Bool("inline", false, "Refill inside the transfer interrupt instead of a worker")
	headless    = flag.Bool("headless", false, "Drain the stream without a sound device")
	controlPort = flag.Int("control-port", control.DefaultPort, "WebSocket control port (0 disables)")
	noMDNS      = flag.Bool("no-mdns", false, "Disable mDNS advertisement")
	name        = flag.String("name", "", "Generator friendly name (default: hostname-resonate-tone)")
	logFile     = flag.String("log-file", "resonate-tone.log", "Log file path")
	noTUI       = flag.Bool("no-tui", false, "Disable TUI, use streaming logs instead")
)

func main() {
	flag.Parse()

	// the TUI needs a terminal; fall back to streaming logs when piped
	useTUI := !*noTUI && term.IsTerminal(int(os.Stdout.Fd()))

	// Set up logging
	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()

	if useTUI {
		// TUI mode: log only to file
		log.SetOutput(f)
	} else {
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	}

	genName := *name
	if genName == "" {
		hostname, err := os.Hostname()
		if err != nil {
			hostname = "unknown"
		}
		genName = fmt.Sprintf("%s-resonate-tone", hostname)
	}

	log.Printf("Starting %s: %s", version.String(), genName)

	cfg := tonegen.Config{
		Audio: audio.Config{
			SampleRate:   *sampleRate,
			BlockSamples: *block,
			Channels:     audio.DefaultChannels,
		},
		Frequency: *freq,
		Volume:    *volume,
		Amplitude: *amplitude,
		Inline:    *inline,
	}
	if *headless {
		cfg.Output = output.NewHeadless(*block)
	}

	streamer, err := tonegen.NewStreamer(cfg)
	if err != nil {
		log.Fatalf("Failed to create streamer: %v", err)
	}
	if *volume == 0 {
		streamer.SetVolume(0)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := streamer.Start(ctx); err != nil {
		log.Fatalf("Failed to start stream: %v", err)
	}

	var controlAddr string
	if *controlPort != 0 {
		srv, err := control.NewServer(control.Config{
			Port:       *controlPort,
			Name:       genName,
			EnableMDNS: !*noMDNS,
		}, streamer, streamer.Config())
		if err != nil {
			log.Fatalf("Failed to create control server: %v", err)
		}
		if err := srv.Start(); err != nil {
			log.Fatalf("Failed to start control server: %v", err)
		}
		defer srv.Stop()
		controlAddr = fmt.Sprintf("localhost:%d", *controlPort)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	if useTUI {
		tui := ui.NewTUI()
		go func() {
			<-sigChan
			log.Printf("Shutdown signal received")
			tui.Stop()
		}()
		if err := tui.Run(ui.NewModel(streamer, genName, streamer.Config().Audio, controlAddr)); err != nil {
			log.Printf("TUI error: %v", err)
		}
	} else {
		log.Printf("Press Ctrl-C to stop")
		<-sigChan
		log.Printf("Shutdown signal received")
		logStatus(streamer.Status())
	}

	if err := streamer.Close(); err != nil {
		log.Printf("Error closing stream: %v", err)
	}

	log.Printf("Generator stopped")
}

func logStatus(st tonegen.Status) {
	tr := st.Transport
	log.Printf("Refills: %d, misses: %d, overruns: %d, refill max %v / budget %v, uptime %v",
		tr.Refills, tr.Misses, tr.Overruns, tr.Latency.Max, tr.Budget, st.Uptime)
}
