//go:build tinygo && teensy41

// ABOUTME: Teensy 4.1 firmware streaming the tone over SAI1
// ABOUTME: Wires the i.MX RT register backend, the transport and the oscillator to the DMA vector
package main

import (
	"device/nxp"
	"log"
	"runtime/interrupt"
	"time"

	"github.com/Resonate-Protocol/resonate-tone/internal/imxrt"
	"github.com/Resonate-Protocol/resonate-tone/pkg/audio"
	"github.com/Resonate-Protocol/resonate-tone/pkg/clock"
	"github.com/Resonate-Protocol/resonate-tone/pkg/dma"
	"github.com/Resonate-Protocol/resonate-tone/pkg/oscillator"
)

// eDMA channel 0 shares its vector with channel 16
const dmaChannel = 0

var channel *imxrt.Channel

func main() {
	cfg := audio.DefaultConfig()
	regs := imxrt.MMIO{}

	sai := imxrt.NewSAI(regs)
	channel = imxrt.NewChannel(regs, dmaChannel)
	osc := oscillator.New(cfg.SampleRate, cfg.Channels)

	transport, err := dma.NewTransport(cfg, dma.Deps{
		Clock:       clock.NewConfigurator(sai),
		Channel:     channel,
		Transmitter: sai,
		Cache:       imxrt.NewCache(regs),
		Producer:    osc,
	}, dma.WithInline())
	if err != nil {
		log.Fatalf("Failed to create transport: %v", err)
	}

	intr := interrupt.New(nxp.IRQ_DMA0_DMA16, func(interrupt.Interrupt) {
		channel.ServeInterrupt()
	})
	intr.Enable()

	if err := transport.Begin(); err != nil {
		log.Fatalf("Failed to start transport: %v", err)
	}

	for {
		time.Sleep(5 * time.Second)
		st := transport.Stats()
		log.Printf("Refills: %d, misses: %d, refill last %v max %v / budget %v",
			st.Refills, st.Misses, st.Latency.Last, st.Latency.Max, st.Budget)
	}
}
