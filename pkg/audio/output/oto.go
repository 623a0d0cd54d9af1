// ABOUTME: Oto-based audio output implementation
// ABOUTME: Plays the simulated serial bus stream on the host sound device
package output

import (
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/Resonate-Protocol/resonate-tone/pkg/audio"
	"github.com/ebitengine/oto/v3"
)

// ErrAlreadyOpen is returned when Open is called twice; oto allows one
// context per process.
var ErrAlreadyOpen = errors.New("output already open")

// Oto output implementation using oto library
type Oto struct {
	otoCtx     *oto.Context
	player     *oto.Player
	bufferSize time.Duration
	sampleRate int
	channels   int
}

// NewOto creates a new Oto output. bufferSize is the device buffer length;
// zero lets oto choose.
func NewOto(bufferSize time.Duration) *Oto {
	return &Oto{bufferSize: bufferSize}
}

// Open initializes the output device and starts playback from src
func (o *Oto) Open(src io.Reader, sampleRate, channels int) error {
	if o.otoCtx != nil {
		return ErrAlreadyOpen
	}

	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   o.bufferSize,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return fmt.Errorf("failed to create oto context: %w", err)
	}

	<-readyChan

	o.otoCtx = ctx
	o.sampleRate = sampleRate
	o.channels = channels

	o.player = o.otoCtx.NewPlayer(src)
	if n := playerBufferBytes(o.bufferSize, sampleRate, channels); n > 0 {
		o.player.SetBufferSize(n)
	}
	o.player.Play()

	log.Printf("Audio output initialized: %dHz, %d channels", sampleRate, channels)

	return nil
}

// Close releases output resources
func (o *Oto) Close() error {
	var err error
	if o.player != nil {
		err = o.player.Close()
		o.player = nil
	}
	if o.otoCtx != nil {
		if serr := o.otoCtx.Suspend(); serr != nil && err == nil {
			err = serr
		}
	}
	return err
}

// playerBufferBytes converts a buffer length to whole frames of 16-bit
// samples. The player otherwise pulls half a second per read.
func playerBufferBytes(d time.Duration, sampleRate, channels int) int {
	frames := int((d*time.Duration(sampleRate) + time.Second/2) / time.Second)
	return frames * channels * audio.BytesPerSample
}
