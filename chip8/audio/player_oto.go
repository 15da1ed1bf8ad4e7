//go:build oto

package audio

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/ebitengine/oto/v3"
)

// OtoPlayer plays the buzzer on the host audio device.
type OtoPlayer struct {
	ctx       *oto.Context
	player    *oto.Player
	tone      *Tone
	active    atomic.Bool
	sampleBuf []float32
	mutex     sync.Mutex
}

func NewOtoPlayer() (*OtoPlayer, error) {
	op := &oto.NewContextOptions{
		SampleRate:   SampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio device: %w", err)
	}
	<-ready

	p := &OtoPlayer{
		ctx:       ctx,
		tone:      NewTone(ToneFrequency, SampleRate),
		sampleBuf: make([]float32, 1024),
	}
	p.player = ctx.NewPlayer(p)
	p.player.Play()
	return p, nil
}

func (op *OtoPlayer) SetActive(active bool) {
	op.active.Store(active)
}

// Read is called from the oto goroutine and only touches the tone from there.
func (op *OtoPlayer) Read(p []byte) (int, error) {
	numSamples := len(p) / 4
	if len(op.sampleBuf) < numSamples {
		op.sampleBuf = make([]float32, numSamples)
	}
	samples := op.sampleBuf[:numSamples]
	op.tone.Fill(samples, op.active.Load())

	for i, s := range samples {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(s))
	}
	return numSamples * 4, nil
}

func (op *OtoPlayer) Close() error {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	if op.player == nil {
		return nil
	}
	err := op.player.Close()
	op.player = nil
	return err
}
