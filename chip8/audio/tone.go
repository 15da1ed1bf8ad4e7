package audio

import "math"

const (
	// SampleRate is the output rate of every audio sink, in Hz.
	SampleRate = 44100
	// ToneFrequency is the pitch of the buzzer, in Hz.
	ToneFrequency = 440.0
	// Amplitude keeps the buzzer well below full scale.
	Amplitude = 0.25
)

// Beeper is driven by the sound timer: active while it is non-zero.
type Beeper interface {
	SetActive(active bool)
	Close() error
}

// Tone is a sine oscillator. The phase is reset when the tone is silenced so
// every beep starts from zero and doesn't click.
type Tone struct {
	phase float64
	step  float64
}

func NewTone(frequency float64, sampleRate int) *Tone {
	return &Tone{step: 2 * math.Pi * frequency / float64(sampleRate)}
}

// Next returns the next sample in [-Amplitude, Amplitude].
func (t *Tone) Next() float32 {
	sample := float32(Amplitude * math.Sin(t.phase))
	t.phase += t.step
	if t.phase >= 2*math.Pi {
		t.phase -= 2 * math.Pi
	}
	return sample
}

// Fill writes len(buf) samples, or silence when the tone is not active.
func (t *Tone) Fill(buf []float32, active bool) {
	if !active {
		clear(buf)
		t.phase = 0
		return
	}
	for i := range buf {
		buf[i] = t.Next()
	}
}
