package audio

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	bitDepth       = 16
	channelCount   = 1
	wavFormatPCM   = 1
	maxSampleValue = 1<<(bitDepth-1) - 1
)

// Recorder renders the buzzer into a mono 16 bit WAV file. Samples are
// produced as emulated time advances, so the recording matches what the
// program played regardless of how fast the host ran it.
type Recorder struct {
	path    string
	tone    *Tone
	active  bool
	pending float64
	buffer  []float32
	samples []int
}

func NewRecorder(path string) *Recorder {
	return &Recorder{
		path: path,
		tone: NewTone(ToneFrequency, SampleRate),
	}
}

func (r *Recorder) SetActive(active bool) {
	r.active = active
}

// Advance appends the samples covering elapsed emulated time.
func (r *Recorder) Advance(elapsed time.Duration) {
	r.pending += elapsed.Seconds() * SampleRate
	count := int(r.pending)
	if count <= 0 {
		return
	}
	r.pending -= float64(count)

	if cap(r.buffer) < count {
		r.buffer = make([]float32, count)
	}
	buf := r.buffer[:count]
	r.tone.Fill(buf, r.active)

	for _, s := range buf {
		r.samples = append(r.samples, int(s*maxSampleValue))
	}
}

// Samples returns the number of samples recorded so far.
func (r *Recorder) Samples() int {
	return len(r.samples)
}

// Close writes the WAV file.
func (r *Recorder) Close() error {
	f, err := os.Create(r.path)
	if err != nil {
		return fmt.Errorf("failed to create audio dump %s: %w", r.path, err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, SampleRate, bitDepth, channelCount, wavFormatPCM)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channelCount, SampleRate: SampleRate},
		Data:           r.samples,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("failed to write audio dump: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finalize audio dump: %w", err)
	}

	slog.Info("Audio dump saved", "path", r.path, "samples", len(r.samples), "seconds", float64(len(r.samples))/SampleRate)
	return nil
}
