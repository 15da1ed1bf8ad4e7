package timer

// Frequency is the rate, in Hz, at which both timers count down.
const Frequency = 60

// Timers holds the delay and sound countdown registers.
// The CPU only sets and reads them, Tick is the only way they decrease.
type Timers struct {
	delay uint8
	sound uint8

	// OnSoundChange is called whenever the sound timer goes from zero to
	// positive or back. The beeper collaborator hooks in here.
	OnSoundChange func(active bool)
}

func New() *Timers {
	return &Timers{}
}

func (t *Timers) Delay() uint8 { return t.delay }
func (t *Timers) Sound() uint8 { return t.sound }

func (t *Timers) SetDelay(value uint8) {
	t.delay = value
}

func (t *Timers) SetSound(value uint8) {
	wasActive := t.SoundActive()
	t.sound = value
	t.notify(wasActive)
}

// SoundActive reports whether the tone should currently be playing.
func (t *Timers) SoundActive() bool {
	return t.sound > 0
}

// Tick performs one 60Hz step, decrementing both timers while positive.
func (t *Timers) Tick() {
	if t.delay > 0 {
		t.delay--
	}

	if t.sound > 0 {
		t.sound--
		t.notify(true)
	}
}

// Reset zeroes both timers.
func (t *Timers) Reset() {
	wasActive := t.SoundActive()
	t.delay = 0
	t.sound = 0
	t.notify(wasActive)
}

func (t *Timers) notify(wasActive bool) {
	if t.OnSoundChange == nil {
		return
	}
	if active := t.SoundActive(); active != wasActive {
		t.OnSoundChange(active)
	}
}
