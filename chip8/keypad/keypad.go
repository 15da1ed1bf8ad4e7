package keypad

// Key is one of the 16 hexadecimal keys, 0x0 to 0xF.
type Key uint8

// KeyCount is the number of keys on the pad.
const KeyCount = 16

// Keypad is the input latch read by the CPU. The input collaborator calls
// BeginFrame once per frame, then Press/Release for that frame's events,
// before the frame's instructions run.
type Keypad struct {
	held     [KeyCount]bool
	released [KeyCount]bool
}

func New() *Keypad {
	return &Keypad{}
}

// BeginFrame clears the released-this-frame flags.
func (k *Keypad) BeginFrame() {
	k.released = [KeyCount]bool{}
}

func (k *Keypad) Press(key Key) {
	k.held[key&0x0F] = true
}

// Release marks the key as no longer held and records the release for this frame.
func (k *Keypad) Release(key Key) {
	key &= 0x0F
	k.held[key] = false
	k.released[key] = true
}

func (k *Keypad) IsHeld(key Key) bool {
	return k.held[key&0x0F]
}

func (k *Keypad) WasReleased(key Key) bool {
	return k.released[key&0x0F]
}

// FirstReleased returns the lowest key released this frame, if any.
func (k *Keypad) FirstReleased() (Key, bool) {
	for i, released := range k.released {
		if released {
			return Key(i), true
		}
	}
	return 0, false
}

// Held returns a copy of the held flags.
func (k *Keypad) Held() [KeyCount]bool {
	return k.held
}

// Reset releases every key without recording releases.
func (k *Keypad) Reset() {
	k.held = [KeyCount]bool{}
	k.released = [KeyCount]bool{}
}
