package keypad

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeypad_PressRelease(t *testing.T) {
	k := New()

	k.Press(0xA)
	assert.True(t, k.IsHeld(0xA))
	assert.False(t, k.WasReleased(0xA))

	k.Release(0xA)
	assert.False(t, k.IsHeld(0xA))
	assert.True(t, k.WasReleased(0xA))
}

func TestKeypad_BeginFrameClearsReleasesOnly(t *testing.T) {
	k := New()
	k.Press(0x1)
	k.Press(0x2)
	k.Release(0x2)

	k.BeginFrame()

	assert.True(t, k.IsHeld(0x1), "held keys survive a new frame")
	_, ok := k.FirstReleased()
	assert.False(t, ok, "releases are per-frame")
}

func TestKeypad_FirstReleasedIsLowestIndex(t *testing.T) {
	k := New()
	k.Release(0xC)
	k.Release(0x3)
	k.Release(0x7)

	key, ok := k.FirstReleased()
	assert.True(t, ok)
	assert.Equal(t, Key(0x3), key)
}

func TestKeypad_KeysAreMasked(t *testing.T) {
	k := New()
	k.Press(0x1F)
	assert.True(t, k.IsHeld(0xF))
	assert.True(t, k.Held()[0xF])

	k.Reset()
	assert.False(t, k.IsHeld(0xF))
}
