//go:build !oto

package audio

import "errors"

// ErrPlaybackUnavailable is returned when the binary was built without the oto tag.
var ErrPlaybackUnavailable = errors.New("audio playback not available: build with -tags oto")

// OtoPlayer is unavailable in this build.
type OtoPlayer struct{}

func NewOtoPlayer() (*OtoPlayer, error) {
	return nil, ErrPlaybackUnavailable
}

func (op *OtoPlayer) SetActive(bool) {}

func (op *OtoPlayer) Close() error { return nil }
