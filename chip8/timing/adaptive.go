package timing

import (
	"log/slog"
	"time"
)

// AdaptiveLimiter sleeps for most of the frame and busy-waits the last
// millisecond, resynchronising when it falls too far behind.
type AdaptiveLimiter struct {
	targetFrameTime time.Duration
	nextFrameTime   time.Time
	frameCounter    int64
	now             func() time.Time
}

func NewAdaptiveLimiter() *AdaptiveLimiter {
	return &AdaptiveLimiter{
		targetFrameTime: FrameDuration(),
		nextFrameTime:   time.Now(),
		now:             time.Now,
	}
}

func (a *AdaptiveLimiter) WaitForNextFrame() {
	now := a.now()
	sleepTime := a.nextFrameTime.Sub(now)

	switch {
	case sleepTime > 2*time.Millisecond:
		time.Sleep(sleepTime - time.Millisecond)
		for a.now().Before(a.nextFrameTime) {
		}
	case sleepTime > 0:
		for a.now().Before(a.nextFrameTime) {
			// busy-wait for short waits, sleep granularity is too coarse
		}
	case sleepTime < -5*time.Millisecond:
		slog.Debug("Frame limiter behind schedule, resyncing", "behind_ms", (-sleepTime).Milliseconds())
		a.nextFrameTime = now
	}

	a.nextFrameTime = a.nextFrameTime.Add(a.targetFrameTime)
	a.frameCounter++
}

func (a *AdaptiveLimiter) Reset() {
	a.nextFrameTime = a.now()
	a.frameCounter = 0
}

// Frames returns the number of frames waited for since the last reset.
func (a *AdaptiveLimiter) Frames() int64 {
	return a.frameCounter
}
