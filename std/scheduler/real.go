package scheduler

import (
	"crypto/rand"
	"encoding/binary"
	"time"
)

// realScheduler is backed by the Go runtime's own timers.
type realScheduler struct{}

// New returns the production Scheduler.
func New() Scheduler { return realScheduler{} }

func (realScheduler) Now() time.Time { return time.Now() }

func (realScheduler) Schedule(d time.Duration, f func()) Token {
	return &realToken{timer: time.AfterFunc(d, f)}
}

func (realScheduler) Nonce() uint32 {
	var buf [4]byte
	_, _ = rand.Read(buf[:])
	return binary.BigEndian.Uint32(buf[:])
}

type realToken struct {
	timer *time.Timer
}

func (t *realToken) Cancel() {
	if t.timer != nil {
		t.timer.Stop()
	}
}
