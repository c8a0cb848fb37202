package session

import "time"

// Timer is a cancellable scheduled task. *time.Timer satisfies it; tests
// inject a factory producing manually fired timers so time passage is
// simulated deterministically instead of waited on.
type Timer interface {
	Stop() bool
	Reset(d time.Duration) bool
}

// TimerFactory schedules fn to run once after d.
type TimerFactory func(d time.Duration, fn func()) Timer

func afterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}
