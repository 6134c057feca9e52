package poller

import "time"

// Clock abstracts the delay between poll steps so transitions can be
// tested without real wall-clock waits.
type Clock interface {
	After(d time.Duration) <-chan time.Time
}

type systemClock struct{}

func (systemClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}

func SystemClock() Clock {
	return systemClock{}
}
