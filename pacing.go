package dieselvk

import "time"

// Pacer holds each frame to a minimum duration. Overruns are not made up.
type Pacer struct {
	interval time.Duration
	now      func() time.Time
	sleep    func(time.Duration)
}

func NewPacer(interval time.Duration) *Pacer {
	return &Pacer{interval: interval, now: time.Now, sleep: time.Sleep}
}

// Remaining is how long to sleep after a frame that took elapsed.
func (p *Pacer) Remaining(elapsed time.Duration) time.Duration {
	return max(0, p.interval-elapsed)
}

// Start marks the beginning of a frame.
func (p *Pacer) Start() time.Time {
	return p.now()
}

// Wait sleeps out the rest of the frame begun at start and returns the sleep.
func (p *Pacer) Wait(start time.Time) time.Duration {
	d := p.Remaining(p.now().Sub(start))
	if d > 0 {
		p.sleep(d)
	}
	return d
}
