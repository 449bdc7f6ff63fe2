package dieselvk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPacerRemaining(t *testing.T) {
	p := NewPacer(16 * time.Millisecond)
	tests := []struct {
		elapsed time.Duration
		want    time.Duration
	}{
		{0, 16 * time.Millisecond},
		{6 * time.Millisecond, 10 * time.Millisecond},
		{16 * time.Millisecond, 0},
		{40 * time.Millisecond, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, p.Remaining(tt.elapsed), "elapsed %v", tt.elapsed)
	}
}

func TestPacerDisabled(t *testing.T) {
	p := NewPacer(0)
	assert.Equal(t, time.Duration(0), p.Remaining(0))
}

func TestPacerWait(t *testing.T) {
	base := time.Unix(1000, 0)
	now := base
	var slept []time.Duration

	p := NewPacer(10 * time.Millisecond)
	p.now = func() time.Time { return now }
	p.sleep = func(d time.Duration) { slept = append(slept, d) }

	start := p.Start()
	now = base.Add(4 * time.Millisecond)
	assert.Equal(t, 6*time.Millisecond, p.Wait(start))

	start = p.Start()
	now = start.Add(25 * time.Millisecond)
	assert.Equal(t, time.Duration(0), p.Wait(start))

	assert.Equal(t, []time.Duration{6 * time.Millisecond}, slept, "overruns do not sleep")
}
