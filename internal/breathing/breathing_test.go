package breathing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCycleDuration(t *testing.T) {
	assert.Equal(t, 12*time.Second, CycleDuration())
	assert.Len(t, Cycle(), 4)
	assert.Equal(t, int64(4000), Cycle()[0].DurationMS)
}

func TestPhaseAt(t *testing.T) {
	tests := []struct {
		elapsed time.Duration
		phase   Phase
		counter int
		round   int
	}{
		{0, PhaseInhale, 4, 0},
		{999 * time.Millisecond, PhaseInhale, 4, 0},
		{1 * time.Second, PhaseInhale, 3, 0},
		{3500 * time.Millisecond, PhaseInhale, 1, 0},
		{4 * time.Second, PhaseHold, 1, 0},
		{5 * time.Second, PhaseExhale, 6, 0},
		{10500 * time.Millisecond, PhaseExhale, 1, 0},
		{11 * time.Second, PhaseRest, 1, 0},
		{12 * time.Second, PhaseInhale, 4, 1},
		{30 * time.Second, PhaseExhale, 5, 2},
		{-time.Second, PhaseInhale, 4, 0},
	}

	for _, tt := range tests {
		step := PhaseAt(tt.elapsed)
		assert.Equal(t, tt.phase, step.Phase, "elapsed=%s", tt.elapsed)
		assert.Equal(t, tt.counter, step.Counter, "elapsed=%s", tt.elapsed)
		assert.Equal(t, tt.round, step.Round, "elapsed=%s", tt.elapsed)
	}
}

func TestPhaseAtScale(t *testing.T) {
	assert.Equal(t, 1.4, PhaseAt(0).Scale)
	assert.Equal(t, 0.8, PhaseAt(6*time.Second).Scale)
	assert.Equal(t, "Breathe Out", PhaseAt(6*time.Second).Instructions)
	assert.Equal(t, 4*time.Second, PhaseAt(7*time.Second).Remaining)
}

func TestMessageAtWraps(t *testing.T) {
	all := Messages()
	assert.Equal(t, all[0], MessageAt(0))
	assert.Equal(t, all[1], MessageAt(len(all)+1))
	assert.Equal(t, all[len(all)-1], MessageAt(-1))
}
