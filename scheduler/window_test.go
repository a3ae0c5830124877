package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowAverage(t *testing.T) {
	t.Parallel()

	w := newWindow(10)
	assert.Equal(t, 0.0, w.Average())

	w.Push(10)
	w.Push(20)
	require.Equal(t, 15.0, w.Average())
}

func TestWindowEvictsOldest(t *testing.T) {
	t.Parallel()

	w := newWindow(10)
	for i := 1; i <= 15; i++ {
		w.Push(float64(i))
	}

	// only 6..15 remain
	assert.Equal(t, 10.5, w.Average())
}

func TestWindowReset(t *testing.T) {
	t.Parallel()

	w := newWindow(10)
	w.Push(42)
	w.Push(7)
	w.Reset()

	assert.Equal(t, 0.0, w.Average())
	w.Push(4)
	assert.Equal(t, 4.0, w.Average())
}
