package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClamp(t *testing.T) {
	t.Parallel()

	require.Equal(t, 40, Clamp(12, 40, 300))
	require.Equal(t, 300, Clamp(512, 40, 300))
	require.Equal(t, 120, Clamp(120, 40, 300))
	require.Equal(t, 0.5, Clamp(0.5, 0.0, 1.0))
	require.Equal(t, 1.0, Clamp(3.7, 0.0, 1.0))
}
