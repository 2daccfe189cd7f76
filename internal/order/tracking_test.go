package order

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateTrackingNumber(t *testing.T) {
	t.Run("format", func(t *testing.T) {
		tn := GenerateTrackingNumber()

		assert.True(t, strings.HasPrefix(tn, trackingPrefix))
		assert.Len(t, tn, len(trackingPrefix)+trackingLength)

		for _, r := range strings.TrimPrefix(tn, trackingPrefix) {
			assert.Contains(t, trackingAlphabet, string(r))
		}
	})

	t.Run("no ambiguous characters", func(t *testing.T) {
		assert.NotContains(t, trackingAlphabet, "0")
		assert.NotContains(t, trackingAlphabet, "O")
		assert.NotContains(t, trackingAlphabet, "1")
		assert.NotContains(t, trackingAlphabet, "I")
	})

	t.Run("collision resistance", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 1000; i++ {
			tn := GenerateTrackingNumber()
			assert.False(t, seen[tn], "duplicate tracking number %s", tn)
			seen[tn] = true
		}
	})
}
