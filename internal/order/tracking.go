package order

import (
	"crypto/rand"
	"math/big"
	"time"
)

const (
	trackingPrefix = "SNAP-"
	trackingLength = 10

	// no 0/O or 1/I, the number ends up read over the phone
	trackingAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"
)

// GenerateTrackingNumber returns the public order reference shown to the
// customer, e.g. SNAP-7KQ2M9XWPF. Collision handling is the caller's job
// (unique constraint + retry).
func GenerateTrackingNumber() string {
	buf := make([]byte, trackingLength)
	max := big.NewInt(int64(len(trackingAlphabet)))

	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// fallback: time-based entropy
			n = big.NewInt(time.Now().UnixNano() % int64(len(trackingAlphabet)))
		}
		buf[i] = trackingAlphabet[n.Int64()]
	}

	return trackingPrefix + string(buf)
}
