package quote

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const (
	trackingPrefix   = "QUO-"
	trackingAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	trackingLength   = 6
)

// GenerateTrackingCode returns a short public identifier for a quote,
// e.g. QUO-8F3K2A.
func GenerateTrackingCode() (string, error) {
	out := make([]byte, trackingLength)
	for i := range out {
		// rand.Int keeps the draw uniform over the alphabet.
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(trackingAlphabet))))
		if err != nil {
			return "", fmt.Errorf("generate tracking code: %w", err)
		}
		out[i] = trackingAlphabet[idx.Int64()]
	}
	return trackingPrefix + string(out), nil
}

// GenerateQuoteNumber returns a human-readable quote number for the month,
// e.g. QUO-202603-047.
func GenerateQuoteNumber(now time.Time) (string, error) {
	suffix, err := rand.Int(rand.Reader, big.NewInt(1000))
	if err != nil {
		return "", fmt.Errorf("generate quote number: %w", err)
	}
	return fmt.Sprintf("%s%s-%03d", trackingPrefix, now.UTC().Format("200601"), suffix.Int64()), nil
}
