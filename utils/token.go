package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// qrTokenBytes gives 256 bits of entropy; collisions across units are
// negligible and tokens are not guessable.
const qrTokenBytes = 32

// GenerateQRToken produces a new opaque unit credential.
func GenerateQRToken() (string, error) {
	buf := make([]byte, qrTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate qr token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
