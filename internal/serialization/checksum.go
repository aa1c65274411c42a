package serialization

import (
	"crypto/sha256"
	"encoding/hex"
)

// ComputeChecksum returns the hex-encoded SHA-256 checksum of data.
func ComputeChecksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ValidateChecksum compares the checksum of data against stored.
// An empty stored checksum is accepted, since older files carry none.
// Returns ErrChecksumMismatch if they don't match.
func ValidateChecksum(data []byte, stored string) error {
	if stored == "" {
		return nil
	}
	if ComputeChecksum(data) != stored {
		return ErrChecksumMismatch
	}
	return nil
}
