package domain

import (
	"encoding/hex"
	"fmt"
)

// FingerprintSize is the digest length in bytes (128 bits).
const FingerprintSize = 16

// Fingerprint is a content digest identifying a document's exact bytes.
// Equal fingerprints mean byte-identical files with overwhelming probability.
type Fingerprint [FingerprintSize]byte

// String returns the lower-case hex form of the digest.
func (f Fingerprint) String() string {
	return hex.EncodeToString(f[:])
}

// IsZero reports whether the fingerprint was never computed.
func (f Fingerprint) IsZero() bool {
	return f == Fingerprint{}
}

// ParseFingerprint decodes the hex form produced by String.
func ParseFingerprint(s string) (Fingerprint, error) {
	var f Fingerprint
	b, err := hex.DecodeString(s)
	if err != nil {
		return f, fmt.Errorf("%w: fingerprint: %w", ErrInvalidInput, err)
	}
	if len(b) != FingerprintSize {
		return f, fmt.Errorf("%w: fingerprint must be %d bytes, got %d", ErrInvalidInput, FingerprintSize, len(b))
	}
	copy(f[:], b)
	return f, nil
}
