package auth

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/goliatone/go-errors"
)

// verificationTokenBytes gives 256 bits of entropy, comfortably above the
// minimum needed to make brute forcing a pending token infeasible.
const verificationTokenBytes = 32

// GenerateVerificationToken mints a single-use token from the platform
// CSPRNG. Hex keeps it URL safe for the query-parameter link.
func GenerateVerificationToken() (string, error) {
	buf := make([]byte, verificationTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to generate verification token")
	}
	return hex.EncodeToString(buf), nil
}
