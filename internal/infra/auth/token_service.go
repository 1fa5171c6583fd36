package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"

	"classrank/internal/domain/service"

	"github.com/pkg/errors"
)

// tokenByteLength is the entropy of every raw bearer token. 48 bytes keeps
// collision probability negligible even across billions of tokens, so digest
// uniqueness needs no special handling.
const tokenByteLength = 48

// opaqueTokenService implements TokenService with crypto/rand tokens and
// SHA-256 digests. Shared by sessions and email-verification tokens.
type opaqueTokenService struct{}

// NewTokenService is the constructor for opaqueTokenService.
func NewTokenService() service.TokenService {
	return &opaqueTokenService{}
}

// Generate produces a hex-encoded random token from the platform CSPRNG.
func (s *opaqueTokenService) Generate() (string, error) {
	buf := make([]byte, tokenByteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "failed to read random bytes for token")
	}

	return hex.EncodeToString(buf), nil
}

// Digest returns the hex-encoded SHA-256 hash of a raw token. Deterministic,
// so a presented token can be re-hashed and matched against stored digests.
func (s *opaqueTokenService) Digest(rawToken string) string {
	sum := sha256.Sum256([]byte(rawToken))

	return hex.EncodeToString(sum[:])
}
