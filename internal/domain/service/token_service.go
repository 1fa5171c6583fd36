package service

// TokenService generates opaque bearer tokens and the digests stored in
// their place. Sessions and email-verification tokens share it.
type TokenService interface {
	// Generate produces a cryptographically random raw token, hex-encoded.
	// The raw value is handed to the client exactly once and never persisted.
	Generate() (string, error)

	// Digest computes the deterministic one-way hash stored as the lookup
	// key for a raw token. Tokens are high-entropy and single-use, so a
	// plain cryptographic hash suffices; no per-value salt is needed.
	Digest(rawToken string) string
}
