package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/desertthunder/spotcli/internal/shared"
	"golang.org/x/oauth2"
)

const (
	verifierBytes     = 64
	minVerifierLength = 43
	maxVerifierLength = 128
	stateBytes        = 16

	// ChallengeMethod is the only code challenge method this client sends.
	ChallengeMethod = "S256"
)

// CodeVerifier is the PKCE secret kept by the client until the token exchange.
type CodeVerifier string

// CodeChallenge is the S256 transform of a [CodeVerifier], sent with the authorization request.
type CodeChallenge string

// randReader is swapped in tests to simulate an unavailable random source.
var randReader io.Reader = rand.Reader

// GenerateVerifier returns 64 random bytes hex encoded, 128 characters.
func GenerateVerifier() (CodeVerifier, error) {
	b, err := randomBytes(verifierBytes)
	if err != nil {
		return "", err
	}
	return CodeVerifier(hex.EncodeToString(b)), nil
}

// GenerateState returns a random hex token for the authorization request's state parameter.
func GenerateState() (string, error) {
	b, err := randomBytes(stateBytes)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func randomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(randReader, b); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrGeneration, err)
	}
	return b, nil
}

// DeriveChallenge computes base64url(SHA-256(v)) without padding.
func DeriveChallenge(v CodeVerifier) (CodeChallenge, error) {
	if err := validateVerifier(v); err != nil {
		return "", err
	}
	return CodeChallenge(oauth2.S256ChallengeFromVerifier(string(v))), nil
}

func validateVerifier(v CodeVerifier) error {
	if n := len(v); n < minVerifierLength || n > maxVerifierLength {
		return fmt.Errorf("%w: length %d not in %d..%d", ErrInvalidVerifier, n, minVerifierLength, maxVerifierLength)
	}
	for i := 0; i < len(v); i++ {
		if !isUnreserved(v[i]) {
			return fmt.Errorf("%w: character %q at %d", ErrInvalidVerifier, v[i], i)
		}
	}
	return nil
}

// isUnreserved reports membership in [A-Za-z0-9-._~].
func isUnreserved(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '-', c == '.', c == '_', c == '~':
		return true
	}
	return false
}

// SecretPair holds a verifier and the challenge derived from it.
type SecretPair struct {
	Verifier  CodeVerifier
	Challenge CodeChallenge
}

// NewSecretPair generates a fresh verifier and derives its challenge.
func NewSecretPair() (*SecretPair, error) {
	v, err := GenerateVerifier()
	if err != nil {
		return nil, err
	}
	c, err := DeriveChallenge(v)
	if err != nil {
		return nil, err
	}
	return &SecretPair{Verifier: v, Challenge: c}, nil
}

// Verify reports whether the challenge is the S256 transform of the verifier.
func (p *SecretPair) Verify() bool {
	c, err := DeriveChallenge(p.Verifier)
	return err == nil && c == p.Challenge
}
