// Package auth verifies the gateway's optional shared caller secret.
package auth

import (
	"crypto/subtle"
	"errors"
)

// Verifier checks a presented bearer token against the configured
// shared secret. A nil *Verifier means no secret is configured and the
// gateway is open (localhost-first design).
type Verifier struct {
	token       string
	encodedHash string
}

// NewVerifier builds a verifier from the configured secret. Exactly one
// of plaintext or encodedHash may be set; both empty yields a nil
// verifier. An encodedHash must be a well-formed argon2id hash.
func NewVerifier(plaintext, encodedHash string) (*Verifier, error) {
	if plaintext == "" && encodedHash == "" {
		return nil, nil
	}
	if plaintext != "" && encodedHash != "" {
		return nil, errors.New("configure either the plaintext secret or its hash, not both")
	}
	if encodedHash != "" {
		// Fail at startup on a malformed hash, not on first request.
		if _, _, _, err := decodeHash(encodedHash); err != nil {
			return nil, err
		}
	}
	return &Verifier{token: plaintext, encodedHash: encodedHash}, nil
}

// Verify reports whether the presented token matches the secret.
func (v *Verifier) Verify(token string) bool {
	if v == nil {
		return true
	}
	if v.encodedHash != "" {
		ok, err := VerifySecret(token, v.encodedHash)
		return err == nil && ok
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(v.token)) == 1
}
