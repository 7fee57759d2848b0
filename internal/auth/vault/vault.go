// Package vault provides a reversible obfuscation for strings kept in browser local storage,
// and storage wrappers that never fail their callers.
//
// The transform is obfuscation, not encryption. The keystream is a fixed application secret
// that ships with the application, so anyone who can run the application can reveal every
// stored value. Do not treat values stored through this package as protected secrets; use an
// authenticated cipher with a server-held key for that.
package vault

import (
	"encoding/base64"
	"errors"
)

// Vault applies a repeating-key XOR followed by base64.
type Vault struct {
	key []byte
}

// New constructs a Vault from the application secret.
func New(secret string) (*Vault, error) {
	if secret == "" {
		return nil, errors.New("vault secret is required")
	}
	return &Vault{key: []byte(secret)}, nil
}

// Obfuscate transforms plaintext into a storable string. Obfuscate("") == "".
func (v *Vault) Obfuscate(plaintext string) string {
	if plaintext == "" {
		return ""
	}
	return base64.StdEncoding.EncodeToString(v.xor([]byte(plaintext)))
}

// Reveal reverses Obfuscate. Malformed input yields "".
func (v *Vault) Reveal(token string) string {
	if token == "" {
		return ""
	}
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return ""
	}
	return string(v.xor(raw))
}

// xor returns a new slice; position i is combined with key[i % len(key)].
func (v *Vault) xor(in []byte) []byte {
	out := make([]byte, len(in))
	for i, b := range in {
		out[i] = b ^ v.key[i%len(v.key)]
	}
	return out
}
