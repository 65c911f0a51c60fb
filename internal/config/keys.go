package config

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"github.com/kuuji/wgconfig/internal/x25519"
)

// KeySize is the length in bytes of a WireGuard key (Curve25519).
const KeySize = x25519.Size

// ErrInvalidKeyLength is returned when a decoded key is not KeySize bytes.
var ErrInvalidKeyLength = errors.New("invalid key length")

// randReader is the source of key material. Tests replace it to exercise
// the failure path.
var randReader io.Reader = rand.Reader

// Key represents a WireGuard key (private, public or preshared). It is a
// 32-byte value encoded as base64 in its string representation.
type Key [KeySize]byte

// KeyData is the key material of a single WireGuard peer. The preshared key
// is unrelated to the key pair and is shared with exactly one other peer.
type KeyData struct {
	PrivateKey   Key
	PublicKey    Key
	PresharedKey Key
}

// GeneratePrivateKey generates a new random WireGuard private key.
// The key is clamped per RFC 7748 §5 for use with Curve25519.
func GeneratePrivateKey() (Key, error) {
	k, err := randomKey()
	if err != nil {
		return Key{}, err
	}
	return Key(x25519.Clamp(k)), nil
}

// GenerateSymmetricKey generates a random preshared key. The bytes are used
// as-is and never as a curve scalar, so no clamping is applied.
func GenerateSymmetricKey() (Key, error) {
	return randomKey()
}

// GenerateKeyData generates a fresh private key, its public key and an
// independent preshared key.
func GenerateKeyData() (KeyData, error) {
	priv, err := GeneratePrivateKey()
	if err != nil {
		return KeyData{}, fmt.Errorf("generating private key: %w", err)
	}
	psk, err := GenerateSymmetricKey()
	if err != nil {
		return KeyData{}, fmt.Errorf("generating preshared key: %w", err)
	}
	return KeyData{
		PrivateKey:   priv,
		PublicKey:    PublicKey(priv),
		PresharedKey: psk,
	}, nil
}

// PublicKey derives the Curve25519 public key from a private key. The
// private key is clamped first, as `wg pubkey` does; keys produced by
// GeneratePrivateKey are already clamped.
func PublicKey(private Key) Key {
	return Key(x25519.ScalarBaseMult(x25519.Clamp(private)))
}

// DerivePublicKey decodes a base64 private key and returns the base64
// public key. A decoded length other than KeySize yields ErrInvalidKeyLength.
func DerivePublicKey(privateKey string) (string, error) {
	priv, err := ParseKey(privateKey)
	if err != nil {
		return "", err
	}
	return PublicKey(priv).String(), nil
}

// ParseKey decodes a base64-encoded key string into a Key.
func ParseKey(s string) (Key, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return Key{}, fmt.Errorf("decoding base64 key: %w", err)
	}
	if len(b) != KeySize {
		return Key{}, fmt.Errorf("%w: got %d, want %d", ErrInvalidKeyLength, len(b), KeySize)
	}
	var k Key
	copy(k[:], b)
	return k, nil
}

// String returns the base64-encoded representation of the key.
func (k Key) String() string {
	return base64.StdEncoding.EncodeToString(k[:])
}

// IsZero reports whether the key is the zero value (all zeros).
func (k Key) IsZero() bool {
	var zero Key
	return k == zero
}

// MarshalText implements encoding.TextMarshaler for seamless TOML encoding.
func (k Key) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler for seamless TOML decoding.
func (k *Key) UnmarshalText(text []byte) error {
	parsed, err := ParseKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

func randomKey() (Key, error) {
	var k Key
	if _, err := io.ReadFull(randReader, k[:]); err != nil {
		return Key{}, fmt.Errorf("reading random bytes: %w", err)
	}
	return k, nil
}
