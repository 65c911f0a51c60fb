package config

import (
	"encoding/base64"
	"errors"
	"testing"

	"golang.org/x/crypto/curve25519"
	"golang.zx2c4.com/wireguard/wgctrl/wgtypes"
)

// knownKeys maps private keys to the public keys `wg pubkey` derives.
var knownKeys = map[string]string{
	"oB2yte8v6Edhi3t3DeHX+LEfpRGi1jVb6FYTeheQ9XI=": "HfqqvO1mk4gx2bLDO6tPxTNHl6oi7Z42YLUaLj/Oe0Y=",
	"YDYr+o/wLbovtba446v27X//NM4szFqXdij1dKLlPl8=": "oWX4rcyZHyQAwLRG7l4tZWgRamSPhXhfurx+y3bYAGY=",
	"GOYViPkGsghgYGdUCVaCqvp4qTkKQ3tfPEUdCv/NT14=": "YWeFxQabAS+sKyxqJGHothzNZxdyhEPXYyBx/DtLb24=",
	"oKNRZnxqn6uIpQDm58xsngQtuy8Ed0tzQbsfAUZYenQ=": "+UmPSdIVMLiIpe5WNngz5Gp85bAitD1aq0SW69D5WFU=",
	"QFGPYiCQE/l92/1Kea1RASI+N/wKrlFypgBNahpE438=": "drKPmk5gSAGr77Nd7/oCsahsHFZmKfFisfmzMpvmzFs=",
	"gFxQ2NGOJDjOww84Ye4x9Y5khSGTrTKfpJr7ODeOAEs=": "9y05bruujPguw4FFJ+JM5uHqn3IziMPTk8ag8Xpv/X8=",
	"aCaXfvXjUpsb9MEClv6F59XoC4/9xPvp7lCUfz0n00Y=": "np0SHP6UIjvEBhNs2yJrMlqAb0w5vw64KK0sjj+AcWE=",
	"yF+hep+SSWf3iVAD8AgFA7qV1KFOXprmFosh6h04Vlc=": "+T64sgnEGBsixpov0ovMNe11yThM2zkf09G8NTnbiAo=",
	"sOdE3Tm4af1c5AUL624wdNtAR/jwV+Fdb6UqWzMSnmQ=": "Da29TizW/FfqUb4RfaJDOFkRo97W78GslypQbKL7tDQ=",
	"OOzuuGFc6uug5gy/5GY5QDyqheWRYDAAJQz/LBcWZHI=": "nkqKSbuLFwYNY/2QA+C+gvRIOnc0aYowROwZmftD+Gc=",
	"iAMBbzRD8ThURLaD4zI/XTbEN8eGE0Hg4KOh0nrZqnI=": "m/4VkymgSpp8k8bBNQmKnYY0Y6at8ttNlr+Wm4v7gzc=",
	"YCfrE2SwOb4skiAFIFFpYA85WR1qR5nJmVySAHusilA=": "LATS8VywXK8813rVTdn1xfB/i3QFcY8/9BGloi++2ho=",
	"+I05d4noKVZ1sAopMLn3NBysHEPdmfWyGSuoR1GKj2g=": "g8UNfQYTOwhQ73XQRSdlOlsiXIY7Q4nscrdyZeHFjhQ=",
	"AAPEMoFI13vgwge4UhpTTnYQHAaHnYbgJHWoKjZ5Y28=": "+IU+ONtYsi4sVPNY4Xdcyoc9Q+YbTShMdZMt2+s9MRI=",
	"4DVgmYHhWdjieJY20VvWPocR7IIv0/HuPl1DXRTd4mU=": "UtPY7Cq7G38SXdg1l1UTzsdg48taFYetMZXoa4rmZAg=",
}

func TestGeneratePrivateKey(t *testing.T) {
	t.Parallel()

	for i := 0; i < 100; i++ {
		k, err := GeneratePrivateKey()
		if err != nil {
			t.Fatalf("GeneratePrivateKey() error: %v", err)
		}

		if k.IsZero() {
			t.Fatal("generated key is zero")
		}

		// Verify clamping per RFC 7748 §5.
		if k[0]&7 != 0 {
			t.Errorf("key[0] low 3 bits not cleared: 0x%02x", k[0])
		}
		if k[31]&128 != 0 {
			t.Errorf("key[31] high bit not cleared: 0x%02x", k[31])
		}
		if k[31]&64 == 0 {
			t.Errorf("key[31] bit 6 not set: 0x%02x", k[31])
		}
	}
}

func TestGeneratePrivateKey_unique(t *testing.T) {
	t.Parallel()

	k1, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("GeneratePrivateKey() error: %v", err)
	}
	k2, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("GeneratePrivateKey() error: %v", err)
	}

	if k1 == k2 {
		t.Fatal("two generated keys are identical")
	}
}

func TestGenerateSymmetricKey(t *testing.T) {
	t.Parallel()

	k1, err := GenerateSymmetricKey()
	if err != nil {
		t.Fatalf("GenerateSymmetricKey() error: %v", err)
	}
	k2, err := GenerateSymmetricKey()
	if err != nil {
		t.Fatalf("GenerateSymmetricKey() error: %v", err)
	}
	if k1 == k2 {
		t.Fatal("two generated preshared keys are identical")
	}

	decoded, err := base64.StdEncoding.DecodeString(k1.String())
	if err != nil {
		t.Fatalf("String() produced invalid base64: %v", err)
	}
	if len(decoded) != KeySize {
		t.Fatalf("decoded preshared key is %d bytes, want %d", len(decoded), KeySize)
	}
}

func TestGenerateSymmetricKey_unclamped(t *testing.T) {
	// Not parallel: replaces the package random source.
	orig := randReader
	t.Cleanup(func() { randReader = orig })

	randReader = constReader(0xff)

	k, err := GenerateSymmetricKey()
	if err != nil {
		t.Fatalf("GenerateSymmetricKey() error: %v", err)
	}
	for i, b := range k {
		if b != 0xff {
			t.Fatalf("byte %d = 0x%02x, preshared key must not be clamped", i, b)
		}
	}

	priv, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("GeneratePrivateKey() error: %v", err)
	}
	if priv[0] != 0xf8 || priv[31] != 0x7f {
		t.Fatalf("private key not clamped: first 0x%02x last 0x%02x", priv[0], priv[31])
	}
}

func TestGenerate_randomFailure(t *testing.T) {
	orig := randReader
	t.Cleanup(func() { randReader = orig })

	randReader = failingReader{}

	if _, err := GeneratePrivateKey(); err == nil {
		t.Error("GeneratePrivateKey() expected error when random source fails")
	}
	if _, err := GenerateSymmetricKey(); err == nil {
		t.Error("GenerateSymmetricKey() expected error when random source fails")
	}
	if _, err := GenerateKeyData(); err == nil {
		t.Error("GenerateKeyData() expected error when random source fails")
	}
}

func TestGenerateKeyData(t *testing.T) {
	t.Parallel()

	kd, err := GenerateKeyData()
	if err != nil {
		t.Fatalf("GenerateKeyData() error: %v", err)
	}

	if kd.PublicKey != PublicKey(kd.PrivateKey) {
		t.Error("public key does not match private key")
	}
	if kd.PresharedKey == kd.PrivateKey || kd.PresharedKey == kd.PublicKey {
		t.Error("preshared key is related to the key pair")
	}
}

func TestPublicKey_deterministic(t *testing.T) {
	t.Parallel()

	priv, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("GeneratePrivateKey() error: %v", err)
	}

	pub1 := PublicKey(priv)
	pub2 := PublicKey(priv)

	if pub1 != pub2 {
		t.Fatal("PublicKey is not deterministic")
	}

	if pub1.IsZero() {
		t.Fatal("public key is zero")
	}

	if pub1 == priv {
		t.Fatal("public key equals private key")
	}
}

func TestPublicKey_knownVector(t *testing.T) {
	t.Parallel()

	// RFC 7748 §6.1 test vector: Alice's private key → public key.
	privHex := []byte{
		0x77, 0x07, 0x6d, 0x0a, 0x73, 0x18, 0xa5, 0x7d,
		0x3c, 0x16, 0xc1, 0x72, 0x51, 0xb2, 0x66, 0x45,
		0xdf, 0x4c, 0x2f, 0x87, 0xeb, 0xc0, 0x99, 0x2a,
		0xb1, 0x77, 0xfb, 0xa5, 0x1d, 0xb9, 0x2c, 0x2a,
	}
	wantPubHex := []byte{
		0x85, 0x20, 0xf0, 0x09, 0x89, 0x30, 0xa7, 0x54,
		0x74, 0x8b, 0x7d, 0xdc, 0xb4, 0x3e, 0xf7, 0x5a,
		0x0d, 0xbf, 0x3a, 0x0d, 0x26, 0x38, 0x1a, 0xf4,
		0xeb, 0xa4, 0xa9, 0x8e, 0xaa, 0x9b, 0x4e, 0x6a,
	}

	var priv Key
	copy(priv[:], privHex)

	pub := PublicKey(priv)

	var wantPub Key
	copy(wantPub[:], wantPubHex)

	if pub != wantPub {
		t.Errorf("PublicKey mismatch:\n got  %x\n want %x", pub[:], wantPub[:])
	}
}

func TestDerivePublicKey_knownKeys(t *testing.T) {
	t.Parallel()

	for priv, want := range knownKeys {
		got, err := DerivePublicKey(priv)
		if err != nil {
			t.Fatalf("DerivePublicKey(%s) error: %v", priv, err)
		}
		if got != want {
			t.Errorf("DerivePublicKey(%s) = %s, want %s", priv, got, want)
		}
	}
}

func TestDerivePublicKey_matchesReference(t *testing.T) {
	t.Parallel()

	for i := 0; i < 1000; i++ {
		var priv, wantPub string
		if i%2 == 0 {
			k, err := wgtypes.GeneratePrivateKey()
			if err != nil {
				t.Fatalf("wgtypes.GeneratePrivateKey() error: %v", err)
			}
			priv, wantPub = k.String(), k.PublicKey().String()
		} else {
			k, err := GeneratePrivateKey()
			if err != nil {
				t.Fatalf("GeneratePrivateKey() error: %v", err)
			}
			priv = k.String()
			ref, err := wgtypes.ParseKey(priv)
			if err != nil {
				t.Fatalf("wgtypes.ParseKey() error: %v", err)
			}
			wantPub = ref.PublicKey().String()
		}

		got, err := DerivePublicKey(priv)
		if err != nil {
			t.Fatalf("DerivePublicKey() error: %v", err)
		}
		if got != wantPub {
			t.Fatalf("DerivePublicKey(%s) = %s, reference %s", priv, got, wantPub)
		}
	}
}

func TestPublicKey_clampsLikeWG(t *testing.T) {
	t.Parallel()

	// An unclamped private key must derive the same public key as the
	// reference, which clamps internally.
	var priv Key
	for i := range priv {
		priv[i] = byte(i*7 + 3)
	}
	priv[0] |= 7
	priv[31] |= 128

	want, err := curve25519.X25519(priv[:], curve25519.Basepoint)
	if err != nil {
		t.Fatalf("curve25519.X25519() error: %v", err)
	}
	got := PublicKey(priv)
	if string(got[:]) != string(want) {
		t.Errorf("PublicKey mismatch:\n got  %x\n want %x", got[:], want)
	}
}

func TestDerivePublicKey_invalidLength(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, 16, 31, 33, 64} {
		in := base64.StdEncoding.EncodeToString(make([]byte, n))
		_, err := DerivePublicKey(in)
		if !errors.Is(err, ErrInvalidKeyLength) {
			t.Errorf("DerivePublicKey(%d bytes) error = %v, want ErrInvalidKeyLength", n, err)
		}
	}
}

func TestDerivePublicKey_invalidBase64(t *testing.T) {
	t.Parallel()

	_, err := DerivePublicKey("not-valid-base64!!!")
	if err == nil {
		t.Fatal("DerivePublicKey() expected error for invalid base64")
	}
	if errors.Is(err, ErrInvalidKeyLength) {
		t.Fatal("invalid base64 should not be reported as a length error")
	}
}

func TestParseKey_roundTrip(t *testing.T) {
	t.Parallel()

	orig, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("GeneratePrivateKey() error: %v", err)
	}

	s := orig.String()

	// Verify it's valid base64 of the right length.
	decoded, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		t.Fatalf("String() produced invalid base64: %v", err)
	}
	if len(decoded) != KeySize {
		t.Fatalf("String() produced %d decoded bytes, want %d", len(decoded), KeySize)
	}

	parsed, err := ParseKey(s)
	if err != nil {
		t.Fatalf("ParseKey() error: %v", err)
	}

	if parsed != orig {
		t.Errorf("round-trip mismatch:\n orig   %s\n parsed %s", orig, parsed)
	}
}

func TestParseKey_wrongLength(t *testing.T) {
	t.Parallel()

	// 16 bytes encoded as base64, wrong length.
	short := base64.StdEncoding.EncodeToString(make([]byte, 16))
	_, err := ParseKey(short)
	if err == nil {
		t.Fatal("ParseKey() expected error for wrong-length key")
	}
}

func TestKey_IsZero(t *testing.T) {
	t.Parallel()

	var zero Key
	if !zero.IsZero() {
		t.Fatal("zero key should report IsZero() == true")
	}

	nonZero, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("GeneratePrivateKey() error: %v", err)
	}
	if nonZero.IsZero() {
		t.Fatal("generated key should report IsZero() == false")
	}
}

func TestKey_MarshalText_roundTrip(t *testing.T) {
	t.Parallel()

	orig, err := GenerateSymmetricKey()
	if err != nil {
		t.Fatalf("GenerateSymmetricKey() error: %v", err)
	}

	text, err := orig.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText() error: %v", err)
	}

	var decoded Key
	if err := decoded.UnmarshalText(text); err != nil {
		t.Fatalf("UnmarshalText() error: %v", err)
	}

	if decoded != orig {
		t.Errorf("MarshalText/UnmarshalText round-trip mismatch")
	}
}

func TestKey_UnmarshalText_invalid(t *testing.T) {
	t.Parallel()

	var k Key
	if err := k.UnmarshalText([]byte("garbage")); err == nil {
		t.Fatal("UnmarshalText() expected error for invalid input")
	}
}

type constReader byte

func (c constReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(c)
	}
	return len(p), nil
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("entropy exhausted")
}
