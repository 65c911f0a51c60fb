package x25519

// Size is the length in bytes of scalars and u-coordinates.
const Size = 32

// Basepoint is the canonical Curve25519 generator, u = 9.
var Basepoint = [Size]byte{9}

// Clamp returns the scalar with the low three bits cleared, bit 255 cleared
// and bit 254 set (RFC 7748 §5).
func Clamp(scalar [Size]byte) [Size]byte {
	scalar[0] &= 248
	scalar[31] &= 127
	scalar[31] |= 64
	return scalar
}

// X25519 multiplies the point with encoded u-coordinate point by scalar and
// returns the encoded result. The scalar is not clamped.
func X25519(scalar, point [Size]byte) [Size]byte {
	return ScalarMult(scalar, FromBytes(point)).Bytes()
}

// ScalarBaseMult returns X25519(scalar, Basepoint).
func ScalarBaseMult(scalar [Size]byte) [Size]byte {
	return X25519(scalar, Basepoint)
}
