package x25519

// FromBytes unpacks a 32-byte little-endian value into a field element.
// The most significant bit is ignored, as RFC 7748 §5 requires for
// u-coordinates. Values in [p, 2^255) are accepted unreduced.
func FromBytes(in [32]byte) FieldElement {
	var r FieldElement
	var off uint
	for i := range r {
		r[i] = loadBits(&in, off, limbBits[i])
		off += limbBits[i]
	}
	return r
}

// loadBits reads width bits starting at bit offset off.
func loadBits(in *[32]byte, off, width uint) int64 {
	start := off / 8
	var v uint64
	for i := uint(0); i < 5 && start+i < 32; i++ {
		v |= uint64(in[start+i]) << (8 * i)
	}
	return int64((v >> (off % 8)) & (1<<width - 1))
}

// Bytes packs the field element into its canonical 32-byte little-endian
// encoding, fully reduced into [0, p).
func (a FieldElement) Bytes() [32]byte {
	h := a
	// Two passes leave every limb non-negative and the value in [0, 2p).
	h.carry()
	h.carry()

	// q = floor((h + 19) / 2^255) is 1 exactly when h >= p.
	q := (h[0] + 19) >> 26
	for i := 1; i < 10; i++ {
		q = (h[i] + q) >> limbBits[i]
	}

	// h - q*p = h + 19q - q*2^255. The final carry out of limb 9 is the
	// 2^255 term and is dropped.
	h[0] += 19 * q
	for i := 0; i < 9; i++ {
		c := h[i] >> limbBits[i]
		h[i] -= c << limbBits[i]
		h[i+1] += c
	}
	h[9] &= 1<<25 - 1

	var out [32]byte
	var acc uint64
	var n uint
	pos := 0
	for i := range h {
		acc |= uint64(h[i]) << n
		n += limbBits[i]
		for n >= 8 {
			out[pos] = byte(acc)
			acc >>= 8
			n -= 8
			pos++
		}
	}
	out[pos] = byte(acc)
	return out
}
