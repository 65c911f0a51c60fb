// Package x25519 implements the Curve25519 Diffie-Hellman function (RFC 7748)
// used to derive WireGuard public keys.
//
// Field elements of GF(2^255 - 19) are held in ten signed 64-bit limbs with
// alternating 26/25-bit radix: limb i is weighted 2^ceil(25.5*i). All
// operations take and return values; nothing in this package holds state.
package x25519

// FieldElement is an element of GF(2^255 - 19). Limbs may carry slack
// between operations; Bytes performs the full reduction.
type FieldElement [10]int64

// limbBits is the width of each limb in the mixed radix.
var limbBits = [10]uint{26, 25, 26, 25, 26, 25, 26, 25, 26, 25}

var (
	// Zero is the additive identity.
	Zero = FieldElement{}
	// One is the multiplicative identity.
	One = FieldElement{1}
)

// Add returns a + b. No carry is performed.
func (a FieldElement) Add(b FieldElement) FieldElement {
	var r FieldElement
	for i := range r {
		r[i] = a[i] + b[i]
	}
	return r
}

// Sub returns a - b. No carry is performed.
func (a FieldElement) Sub(b FieldElement) FieldElement {
	var r FieldElement
	for i := range r {
		r[i] = a[i] - b[i]
	}
	return r
}

// Mul returns a * b.
//
// The product of limbs i and j lands at weight 2^(w_i + w_j). When both i and
// j are odd that is one bit above w_(i+j), so the term is doubled. Terms at or
// above 2^255 wrap into the low limbs multiplied by 19, since 2^255 = 19 mod p.
func (a FieldElement) Mul(b FieldElement) FieldElement {
	var r FieldElement
	for i := 0; i < 10; i++ {
		for j := 0; j < 10; j++ {
			r.accumulate(i, j, a[i]*b[j])
		}
	}
	r.carry()
	return r
}

// Square returns a * a. Cross terms are computed once and doubled.
func (a FieldElement) Square() FieldElement {
	var r FieldElement
	for i := 0; i < 10; i++ {
		r.accumulate(i, i, a[i]*a[i])
		for j := i + 1; j < 10; j++ {
			r.accumulate(i, j, 2*a[i]*a[j])
		}
	}
	r.carry()
	return r
}

// squareN returns a^(2^n).
func (a FieldElement) squareN(n int) FieldElement {
	for i := 0; i < n; i++ {
		a = a.Square()
	}
	return a
}

// MulSmall returns a * k for a small constant k (at most 2^20).
func (a FieldElement) MulSmall(k int64) FieldElement {
	var r FieldElement
	for i := range r {
		r[i] = a[i] * k
	}
	r.carry()
	return r
}

// Equal reports whether a and b represent the same field element.
func (a FieldElement) Equal(b FieldElement) bool {
	return a.Bytes() == b.Bytes()
}

// Select returns b if cond is 1 and a if cond is 0, without branching on
// cond. Any other value of cond gives an unspecified result.
func Select(a, b FieldElement, cond int64) FieldElement {
	mask := -cond
	var r FieldElement
	for i := range r {
		r[i] = a[i] ^ (mask & (a[i] ^ b[i]))
	}
	return r
}

// accumulate adds the partial product of limbs i and j into r.
func (r *FieldElement) accumulate(i, j int, m int64) {
	if i&1 == 1 && j&1 == 1 {
		m *= 2
	}
	k := i + j
	if k >= 10 {
		k -= 10
		m *= 19
	}
	r[k] += m
}

// carry brings every limb back inside its radix. The carry out of the top
// limb re-enters limb 0 multiplied by 19; limb 1 may end one unit high.
func (r *FieldElement) carry() {
	for i := 0; i < 9; i++ {
		c := r[i] >> limbBits[i]
		r[i] -= c << limbBits[i]
		r[i+1] += c
	}
	c := r[9] >> 25
	r[9] -= c << 25
	r[0] += 19 * c

	c = r[0] >> 26
	r[0] -= c << 26
	r[1] += c
}
