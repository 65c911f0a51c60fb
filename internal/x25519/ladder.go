package x25519

// a24 is (486662 - 2) / 4, the doubling constant of Curve25519.
const a24 = 121665

// ScalarMult returns scalar * P where u is the affine u-coordinate of P.
// The scalar is used as given; callers clamp it when required.
//
// The ladder keeps two projective x-only points in slots 0 and 1 whose
// difference is always P. For every bit b, from bit 255 down to bit 0, the
// point in slot b is doubled and slot 1-b receives the sum of both. Slot
// selection is done with Select rather than by indexing on the bit.
func ScalarMult(scalar [32]byte, u FieldElement) FieldElement {
	var x, z [2]FieldElement
	x[0], z[0] = One, Zero
	x[1], z[1] = u, One

	for pos := 255; pos >= 0; pos-- {
		bit := int64(scalar[pos>>3]>>(pos&7)) & 1

		dblX, dblZ := Select(x[0], x[1], bit), Select(z[0], z[1], bit)
		addX, addZ := Select(x[1], x[0], bit), Select(z[1], z[0], bit)

		addX, addZ = differentialAdd(addX, addZ, dblX, dblZ, u)
		dblX, dblZ = double(dblX, dblZ)

		x[0], z[0] = Select(dblX, addX, bit), Select(dblZ, addZ, bit)
		x[1], z[1] = Select(addX, dblX, bit), Select(addZ, dblZ, bit)
	}

	return x[0].Mul(z[0].Invert())
}

// differentialAdd returns the sum of (ax:az) and (bx:bz) given that their
// difference has affine u-coordinate u.
func differentialAdd(ax, az, bx, bz, u FieldElement) (FieldElement, FieldElement) {
	da := ax.Sub(az).Mul(bx.Add(bz))
	cb := ax.Add(az).Mul(bx.Sub(bz))
	return da.Add(cb).Square(), da.Sub(cb).Square().Mul(u)
}

// double returns 2 * (x:z).
func double(x, z FieldElement) (FieldElement, FieldElement) {
	aa := x.Add(z).Square()
	bb := x.Sub(z).Square()
	e := aa.Sub(bb)
	return aa.Mul(bb), e.Mul(aa.Add(e.MulSmall(a24)))
}
