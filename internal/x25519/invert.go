package x25519

// Invert returns 1/a mod p, computed as a^(p-2) = a^(2^255 - 21) with a fixed
// addition chain. Invert of zero is zero.
func (a FieldElement) Invert() FieldElement {
	z2 := a.Square()               // 2
	z9 := z2.squareN(2).Mul(a)     // 9
	z11 := z9.Mul(z2)              // 11
	z2_5_0 := z11.Square().Mul(z9) // 2^5 - 2^0
	z2_10_0 := z2_5_0.squareN(5).Mul(z2_5_0)
	z2_20_0 := z2_10_0.squareN(10).Mul(z2_10_0)
	z2_40_0 := z2_20_0.squareN(20).Mul(z2_20_0)
	z2_50_0 := z2_40_0.squareN(10).Mul(z2_10_0)
	z2_100_0 := z2_50_0.squareN(50).Mul(z2_50_0)
	z2_200_0 := z2_100_0.squareN(100).Mul(z2_100_0)
	z2_250_0 := z2_200_0.squareN(50).Mul(z2_50_0)

	// 2^255 - 2^5 + 11 = 2^255 - 21
	return z2_250_0.squareN(5).Mul(z11)
}
