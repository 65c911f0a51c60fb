package x25519

import (
	"math/big"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fieldPrime, _ = new(big.Int).SetString("57896044618658097711785492504343953926634992332820282019728792003956564819949", 10)

// testRand returns a deterministic byte source for field element tests.
func testRand(t *testing.T) *rand.ChaCha8 {
	t.Helper()
	var seed [32]byte
	copy(seed[:], t.Name())
	return rand.NewChaCha8(seed)
}

func randomElement(r *rand.ChaCha8) FieldElement {
	var b [32]byte
	_, _ = r.Read(b[:])
	return FromBytes(b)
}

func toBig(a FieldElement) *big.Int {
	b := a.Bytes()
	slices.Reverse(b[:])
	return new(big.Int).SetBytes(b[:])
}

func fromBig(n *big.Int) [32]byte {
	var out [32]byte
	n.FillBytes(out[:])
	slices.Reverse(out[:])
	return out
}

func TestSquareMatchesMul(t *testing.T) {
	t.Parallel()

	r := testRand(t)
	for i := 0; i < 500; i++ {
		a := randomElement(r)
		require.Equal(t, a.Mul(a).Bytes(), a.Square().Bytes(), "element %d", i)
	}
}

func TestArithmeticMatchesBigInt(t *testing.T) {
	t.Parallel()

	r := testRand(t)
	for i := 0; i < 200; i++ {
		a, b := randomElement(r), randomElement(r)
		ab, bb := toBig(a), toBig(b)

		sum := new(big.Int).Add(ab, bb)
		assert.Equal(t, sum.Mod(sum, fieldPrime), toBig(a.Add(b)), "add")

		diff := new(big.Int).Sub(ab, bb)
		assert.Equal(t, diff.Mod(diff, fieldPrime), toBig(a.Sub(b)), "sub")

		prod := new(big.Int).Mul(ab, bb)
		assert.Equal(t, prod.Mod(prod, fieldPrime), toBig(a.Mul(b)), "mul")

		small := new(big.Int).Mul(ab, big.NewInt(a24))
		assert.Equal(t, small.Mod(small, fieldPrime), toBig(a.MulSmall(a24)), "mul small")
	}
}

func TestInvert(t *testing.T) {
	t.Parallel()

	r := testRand(t)
	for i := 0; i < 50; i++ {
		a := randomElement(r)
		if a.Equal(Zero) {
			continue
		}
		require.Equal(t, One.Bytes(), a.Mul(a.Invert()).Bytes(), "element %d", i)
	}
}

func TestInvert_zero(t *testing.T) {
	t.Parallel()

	assert.Equal(t, [32]byte{}, Zero.Invert().Bytes())
}

func TestInvert_one(t *testing.T) {
	t.Parallel()

	assert.Equal(t, One.Bytes(), One.Invert().Bytes())
}

func TestBytes_roundTrip(t *testing.T) {
	t.Parallel()

	r := testRand(t)
	for i := 0; i < 500; i++ {
		var v [32]byte
		_, _ = r.Read(v[:])
		v[31] &= 127
		be := v
		slices.Reverse(be[:])
		if new(big.Int).SetBytes(be[:]).Cmp(fieldPrime) >= 0 {
			continue
		}
		require.Equal(t, v, FromBytes(v).Bytes(), "value %x", v)
	}

	edges := []*big.Int{
		big.NewInt(0),
		big.NewInt(1),
		big.NewInt(19),
		new(big.Int).Sub(fieldPrime, big.NewInt(1)),
		new(big.Int).Lsh(big.NewInt(1), 254),
	}
	for _, n := range edges {
		v := fromBig(n)
		assert.Equal(t, v, FromBytes(v).Bytes(), "value %s", n)
	}
}

func TestBytes_nonCanonical(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   *big.Int
		want int64
	}{
		{"p", fieldPrime, 0},
		{"p+1", new(big.Int).Add(fieldPrime, big.NewInt(1)), 1},
		{"2^255-1", new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 255), big.NewInt(1)), 18},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := FromBytes(fromBig(tt.in)).Bytes()
			assert.Equal(t, fromBig(big.NewInt(tt.want)), got)
		})
	}
}

func TestBytes_negativeLimbs(t *testing.T) {
	t.Parallel()

	// 0 - 1 must encode as p - 1.
	got := Zero.Sub(One).Bytes()
	assert.Equal(t, fromBig(new(big.Int).Sub(fieldPrime, big.NewInt(1))), got)
}

func TestFromBytes_ignoresTopBit(t *testing.T) {
	t.Parallel()

	var v [32]byte
	v[0] = 5
	w := v
	w[31] |= 128
	assert.Equal(t, FromBytes(v), FromBytes(w))
}

func TestSelect(t *testing.T) {
	t.Parallel()

	r := testRand(t)
	a, b := randomElement(r), randomElement(r)
	assert.Equal(t, a, Select(a, b, 0))
	assert.Equal(t, b, Select(a, b, 1))
}
