package circuit

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/test"
	"github.com/stretchr/testify/require"
)

type lessThanCircuit struct {
	A, B     frontend.Variable
	Expected frontend.Variable
	Bits     int `gnark:"-"`
}

func (c *lessThanCircuit) Define(api frontend.API) error {
	api.AssertIsEqual(lessThan(api, c.A, c.B, c.Bits), c.Expected)
	return nil
}

func TestLessThan(t *testing.T) {
	top := new(big.Int).Sub(pow2(CLAIM_ID_BITS), big.NewInt(1))
	below := new(big.Int).Sub(top, big.NewInt(1))

	cases := []struct {
		name     string
		a, b     any
		bits     int
		expected int
		solved   bool
	}{
		{"less", 1, 2, COUNT_BITS, 1, true},
		{"equal", 2, 2, COUNT_BITS, 0, true},
		{"greater", 3, 2, COUNT_BITS, 0, true},
		{"zero vs zero", 0, 0, COUNT_BITS, 0, true},
		{"wide less", below, top, CLAIM_ID_BITS, 1, true},
		{"wide greater", top, below, CLAIM_ID_BITS, 0, true},
		{"wrong answer", 1, 2, COUNT_BITS, 0, false},
		{"difference too wide", 1 << 20, 0, COUNT_BITS, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := test.IsSolved(
				&lessThanCircuit{Bits: tc.bits},
				&lessThanCircuit{A: tc.a, B: tc.b, Expected: tc.expected},
				ecc.BN254.ScalarField(),
			)
			if tc.solved {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
			}
		})
	}
}

type selectCircuit struct {
	Mask, A, B frontend.Variable
	Expected   frontend.Variable
}

func (c *selectCircuit) Define(api frontend.API) error {
	api.AssertIsEqual(selectMask(api, c.Mask, c.A, c.B), c.Expected)
	api.AssertIsEqual(exempt(api, 0, not(api, c.Mask)), c.Mask)
	return nil
}

func TestSelectMask(t *testing.T) {
	field := ecc.BN254.ScalarField()
	require.NoError(t, test.IsSolved(&selectCircuit{}, &selectCircuit{Mask: 1, A: 11, B: 22, Expected: 11}, field))
	require.NoError(t, test.IsSolved(&selectCircuit{}, &selectCircuit{Mask: 0, A: 11, B: 22, Expected: 22}, field))
	require.Error(t, test.IsSolved(&selectCircuit{}, &selectCircuit{Mask: 0, A: 11, B: 22, Expected: 11}, field))
}

type addLoCircuit struct {
	Fees   [3]frontend.Variable
	Hi, Lo frontend.Variable
}

func (c *addLoCircuit) Define(api frontend.API) error {
	total := zeroHiLo()
	for _, f := range c.Fees {
		total = total.addLo(api, f)
	}
	api.AssertIsEqual(total.Hi, c.Hi)
	api.AssertIsEqual(total.Lo, c.Lo)
	return nil
}

func TestAddLoCarry(t *testing.T) {
	field := ecc.BN254.ScalarField()
	maxLo := new(big.Int).Sub(pow2(LIMB_BITS), big.NewInt(1))

	cases := []struct {
		name   string
		fees   [3]any
		hi, lo any
	}{
		{"no carry", [3]any{1, 2, 3}, 0, 6},
		{"exact wrap", [3]any{maxLo, 1, 0}, 1, 0},
		{"double carry", [3]any{maxLo, maxLo, 2}, 2, 0},
		{"halves", [3]any{pow2(127), pow2(127), 5}, 1, 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var w addLoCircuit
			for i, f := range tc.fees {
				w.Fees[i] = f
			}
			w.Hi, w.Lo = tc.hi, tc.lo
			require.NoError(t, test.IsSolved(&addLoCircuit{}, &w, field))
		})
	}
}
