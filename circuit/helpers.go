package circuit

import (
	"math/big"

	"github.com/consensys/gnark/frontend"
)

// -----------------------------------------------------------------------------
//
//	Helper Primitives
//
// -----------------------------------------------------------------------------
func isZero(api frontend.API, v frontend.Variable) frontend.Variable {
	return api.IsZero(v)
}

func eq(api frontend.API, a, b frontend.Variable) frontend.Variable {
	return isZero(api, api.Sub(a, b))
}

func orBitwise(api frontend.API, a, b frontend.Variable) frontend.Variable {
	return api.Sub(api.Add(a, b), api.Mul(a, b))
}

func and(api frontend.API, a, b frontend.Variable) frontend.Variable {
	return api.And(a, b)
}

func not(api frontend.API, a frontend.Variable) frontend.Variable {
	return api.Sub(1, a)
}

// selectMask returns a when mask is 1 and b when mask is 0.
func selectMask(api frontend.API, mask, a, b frontend.Variable) frontend.Variable {
	return api.Add(b, api.Mul(mask, api.Sub(a, b)))
}

// maskOrZero is selectMask against 0, i.e. mask·v.
func maskOrZero(api frontend.API, mask, v frontend.Variable) frontend.Variable {
	return selectMask(api, mask, v, 0)
}

// exempt turns a check into ok OR NOT(active) so padding slots always pass.
func exempt(api frontend.API, ok, active frontend.Variable) frontend.Variable {
	return orBitwise(api, ok, not(api, active))
}

// lessThan returns 1 iff a < b. Both a and b must fit in nbBits bits: the
// shifted difference a - b + 2^nbBits is decomposed into nbBits+1 bits and
// its top bit is set exactly when a >= b. A difference outside
// (-2^nbBits, 2^nbBits) makes the decomposition unsatisfiable.
func lessThan(api frontend.API, a, b frontend.Variable, nbBits int) frontend.Variable {
	diff := api.Add(api.Sub(a, b), pow2(uint(nbBits)))
	bits := api.ToBinary(diff, nbBits+1)
	return not(api, bits[nbBits])
}

func pow2(n uint) *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), n)
}
