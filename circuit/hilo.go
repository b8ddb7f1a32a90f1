package circuit

import (
	"github.com/consensys/gnark/frontend"

	"github.com/axiom-crypto/axiom-kwenta-incentives/claim"
)

// HiLo carries a 256-bit word as two 128-bit limbs, hi·2^128 + lo. A
// single BN254 element cannot hold 256 bits.
type HiLo struct {
	Hi frontend.Variable
	Lo frontend.Variable
}

func (h HiLo) limb(l claim.Limb) frontend.Variable {
	if l == claim.LimbHi {
		return h.Hi
	}
	return h.Lo
}

func (h HiLo) mask(api frontend.API, m frontend.Variable) HiLo {
	return HiLo{Hi: maskOrZero(api, m, h.Hi), Lo: maskOrZero(api, m, h.Lo)}
}

// eqConst compares against a constant word limb by limb.
func (h HiLo) eqConst(api frontend.API, c claim.HiLo) frontend.Variable {
	return and(api, eq(api, h.Hi, c.Hi.ToBig()), eq(api, h.Lo, c.Lo.ToBig()))
}

// addLo adds lo (< 2^128) into the low limb and propagates the carry into
// the high limb, keeping the low limb normalised below 2^128.
func (h HiLo) addLo(api frontend.API, lo frontend.Variable) HiLo {
	sum := api.Add(h.Lo, lo)
	overflow := not(api, lessThan(api, sum, pow2(128), LIMB_BITS+1))
	return HiLo{
		Hi: api.Add(h.Hi, overflow),
		Lo: api.Sub(sum, api.Mul(overflow, pow2(128))),
	}
}

func zeroHiLo() HiLo { return HiLo{Hi: 0, Lo: 0} }

func assignHiLo(v claim.HiLo) HiLo {
	return HiLo{Hi: v.Hi.ToBig(), Lo: v.Lo.ToBig()}
}
