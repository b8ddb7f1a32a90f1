// Package circuit defines the gnark circuit that validates and aggregates
// a batch of Kwenta ConditionalOrderExecuted claims.
//
// The circuit proves, for the first NumClaims of MAX_CLAIMS slots, that:
//  1. claim identifiers are strictly increasing (so no claim repeats),
//  2. every log was emitted by the reference contract with the expected
//     event schema,
//  3. every log carries the account of the first claim,
//
// and exposes the first and last claim identifiers, the account and the
// summed fee as public inputs. Every slot is processed unconditionally;
// padding slots are neutralised with {0,1} masks, so the work is constant
// regardless of how many claims are active.
package circuit

import (
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/math/cmp"
	"github.com/consensys/gnark/std/rangecheck"
	"github.com/consensys/gnark/std/selector"

	"github.com/axiom-crypto/axiom-kwenta-incentives/claim"
)

// -----------------------------------------------------------------------------
//
//	Static Parameters
//
// -----------------------------------------------------------------------------
const (
	MAX_CLAIMS     = claim.MaxClaims
	MAX_DATA_WORDS = claim.MaxDataWords

	REF_BITS      = 64  // block number, tx index, log index
	CLAIM_ID_BITS = 192 // three packed REF_BITS limbs
	LIMB_BITS     = 128 // one half of a 256-bit word
	COUNT_BITS    = 16  // NumClaims comparisons
)

// LogWitness is the resolved log for one slot. It is supplied by the log
// lookup collaborator and trusted as authenticated.
type LogWitness struct {
	Address frontend.Variable
	Schema  HiLo
	Data    [MAX_DATA_WORDS]HiLo
}

// ClaimCircuit bundles the batch, the resolved logs and the public result.
type ClaimCircuit struct {
	// Public outputs
	FirstClaimID frontend.Variable `gnark:",public"`
	LastClaimID  frontend.Variable `gnark:",public"`
	AccountID    frontend.Variable `gnark:",public"`
	TotalFeeHi   frontend.Variable `gnark:",public"`
	TotalFeeLo   frontend.Variable `gnark:",public"`

	// Batch descriptor
	NumClaims    frontend.Variable
	BlockNumbers [MAX_CLAIMS]frontend.Variable
	TxIndexes    [MAX_CLAIMS]frontend.Variable
	LogIndexes   [MAX_CLAIMS]frontend.Variable

	// Resolved logs, one per slot (padding slots included)
	Logs [MAX_CLAIMS]LogWitness

	// Build-time constants
	Params claim.Params `gnark:"-"`
	Debug  bool         `gnark:"-"`
}

// NewClaimCircuit returns the circuit definition for p. The same value is
// used for compilation and for the test engine; assignments do not need
// Params.
func NewClaimCircuit(p claim.Params) *ClaimCircuit {
	return &ClaimCircuit{Params: p}
}

// -----------------------------------------------------------------------------
//
//	Main Circuit Logic
//
// -----------------------------------------------------------------------------
func (c *ClaimCircuit) Define(api frontend.API) error {
	if err := c.Params.Validate(); err != nil {
		return err
	}
	rc := rangecheck.New(api)

	c.checkBounds(api)
	ids, active := c.claimIDs(api, rc)
	c.checkOrdering(api, ids)
	account := c.checkProvenance(api, active)
	total := c.aggregateFees(api, rc, active)
	c.assertOutputs(api, ids, account, total)

	return nil
}

// checkBounds enforces 0 < NumClaims <= MAX_CLAIMS.
func (c *ClaimCircuit) checkBounds(api frontend.API) {
	api.AssertIsEqual(lessThan(api, 0, c.NumClaims, COUNT_BITS), 1)
	api.AssertIsEqual(lessThan(api, c.NumClaims, MAX_CLAIMS+1, COUNT_BITS), 1)
}

// claimIDs packs every slot into blockNumber·2^128 + txIndex·2^64 + logIndex
// and zeroes the padding slots.
func (c *ClaimCircuit) claimIDs(api frontend.API, rc frontend.Rangechecker) (ids, active [MAX_CLAIMS]frontend.Variable) {
	for i := 0; i < MAX_CLAIMS; i++ {
		rc.Check(c.BlockNumbers[i], REF_BITS)
		rc.Check(c.TxIndexes[i], REF_BITS)
		rc.Check(c.LogIndexes[i], REF_BITS)

		packed := api.Add(api.Mul(c.BlockNumbers[i], pow2(REF_BITS)), c.TxIndexes[i])
		id := api.Add(api.Mul(packed, pow2(REF_BITS)), c.LogIndexes[i])

		active[i] = cmp.IsLess(api, i, c.NumClaims)
		ids[i] = maskOrZero(api, active[i], id)

		if c.Debug {
			api.Println("slot", i, "active:", active[i], "claim id:", ids[i])
		}
	}
	return ids, active
}

// checkOrdering requires each identifier to be strictly greater than its
// predecessor unless it is zero. Active identifiers are therefore strictly
// increasing and nothing non-zero may follow the padding.
func (c *ClaimCircuit) checkOrdering(api frontend.API, ids [MAX_CLAIMS]frontend.Variable) {
	for i := 1; i < MAX_CLAIMS; i++ {
		isLess := lessThan(api, ids[i-1], ids[i], CLAIM_ID_BITS)
		api.AssertIsEqual(orBitwise(api, isLess, isZero(api, ids[i])), 1)
	}
}

// checkProvenance binds every active log to the reference contract and
// the event schema, and every active account to the one of slot 0.
func (c *ClaimCircuit) checkProvenance(api frontend.API, active [MAX_CLAIMS]frontend.Variable) frontend.Variable {
	contract := c.Params.ReferenceContract.Big()
	schema := claim.WordHiLo(c.Params.EventSchema)

	var account frontend.Variable = 0
	for i := 0; i < MAX_CLAIMS; i++ {
		log := c.Logs[i]

		api.AssertIsEqual(exempt(api, eq(api, log.Address, contract), active[i]), 1)
		api.AssertIsEqual(exempt(api, log.Schema.eqConst(api, schema), active[i]), 1)

		thisAccount := log.Data[c.Params.AccountField.Word].limb(c.Params.AccountField.Limb)
		if i == 0 {
			// slot 0 is always active since NumClaims >= 1
			account = thisAccount
			continue
		}
		api.AssertIsEqual(exempt(api, eq(api, thisAccount, account), active[i]), 1)
	}
	return account
}

// aggregateFees sums the low limb of the fee word over active slots with
// explicit carry propagation. The masked high limb is not accumulated:
// fees are assumed to fit in 128 bits.
func (c *ClaimCircuit) aggregateFees(api frontend.API, rc frontend.Rangechecker, active [MAX_CLAIMS]frontend.Variable) HiLo {
	total := zeroHiLo()
	for i := 0; i < MAX_CLAIMS; i++ {
		fee := c.Logs[i].Data[c.Params.FeeWord].mask(api, active[i])
		rc.Check(fee.Lo, LIMB_BITS)
		total = total.addLo(api, fee.Lo)
	}
	if c.Debug {
		api.Println("total fee hi:", total.Hi, "lo:", total.Lo)
	}
	return total
}

// assertOutputs binds the public inputs to the computed result. The last
// identifier is picked with a multiplexer since NumClaims-1 is a witness.
func (c *ClaimCircuit) assertOutputs(api frontend.API, ids [MAX_CLAIMS]frontend.Variable, account frontend.Variable, total HiLo) {
	lastIdx := api.Sub(c.NumClaims, 1)
	lastID := selector.Mux(api, lastIdx, ids[:]...)

	api.AssertIsEqual(c.FirstClaimID, ids[0])
	api.AssertIsEqual(c.LastClaimID, lastID)
	api.AssertIsEqual(c.AccountID, account)
	api.AssertIsEqual(c.TotalFeeHi, total.Hi)
	api.AssertIsEqual(c.TotalFeeLo, total.Lo)
}
