// Package fixture holds real Kwenta ConditionalOrderExecuted claims and
// builds matching event records for tests and local runs.
package fixture

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/axiom-crypto/axiom-kwenta-incentives/claim"
)

// Claim is a claim reference and the executor fee its log carries.
type Claim struct {
	Slot claim.Slot
	Fee  *uint256.Int
}

// Kwenta lists five executed conditional orders in increasing order.
var Kwenta = []Claim{
	{claim.Slot{BlockNumber: 13571616, TxIndex: 40, LogIndex: 2}, uint256.MustFromHex("0x1823a7246d8e4f8")},
	{claim.Slot{BlockNumber: 13572321, TxIndex: 28, LogIndex: 2}, uint256.MustFromHex("0x1bbcdb4dceb30b1")},
	{claim.Slot{BlockNumber: 13572709, TxIndex: 26, LogIndex: 2}, uint256.MustFromHex("0x17a5097950bd46a")},
	{claim.Slot{BlockNumber: 13582226, TxIndex: 30, LogIndex: 2}, uint256.MustFromHex("0x3c11eb937b0faf4")},
	{claim.Slot{BlockNumber: 13584316, TxIndex: 40, LogIndex: 2}, uint256.MustFromHex("0x3adb153947d1aac")},
}

// Foreign is a log emitted by a different contract.
var Foreign = claim.Slot{BlockNumber: 13633667, TxIndex: 44, LogIndex: 1}

// ForeignContract is the emitter used for Foreign.
var ForeignContract = common.HexToAddress("0x0000000000000000000000000000000000c0ffee")

// Account is the account id shared by the Kwenta fixtures.
const Account = 170141183460469231

// Slots returns the references of cs.
func Slots(cs []Claim) []claim.Slot {
	out := make([]claim.Slot, len(cs))
	for i, c := range cs {
		out[i] = c.Slot
	}
	return out
}

// Record builds a log that satisfies p for the given account and fee.
func Record(p claim.Params, account uint64, fee *uint256.Int) claim.EventRecord {
	r := claim.EventRecord{
		Address: p.ReferenceContract,
		Schema:  p.EventSchema,
		Data:    make([]common.Hash, claim.MaxDataWords),
	}
	acc := uint256.NewInt(account)
	if p.AccountField.Limb == claim.LimbHi {
		acc.Lsh(acc, 128)
	}
	r.Data[p.AccountField.Word] = acc.Bytes32()
	r.Data[p.FeeWord] = fee.Bytes32()
	return r
}

// Index returns records for cs keyed by slot, all under account, plus a
// Foreign log from ForeignContract.
func Index(p claim.Params, account uint64, cs []Claim) map[claim.Slot]claim.EventRecord {
	idx := make(map[claim.Slot]claim.EventRecord, len(cs)+1)
	for _, c := range cs {
		idx[c.Slot] = Record(p, account, c.Fee)
	}
	foreign := Record(p, account, uint256.NewInt(1))
	foreign.Address = ForeignContract
	idx[Foreign] = foreign
	return idx
}

// Resolve looks up every slot of b in idx.
func Resolve(b claim.Batch, idx map[claim.Slot]claim.EventRecord) claim.Records {
	var recs claim.Records
	for i, s := range b.Slots {
		recs[i] = idx[s]
	}
	return recs
}
