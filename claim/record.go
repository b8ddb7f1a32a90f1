package claim

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"
)

var mask128 = new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), 128), uint256.NewInt(1))

// HiLo is a 256-bit value held as hi·2^128 + lo with lo < 2^128.
type HiLo struct {
	Hi *uint256.Int
	Lo *uint256.Int
}

// SplitHiLo splits v into its two 128-bit limbs.
func SplitHiLo(v *uint256.Int) HiLo {
	return HiLo{
		Hi: new(uint256.Int).Rsh(v, 128),
		Lo: new(uint256.Int).And(v, mask128),
	}
}

// WordHiLo splits a 32-byte big-endian word.
func WordHiLo(w common.Hash) HiLo {
	return SplitHiLo(new(uint256.Int).SetBytes32(w[:]))
}

// ZeroHiLo returns (0, 0).
func ZeroHiLo() HiLo {
	return HiLo{Hi: new(uint256.Int), Lo: new(uint256.Int)}
}

// Value joins the limbs. Overflow past 2^256 wraps.
func (h HiLo) Value() *uint256.Int {
	v := new(uint256.Int).Lsh(h.Hi, 128)
	return v.Add(v, h.Lo)
}

// Limb returns the requested limb.
func (h HiLo) Limb(l Limb) *uint256.Int {
	if l == LimbHi {
		return h.Hi
	}
	return h.Lo
}

// EventRecord is the resolved content of a Slot: the emitting contract,
// the event schema (topic0) and the ABI data split into 32-byte words.
type EventRecord struct {
	Address common.Address
	Schema  common.Hash
	Data    []common.Hash
}

// RecordFromLog converts a go-ethereum log. A trailing partial word is
// right-padded with zeros.
func RecordFromLog(l *types.Log) EventRecord {
	r := EventRecord{Address: l.Address}
	if len(l.Topics) > 0 {
		r.Schema = l.Topics[0]
	}
	for off := 0; off < len(l.Data); off += common.HashLength {
		var w common.Hash
		copy(w[:], l.Data[off:min(off+common.HashLength, len(l.Data))])
		r.Data = append(r.Data, w)
	}
	return r
}

// Word returns data word i, or zero when the log is shorter.
func (r EventRecord) Word(i int) HiLo {
	if i < 0 || i >= len(r.Data) {
		return ZeroHiLo()
	}
	return WordHiLo(r.Data[i])
}

// Field reads a single limb addressed by ref.
func (r EventRecord) Field(ref FieldRef) *uint256.Int {
	return r.Word(ref.Word).Limb(ref.Limb)
}

// Records holds one resolved record per batch slot.
type Records [MaxClaims]EventRecord
