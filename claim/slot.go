package claim

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/holiman/uint256"
)

var (
	ErrNoClaims       = errors.New("batch has no claims")
	ErrTooManyClaims  = fmt.Errorf("batch exceeds %d claims", MaxClaims)
	ErrMalformedClaim = errors.New("malformed claim reference")
)

// Slot references one log: the logIndex-th log of the txIndex-th
// transaction in block blockNumber.
type Slot struct {
	BlockNumber uint64 `json:"block"`
	TxIndex     uint64 `json:"tx"`
	LogIndex    uint64 `json:"log"`
}

// ID packs the slot into blockNumber·2^128 + txIndex·2^64 + logIndex.
func (s Slot) ID() *uint256.Int {
	id := new(uint256.Int).Lsh(uint256.NewInt(s.BlockNumber), 128)
	id.Add(id, new(uint256.Int).Lsh(uint256.NewInt(s.TxIndex), 64))
	return id.Add(id, uint256.NewInt(s.LogIndex))
}

func (s Slot) String() string {
	return fmt.Sprintf("%d:%d:%d", s.BlockNumber, s.TxIndex, s.LogIndex)
}

// ParseSlot reads the "block:tx:log" form produced by String.
func ParseSlot(s string) (Slot, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return Slot{}, fmt.Errorf("%w: %q", ErrMalformedClaim, s)
	}
	var v [3]uint64
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return Slot{}, fmt.Errorf("%w: %q: %v", ErrMalformedClaim, s, err)
		}
		v[i] = n
	}
	return Slot{BlockNumber: v[0], TxIndex: v[1], LogIndex: v[2]}, nil
}

// Batch is the fixed-capacity descriptor handed to the circuit. Slots at
// index >= NumClaims are padding.
type Batch struct {
	Slots     [MaxClaims]Slot
	NumClaims int
}

// NewBatch copies claims into a batch and pads the remaining slots with
// the first claim, which keeps every padding reference resolvable.
func NewBatch(claims []Slot) (Batch, error) {
	var b Batch
	if len(claims) == 0 {
		return b, ErrNoClaims
	}
	if len(claims) > MaxClaims {
		return b, fmt.Errorf("%w: got %d", ErrTooManyClaims, len(claims))
	}
	for i := range b.Slots {
		if i < len(claims) {
			b.Slots[i] = claims[i]
		} else {
			b.Slots[i] = claims[0]
		}
	}
	b.NumClaims = len(claims)
	return b, nil
}

// Active reports whether slot i holds a real claim.
func (b Batch) Active(i int) bool { return i < b.NumClaims }

// Claims returns the active prefix.
func (b Batch) Claims() []Slot {
	n := b.NumClaims
	if n < 0 {
		n = 0
	}
	if n > MaxClaims {
		n = MaxClaims
	}
	return append([]Slot(nil), b.Slots[:n]...)
}
