package claim

import (
	"fmt"

	"github.com/holiman/uint256"
)

// RejectionKind classifies why a batch cannot satisfy the circuit.
type RejectionKind int

const (
	BoundsViolation RejectionKind = iota + 1
	OrderingViolation
	ProvenanceViolation
	AccountMismatch
	SchemaMismatch
)

func (k RejectionKind) String() string {
	switch k {
	case BoundsViolation:
		return "bounds violation"
	case OrderingViolation:
		return "ordering violation"
	case ProvenanceViolation:
		return "provenance violation"
	case AccountMismatch:
		return "account mismatch"
	case SchemaMismatch:
		return "schema mismatch"
	}
	return fmt.Sprintf("rejection(%d)", int(k))
}

// RejectionError reports the first failing check. Slot is -1 for
// batch-level failures.
type RejectionError struct {
	Kind RejectionKind
	Slot int
}

func (e *RejectionError) Error() string {
	if e.Slot < 0 {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s at slot %d", e.Kind, e.Slot)
}

// Is matches any RejectionError of the same kind, so errors.Is works
// against the Err* values below.
func (e *RejectionError) Is(target error) bool {
	t, ok := target.(*RejectionError)
	return ok && t.Kind == e.Kind
}

var (
	ErrBoundsViolation     = &RejectionError{Kind: BoundsViolation, Slot: -1}
	ErrOrderingViolation   = &RejectionError{Kind: OrderingViolation, Slot: -1}
	ErrProvenanceViolation = &RejectionError{Kind: ProvenanceViolation, Slot: -1}
	ErrAccountMismatch     = &RejectionError{Kind: AccountMismatch, Slot: -1}
	ErrSchemaMismatch      = &RejectionError{Kind: SchemaMismatch, Slot: -1}
)

// Result is the public output of a batch, in circuit order.
type Result struct {
	FirstClaimID *uint256.Int
	LastClaimID  *uint256.Int
	AccountID    *uint256.Int
	TotalFee     HiLo
}

var two128 = new(uint256.Int).Lsh(uint256.NewInt(1), 128)

// Evaluate replays the circuit natively. It returns the values the
// circuit will expose, or the first check the circuit would fail.
//
// Only the low limb of each fee is accumulated, exactly as in-circuit;
// fees of 2^128 or more are not aggregated correctly.
func Evaluate(b Batch, recs Records, p Params) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{}, err
	}
	if b.NumClaims < 1 || b.NumClaims > MaxClaims {
		return Result{}, &RejectionError{Kind: BoundsViolation, Slot: -1}
	}

	var ids [MaxClaims]*uint256.Int
	for i, s := range b.Slots {
		ids[i] = new(uint256.Int)
		if b.Active(i) {
			ids[i] = s.ID()
		}
	}
	for i := 1; i < MaxClaims; i++ {
		if !ids[i-1].Lt(ids[i]) && !ids[i].IsZero() {
			return Result{}, &RejectionError{Kind: OrderingViolation, Slot: i}
		}
	}

	account := recs[0].Field(p.AccountField)
	for i, r := range recs {
		if !b.Active(i) {
			continue
		}
		if r.Address != p.ReferenceContract {
			return Result{}, &RejectionError{Kind: ProvenanceViolation, Slot: i}
		}
		if r.Schema != p.EventSchema {
			return Result{}, &RejectionError{Kind: SchemaMismatch, Slot: i}
		}
		if i > 0 && !r.Field(p.AccountField).Eq(account) {
			return Result{}, &RejectionError{Kind: AccountMismatch, Slot: i}
		}
	}

	total := ZeroHiLo()
	for i, r := range recs {
		if !b.Active(i) {
			continue
		}
		total = addLo(total, r.Word(p.FeeWord).Lo)
	}

	return Result{
		FirstClaimID: ids[0],
		LastClaimID:  ids[b.NumClaims-1],
		AccountID:    account,
		TotalFee:     total,
	}, nil
}

// addLo folds lo into the low limb and moves the carry into the high limb.
func addLo(total HiLo, lo *uint256.Int) HiLo {
	sum := new(uint256.Int).Add(total.Lo, lo)
	hi := new(uint256.Int).Set(total.Hi)
	if !sum.Lt(two128) {
		sum.Sub(sum, two128)
		hi.AddUint64(hi, 1)
	}
	return HiLo{Hi: hi, Lo: sum}
}
