// Package aggregate runs a claim batch end to end: resolve the logs,
// evaluate the batch natively, build the witness, then check or prove it.
package aggregate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/backend/witness"
	"github.com/rs/zerolog"

	"github.com/axiom-crypto/axiom-kwenta-incentives/circuit"
	"github.com/axiom-crypto/axiom-kwenta-incentives/claim"
	"github.com/axiom-crypto/axiom-kwenta-incentives/logsource"
	"github.com/axiom-crypto/axiom-kwenta-incentives/prover"
)

type Mode int

const (
	// ModeCheck only runs the constraint solver.
	ModeCheck Mode = iota
	// ModeProve produces and verifies a Groth16 proof.
	ModeProve
)

func (m Mode) String() string {
	if m == ModeProve {
		return "prove"
	}
	return "check"
}

var ErrNoProver = errors.New("prove mode requires a prover")

// Prover is implemented by *prover.Prover.
type Prover interface {
	Prove(assignment *circuit.ClaimCircuit) (groth16.Proof, witness.Witness, error)
	Verify(proof groth16.Proof, public witness.Witness) error
}

// Outcome is what a successful run produced. Proof and PublicWitness are
// only set in ModeProve.
type Outcome struct {
	Batch         claim.Batch
	Result        claim.Result
	Assignment    *circuit.ClaimCircuit
	Proof         groth16.Proof
	PublicWitness witness.Witness
}

type Service struct {
	Params  claim.Params
	Source  logsource.Source
	Prover  Prover
	Workers int
	Log     zerolog.Logger
}

// Run aggregates slots, which must be given in strictly increasing claim
// id order. A batch the circuit would reject fails with a
// *claim.RejectionError before any proving work starts.
func (s *Service) Run(ctx context.Context, slots []claim.Slot, mode Mode) (*Outcome, error) {
	if mode == ModeProve && s.Prover == nil {
		return nil, ErrNoProver
	}
	batch, err := claim.NewBatch(slots)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	recs, err := logsource.Resolve(ctx, s.Source, batch, s.Workers)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve logs: %w", err)
	}
	s.Log.Debug().Int("claims", batch.NumClaims).Dur("took", time.Since(start)).Msg("logs resolved")

	res, err := claim.Evaluate(batch, recs, s.Params)
	if err != nil {
		var rej *claim.RejectionError
		if errors.As(err, &rej) && rej.Slot >= 0 {
			s.Log.Warn().Str("kind", rej.Kind.String()).Int("slot", rej.Slot).
				Stringer("claim", batch.Slots[rej.Slot]).Msg("batch rejected")
		}
		return nil, err
	}
	s.Log.Info().
		Int("claims", batch.NumClaims).
		Str("first", res.FirstClaimID.Hex()).
		Str("last", res.LastClaimID.Hex()).
		Str("account", res.AccountID.Dec()).
		Str("fee", res.TotalFee.Value().Dec()).
		Msg("batch evaluated")

	out := &Outcome{Batch: batch, Result: res, Assignment: circuit.Assign(batch, recs, res)}

	switch mode {
	case ModeCheck:
		if err := prover.Check(s.Params, out.Assignment); err != nil {
			return nil, fmt.Errorf("circuit not satisfied: %w", err)
		}
	case ModeProve:
		proof, public, err := s.Prover.Prove(out.Assignment)
		if err != nil {
			return nil, err
		}
		if err := s.Prover.Verify(proof, public); err != nil {
			return nil, err
		}
		out.Proof, out.PublicWitness = proof, public
	default:
		return nil, fmt.Errorf("unknown mode %d", mode)
	}
	return out, nil
}
