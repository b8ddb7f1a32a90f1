package aggregate

import (
	"context"
	"errors"
	"testing"

	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/backend/witness"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/axiom-crypto/axiom-kwenta-incentives/circuit"
	"github.com/axiom-crypto/axiom-kwenta-incentives/claim"
	"github.com/axiom-crypto/axiom-kwenta-incentives/internal/fixture"
	"github.com/axiom-crypto/axiom-kwenta-incentives/logsource"
)

type fakeProver struct {
	proved    *circuit.ClaimCircuit
	verifyErr error
}

func (f *fakeProver) Prove(a *circuit.ClaimCircuit) (groth16.Proof, witness.Witness, error) {
	f.proved = a
	return nil, nil, nil
}

func (f *fakeProver) Verify(groth16.Proof, witness.Witness) error { return f.verifyErr }

func newService(t *testing.T) *Service {
	t.Helper()
	p := claim.DefaultParams()
	src, err := logsource.NewCached(logsource.NewMemory(fixture.Index(p, fixture.Account, fixture.Kwenta)), 32)
	require.NoError(t, err)
	return &Service{Params: p, Source: src, Workers: 4, Log: zerolog.Nop()}
}

func TestRunCheck(t *testing.T) {
	svc := newService(t)

	out, err := svc.Run(context.Background(), fixture.Slots(fixture.Kwenta[:2]), ModeCheck)
	require.NoError(t, err)
	require.Equal(t, 2, out.Batch.NumClaims)
	require.Equal(t, "0x33e082723c415a9", out.Result.TotalFee.Lo.Hex())
	require.Equal(t, uint64(fixture.Account), out.Result.AccountID.Uint64())
	require.Nil(t, out.Proof)
	require.NotNil(t, out.Assignment)
}

func TestRunRejects(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Run(ctx, []claim.Slot{fixture.Kwenta[1].Slot, fixture.Kwenta[0].Slot}, ModeCheck)
	require.ErrorIs(t, err, claim.ErrOrderingViolation)

	_, err = svc.Run(ctx, []claim.Slot{fixture.Kwenta[0].Slot, fixture.Foreign}, ModeCheck)
	require.ErrorIs(t, err, claim.ErrProvenanceViolation)

	_, err = svc.Run(ctx, nil, ModeCheck)
	require.ErrorIs(t, err, claim.ErrNoClaims)

	_, err = svc.Run(ctx, []claim.Slot{{BlockNumber: 1}}, ModeCheck)
	require.ErrorIs(t, err, logsource.ErrNotFound)
}

func TestRunProve(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Run(ctx, fixture.Slots(fixture.Kwenta), ModeProve)
	require.ErrorIs(t, err, ErrNoProver)

	fp := &fakeProver{}
	svc.Prover = fp
	out, err := svc.Run(ctx, fixture.Slots(fixture.Kwenta), ModeProve)
	require.NoError(t, err)
	require.Same(t, out.Assignment, fp.proved)
	require.Equal(t, len(fixture.Kwenta), fp.proved.NumClaims)

	fp.verifyErr = errors.New("bad proof")
	_, err = svc.Run(ctx, fixture.Slots(fixture.Kwenta), ModeProve)
	require.ErrorIs(t, err, fp.verifyErr)
}
