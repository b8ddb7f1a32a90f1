package prover

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/axiom-crypto/axiom-kwenta-incentives/circuit"
	"github.com/axiom-crypto/axiom-kwenta-incentives/claim"
	"github.com/axiom-crypto/axiom-kwenta-incentives/internal/fixture"
	"github.com/axiom-crypto/axiom-kwenta-incentives/internal/logging"
)

func init() {
	logging.Silence()
}

func kwentaAssignment(t testing.TB, n int) (*circuit.ClaimCircuit, claim.Result) {
	t.Helper()
	p := claim.DefaultParams()
	b, err := claim.NewBatch(fixture.Slots(fixture.Kwenta[:n]))
	require.NoError(t, err)
	recs := fixture.Resolve(b, fixture.Index(p, fixture.Account, fixture.Kwenta))
	res, err := claim.Evaluate(b, recs, p)
	require.NoError(t, err)
	return circuit.Assign(b, recs, res), res
}

func TestCheck(t *testing.T) {
	p := claim.DefaultParams()
	a, _ := kwentaAssignment(t, 3)
	require.NoError(t, Check(p, a))

	a.TotalFeeLo = 1
	require.Error(t, Check(p, a))
}

func TestProverRequiresKeys(t *testing.T) {
	pr := &Prover{params: claim.DefaultParams(), log: zerolog.Nop()}
	a, _ := kwentaAssignment(t, 1)

	_, _, err := pr.Prove(a)
	require.ErrorIs(t, err, ErrNoKeys)
	require.ErrorIs(t, pr.SaveKeys(t.TempDir()), ErrNoKeys)
	require.ErrorIs(t, pr.ExportSolidity(&bytes.Buffer{}), ErrNoKeys)
}

func TestRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("groth16 setup is slow")
	}
	p := claim.DefaultParams()
	pr, err := New(p, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, pr.Setup())

	a, _ := kwentaAssignment(t, len(fixture.Kwenta))
	proof, public, err := pr.Prove(a)
	require.NoError(t, err)
	require.NoError(t, pr.Verify(proof, public))

	// keys survive a save and load
	dir := t.TempDir()
	require.NoError(t, pr.SaveKeys(dir))
	loaded := &Prover{params: p, log: zerolog.Nop(), ccs: pr.ccs}
	require.NoError(t, loaded.LoadKeys(dir))

	raw, err := EncodeProof(proof)
	require.NoError(t, err)
	decoded, err := DecodeProof(raw)
	require.NoError(t, err)
	require.NoError(t, loaded.Verify(decoded, public))

	// a different result does not verify against the same proof
	other, _ := kwentaAssignment(t, 2)
	_, otherPublic, err := loaded.Prove(other)
	require.NoError(t, err)
	require.ErrorIs(t, loaded.Verify(proof, otherPublic), ErrVerificationFailed)

	calldata, err := Calldata(proof)
	require.NoError(t, err)
	require.NotEmpty(t, calldata)

	var sol bytes.Buffer
	require.NoError(t, loaded.ExportSolidity(&sol))
	require.Contains(t, sol.String(), "verifyProof")
}
