// Package prover compiles the claim circuit and drives Groth16 setup,
// proving and verification over BN254.
package prover

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	groth16bn254 "github.com/consensys/gnark/backend/groth16/bn254"
	"github.com/consensys/gnark/backend/witness"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/consensys/gnark/test"
	"github.com/rs/zerolog"

	"github.com/axiom-crypto/axiom-kwenta-incentives/circuit"
	"github.com/axiom-crypto/axiom-kwenta-incentives/claim"
)

const (
	ProvingKeyFile   = "claim.pk"
	VerifyingKeyFile = "claim.vk"
)

var (
	ErrNoKeys             = errors.New("keys not initialised, run setup or load keys")
	ErrVerificationFailed = errors.New("proof verification failed")
)

// Check runs the assignment through gnark's test engine. It does not need
// a compiled circuit and is the fast path for validating a batch.
func Check(p claim.Params, assignment *circuit.ClaimCircuit) error {
	return test.IsSolved(circuit.NewClaimCircuit(p), assignment, ecc.BN254.ScalarField())
}

// Compile builds the R1CS for p.
func Compile(p claim.Params) (constraint.ConstraintSystem, error) {
	ccs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, circuit.NewClaimCircuit(p))
	if err != nil {
		return nil, fmt.Errorf("circuit compilation failed: %w", err)
	}
	return ccs, nil
}

// Prover holds a compiled circuit and, once Setup or LoadKeys has run, its
// Groth16 key pair.
type Prover struct {
	params claim.Params
	log    zerolog.Logger

	ccs constraint.ConstraintSystem
	pk  groth16.ProvingKey
	vk  groth16.VerifyingKey
}

// New compiles the circuit for p.
func New(p claim.Params, log zerolog.Logger) (*Prover, error) {
	start := time.Now()
	ccs, err := Compile(p)
	if err != nil {
		return nil, err
	}
	log.Info().
		Int("constraints", ccs.GetNbConstraints()).
		Int("public", ccs.GetNbPublicVariables()).
		Dur("took", time.Since(start)).
		Msg("circuit compiled")
	return &Prover{params: p, log: log, ccs: ccs}, nil
}

func (pr *Prover) Params() claim.Params { return pr.params }

func (pr *Prover) NbConstraints() int { return pr.ccs.GetNbConstraints() }

// Setup runs a fresh (unsafe, single party) Groth16 setup.
func (pr *Prover) Setup() error {
	start := time.Now()
	pk, vk, err := groth16.Setup(pr.ccs)
	if err != nil {
		return fmt.Errorf("trusted setup failed: %w", err)
	}
	pr.pk, pr.vk = pk, vk
	pr.log.Info().Dur("took", time.Since(start)).Msg("groth16 setup done")
	return nil
}

// Prove builds the witness and proves it. The public witness is returned
// alongside the proof for verification or submission.
func (pr *Prover) Prove(assignment *circuit.ClaimCircuit) (groth16.Proof, witness.Witness, error) {
	if pr.pk == nil {
		return nil, nil, ErrNoKeys
	}
	full, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField())
	if err != nil {
		return nil, nil, fmt.Errorf("witness creation failed: %w", err)
	}
	public, err := full.Public()
	if err != nil {
		return nil, nil, fmt.Errorf("public witness creation failed: %w", err)
	}

	start := time.Now()
	proof, err := groth16.Prove(pr.ccs, pr.pk, full)
	if err != nil {
		return nil, nil, fmt.Errorf("proof generation failed: %w", err)
	}
	pr.log.Info().Dur("took", time.Since(start)).Msg("proof generated")
	return proof, public, nil
}

// Verify checks proof against the public witness.
func (pr *Prover) Verify(proof groth16.Proof, public witness.Witness) error {
	if pr.vk == nil {
		return ErrNoKeys
	}
	if err := groth16.Verify(proof, pr.vk, public); err != nil {
		return fmt.Errorf("%w: %v", ErrVerificationFailed, err)
	}
	pr.log.Debug().Msg("proof verified")
	return nil
}

// SaveKeys writes both keys into dir.
func (pr *Prover) SaveKeys(dir string) error {
	if pr.pk == nil || pr.vk == nil {
		return ErrNoKeys
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := writeFile(filepath.Join(dir, ProvingKeyFile), pr.pk); err != nil {
		return fmt.Errorf("failed to write proving key: %w", err)
	}
	if err := writeFile(filepath.Join(dir, VerifyingKeyFile), pr.vk); err != nil {
		return fmt.Errorf("failed to write verifying key: %w", err)
	}
	pr.log.Info().Str("dir", dir).Msg("keys saved")
	return nil
}

// LoadKeys reads keys written by SaveKeys. The keys must come from a setup
// of the same Params.
func (pr *Prover) LoadKeys(dir string) error {
	pk := groth16.NewProvingKey(ecc.BN254)
	if err := readFile(filepath.Join(dir, ProvingKeyFile), pk); err != nil {
		return fmt.Errorf("failed to read proving key: %w", err)
	}
	vk := groth16.NewVerifyingKey(ecc.BN254)
	if err := readFile(filepath.Join(dir, VerifyingKeyFile), vk); err != nil {
		return fmt.Errorf("failed to read verifying key: %w", err)
	}
	pr.pk, pr.vk = pk, vk
	pr.log.Info().Str("dir", dir).Msg("keys loaded")
	return nil
}

// ExportSolidity writes a Solidity verifier for the verifying key.
func (pr *Prover) ExportSolidity(w io.Writer) error {
	if pr.vk == nil {
		return ErrNoKeys
	}
	return pr.vk.ExportSolidity(w)
}

// Calldata encodes a proof in the layout expected by the exported Solidity
// verifier.
func Calldata(proof groth16.Proof) ([]byte, error) {
	p, ok := proof.(*groth16bn254.Proof)
	if !ok {
		return nil, fmt.Errorf("unexpected proof type %T", proof)
	}
	return p.MarshalSolidity(), nil
}

// EncodeProof serialises a proof in gnark's binary format.
func EncodeProof(proof groth16.Proof) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := proof.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeProof reverses EncodeProof.
func DecodeProof(b []byte) (groth16.Proof, error) {
	proof := groth16.NewProof(ecc.BN254)
	if _, err := proof.ReadFrom(bytes.NewReader(b)); err != nil {
		return nil, err
	}
	return proof, nil
}

func writeFile(path string, v io.WriterTo) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := v.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func readFile(path string, v io.ReaderFrom) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = v.ReadFrom(f)
	return err
}
