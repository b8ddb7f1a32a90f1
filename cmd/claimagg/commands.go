package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"

	"github.com/axiom-crypto/axiom-kwenta-incentives/aggregate"
	"github.com/axiom-crypto/axiom-kwenta-incentives/circuit"
	"github.com/axiom-crypto/axiom-kwenta-incentives/claim"
	"github.com/axiom-crypto/axiom-kwenta-incentives/internal/fixture"
	"github.com/axiom-crypto/axiom-kwenta-incentives/internal/logging"
	"github.com/axiom-crypto/axiom-kwenta-incentives/logsource"
	"github.com/axiom-crypto/axiom-kwenta-incentives/prover"
)

var idCmd = &cobra.Command{
	Use:   "id <block:tx:log>...",
	Short: "Print the packed claim id of each reference",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runID,
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Resolve a batch and check it against the circuit without proving",
	Long: `Resolve the claimed logs, evaluate the batch and run the constraint solver.

Examples:
  claimagg check --rpc-url https://mainnet.base.org -C 13571616:40:2 -C 13572321:28:2
  claimagg check --fixture -C 13571616:40:2`,
	RunE: runCheck,
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Compile the circuit, run a Groth16 setup and save the keys",
	Long: `Compile the circuit for the configured parameters and run a single party
Groth16 setup. The keys are written to --keys-dir. This setup is not
suitable for production deployments.`,
	RunE: runSetup,
}

var proveCmd = &cobra.Command{
	Use:   "prove",
	Short: "Prove a batch with saved keys and write the proof as JSON",
	RunE:  runProve,
}

var exportVerifierCmd = &cobra.Command{
	Use:   "export-verifier",
	Short: "Write the Solidity verifier for the saved verifying key",
	RunE:  runExportVerifier,
}

func init() {
	for _, c := range []*cobra.Command{checkCmd, proveCmd} {
		c.Flags().StringArrayVarP(&claimFlags, "claim", "C", nil, "Claim reference block:tx:log (repeatable, increasing order)")
		c.Flags().BoolVar(&useFixture, "fixture", false, "Resolve claims from the bundled Kwenta fixtures instead of RPC")
		_ = c.MarkFlagRequired("claim")
	}
	proveCmd.Flags().StringVarP(&outFile, "out", "o", "", "Output file (default stdout)")
	exportVerifierCmd.Flags().StringVarP(&outFile, "out", "o", "", "Output file (default stdout)")
}

func runID(_ *cobra.Command, args []string) error {
	for _, a := range args {
		s, err := claim.ParseSlot(a)
		if err != nil {
			return err
		}
		id := s.ID()
		fmt.Printf("%s\t%s\t%s\n", s, id.Hex(), id.Dec())
	}
	return nil
}

func parseClaims() ([]claim.Slot, error) {
	slots := make([]claim.Slot, 0, len(claimFlags))
	for _, c := range claimFlags {
		s, err := claim.ParseSlot(c)
		if err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, nil
}

func newSource(cmd *cobra.Command, p claim.Params) (logsource.Source, error) {
	var src logsource.Source
	if useFixture {
		src = logsource.NewMemory(fixture.Index(p, fixture.Account, fixture.Kwenta))
	} else {
		if err := cfg.RequireRPC(); err != nil {
			return nil, err
		}
		rpc, err := logsource.Dial(cmd.Context(), cfg.RPCURL, logging.Module(log, "rpc"))
		if err != nil {
			return nil, err
		}
		src = rpc
	}
	return logsource.NewCached(src, cfg.CacheSize)
}

func newService(cmd *cobra.Command) (*aggregate.Service, error) {
	p, err := cfg.Params()
	if err != nil {
		return nil, err
	}
	src, err := newSource(cmd, p)
	if err != nil {
		return nil, err
	}
	return &aggregate.Service{
		Params:  p,
		Source:  src,
		Workers: cfg.Workers,
		Log:     logging.Module(log, "aggregate"),
	}, nil
}

func runCheck(cmd *cobra.Command, _ []string) error {
	slots, err := parseClaims()
	if err != nil {
		return err
	}
	svc, err := newService(cmd)
	if err != nil {
		return err
	}
	out, err := svc.Run(cmd.Context(), slots, aggregate.ModeCheck)
	if err != nil {
		return err
	}
	return writeJSON(os.Stdout, newReport(out))
}

func loadProver() (*prover.Prover, error) {
	p, err := cfg.Params()
	if err != nil {
		return nil, err
	}
	pr, err := prover.New(p, logging.Module(log, "prover"))
	if err != nil {
		return nil, err
	}
	if err := pr.LoadKeys(cfg.KeysDir); err != nil {
		return nil, err
	}
	return pr, nil
}

func runSetup(_ *cobra.Command, _ []string) error {
	p, err := cfg.Params()
	if err != nil {
		return err
	}
	pr, err := prover.New(p, logging.Module(log, "prover"))
	if err != nil {
		return err
	}
	if err := pr.Setup(); err != nil {
		return err
	}
	return pr.SaveKeys(cfg.KeysDir)
}

func runProve(cmd *cobra.Command, _ []string) error {
	slots, err := parseClaims()
	if err != nil {
		return err
	}
	svc, err := newService(cmd)
	if err != nil {
		return err
	}
	pr, err := loadProver()
	if err != nil {
		return err
	}
	svc.Prover = pr

	out, err := svc.Run(cmd.Context(), slots, aggregate.ModeProve)
	if err != nil {
		return err
	}
	rep := newReport(out)
	raw, err := prover.EncodeProof(out.Proof)
	if err != nil {
		return err
	}
	calldata, err := prover.Calldata(out.Proof)
	if err != nil {
		return err
	}
	rep.Proof = hexutil.Encode(raw)
	rep.Calldata = hexutil.Encode(calldata)

	return withOutput(func(w io.Writer) error { return writeJSON(w, rep) })
}

func runExportVerifier(_ *cobra.Command, _ []string) error {
	pr, err := loadProver()
	if err != nil {
		return err
	}
	return withOutput(pr.ExportSolidity)
}

// report is the JSON printed by check and prove.
type report struct {
	Claims       []claim.Slot `json:"claims"`
	FirstClaimID string       `json:"firstClaimId"`
	LastClaimID  string       `json:"lastClaimId"`
	AccountID    string       `json:"accountId"`
	TotalFeeHi   string       `json:"totalFeeHi"`
	TotalFeeLo   string       `json:"totalFeeLo"`
	PublicInputs []string     `json:"publicInputs"`
	Proof        string       `json:"proof,omitempty"`
	Calldata     string       `json:"calldata,omitempty"`
}

func newReport(out *aggregate.Outcome) report {
	r := report{
		Claims:       out.Batch.Claims(),
		FirstClaimID: out.Result.FirstClaimID.Hex(),
		LastClaimID:  out.Result.LastClaimID.Hex(),
		AccountID:    out.Result.AccountID.Dec(),
		TotalFeeHi:   out.Result.TotalFee.Hi.Dec(),
		TotalFeeLo:   out.Result.TotalFee.Lo.Dec(),
	}
	for _, v := range circuit.PublicValues(out.Result) {
		r.PublicInputs = append(r.PublicInputs, fmt.Sprint(v))
	}
	return r
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func withOutput(write func(io.Writer) error) error {
	if outFile == "" {
		return write(os.Stdout)
	}
	f, err := os.Create(outFile)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Info().Str("path", outFile).Msg("written")
	return nil
}
