package prover

import (
	"flag"
	"fmt"
	"testing"
	"time"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/frontend"
	"github.com/holiman/uint256"
	"github.com/rs/zerolog"

	"github.com/axiom-crypto/axiom-kwenta-incentives/circuit"
	"github.com/axiom-crypto/axiom-kwenta-incentives/claim"
	"github.com/axiom-crypto/axiom-kwenta-incentives/internal/fixture"
)

// --batch flag to filter benchmarks. Usage: go test -bench . -batch <name>
var batchFlag = flag.String("batch", "all", "Run benchmark for a specific batch size, or 'all'.")

// benchAssignment returns an assignment with n active claims. The first
// claims are the Kwenta fixtures; the rest are synthetic.
func benchAssignment(b *testing.B, n int) *circuit.ClaimCircuit {
	p := claim.DefaultParams()
	cs := append([]fixture.Claim(nil), fixture.Kwenta...)
	for i := len(cs); i < n; i++ {
		cs = append(cs, fixture.Claim{
			Slot: claim.Slot{BlockNumber: 13600000 + uint64(i), TxIndex: 1, LogIndex: 2},
			Fee:  uint256.NewInt(uint64(i) * 1e15),
		})
	}
	cs = cs[:n]

	batch, err := claim.NewBatch(fixture.Slots(cs))
	if err != nil {
		b.Fatal(err)
	}
	recs := fixture.Resolve(batch, fixture.Index(p, fixture.Account, cs))
	res, err := claim.Evaluate(batch, recs, p)
	if err != nil {
		b.Fatal(err)
	}
	return circuit.Assign(batch, recs, res)
}

func logAvg(b *testing.B, start time.Time) {
	totalTime := time.Since(start)
	avgTime := totalTime / time.Duration(b.N)
	b.Logf("-> Avg. time per op: %s (ran %d iterations in %s)", avgTime.Round(time.Millisecond), b.N, totalTime.Round(time.Millisecond))
}

func BenchmarkClaimCircuit(b *testing.B) {
	// --- 1. ONE-TIME COSTS ---
	var pr *Prover

	b.Run("CircuitCompilation", func(b *testing.B) {
		b.ReportAllocs()
		b.ResetTimer()
		start := time.Now()
		var err error
		pr, err = New(claim.DefaultParams(), zerolog.Nop())
		if err != nil {
			b.Fatalf("compilation failed: %v", err)
		}
		b.StopTimer()
		logAvg(b, start)
		b.Logf("-> %d constraints", pr.NbConstraints())
	})

	b.Run("Groth16_Setup", func(b *testing.B) {
		b.ReportAllocs()
		b.ResetTimer()
		start := time.Now()
		if err := pr.Setup(); err != nil {
			b.Fatalf("setup failed: %v", err)
		}
		b.StopTimer()
		logAvg(b, start)
	})

	// --- 2. PER-PROOF COSTS, GROUPED BY PHASE ---
	sizes := []int{1, 5, claim.MaxClaims}
	assignments := make(map[string]*circuit.ClaimCircuit, len(sizes))
	var names []string
	for _, n := range sizes {
		name := fmt.Sprintf("claims_%d", n)
		names = append(names, name)
		assignments[name] = benchAssignment(b, n)
	}

	b.Run("Check", func(b *testing.B) {
		for _, name := range names {
			if *batchFlag != "all" && *batchFlag != name {
				continue
			}
			assignment := assignments[name]
			b.Run(name, func(b *testing.B) {
				b.ReportAllocs()
				start := time.Now()
				for i := 0; i < b.N; i++ {
					if err := Check(pr.Params(), assignment); err != nil {
						b.Fatal(err)
					}
				}
				b.StopTimer()
				logAvg(b, start)
			})
		}
	})

	b.Run("WitnessCreation", func(b *testing.B) {
		for _, name := range names {
			if *batchFlag != "all" && *batchFlag != name {
				continue
			}
			assignment := assignments[name]
			b.Run(name, func(b *testing.B) {
				b.ReportAllocs()
				start := time.Now()
				for i := 0; i < b.N; i++ {
					if _, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField()); err != nil {
						b.Fatal(err)
					}
				}
				b.StopTimer()
				logAvg(b, start)
			})
		}
	})

	b.Run("Prove", func(b *testing.B) {
		for _, name := range names {
			if *batchFlag != "all" && *batchFlag != name {
				continue
			}
			assignment := assignments[name]
			b.Run(name, func(b *testing.B) {
				b.ReportAllocs()
				b.ResetTimer()
				start := time.Now()
				for i := 0; i < b.N; i++ {
					if _, _, err := pr.Prove(assignment); err != nil {
						b.Fatal(err)
					}
				}
				b.StopTimer()
				logAvg(b, start)
			})
		}
	})

	b.Run("Verify", func(b *testing.B) {
		for _, name := range names {
			if *batchFlag != "all" && *batchFlag != name {
				continue
			}
			proof, public, err := pr.Prove(assignments[name])
			if err != nil {
				b.Fatal(err)
			}
			b.Run(name, func(b *testing.B) {
				b.ReportAllocs()
				b.ResetTimer()
				start := time.Now()
				for i := 0; i < b.N; i++ {
					if err := pr.Verify(proof, public); err != nil {
						b.Fatal(err)
					}
				}
				b.StopTimer()
				logAvg(b, start)
			})
		}
	})
}
