package circuit

import (
	"math/big"

	"github.com/consensys/gnark/frontend"

	"github.com/axiom-crypto/axiom-kwenta-incentives/claim"
)

// Assign constructs the full witness for a batch, its resolved logs and
// the result the circuit is expected to expose.
func Assign(b claim.Batch, recs claim.Records, res claim.Result) *ClaimCircuit {
	var a ClaimCircuit

	a.FirstClaimID = res.FirstClaimID.ToBig()
	a.LastClaimID = res.LastClaimID.ToBig()
	a.AccountID = res.AccountID.ToBig()
	a.TotalFeeHi = res.TotalFee.Hi.ToBig()
	a.TotalFeeLo = res.TotalFee.Lo.ToBig()

	a.NumClaims = b.NumClaims
	for i, s := range b.Slots {
		a.BlockNumbers[i] = s.BlockNumber
		a.TxIndexes[i] = s.TxIndex
		a.LogIndexes[i] = s.LogIndex
		a.Logs[i] = assignLog(recs[i])
	}
	return &a
}

func assignLog(r claim.EventRecord) LogWitness {
	w := LogWitness{
		Address: new(big.Int).SetBytes(r.Address.Bytes()),
		Schema:  assignHiLo(claim.WordHiLo(r.Schema)),
	}
	for j := 0; j < MAX_DATA_WORDS; j++ {
		w.Data[j] = assignHiLo(r.Word(j))
	}
	return w
}

// PublicValues lists the public inputs in declaration order.
func PublicValues(res claim.Result) []frontend.Variable {
	return []frontend.Variable{
		res.FirstClaimID.ToBig(),
		res.LastClaimID.ToBig(),
		res.AccountID.ToBig(),
		res.TotalFee.Hi.ToBig(),
		res.TotalFee.Lo.ToBig(),
	}
}
