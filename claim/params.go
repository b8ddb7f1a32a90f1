package claim

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

const (
	// MaxClaims is the fixed batch capacity compiled into the circuit.
	MaxClaims = 16
	// MaxDataWords is the number of 32-byte data words carried per log.
	// ConditionalOrderExecuted has a fully static layout of ten words.
	MaxDataWords = 10
)

// Kwenta Smart Margin v3 on Base and its ConditionalOrderExecuted topic.
var (
	KwentaSmartMarginV3            = common.HexToAddress("0xe331a7eeC851Ba702aA8BF43070a178451d6D28E")
	ConditionalOrderExecutedSchema = common.HexToHash("0x3f4c4edf80aee6ea6f4fb3aed498a467e30ed1482bc06539ffe892cf7304e334")
)

// ConditionalOrderExecuted data word offsets.
//
//	event ConditionalOrderExecuted(IPerpsMarketProxy.Data order, uint256 synthetixFees, uint256 executorFee);
//
// Data is static, so the words are: settlementTime, marketId, accountId,
// sizeDelta, settlementStrategyId, acceptablePrice, trackingCode, referrer,
// synthetixFees, executorFee.
const (
	WordAccountID     = 2
	WordSynthetixFees = 8
	WordExecutorFee   = 9
)

// Limb selects one 128-bit half of a data word.
type Limb int

const (
	LimbLo Limb = iota
	LimbHi
)

func (l Limb) String() string {
	if l == LimbHi {
		return "hi"
	}
	return "lo"
}

// ParseLimb accepts "lo" or "hi".
func ParseLimb(s string) (Limb, error) {
	switch s {
	case "lo", "":
		return LimbLo, nil
	case "hi":
		return LimbHi, nil
	}
	return LimbLo, fmt.Errorf("unknown limb %q", s)
}

// FieldRef addresses one limb of one data word.
type FieldRef struct {
	Word int
	Limb Limb
}

// Params are the build-time constants of a claim circuit. They are baked
// into the constraint system and are never part of the witness.
type Params struct {
	ReferenceContract common.Address
	EventSchema       common.Hash
	AccountField      FieldRef
	// FeeWord is summed as a Hi/Lo pair; only the low limb is folded.
	FeeWord int
}

// DefaultParams returns the Kwenta executor-fee incentive configuration.
func DefaultParams() Params {
	return Params{
		ReferenceContract: KwentaSmartMarginV3,
		EventSchema:       ConditionalOrderExecutedSchema,
		AccountField:      FieldRef{Word: WordAccountID, Limb: LimbLo},
		FeeWord:           WordExecutorFee,
	}
}

func (p Params) Validate() error {
	if p.AccountField.Word < 0 || p.AccountField.Word >= MaxDataWords {
		return fmt.Errorf("account word %d out of range [0, %d)", p.AccountField.Word, MaxDataWords)
	}
	if p.AccountField.Limb != LimbLo && p.AccountField.Limb != LimbHi {
		return fmt.Errorf("invalid account limb %d", p.AccountField.Limb)
	}
	if p.FeeWord < 0 || p.FeeWord >= MaxDataWords {
		return fmt.Errorf("fee word %d out of range [0, %d)", p.FeeWord, MaxDataWords)
	}
	return nil
}
