package logsource

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rs/zerolog"

	"github.com/axiom-crypto/axiom-kwenta-incentives/claim"
)

// ChainReader is the subset of ethclient.Client used to locate a log.
type ChainReader interface {
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	TransactionInBlock(ctx context.Context, blockHash common.Hash, index uint) (*types.Transaction, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// RPC resolves slots against a JSON-RPC node: block header, then the
// transaction at TxIndex, then the LogIndex-th log of its receipt.
type RPC struct {
	client ChainReader
	log    zerolog.Logger
}

func NewRPC(client ChainReader, log zerolog.Logger) *RPC {
	return &RPC{client: client, log: log}
}

// Dial connects to url with ethclient.
func Dial(ctx context.Context, url string, log zerolog.Logger) (*RPC, error) {
	client, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", url, err)
	}
	return NewRPC(client, log), nil
}

func (r *RPC) LookupLog(ctx context.Context, s claim.Slot) (claim.EventRecord, error) {
	header, err := r.client.HeaderByNumber(ctx, new(big.Int).SetUint64(s.BlockNumber))
	if err != nil {
		return claim.EventRecord{}, fmt.Errorf("header %d: %w", s.BlockNumber, err)
	}
	tx, err := r.client.TransactionInBlock(ctx, header.Hash(), uint(s.TxIndex))
	if err != nil {
		return claim.EventRecord{}, fmt.Errorf("tx %d in block %d: %w", s.TxIndex, s.BlockNumber, err)
	}
	receipt, err := r.client.TransactionReceipt(ctx, tx.Hash())
	if err != nil {
		return claim.EventRecord{}, fmt.Errorf("receipt %s: %w", tx.Hash(), err)
	}
	if s.LogIndex >= uint64(len(receipt.Logs)) {
		return claim.EventRecord{}, fmt.Errorf("%w: %s has %d logs", ErrNotFound, s, len(receipt.Logs))
	}

	rec := claim.RecordFromLog(receipt.Logs[s.LogIndex])
	r.log.Debug().
		Stringer("slot", s).
		Stringer("tx", tx.Hash()).
		Stringer("address", rec.Address).
		Int("words", len(rec.Data)).
		Msg("log resolved")
	return rec, nil
}
