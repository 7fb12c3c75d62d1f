package amm

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"ilInsurance/internal/model"
)

var ErrTokenNotInPair = errors.New("token not in pair")

// PairState is one read of a V2 pair, normalized to 18 decimals and oriented
// so that ReserveA belongs to TokenA.
type PairState struct {
	Pair   common.Address
	TokenA model.TokenMeta
	TokenB model.TokenMeta
	Block  uint64
	Pool   model.Pool
}

// Syncer reads reserves and LP supply from a Uniswap V2 style pair.
type Syncer struct {
	caller Caller
	cache  *TokenMetaCache
	retry  RetryPolicy
	logger *zap.Logger
}

func NewSyncer(caller Caller, retry RetryPolicy, logger *zap.Logger) *Syncer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Syncer{
		caller: caller,
		cache:  NewTokenMetaCache(),
		retry:  retry,
		logger: logger,
	}
}

// Sync reads the pair at block (0 means latest). When tokenA is set it must be
// one of the pair's tokens and the reserves are oriented to it; otherwise
// token0 is token A. Every read uses the same block so the result is consistent.
func (s *Syncer) Sync(ctx context.Context, pair, tokenA common.Address, block uint64) (PairState, error) {
	if s.caller == nil {
		return PairState{}, fmt.Errorf("chain caller is nil")
	}
	parsed, err := PairABI()
	if err != nil {
		return PairState{}, fmt.Errorf("parse pair abi: %w", err)
	}

	var blockPtr *big.Int
	if block > 0 {
		blockPtr = new(big.Int).SetUint64(block)
	}

	var token0, token1 common.Address
	var reserve0, reserve1, supply *big.Int

	err = s.read(ctx, "token0", func(ctx context.Context) error {
		values, err := callMethod(ctx, s.caller, pair, parsed, "token0", blockPtr)
		if err != nil {
			return err
		}
		token0, err = asAddress(values[0])
		return err
	})
	if err != nil {
		return PairState{}, err
	}
	err = s.read(ctx, "token1", func(ctx context.Context) error {
		values, err := callMethod(ctx, s.caller, pair, parsed, "token1", blockPtr)
		if err != nil {
			return err
		}
		token1, err = asAddress(values[0])
		return err
	})
	if err != nil {
		return PairState{}, err
	}
	err = s.read(ctx, "getReserves", func(ctx context.Context) error {
		values, err := callMethod(ctx, s.caller, pair, parsed, "getReserves", blockPtr)
		if err != nil {
			return err
		}
		if len(values) < 3 {
			return fmt.Errorf("getReserves: expected 3 values, got %d", len(values))
		}
		if reserve0, err = asBigInt(values[0]); err != nil {
			return fmt.Errorf("reserve0: %w", err)
		}
		if reserve1, err = asBigInt(values[1]); err != nil {
			return fmt.Errorf("reserve1: %w", err)
		}
		return nil
	})
	if err != nil {
		return PairState{}, err
	}
	err = s.read(ctx, "totalSupply", func(ctx context.Context) error {
		values, err := callMethod(ctx, s.caller, pair, parsed, "totalSupply", blockPtr)
		if err != nil {
			return err
		}
		supply, err = asBigInt(values[0])
		return err
	})
	if err != nil {
		return PairState{}, err
	}

	meta0, err := s.tokenMeta(ctx, token0, blockPtr)
	if err != nil {
		return PairState{}, err
	}
	meta1, err := s.tokenMeta(ctx, token1, blockPtr)
	if err != nil {
		return PairState{}, err
	}

	switch tokenA {
	case common.Address{}, token0:
	case token1:
		meta0, meta1 = meta1, meta0
		reserve0, reserve1 = reserve1, reserve0
	default:
		return PairState{}, fmt.Errorf("%w: %s not in %s", ErrTokenNotInPair, tokenA.Hex(), pair.Hex())
	}

	reserveA, err := NormalizeAmount(reserve0, meta0.Decimals)
	if err != nil {
		return PairState{}, fmt.Errorf("normalize reserve a: %w", err)
	}
	reserveB, err := NormalizeAmount(reserve1, meta1.Decimals)
	if err != nil {
		return PairState{}, fmt.Errorf("normalize reserve b: %w", err)
	}
	// V2 LP tokens always carry 18 decimals.
	totalSupply, err := NormalizeAmount(supply, 18)
	if err != nil {
		return PairState{}, fmt.Errorf("normalize total supply: %w", err)
	}

	out := PairState{
		Pair:   pair,
		TokenA: meta0,
		TokenB: meta1,
		Block:  block,
		Pool: model.Pool{
			ReserveA:    *reserveA,
			ReserveB:    *reserveB,
			TotalSupply: *totalSupply,
		},
	}
	s.logger.Info("pair synced",
		zap.String("pair", pair.Hex()),
		zap.String("token_a", meta0.Address),
		zap.String("token_b", meta1.Address),
		zap.Uint64("block", block),
	)
	return out, nil
}

func (s *Syncer) tokenMeta(ctx context.Context, token common.Address, block *big.Int) (model.TokenMeta, error) {
	if meta, ok := s.cache.Get(token); ok {
		return meta, nil
	}
	var meta model.TokenMeta
	err := s.read(ctx, "decimals", func(ctx context.Context) error {
		var err error
		meta, err = FetchTokenMeta(ctx, s.caller, token, block)
		return err
	})
	if err != nil {
		return model.TokenMeta{}, fmt.Errorf("token %s: %w", token.Hex(), err)
	}
	s.cache.Set(token, meta)
	return meta, nil
}

func (s *Syncer) read(ctx context.Context, op string, fn func(context.Context) error) error {
	return s.retry.do(ctx, s.logger, op, fn)
}
