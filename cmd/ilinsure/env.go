package main

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"ilInsurance/internal/config"
	"ilInsurance/internal/insurance"
	"ilInsurance/internal/model"
	"ilInsurance/internal/state"
	"ilInsurance/internal/storage"
	"ilInsurance/internal/storage/postgres"
)

// claimLister reads recorded claims back, newest last.
type claimLister interface {
	ListClaims(ctx context.Context, limit int) ([]model.ClaimRecord, error)
}

type jsonlLister struct {
	s *storage.JsonlStorage
}

func (l jsonlLister) ListClaims(ctx context.Context, limit int) ([]model.ClaimRecord, error) {
	return l.s.ReadClaims(ctx, limit)
}

// env is the persisted contract plus the stores behind it for one command run.
type env struct {
	contract *insurance.Contract
	states   state.StateStore
	claims   claimLister
	logger   *zap.Logger
	close    func()
}

func openEnv(ctx context.Context, cfg config.Config, logger *zap.Logger) (*env, error) {
	e := &env{logger: logger, close: func() {}}

	var sink storage.ClaimSink
	if cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := store.EnsureSchema(ctx); err != nil {
			store.Close()
			return nil, err
		}
		e.close = store.Close
		e.states = &state.DBStateStore{Store: store, Name: cfg.StateName}
		e.claims = store
		sink = store
	} else {
		jsonl := storage.NewJsonlStorage(cfg.ClaimsOut)
		e.states = &state.FileStateStore{Path: cfg.StateFile}
		e.claims = jsonlLister{s: jsonl}
		sink = jsonl
	}

	e.contract = insurance.New(insurance.Options{Logger: logger, Sink: sink})

	st, ok, err := e.states.Load(ctx)
	if err != nil {
		e.close()
		return nil, fmt.Errorf("load state: %w", err)
	}
	if ok {
		if err := e.contract.Restore(st); err != nil {
			e.close()
			return nil, err
		}
		logger.Debug("state loaded", zap.Uint64("version", st.Version), zap.String("owner", st.Owner))
	}
	return e, nil
}

func (e *env) save(ctx context.Context) error {
	if err := e.states.Save(ctx, e.contract.Export()); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

func parseCaller(raw string) (common.Address, error) {
	if raw == "" {
		return common.Address{}, fmt.Errorf("caller address is required")
	}
	if !common.IsHexAddress(raw) {
		return common.Address{}, fmt.Errorf("invalid caller address %q", raw)
	}
	return common.HexToAddress(raw), nil
}
