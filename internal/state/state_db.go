package state

import (
	"context"

	"ilInsurance/internal/model"
	"ilInsurance/internal/storage/postgres"
)

// DBStateStore stores state in the contract_state table.
type DBStateStore struct {
	Store *postgres.Store
	Name  string
}

func (s *DBStateStore) Load(ctx context.Context) (model.ContractState, bool, error) {
	if s == nil || s.Store == nil {
		return model.ContractState{}, false, nil
	}
	return s.Store.LoadContractState(ctx, s.Name)
}

func (s *DBStateStore) Save(ctx context.Context, st model.ContractState) error {
	if s == nil || s.Store == nil {
		return nil
	}
	return s.Store.SaveContractState(ctx, s.Name, st)
}
