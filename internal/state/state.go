package state

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"ilInsurance/internal/model"
)

// StateStore persists the insurance contract between runs.
type StateStore interface {
	Load(ctx context.Context) (model.ContractState, bool, error)
	Save(ctx context.Context, st model.ContractState) error
}

// FileStateStore stores state in a local JSON file.
type FileStateStore struct {
	Path string
}

func (s *FileStateStore) Load(ctx context.Context) (model.ContractState, bool, error) {
	if s == nil || s.Path == "" {
		return model.ContractState{}, false, nil
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.ContractState{}, false, nil
		}
		return model.ContractState{}, false, fmt.Errorf("read state: %w", err)
	}

	var st model.ContractState
	if err := json.Unmarshal(data, &st); err != nil {
		return model.ContractState{}, false, fmt.Errorf("parse state: %w", err)
	}
	return st, true, nil
}

func (s *FileStateStore) Save(ctx context.Context, st model.ContractState) error {
	if s == nil || s.Path == "" {
		return nil
	}
	dir := filepath.Dir(s.Path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create state dir: %w", err)
		}
	}

	st.UpdatedAt = time.Now().UTC().Format(time.RFC3339Nano)
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write state tmp: %w", err)
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		return fmt.Errorf("rename state: %w", err)
	}
	return nil
}
