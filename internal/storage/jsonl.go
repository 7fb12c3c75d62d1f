package storage

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"ilInsurance/internal/model"
)

// JsonlStorage appends claim records to a JSONL file.
type JsonlStorage struct {
	path string
	mu   sync.Mutex
}

func NewJsonlStorage(path string) *JsonlStorage {
	return &JsonlStorage{path: path}
}

// PutClaims appends a batch of claim records as JSON lines.
func (s *JsonlStorage) PutClaims(_ context.Context, claims []model.ClaimRecord) error {
	if len(claims) == 0 {
		return nil
	}

	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open output file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, claim := range claims {
		line, err := json.Marshal(claim)
		if err != nil {
			return fmt.Errorf("marshal claim record: %w", err)
		}
		if _, err := writer.Write(line); err != nil {
			return fmt.Errorf("write claim record: %w", err)
		}
		if err := writer.WriteByte('\n'); err != nil {
			return fmt.Errorf("write newline: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}

	return nil
}

// ReadClaims returns the most recent claims, newest last. A missing file yields none.
func (s *JsonlStorage) ReadClaims(_ context.Context, limit int) ([]model.ClaimRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open claims: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var claims []model.ClaimRecord
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var claim model.ClaimRecord
		if err := json.Unmarshal(line, &claim); err != nil {
			return nil, fmt.Errorf("parse claim record: %w", err)
		}
		claims = append(claims, claim)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan claims: %w", err)
	}

	if limit > 0 && len(claims) > limit {
		claims = claims[len(claims)-limit:]
	}
	return claims, nil
}
