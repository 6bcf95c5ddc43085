package file

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/haldorsen/matchbook/internal/types"
)

// TradeStore implements storage.TradeStore using append-only file writes.
// Writes are asynchronous for performance. Read operations return empty
// (file is write-only, use a composite store with an in-memory layer for reads).
type TradeStore struct {
	file    *os.File
	encoder *json.Encoder
	mutex   sync.Mutex
}

// NewFileTradeStore creates a new file-based trade store
func NewFileTradeStore(filePath string) (*TradeStore, error) {
	f, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open trade log: %w", err)
	}

	return &TradeStore{
		file:    f,
		encoder: json.NewEncoder(f),
	}, nil
}

func (s *TradeStore) Save(trade *types.Trade) error {
	go func() {
		s.mutex.Lock()
		defer s.mutex.Unlock()
		_ = s.encoder.Encode(trade)
	}()
	return nil
}

func (s *TradeStore) SaveBatch(trades []*types.Trade) error {
	go func() {
		s.mutex.Lock()
		defer s.mutex.Unlock()
		for _, trade := range trades {
			_ = s.encoder.Encode(trade)
		}
	}()
	return nil
}

func (s *TradeStore) GetRecent(limit int) ([]*types.Trade, error) {
	return []*types.Trade{}, nil
}

func (s *TradeStore) Close() error {
	if s.file != nil {
		return s.file.Close()
	}
	return nil
}
