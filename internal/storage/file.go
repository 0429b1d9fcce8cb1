package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// memoryCap bounds the in-memory tail kept for RecentDeliveries.
const memoryCap = 500

// fileStore is a dependency-free persistence backend.
//
// Deliveries are appended to <prefix>.deliveries.jsonl (JSON Lines). The last
// memoryCap records are kept in memory so history queries never re-read the
// file.
type fileStore struct {
	log *slog.Logger

	mu   sync.Mutex
	file *os.File
	tail []DeliveryEntry
}

func openFile(cfg Config, log *slog.Logger) (Store, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, errors.New("storage.path is required for file driver")
	}

	dir := filepath.Dir(path)
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	prefix := filepath.Join(dir, base)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	jsonlPath := prefix + ".deliveries.jsonl"

	tail, err := loadTail(jsonlPath, memoryCap)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn("delivery history unreadable; starting empty", slog.String("path", jsonlPath), slog.Any("err", err))
	}

	f, err := os.OpenFile(jsonlPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, err
	}

	return &fileStore{log: log, file: f, tail: tail}, nil
}

func (s *fileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

func (s *fileStore) AppendDelivery(ctx context.Context, e DeliveryEntry) error {
	_ = ctx
	if e.At.IsZero() {
		e.At = time.Now()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return errors.New("delivery file closed")
	}
	if err := json.NewEncoder(s.file).Encode(e); err != nil {
		return err
	}
	s.tail = append(s.tail, e)
	if len(s.tail) > memoryCap {
		s.tail = s.tail[len(s.tail)-memoryCap:]
	}
	return nil
}

func (s *fileStore) RecentDeliveries(ctx context.Context, n int) ([]DeliveryEntry, error) {
	_ = ctx
	if n <= 0 {
		n = 10
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if n > len(s.tail) {
		n = len(s.tail)
	}
	out := make([]DeliveryEntry, n)
	copy(out, s.tail[len(s.tail)-n:])
	// newest first
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func loadTail(path string, limit int) ([]DeliveryEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var tail []DeliveryEntry
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		var e DeliveryEntry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			continue
		}
		tail = append(tail, e)
		if len(tail) > limit {
			tail = tail[len(tail)-limit:]
		}
	}
	return tail, sc.Err()
}
