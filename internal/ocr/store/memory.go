package store

import (
	"context"
	"sync"

	"github.com/shandysiswandi/bankocr/internal/ocr/entity"
	"github.com/shandysiswandi/bankocr/internal/ocr/usecase"
	"github.com/shandysiswandi/bankocr/internal/pkg/pkgerror"
)

type InMemoryStore struct {
	mu    sync.RWMutex
	scans map[string]*scanRecord
}

type scanRecord struct {
	mu      sync.RWMutex
	meta    entity.ScanMeta
	entries []entity.DecodedEntry
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		scans: make(map[string]*scanRecord),
	}
}

func (s *InMemoryStore) CreateScan(ctx context.Context, meta entity.ScanMeta) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.scans[meta.ID]; exists {
		return pkgerror.NewBusiness("scan already exists", pkgerror.CodeConflict)
	}

	s.scans[meta.ID] = &scanRecord{
		meta: meta,
	}

	return nil
}

func (s *InMemoryStore) UpdateMeta(ctx context.Context, scanID string, fn func(meta *entity.ScanMeta)) error {
	rec, err := s.get(scanID)
	if err != nil {
		return err
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	fn(&rec.meta)

	return nil
}

func (s *InMemoryStore) SaveResults(ctx context.Context, scanID string, entries []entity.DecodedEntry) error {
	rec, err := s.get(scanID)
	if err != nil {
		return err
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	rec.entries = entries

	return nil
}

// GetEntries returns a copy of every stored entry in scan order.
func (s *InMemoryStore) GetEntries(ctx context.Context, scanID string) ([]entity.DecodedEntry, entity.ScanMeta, error) {
	rec, err := s.get(scanID)
	if err != nil {
		return nil, entity.ScanMeta{}, err
	}

	rec.mu.RLock()
	defer rec.mu.RUnlock()

	items := make([]entity.DecodedEntry, len(rec.entries))
	copy(items, rec.entries)

	return items, rec.meta, nil
}

func (s *InMemoryStore) ListEntries(ctx context.Context, scanID string, filter usecase.EntryFilter, page, pageSize int) ([]entity.DecodedEntry, int, entity.ScanMeta, error) {
	rec, err := s.get(scanID)
	if err != nil {
		return nil, 0, entity.ScanMeta{}, err
	}

	rec.mu.RLock()
	defer rec.mu.RUnlock()

	total := 0
	start := (page - 1) * pageSize
	end := start + pageSize
	items := make([]entity.DecodedEntry, 0, pageSize)

	for _, e := range rec.entries {
		if !filter.Matches(e) {
			continue
		}

		if total >= start && total < end {
			items = append(items, e)
		}
		total++
	}

	return items, total, rec.meta, nil
}

func (s *InMemoryStore) get(scanID string) (*scanRecord, error) {
	s.mu.RLock()
	rec, ok := s.scans[scanID]
	s.mu.RUnlock()
	if !ok {
		return nil, pkgerror.ErrNotFound
	}

	return rec, nil
}
