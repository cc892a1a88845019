package search

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// Memory is an in-process Index for tests.
// It matches on case-insensitive substrings of title, description and size.
type Memory struct {
	mu   sync.Mutex
	docs map[uint]Document
	Err  error
}

func NewMemory() *Memory {
	return &Memory{docs: map[uint]Document{}}
}

func (m *Memory) Put(_ context.Context, doc Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.docs[doc.ID] = doc
	return nil
}

func (m *Memory) Remove(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	delete(m.docs, id)
	return nil
}

func (m *Memory) Query(_ context.Context, q string, offset, limit int) ([]uint, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, 0, m.Err
	}
	q = strings.ToLower(q)
	var ids []uint
	for id, d := range m.docs {
		hay := strings.ToLower(d.Title + " " + d.Description + " " + d.Size)
		if strings.Contains(hay, q) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	total := int64(len(ids))
	if offset >= len(ids) {
		return []uint{}, total, nil
	}
	end := offset + limit
	if end > len(ids) {
		end = len(ids)
	}
	return ids[offset:end], total, nil
}

func (m *Memory) Has(id uint) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.docs[id]
	return ok
}
