package board

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/warden/pkg/types"
)

// WriteRecord is one mutation the in-memory board has applied, in order.
type WriteRecord struct {
	ItemID   string
	OptionID string
	FieldID  string
	Value    string
}

// Memory is an in-process board with scripted quota accounting. It backs
// package tests and the dry-run board backend. Reads consume bulk-read
// quota and mutations consume bulk-mutate quota, one unit each, so tests
// can drive the board into denial deterministically.
type Memory struct {
	mu      sync.Mutex
	order   []string
	items   map[string]*types.BoardItem
	fields  map[string]map[string]string
	options []types.StatusOption
	quotas  map[types.QuotaClass]*types.QuotaSnapshot

	writes     []WriteRecord
	failAfter  int
	failErr    error
	quotaErr   error
	writeCalls int
}

// NewMemory creates a board declaring the canonical status options and
// generous quota in every class.
func NewMemory() *Memory {
	m := &Memory{
		items:  make(map[string]*types.BoardItem),
		fields: make(map[string]map[string]string),
		options: []types.StatusOption{
			{Name: "Todo", OptionID: "opt-todo"},
			{Name: "In Progress", OptionID: "opt-in-progress"},
			{Name: "Done", OptionID: "opt-done"},
		},
		quotas:    make(map[types.QuotaClass]*types.QuotaSnapshot),
		failAfter: -1,
	}
	reset := time.Now().Add(time.Hour).UTC()
	for _, class := range types.Classes {
		m.quotas[class] = &types.QuotaSnapshot{Class: class, Remaining: 5000, Limit: 5000, ResetAt: reset}
	}
	return m
}

// AddItem creates an item in the Unset state and returns its generated ID.
func (m *Memory) AddItem(title string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.NewString()
	m.items[id] = &types.BoardItem{ID: id, Title: title, Status: types.StatusUnset}
	m.order = append(m.order, id)
	return id
}

// SetOptions replaces the board's declared status option set.
func (m *Memory) SetOptions(options []types.StatusOption) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.options = append([]types.StatusOption(nil), options...)
}

// SetQuota overrides one class's scripted snapshot.
func (m *Memory) SetQuota(class types.QuotaClass, remaining, limit int, resetAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quotas[class] = &types.QuotaSnapshot{Class: class, Remaining: remaining, Limit: limit, ResetAt: resetAt}
}

// FailQuota makes every Quota call fail with err, simulating an
// introspection outage. A nil err restores normal behavior.
func (m *Memory) FailQuota(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quotaErr = err
}

// FailWritesAfter makes every mutation past the first n fail with err.
func (m *Memory) FailWritesAfter(n int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failAfter = n
	m.failErr = err
}

// Writes returns the mutations applied so far, in order.
func (m *Memory) Writes() []WriteRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]WriteRecord, len(m.writes))
	copy(out, m.writes)
	return out
}

// ListItems returns a snapshot of every item, in insertion order.
func (m *Memory) ListItems(ctx context.Context) ([]types.BoardItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.consume(types.ClassBulkRead)
	items := make([]types.BoardItem, 0, len(m.order))
	for _, id := range m.order {
		items = append(items, *m.items[id])
	}
	return items, nil
}

// StatusOptions returns the declared option set.
func (m *Memory) StatusOptions(ctx context.Context) ([]types.StatusOption, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.consume(types.ClassBulkRead)
	out := make([]types.StatusOption, len(m.options))
	copy(out, m.options)
	return out, nil
}

// UpdateItemStatus applies one status write. An empty optionID clears the
// field back to Unset, matching the platform's behavior.
func (m *Memory) UpdateItemStatus(ctx context.Context, itemID, optionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.nextWriteErr(); err != nil {
		return err
	}
	item, ok := m.items[itemID]
	if !ok {
		return types.ErrItemNotFound
	}

	status := types.StatusUnset
	if optionID != "" {
		found := false
		for _, opt := range m.options {
			if opt.OptionID == optionID {
				parsed, err := types.ParseStatus(opt.Name)
				if err != nil {
					return types.ErrUnknownStatus
				}
				status = parsed
				found = true
				break
			}
		}
		if !found {
			return types.ErrUnknownStatus
		}
	}

	m.consume(types.ClassBulkMutate)
	item.Status = status
	m.writes = append(m.writes, WriteRecord{ItemID: itemID, OptionID: optionID})
	return nil
}

// UpdateItemField applies one arbitrary field write.
func (m *Memory) UpdateItemField(ctx context.Context, itemID, fieldID, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.nextWriteErr(); err != nil {
		return err
	}
	if _, ok := m.items[itemID]; !ok {
		return types.ErrItemNotFound
	}

	m.consume(types.ClassBulkMutate)
	if m.fields[itemID] == nil {
		m.fields[itemID] = make(map[string]string)
	}
	m.fields[itemID][fieldID] = value
	m.writes = append(m.writes, WriteRecord{ItemID: itemID, FieldID: fieldID, Value: value})
	return nil
}

// Quota returns the scripted snapshot for the class.
func (m *Memory) Quota(ctx context.Context, class types.QuotaClass) (types.QuotaSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.quotaErr != nil {
		return types.QuotaSnapshot{}, m.quotaErr
	}
	snap, ok := m.quotas[class]
	if !ok {
		return types.QuotaSnapshot{}, types.ErrUnknownClass
	}
	return *snap, nil
}

// consume decrements one unit of the class's remaining quota.
// Callers hold m.mu.
func (m *Memory) consume(class types.QuotaClass) {
	if snap, ok := m.quotas[class]; ok && snap.Remaining > 0 {
		snap.Remaining--
	}
}

// nextWriteErr applies the scripted failure policy. Callers hold m.mu.
func (m *Memory) nextWriteErr() error {
	if m.failAfter >= 0 && m.writeCalls >= m.failAfter {
		return m.failErr
	}
	m.writeCalls++
	return nil
}
