package entry

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// ErrPersist wraps every failed namespace write. The in-memory state that
// triggered the write is kept regardless.
var ErrPersist = errors.New("persist namespace")

// Backend is the host key-value facility.
type Backend interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// LoadStatus says how a namespace came back from storage.
type LoadStatus int

const (
	LoadOK LoadStatus = iota
	// LoadAbsent: nothing stored yet (first run) or the backend could not be read.
	LoadAbsent
	// LoadCorrupt: something was stored but is not a JSON array.
	LoadCorrupt
	// LoadPartial: the array parsed but some records were dropped.
	LoadPartial
)

func (s LoadStatus) String() string {
	switch s {
	case LoadOK:
		return "ok"
	case LoadAbsent:
		return "absent"
	case LoadCorrupt:
		return "corrupt"
	case LoadPartial:
		return "partial"
	}
	return fmt.Sprintf("LoadStatus(%d)", int(s))
}

// LoadResult reports what Load did. It is informational: Load always
// returns a usable (possibly empty) slice.
type LoadResult struct {
	Status  LoadStatus
	Dropped int
	Err     error
}

// Load reads the namespace stored under key. Missing, unreadable and
// malformed data all yield an empty slice. Records that fail to decode or
// validate are skipped one by one so a single bad record from an older
// schema does not lose the rest.
func Load[T Record](b Backend, key string) ([]T, LoadResult) {
	raw, ok, err := b.Get(key)
	if err != nil {
		return []T{}, LoadResult{Status: LoadAbsent, Err: err}
	}
	if !ok {
		return []T{}, LoadResult{Status: LoadAbsent}
	}

	var records []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return []T{}, LoadResult{Status: LoadCorrupt, Err: err}
	}

	items := make([]T, 0, len(records))
	res := LoadResult{Status: LoadOK}
	for _, rec := range records {
		var item T
		if err := json.Unmarshal(rec, &item); err != nil {
			res.Dropped++
			res.Err = errors.Join(res.Err, err)
			continue
		}
		if err := item.Validate(); err != nil {
			res.Dropped++
			res.Err = errors.Join(res.Err, err)
			continue
		}
		items = append(items, item)
	}
	if res.Dropped > 0 {
		res.Status = LoadPartial
	}
	return items, res
}

// Save writes the whole namespace, replacing prior content.
func Save[T Record](b Backend, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("%w %q: %w", ErrPersist, key, err)
	}
	if err := b.Set(key, string(data)); err != nil {
		return fmt.Errorf("%w %q: %w", ErrPersist, key, err)
	}
	return nil
}

// MemoryBackend is a Backend held in process memory.
type MemoryBackend struct {
	mu   sync.Mutex
	data map[string]string
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string]string)}
}

func (m *MemoryBackend) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryBackend) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}
