package offline

import (
	"fmt"
	"slices"
	"sync"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// Store holds cached responses grouped by namespace.
type Store interface {
	Load(namespace, key string) ([]byte, bool)
	Save(namespace, key string, data []byte) error
	// Retain deletes every namespace except keep.
	Retain(keep string) error
}

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]map[string][]byte)}
}

func (s *MemoryStore) Load(namespace, key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.data[namespace][key]
	return b, ok
}

func (s *MemoryStore) Save(namespace, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ns := s.data[namespace]
	if ns == nil {
		ns = make(map[string][]byte)
		s.data[namespace] = ns
	}
	ns[key] = append([]byte(nil), data...)
	return nil
}

func (s *MemoryStore) Retain(keep string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ns := range s.data {
		if ns != keep {
			delete(s.data, ns)
		}
	}
	return nil
}

// Namespaces returns the number of namespaces held.
func (s *MemoryStore) Namespaces() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// gdata cannot enumerate objects, so the namespaces written so far are
// tracked in an index object.
const (
	indexObject = "codexrpg-cache"
	indexProp   = "namespaces"
)

// GdataStore persists entries with gdata: the namespace is the object and
// the key is the property.
type GdataStore struct {
	mu    sync.Mutex
	m     *gdata.Manager
	index []string // nil until first read
}

func NewGdataStore(m *gdata.Manager) *GdataStore {
	return &GdataStore{m: m}
}

func (s *GdataStore) Load(namespace, key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.m.ObjectPropExists(namespace, key) {
		return nil, false
	}
	b, err := s.m.LoadObjectProp(namespace, key)
	if err != nil {
		return nil, false
	}
	return b, true
}

func (s *GdataStore) Save(namespace, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.m.SaveObjectProp(namespace, key, data); err != nil {
		return fmt.Errorf("save %s/%s: %w", namespace, key, err)
	}
	idx, err := s.namespaces()
	if err != nil {
		return err
	}
	if slices.Contains(idx, namespace) {
		return nil
	}
	return s.writeIndex(append(idx, namespace))
}

func (s *GdataStore) Retain(keep string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, err := s.namespaces()
	if err != nil {
		return err
	}
	var kept []string
	for _, ns := range idx {
		if ns == keep {
			kept = append(kept, ns)
			continue
		}
		if err := s.m.DeleteObject(ns); err != nil {
			return fmt.Errorf("purge %s: %w", ns, err)
		}
	}
	if len(kept) == len(idx) {
		return nil
	}
	return s.writeIndex(kept)
}

// namespaces returns the index; callers hold s.mu.
func (s *GdataStore) namespaces() ([]string, error) {
	if s.index != nil {
		return s.index, nil
	}
	s.index = []string{}
	if !s.m.ObjectPropExists(indexObject, indexProp) {
		return s.index, nil
	}
	data, err := s.m.LoadObjectProp(indexObject, indexProp)
	if err != nil {
		s.index = nil
		return nil, fmt.Errorf("load cache index: %w", err)
	}
	if err := yaml.Unmarshal(data, &s.index); err != nil {
		s.index = nil
		return nil, fmt.Errorf("unmarshal cache index: %w", err)
	}
	return s.index, nil
}

func (s *GdataStore) writeIndex(idx []string) error {
	data, err := yaml.Marshal(idx)
	if err != nil {
		return fmt.Errorf("marshal cache index: %w", err)
	}
	if err := s.m.SaveObjectProp(indexObject, indexProp, data); err != nil {
		return fmt.Errorf("save cache index: %w", err)
	}
	s.index = idx
	return nil
}
