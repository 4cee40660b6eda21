package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/trove/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Source implements ports.AssetSource and ports.Watchable using an in-memory map.
// Safe for concurrent use.
type Source struct {
	mu       sync.RWMutex
	assets   map[domain.Identity][]byte
	watchers []chan struct{}
}

// NewSource creates a source from raw documents keyed by "kind:name".
func NewSource(data map[string]string) (*Source, error) {
	s := &Source{assets: make(map[domain.Identity][]byte, len(data))}
	for k, v := range data {
		id, err := domain.ParseIdentity(k)
		if err != nil {
			return nil, err
		}
		s.assets[id] = []byte(v)
	}
	return s, nil
}

// MustNewSource is NewSource for tests and fixed fixtures.
func MustNewSource(data map[string]string) *Source {
	s, err := NewSource(data)
	if err != nil {
		panic(err)
	}
	return s
}

// NewFromBundle creates a source from a single YAML document grouping assets
// by kind directory:
//
//	loot_tables:
//	  chest: {pools: [...]}
//	predicates:
//	  raining: {type: has_param, param: weather}
func NewFromBundle(bundle []byte) (*Source, error) {
	var groups map[string]map[string]yaml.Node
	if err := yaml.Unmarshal(bundle, &groups); err != nil {
		return nil, fmt.Errorf("failed to parse bundle: %w", err)
	}
	s := &Source{assets: make(map[domain.Identity][]byte)}
	for dir, docs := range groups {
		kind, err := domain.ParseKind(dir)
		if err != nil {
			return nil, err
		}
		for name, node := range docs {
			raw, err := yaml.Marshal(&node)
			if err != nil {
				return nil, fmt.Errorf("failed to encode %s/%s: %w", dir, name, err)
			}
			s.assets[domain.ID(kind, name)] = raw
		}
	}
	return s, nil
}

// ListAssets returns the names of every asset of kind, sorted.
func (s *Source) ListAssets(_ context.Context, kind domain.Kind) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var names []string
	for id := range s.assets {
		if id.Kind == kind {
			names = append(names, id.Name)
		}
	}
	sort.Strings(names) // Deterministic order
	return names, nil
}

// ReadAsset returns the raw document of one asset.
func (s *Source) ReadAsset(_ context.Context, id domain.Identity) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	content, ok := s.assets[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrAssetNotFound, id)
	}
	return content, nil
}

// Put adds or replaces a document and notifies watchers.
func (s *Source) Put(id domain.Identity, content []byte) {
	s.mu.Lock()
	s.assets[id] = content
	s.mu.Unlock()
	s.notify()
}

// Delete removes a document and notifies watchers.
func (s *Source) Delete(id domain.Identity) {
	s.mu.Lock()
	delete(s.assets, id)
	s.mu.Unlock()
	s.notify()
}

// Watch signals after every Put or Delete until ctx is done.
func (s *Source) Watch(ctx context.Context) (<-chan struct{}, error) {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	s.watchers = append(s.watchers, ch)
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, w := range s.watchers {
			if w == ch {
				s.watchers = append(s.watchers[:i], s.watchers[i+1:]...)
				break
			}
		}
		close(ch)
	}()
	return ch, nil
}

func (s *Source) notify() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, w := range s.watchers {
		select {
		case w <- struct{}{}:
		default: // a reload is already pending
		}
	}
}
