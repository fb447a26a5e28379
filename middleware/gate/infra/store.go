package infra

import (
	"sync"
	"time"

	"devport-gateway/middleware/gate/domain"

	"github.com/cespare/xxhash/v2"
)

const defaultShards = 32

// MemoryStore é o store de contadores em memória do processo.
//
// As chaves são distribuídas em shards (xxhash da chave), cada um com o seu
// mutex; chaves em shards diferentes nunca competem. Os contadores não são
// compartilhados entre instâncias e se perdem num restart.
type MemoryStore struct {
	shards []*shard
}

type shard struct {
	mu      sync.Mutex
	entries map[domain.Key]domain.Entry
}

type StoreOption func(*storeOptions)

type storeOptions struct {
	shards int
}

// WithShards define o número de shards. Valores <= 0 usam o padrão.
func WithShards(n int) StoreOption {
	return func(o *storeOptions) { o.shards = n }
}

var _ domain.Store = (*MemoryStore)(nil)

func NewMemoryStore(opts ...StoreOption) *MemoryStore {
	o := storeOptions{shards: defaultShards}
	for _, opt := range opts {
		opt(&o)
	}
	if o.shards <= 0 {
		o.shards = defaultShards
	}

	s := &MemoryStore{shards: make([]*shard, o.shards)}
	for i := range s.shards {
		s.shards[i] = &shard{entries: make(map[domain.Key]domain.Entry)}
	}
	return s
}

func (s *MemoryStore) shardFor(key domain.Key) *shard {
	return s.shards[xxhash.Sum64String(string(key))%uint64(len(s.shards))]
}

func (s *MemoryStore) Get(key domain.Key) (domain.Entry, bool) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	e, ok := sh.entries[key]
	return e, ok
}

func (s *MemoryStore) Put(key domain.Key, e domain.Entry) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	sh.entries[key] = e
}

// Update implementa domain.Store. fn roda com o lock do shard; não deve
// chamar o store.
func (s *MemoryStore) Update(key domain.Key, fn func(cur domain.Entry, ok bool) (domain.Entry, bool)) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	cur, ok := sh.entries[key]
	if next, write := fn(cur, ok); write {
		sh.entries[key] = next
	}
}

// Sweep remove as entradas cuja janela terminou antes de now.
func (s *MemoryStore) Sweep(now time.Time) int {
	removed := 0
	for _, sh := range s.shards {
		sh.mu.Lock()
		for k, e := range sh.entries {
			if e.ResetAt.Before(now) {
				delete(sh.entries, k)
				removed++
			}
		}
		sh.mu.Unlock()
	}
	return removed
}

// Len retorna o número de entradas fisicamente presentes (inclui expiradas
// ainda não varridas).
func (s *MemoryStore) Len() int {
	n := 0
	for _, sh := range s.shards {
		sh.mu.Lock()
		n += len(sh.entries)
		sh.mu.Unlock()
	}
	return n
}
