package pagecache

import (
	lru "github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/kpress/msit-dl/internal/metrics"
)

// memoryStore keeps page bodies in an in-process expirable LRU. It only helps
// within a single run (each page is fetched once per scan), so it mostly
// serves as the zero-infrastructure default; the redis provider is the one
// that pays off across runs.
type memoryStore struct {
	inner *lru.LRU[string, []byte]
}

func newMemoryStore(cfg Config) *memoryStore {
	onEvict := func(pageURL string, body []byte) {
		metrics.PageCacheEvictionsTotal.Inc()
	}
	return &memoryStore{
		inner: lru.NewLRU[string, []byte](cfg.Size, onEvict, cfg.TTL),
	}
}

func (m *memoryStore) Get(pageURL string) ([]byte, bool) {
	return m.inner.Get(pageURL)
}

func (m *memoryStore) Set(pageURL string, body []byte) {
	m.inner.Add(pageURL, body)
}

func (m *memoryStore) Contains(pageURL string) bool {
	return m.inner.Contains(pageURL)
}

func (m *memoryStore) Len() int {
	return m.inner.Len()
}

func (m *memoryStore) Close() error {
	return nil
}
