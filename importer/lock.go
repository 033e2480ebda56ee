package importer

import "sync"

// ImportLockKey guards bulk imports process-wide.
const ImportLockKey = "import"

// KeyedLock is a non-blocking lock per key.
type KeyedLock struct {
	mu   sync.Mutex
	held map[string]bool
}

func NewKeyedLock() *KeyedLock {
	return &KeyedLock{held: make(map[string]bool)}
}

// TryLock acquires key and returns its release func, or ok=false when it is held.
func (l *KeyedLock) TryLock(key string) (release func(), ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] {
		return nil, false
	}
	l.held[key] = true

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, key)
			l.mu.Unlock()
		})
	}, true
}
