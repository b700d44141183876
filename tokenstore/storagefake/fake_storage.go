package storagefake

import (
	"sync"

	"github.com/finacct/go-session-client/tokenstore"
)

var _ tokenstore.Storage = (*FakeStorage)(nil)

// FakeStorage is an in-memory Storage used by tests and by execution contexts
// with no durable storage available.
type FakeStorage struct {
	values map[string]string
	lock   sync.RWMutex
}

func NewFakeStorage() *FakeStorage {
	return &FakeStorage{
		values: make(map[string]string),
	}
}

func (fs *FakeStorage) Get(key string) (string, error) {
	fs.lock.RLock()
	defer fs.lock.RUnlock()
	return fs.values[key], nil
}

func (fs *FakeStorage) Set(key, value string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	fs.values[key] = value
	return nil
}

func (fs *FakeStorage) Remove(key string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	delete(fs.values, key)
	return nil
}

// Has reports whether key is present, distinguishing a stored empty string
// from an absent key.
func (fs *FakeStorage) Has(key string) bool {
	fs.lock.RLock()
	defer fs.lock.RUnlock()
	_, ok := fs.values[key]
	return ok
}

// Len returns the number of stored keys.
func (fs *FakeStorage) Len() int {
	fs.lock.RLock()
	defer fs.lock.RUnlock()
	return len(fs.values)
}
