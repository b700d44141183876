// Package filestorage persists token storage as a single JSON file under the
// application data folder, the desktop/CLI analog of browser local storage.
package filestorage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/finacct/go-session-client/tokenstore"
)

var _ tokenstore.Storage = (*FileStorage)(nil)

const fileMode = 0o600

// FileStorage stores key/value pairs in one JSON file, rewritten atomically
// on every mutation.
type FileStorage struct {
	path string
	lock sync.Mutex
}

// New creates a FileStorage at path, creating the parent folder if needed.
func New(path string) (*FileStorage, error) {
	if path == "" {
		return nil, fmt.Errorf("[filestorage.New] path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create storage folder: %w", err)
	}
	return &FileStorage{path: path}, nil
}

func (fs *FileStorage) Get(key string) (string, error) {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	values, err := fs.load()
	if err != nil {
		return "", err
	}
	return values[key], nil
}

func (fs *FileStorage) Set(key, value string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	values, err := fs.load()
	if err != nil {
		return err
	}
	values[key] = value
	return fs.save(values)
}

func (fs *FileStorage) Remove(key string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	values, err := fs.load()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return fs.save(values)
}

func (fs *FileStorage) load() (map[string]string, error) {
	data, err := os.ReadFile(fs.path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read storage file: %w", err)
	}

	values := map[string]string{}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse storage file: %w", err)
	}
	return values, nil
}

// save writes through a temp file and renames it into place so a crash can
// never leave a half-written storage file behind.
func (fs *FileStorage) save(values map[string]string) error {
	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("encode storage file: %w", err)
	}

	tmpPath := fs.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, fileMode); err != nil {
		return fmt.Errorf("write storage file: %w", err)
	}
	if err := os.Rename(tmpPath, fs.path); err != nil {
		return fmt.Errorf("replace storage file: %w", err)
	}
	return nil
}
