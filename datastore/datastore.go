// Package datastore is a small JSON-backed key-value store. Data lives in
// memory and is flushed to disk atomically, either on demand, on Close, or
// by a background autosave that skips writes when nothing changed.
package datastore

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DataStore is a thread-safe in-memory map persisted to a single JSON file.
type DataStore struct {
	mu           sync.RWMutex
	data         map[string]any
	file         string
	lastChecksum string

	log  zerolog.Logger
	done chan struct{}
	wg   sync.WaitGroup

	closeMu sync.Mutex
	closed  bool
}

// New opens or creates the store at the given file path and starts the
// autosave loop with the given interval. A non-positive interval disables
// autosave.
func New(filePath string, interval time.Duration, log zerolog.Logger) (*DataStore, error) {
	if filePath == "" {
		return nil, fmt.Errorf("file path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	ds := &DataStore{
		data: make(map[string]any),
		file: filePath,
		log:  log,
		done: make(chan struct{}),
	}

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		if err := ds.writeFileAtomic([]byte("{}")); err != nil {
			return nil, fmt.Errorf("failed to create empty store file: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to check store file: %w", err)
	} else if err := ds.load(); err != nil {
		return nil, fmt.Errorf("failed to load store file: %w", err)
	}

	if interval > 0 {
		ds.wg.Add(1)
		go ds.autoSave(interval)
	}
	return ds, nil
}

// Get retrieves a value by key.
func (ds *DataStore) Get(key string) (any, bool) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	v, ok := ds.data[key]
	return v, ok
}

// Set stores a key-value pair.
func (ds *DataStore) Set(key string, value any) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	ds.data[key] = value
}

// Delete removes a key-value pair.
func (ds *DataStore) Delete(key string) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	delete(ds.data, key)
}

// Keys returns a snapshot of all keys.
func (ds *DataStore) Keys() []string {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	keys := make([]string, 0, len(ds.data))
	for k := range ds.data {
		keys = append(keys, k)
	}
	return keys
}

// Save forces an immediate flush to disk.
func (ds *DataStore) Save() error {
	return ds.save()
}

// Close stops the autosave loop and performs a final save.
func (ds *DataStore) Close() error {
	ds.closeMu.Lock()
	if ds.closed {
		ds.closeMu.Unlock()
		return nil
	}
	ds.closed = true
	ds.closeMu.Unlock()

	close(ds.done)
	ds.wg.Wait()
	return ds.save()
}

func (ds *DataStore) autoSave(interval time.Duration) {
	defer ds.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ds.done:
			return
		case <-ticker.C:
			if err := ds.save(); err != nil {
				ds.log.Error().Err(err).Msg("datastore autosave failed")
			}
		}
	}
}

func (ds *DataStore) load() error {
	raw, err := os.ReadFile(ds.file)
	if err != nil {
		return err
	}
	ds.mu.Lock()
	defer ds.mu.Unlock()
	if err := json.Unmarshal(raw, &ds.data); err != nil {
		return err
	}
	ds.lastChecksum = checksum(raw)
	return nil
}

func (ds *DataStore) save() error {
	ds.mu.Lock()
	raw, err := json.MarshalIndent(ds.data, "", "  ")
	if err != nil {
		ds.mu.Unlock()
		return fmt.Errorf("failed to marshal data: %w", err)
	}
	sum := checksum(raw)
	if sum == ds.lastChecksum {
		ds.mu.Unlock()
		return nil
	}
	ds.mu.Unlock()

	// The checksum advances only after the flush lands, so a failed write
	// leaves the data marked dirty for the next attempt.
	if err := ds.writeFileAtomic(raw); err != nil {
		return err
	}

	ds.mu.Lock()
	ds.lastChecksum = sum
	ds.mu.Unlock()
	return nil
}

// writeFileAtomic writes through a temp file in the same directory so a
// crash mid-write never truncates the live file.
func (ds *DataStore) writeFileAtomic(raw []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(ds.file), filepath.Base(ds.file)+".tmp-*")
	if err != nil {
		return err
	}
	name := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return err
	}
	if err := os.Rename(name, ds.file); err != nil {
		os.Remove(name)
		return err
	}
	return nil
}

func checksum(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
