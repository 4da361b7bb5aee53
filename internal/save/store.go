/*
Package save
File: store.go
Description:
    A tiny local key-value store backed by a single JSON file on disk.
    The game persists exactly two entries (the serialized save and its
    integrity tag), mirroring the two browser localStorage keys the save
    format was designed around.

    Writes are synchronous and whole-file; the store is single-writer
    within one process and no cross-process coordination is attempted.
*/

package save

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
)

// Store reads and writes string entries keyed by name in one JSON file.
type Store struct {
	path string
}

// NewStore returns a store backed by the file at path.
// The file is created lazily on the first Set.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Get returns the value for key and whether it was present.
func (s *Store) Get(key string) (string, bool) {
	entries, err := s.read()
	if err != nil {
		return "", false
	}
	val, ok := entries[key]
	return val, ok
}

// Set writes key=value, preserving all other entries.
func (s *Store) Set(key, value string) error {
	entries, err := s.read()
	if err != nil {
		return err
	}
	entries[key] = value
	return s.write(entries)
}

// Delete removes the given keys. Missing keys are not an error.
func (s *Store) Delete(keys ...string) error {
	entries, err := s.read()
	if err != nil {
		return err
	}
	for _, k := range keys {
		delete(entries, k)
	}
	return s.write(entries)
}

func (s *Store) read() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}
	entries := map[string]string{}
	if err := json.Unmarshal(data, &entries); err != nil {
		// A mangled store file is treated the same as an empty one.
		return map[string]string{}, nil
	}
	return entries, nil
}

func (s *Store) write(entries map[string]string) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}
