package prefs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps one JSON file per client, holding every view's selection.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file-based store.
// If baseDir is empty, defaults to ~/.config/starlake-docs/prefs/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "starlake-docs", "prefs")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create prefs dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) clientPath(client string) string {
	return filepath.Join(s.baseDir, client+".json")
}

func (s *FileStore) read(client string) (map[View]Pref, error) {
	data, err := os.ReadFile(s.clientPath(client))
	if err != nil {
		if os.IsNotExist(err) {
			return map[View]Pref{}, nil
		}
		return nil, fmt.Errorf("read prefs file: %w", err)
	}
	all := map[View]Pref{}
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("parse prefs: %w", err)
	}
	return all, nil
}

func (s *FileStore) write(client string, all map[View]Pref) error {
	path := s.clientPath(client)
	if len(all) == 0 {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove prefs file: %w", err)
		}
		return nil
	}
	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write prefs file: %w", err)
	}
	return nil
}

func (s *FileStore) Get(ctx context.Context, client string, view View) (*Pref, error) {
	if err := ValidateClient(client); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	all, err := s.read(client)
	if err != nil {
		return nil, err
	}
	p, ok := all[view]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *FileStore) Set(ctx context.Context, p *Pref) error {
	if err := ValidateClient(p.Client); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.read(p.Client)
	if err != nil {
		return err
	}
	all[p.View] = *p
	return s.write(p.Client, all)
}

func (s *FileStore) Delete(ctx context.Context, client string, view View) error {
	if err := ValidateClient(client); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.read(client)
	if err != nil {
		return err
	}
	if _, ok := all[view]; !ok {
		return nil
	}
	delete(all, view)
	return s.write(client, all)
}

func (s *FileStore) Close() error { return nil }

// Path returns the base directory for preference files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)
