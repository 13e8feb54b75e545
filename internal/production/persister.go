// Package production provides production integrations for calculator sessions:
// snapshot persistence, step publishing and chart visualisation.
package production

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/comalice/calcx"
)

// ErrNotFound is returned by Load when no record exists for a session.
var ErrNotFound = errors.New("session record not found")

// Record is the persisted form of one calculator session.
type Record struct {
	SessionID string         `json:"sessionID" yaml:"sessionID"`
	State     calcx.Snapshot `json:"state" yaml:"state"`
	Timestamp time.Time      `json:"timestamp" yaml:"timestamp"`
}

// Persister stores session records.
type Persister interface {
	Save(ctx context.Context, rec Record) error
	Load(ctx context.Context, sessionID string) (Record, error)
	Delete(ctx context.Context, sessionID string) error
}

// checkID rejects anything that is not a UUID, which also keeps session IDs
// from escaping the store directory.
func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("session id %q: %w", id, err)
	}
	return nil
}

// fileStore is the shared file layout of the JSON and YAML persisters.
type fileStore struct {
	dir       string
	ext       string
	marshal   func(any) ([]byte, error)
	unmarshal func([]byte, any) error
}

func newFileStore(dir, ext string, marshal func(any) ([]byte, error), unmarshal func([]byte, any) error) (fileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fileStore{}, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return fileStore{dir: dir, ext: ext, marshal: marshal, unmarshal: unmarshal}, nil
}

func (s fileStore) path(id string) string {
	return filepath.Join(s.dir, id+s.ext)
}

func (s fileStore) save(rec Record) error {
	if err := checkID(rec.SessionID); err != nil {
		return err
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}
	data, err := s.marshal(rec)
	if err != nil {
		return fmt.Errorf("%s marshal: %w", s.ext[1:], err)
	}

	fn := s.path(rec.SessionID)
	tmp := fn + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, fn); err != nil {
		return fmt.Errorf("rename %s: %w", fn, err)
	}
	return nil
}

func (s fileStore) load(id string) (Record, error) {
	if err := checkID(id); err != nil {
		return Record{}, err
	}
	fn := s.path(id)
	data, err := os.ReadFile(fn)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Record{}, fmt.Errorf("session %q: %w", id, ErrNotFound)
		}
		return Record{}, fmt.Errorf("read %s: %w", fn, err)
	}

	var rec Record
	if err := s.unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("%s unmarshal: %w", s.ext[1:], err)
	}
	rec.SessionID = id // Ensure ID
	if err := rec.State.Validate(); err != nil {
		return Record{}, fmt.Errorf("session %q: %w", id, err)
	}
	return rec, nil
}

func (s fileStore) delete(id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	if err := os.Remove(s.path(id)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", s.path(id), err)
	}
	return nil
}

// JSONPersister is a file-based persister using JSON serialization.
type JSONPersister struct {
	store fileStore
}

// NewJSONPersister creates a JSONPersister, ensuring the directory exists.
func NewJSONPersister(dir string) (*JSONPersister, error) {
	marshal := func(v any) ([]byte, error) { return json.MarshalIndent(v, "", "  ") }
	s, err := newFileStore(dir, ".json", marshal, json.Unmarshal)
	if err != nil {
		return nil, err
	}
	return &JSONPersister{store: s}, nil
}

func (p *JSONPersister) Save(ctx context.Context, rec Record) error {
	return p.store.save(rec)
}

func (p *JSONPersister) Load(ctx context.Context, sessionID string) (Record, error) {
	return p.store.load(sessionID)
}

func (p *JSONPersister) Delete(ctx context.Context, sessionID string) error {
	return p.store.delete(sessionID)
}

// YAMLPersister is a file-based persister using YAML serialization.
type YAMLPersister struct {
	store fileStore
}

// NewYAMLPersister creates a YAMLPersister, ensuring the directory exists.
func NewYAMLPersister(dir string) (*YAMLPersister, error) {
	s, err := newFileStore(dir, ".yaml", yaml.Marshal, yaml.Unmarshal)
	if err != nil {
		return nil, err
	}
	return &YAMLPersister{store: s}, nil
}

func (p *YAMLPersister) Save(ctx context.Context, rec Record) error {
	return p.store.save(rec)
}

func (p *YAMLPersister) Load(ctx context.Context, sessionID string) (Record, error) {
	return p.store.load(sessionID)
}

func (p *YAMLPersister) Delete(ctx context.Context, sessionID string) error {
	return p.store.delete(sessionID)
}
