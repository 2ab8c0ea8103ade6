package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"lovelottery/internal/models"
)

// ErrStateNotFound is returned by Read when nothing has been persisted yet.
var ErrStateNotFound = errors.New("state not found")

// StateStore persists the single lottery record.
type StateStore interface {
	// Read returns the stored state. legacy is true when the record predates
	// the draw sequence and must be upgraded before use.
	Read(ctx context.Context) (state *models.DrawState, legacy bool, err error)
	Write(ctx context.Context, state *models.DrawState) error
}

// FileStore keeps the state as an indented JSON document on local disk.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore backed by path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the file the store writes to.
func (s *FileStore) Path() string {
	return s.path
}

// record mirrors models.DrawState with optional fields so missing keys can be told apart from zero values.
type record struct {
	Version          *int            `json:"version"`
	CurrentDrawIndex *int            `json:"currentDrawIndex"`
	DrawSequence     *[]models.Entry `json:"drawSequence"`
	TotalDraws       *int            `json:"totalDraws"`
	Prizes           []models.Entry  `json:"prizes"`
	Poems            []string        `json:"poems"`
}

func (s *FileStore) Read(ctx context.Context) (*models.DrawState, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, ErrStateNotFound
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", s.path, err)
	}
	return Decode(raw)
}

// Decode parses a persisted document and reports whether it is a legacy record.
func Decode(raw []byte) (*models.DrawState, bool, error) {
	var r record
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, false, fmt.Errorf("decode state: %w", err)
	}

	state := &models.DrawState{
		Prizes: r.Prizes,
		Poems:  r.Poems,
	}
	legacy := r.DrawSequence == nil || r.CurrentDrawIndex == nil || r.TotalDraws == nil
	if r.Version != nil {
		state.Version = *r.Version
	}
	if r.DrawSequence != nil {
		state.DrawSequence = *r.DrawSequence
	}
	if r.CurrentDrawIndex != nil {
		state.CurrentDrawIndex = *r.CurrentDrawIndex
	}
	if r.TotalDraws != nil {
		state.TotalDraws = *r.TotalDraws
	}
	return state, legacy, nil
}

// Encode renders state the way it is stored on disk.
func Encode(state *models.DrawState) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(state); err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return buf.Bytes(), nil
}

// Write replaces the stored document. The new content goes to a temp file in
// the same directory and is renamed into place, so readers see either the
// old or the new record.
func (s *FileStore) Write(ctx context.Context, state *models.DrawState) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := Encode(state)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("rename to %s: %w", s.path, err)
	}
	return nil
}
