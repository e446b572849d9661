// Package storage provides a JSON document store with one directory per entity
// kind and one file per entity, fronted by an injected in-memory cache.
//
// Read paths degrade instead of failing: a missing document is reported as
// absent and a document that cannot be read or decoded is logged and skipped.
// Write paths always return their errors.
//
// Concurrent writers to the same id are not serialized; the last rename wins.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"invoicing/internal/logger"
)

// DefaultMaxConcurrentReads bounds the fan-out of GetAll.
const DefaultMaxConcurrentReads = 16

// Entity is a record persisted as one document. T is the concrete pointer type.
type Entity[T any] interface {
	GetID() string
	SetID(id string)
	Clone() T
}

// Store persists a homogeneous collection of entities.
type Store[T Entity[T]] struct {
	dir        string
	collection string
	ext        string
	maxReads   int
	cache      *Cache[T]
	log        zerolog.Logger
}

// Option configures a Store.
type Option func(*options)

type options struct {
	ext      string
	maxReads int
	log      *zerolog.Logger
}

// WithExtension changes the document file extension (default ".json").
func WithExtension(ext string) Option {
	return func(o *options) {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		o.ext = ext
	}
}

// WithMaxConcurrentReads bounds the number of documents GetAll reads at once.
func WithMaxConcurrentReads(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxReads = n
		}
	}
}

// WithLogger replaces the component logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.log = &l
	}
}

// NewStore opens (creating if needed) the collection directory dir.
// The cache is owned by the returned store; a nil cache gets a fresh one.
func NewStore[T Entity[T]](dir string, cache *Cache[T], opts ...Option) (*Store[T], error) {
	const op = "NewStore"

	o := options{ext: ".json", maxReads: DefaultMaxConcurrentReads}
	for _, opt := range opts {
		opt(&o)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &StoreError{Op: op, Collection: filepath.Base(dir), Err: err}
	}

	if cache == nil {
		cache = NewCache[T]()
	}

	collection := filepath.Base(dir)
	log := logger.WithComponent("storage").With().Str("collection", collection).Logger()
	if o.log != nil {
		log = *o.log
	}

	return &Store[T]{
		dir:        dir,
		collection: collection,
		ext:        o.ext,
		maxReads:   o.maxReads,
		cache:      cache,
		log:        log,
	}, nil
}

// Dir returns the collection directory.
func (s *Store[T]) Dir() string {
	return s.dir
}

// Get returns the entity with the given id. A missing or unreadable document, or
// an empty id, is reported as found=false with a nil error.
func (s *Store[T]) Get(ctx context.Context, id string) (T, bool, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, false, err
	}
	if id == "" {
		return zero, false, nil
	}
	if err := validateID(id); err != nil {
		return zero, false, err
	}

	if v, ok := s.cache.Get(id); ok {
		return v, true, nil
	}

	v, err := s.readDocument(id)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Warn().Err(err).Str("id", id).Msg("Failed to read document, treating as missing")
		}
		return zero, false, nil
	}

	s.cache.Put(v)
	return v, true, nil
}

// GetAll returns every entity in the collection ordered by id. Documents that
// fail to read or decode are logged and left out of the result.
func (s *Store[T]) GetAll(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.cache.Loaded() {
		return s.cache.All(), nil
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		s.log.Error().Err(err).Str("dir", s.dir).Msg("Failed to list collection directory")
		return []T{}, nil
	}

	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, s.ext) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, s.ext))
	}

	results := make([]T, len(ids))
	ok := make([]bool, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxReads)
	for i, id := range ids {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			v, err := s.readDocument(id)
			if err != nil {
				s.log.Warn().Err(err).Str("id", id).Msg("Skipping unreadable document")
				return nil
			}
			results[i] = v
			ok[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	loaded := make([]T, 0, len(ids))
	for i := range results {
		if ok[i] {
			loaded = append(loaded, results[i])
		}
	}

	s.log.Debug().
		Int("documents", len(ids)).
		Int("loaded", len(loaded)).
		Msg("Collection read from disk")

	s.cache.Fill(loaded)
	return s.cache.All(), nil
}

// Query returns the entities matching predicate. It is a linear scan over GetAll.
func (s *Store[T]) Query(ctx context.Context, predicate func(T) bool) ([]T, error) {
	all, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]T, 0, len(all))
	for _, v := range all {
		if predicate(v) {
			matched = append(matched, v)
		}
	}
	return matched, nil
}

// Save writes the entity, assigning a new id when it has none. The written value
// replaces any cached copy.
func (s *Store[T]) Save(ctx context.Context, entity T) error {
	const op = "Save"

	if err := ctx.Err(); err != nil {
		return err
	}

	if entity.GetID() == "" {
		entity.SetID(uuid.NewString())
	}
	id := entity.GetID()
	if err := validateID(id); err != nil {
		return &StoreError{Op: op, Collection: s.collection, ID: id, Err: err}
	}

	data, err := json.MarshalIndent(entity, "", "  ")
	if err != nil {
		return &StoreError{Op: op, Collection: s.collection, ID: id, Err: err}
	}

	if err := s.writeFile(s.path(id), data); err != nil {
		s.log.Error().Err(err).Str("id", id).Msg("Failed to write document")
		return &StoreError{Op: op, Collection: s.collection, ID: id, Err: err}
	}

	s.cache.Put(entity)
	s.log.Debug().Str("id", id).Msg("Document saved")
	return nil
}

// Delete removes the document. Deleting an unknown id is not an error.
func (s *Store[T]) Delete(ctx context.Context, id string) error {
	const op = "Delete"

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateID(id); err != nil {
		return &StoreError{Op: op, Collection: s.collection, ID: id, Err: err}
	}

	if err := os.Remove(s.path(id)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.log.Error().Err(err).Str("id", id).Msg("Failed to delete document")
		return &StoreError{Op: op, Collection: s.collection, ID: id, Err: err}
	}

	s.cache.Remove(id)
	s.log.Debug().Str("id", id).Msg("Document deleted")
	return nil
}

// Invalidate drops every cached entity; the next GetAll reads from disk.
func (s *Store[T]) Invalidate() {
	s.cache.Invalidate()
}

func (s *Store[T]) path(id string) string {
	return filepath.Join(s.dir, id+s.ext)
}

func (s *Store[T]) readDocument(id string) (T, error) {
	var v T

	data, err := os.ReadFile(s.path(id))
	if err != nil {
		return v, err
	}
	if trimmed := bytes.TrimSpace(data); len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return v, errors.New("empty document")
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, err
	}

	if v.GetID() != id {
		if v.GetID() != "" {
			s.log.Warn().
				Str("id", id).
				Str("document_id", v.GetID()).
				Msg("Document id does not match file name, using file name")
		}
		v.SetID(id)
	}
	return v, nil
}

// writeFile replaces path atomically via a temp file in the same directory.
// The temp name does not end in the document extension, so GetAll ignores it.
func (s *Store[T]) writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

func validateID(id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return ErrInvalidID
	}
	return nil
}
