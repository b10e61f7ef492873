package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/AndrewSmigaj/OpenAIHackathon-ConceptMRI/errors"
	"github.com/AndrewSmigaj/OpenAIHackathon-ConceptMRI/pkg/cache"
	"github.com/AndrewSmigaj/OpenAIHackathon-ConceptMRI/routegraph"
)

// Session directory layout inside the lake root.
const (
	sessionPrefix = "session_"
	routingFile   = "routing.json"
	tokensFile    = "tokens.json"
	manifestFile  = "manifest.json"
)

// Session is one capture session loaded from the lake: the routing
// decisions for every probe, the probe word pairs, and the manifest
// assigning words to categories.
type Session struct {
	ID       string                     `json:"session_id"`
	Routing  []routegraph.RoutingRecord `json:"routing"`
	Tokens   []routegraph.TokenRecord   `json:"tokens"`
	Manifest *routegraph.Manifest       `json:"manifest"`
}

// Store reads capture sessions from a directory-per-session lake.
// Loaded sessions can optionally be kept in an LRU cache; sessions are
// immutable after capture, so cached copies never go stale except
// through SaveSession, which invalidates them.
type Store struct {
	root     string
	sessions *cache.LRU[*Session]
}

// Option configures a Store.
type Option func(*Store)

// WithSessionCache keeps up to size loaded sessions in memory.
func WithSessionCache(size int) Option {
	return func(s *Store) {
		if size > 0 {
			s.sessions = cache.NewLRU[*Session](size)
		}
	}
}

// NewStore opens a session lake rooted at dir. The directory must exist.
func NewStore(dir string, opts ...Option) (*Store, error) {
	if dir == "" {
		return nil, errors.WrapInvalid(errors.ErrInvalidConfig, "store", "NewStore", "lake directory cannot be empty")
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.WrapInvalid(err, "store", "NewStore", "stat lake directory")
	}
	if !info.IsDir() {
		return nil, errors.WrapInvalid(errors.ErrInvalidConfig, "store", "NewStore", dir+" is not a directory")
	}

	store := &Store{root: dir}
	for _, opt := range opts {
		opt(store)
	}
	return store, nil
}

// ListSessions returns the IDs of every session in the lake, sorted.
func (s *Store) ListSessions(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, errors.WrapTransient(err, "store", "ListSessions", "read lake directory")
	}

	var ids []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		id, ok := strings.CutPrefix(entry.Name(), sessionPrefix)
		if !ok || id == "" {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// LoadSession reads one session's routing records, token records, and
// manifest. Missing sessions return errors.ErrSessionNotFound.
func (s *Store) LoadSession(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, errors.WrapInvalid(errors.ErrInvalidData, "store", "LoadSession", "session ID cannot be empty")
	}
	if s.sessions != nil {
		if session, ok := s.sessions.Get(id); ok {
			return session, nil
		}
	}

	dir := filepath.Join(s.root, sessionPrefix+id)
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapInvalid(errors.ErrSessionNotFound, "store", "LoadSession", "open session "+id)
		}
		return nil, errors.WrapTransient(err, "store", "LoadSession", "stat session "+id)
	}

	session := &Session{ID: id}
	if err := readJSON(filepath.Join(dir, routingFile), &session.Routing); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(dir, tokensFile), &session.Tokens); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(dir, manifestFile), &session.Manifest); err != nil {
		return nil, err
	}
	if session.Manifest == nil {
		session.Manifest = &routegraph.Manifest{}
	}
	session.Manifest.SessionID = id

	if err := ctx.Err(); err != nil {
		return nil, errors.WrapTransient(err, "store", "LoadSession", "context cancelled")
	}
	if s.sessions != nil {
		s.sessions.Set(id, session)
	}
	return session, nil
}

// SaveSession writes a session to the lake, creating its directory.
// Used by capture tooling and tests.
func (s *Store) SaveSession(_ context.Context, session *Session) error {
	if session == nil || session.ID == "" {
		return errors.WrapInvalid(errors.ErrInvalidData, "store", "SaveSession", "session ID cannot be empty")
	}

	dir := filepath.Join(s.root, sessionPrefix+session.ID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.WrapTransient(err, "store", "SaveSession", "create session directory")
	}

	if err := writeJSON(filepath.Join(dir, routingFile), session.Routing); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(dir, tokensFile), session.Tokens); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(dir, manifestFile), session.Manifest); err != nil {
		return err
	}

	if s.sessions != nil {
		s.sessions.Delete(session.ID)
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.WrapInvalid(errors.ErrInvalidData, "store", "readJSON", "missing file "+filepath.Base(path))
		}
		return errors.WrapTransient(err, "store", "readJSON", "read "+filepath.Base(path))
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.WrapFatal(err, "store", "readJSON", "unmarshal "+filepath.Base(path))
	}
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.WrapFatal(err, "store", "writeJSON", "marshal "+filepath.Base(path))
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WrapTransient(err, "store", "writeJSON", "write "+filepath.Base(path))
	}
	return nil
}
