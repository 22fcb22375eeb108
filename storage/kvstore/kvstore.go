// Package kvstore is the record store: durable persistence of named JSON
// collections over a simple key-value backend. Every save rewrites the whole
// collection; reads degrade to a caller-supplied seed when the backend is
// unavailable or the entry is absent.
package kvstore

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/doctorprep/backend/core"
)

// Backend is a durable key-value sink. It may be entirely absent (e.g. the
// data dir cannot be created); Get reports absence via ok=false.
type Backend interface {
	Get(name string) (data []byte, ok bool, err error)
	Set(name string, data []byte) error
}

type Store struct {
	backend Backend
	logger  core.Logger
}

func NewStore(backend Backend, logger core.Logger) *Store {
	return &Store{backend: backend, logger: logger}
}

// Load unmarshals the named collection into dest. On a missing entry, an
// unreachable backend or a corrupt payload it falls back to seed and reports
// success; callers always get a usable collection.
func (s *Store) Load(name string, dest, seed interface{}) error {
	data, ok, err := s.backend.Get(name)
	if err != nil || !ok {
		if err != nil {
			s.logger.Warn("record store: falling back to seed for "+name, err)
		}
		return s.seed(dest, seed)
	}
	if err = json.Unmarshal(data, dest); err != nil {
		s.logger.Warn("record store: corrupt payload for "+name+", falling back to seed", err)
		return s.seed(dest, seed)
	}
	return nil
}

// Save serializes v and overwrites the named entry unconditionally. Backend
// failures are logged, not returned; durable writes are best-effort by
// design (single-user, single-device data).
func (s *Store) Save(name string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("record store: marshaling "+name, err)
		return
	}
	if err = s.backend.Set(name, data); err != nil {
		s.logger.Error("record store: saving "+name, err)
	}
}

func (s *Store) seed(dest, seed interface{}) error {
	if seed == nil {
		return nil
	}
	data, err := json.Marshal(seed)
	if err != nil {
		return errors.Wrap(err, "marshaling seed")
	}
	return errors.Wrap(json.Unmarshal(data, dest), "unmarshaling seed")
}
