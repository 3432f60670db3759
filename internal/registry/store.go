// Package registry owns the resident collection: loading it from its backing
// file, applying mutations and persisting the whole collection back.
package registry

import (
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"hostelpass/internal/errors"
	"hostelpass/internal/logging"
	"hostelpass/internal/models"
)

// Backend persists one JSON document. files.JSONFile satisfies it.
type Backend interface {
	Read(v interface{}) (bool, error)
	Write(v interface{}) error
}

// ErrDuplicateID matches (via errors.Is) any error for an id that is already
// taken or blank in a replacement set.
var ErrDuplicateID = errors.New(errors.ErrAlreadyExists, "resident id already exists")

func duplicateID(id string) error {
	return errors.Newf(errors.ErrAlreadyExists, "resident id %q already exists", id).WithDetail("id", id)
}

// Store is the resident registry. Every operation reads the whole collection
// from the backend; mutations write the whole collection back. The mutex
// keeps one writer at a time so read/compute/write sequences never interleave.
type Store struct {
	backend Backend
	mu      sync.RWMutex
	newID   func() string
	log     zerolog.Logger
}

func NewStore(backend Backend) *Store {
	return &Store{
		backend: backend,
		newID:   uuid.NewString,
		log:     logging.GetLogger("registry"),
	}
}

// List returns the whole collection in persisted order.
func (s *Store) List() ([]models.Resident, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.load()
}

// Get returns the resident with id; ok is false when there is none.
func (s *Store) Get(id string) (r models.Resident, ok bool, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	residents, err := s.load()
	if err != nil {
		return models.Resident{}, false, err
	}
	if i := indexOf(residents, id); i >= 0 {
		return residents[i], true, nil
	}
	return models.Resident{}, false, nil
}

// Create appends a resident. A blank id is replaced with a generated one;
// any other id is stored exactly as supplied.
// Required fields are not checked here.
func (s *Store) Create(p models.ResidentPayload) (models.Resident, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	residents, err := s.load()
	if err != nil {
		return models.Resident{}, err
	}

	id := p.ID
	if strings.TrimSpace(id) == "" {
		id = s.newID()
		for indexOf(residents, id) >= 0 {
			id = s.newID()
		}
	} else if indexOf(residents, id) >= 0 {
		return models.Resident{}, duplicateID(id)
	}

	r := p.Resident(id)
	residents = append(residents, r)
	if err := s.save(residents); err != nil {
		return models.Resident{}, err
	}
	s.log.Info().Str("id", r.ID).Str("studentId", r.StudentID).Msg("Resident created")
	return r, nil
}

// Update merges patch over the stored resident. ok is false when id is unknown,
// in which case nothing is written.
func (s *Store) Update(id string, patch models.ResidentPatch) (r models.Resident, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	residents, err := s.load()
	if err != nil {
		return models.Resident{}, false, err
	}
	i := indexOf(residents, id)
	if i < 0 {
		return models.Resident{}, false, nil
	}

	residents[i] = patch.Apply(residents[i])
	if err := s.save(residents); err != nil {
		return models.Resident{}, false, err
	}
	s.log.Info().Str("id", id).Msg("Resident updated")
	return residents[i], true, nil
}

// Delete removes the resident with id and reports whether one was removed.
func (s *Store) Delete(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	residents, err := s.load()
	if err != nil {
		return false, err
	}
	i := indexOf(residents, id)
	if i < 0 {
		return false, nil
	}

	residents = append(residents[:i], residents[i+1:]...)
	if err := s.save(residents); err != nil {
		return false, err
	}
	s.log.Info().Str("id", id).Msg("Resident deleted")
	return true, nil
}

// Replace overwrites the whole collection.
func (s *Store) Replace(residents []models.Resident) error {
	seen := make(map[string]struct{}, len(residents))
	for _, r := range residents {
		if _, dup := seen[r.ID]; dup || r.ID == "" {
			return duplicateID(r.ID)
		}
		seen[r.ID] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.save(residents); err != nil {
		return err
	}
	s.log.Info().Int("count", len(residents)).Msg("Registry replaced")
	return nil
}

func (s *Store) load() ([]models.Resident, error) {
	var residents []models.Resident
	if _, err := s.backend.Read(&residents); err != nil {
		return nil, errors.Wrap(err, errors.ErrStorage, "read registry")
	}
	if residents == nil {
		residents = []models.Resident{}
	}
	return residents, nil
}

func (s *Store) save(residents []models.Resident) error {
	if residents == nil {
		residents = []models.Resident{}
	}
	if err := s.backend.Write(residents); err != nil {
		s.log.Error().Err(err).Msg("Failed to persist registry")
		return errors.Wrap(err, errors.ErrStorage, "write registry")
	}
	return nil
}

func indexOf(residents []models.Resident, id string) int {
	for i, r := range residents {
		if r.ID == id {
			return i
		}
	}
	return -1
}
