package localstore

import (
	"context"
	"errors"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/client/session"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/entities"
)

const currentSessionKey = "current"

// CredentialStore persists the signed-in session in the auth collection.
type CredentialStore struct {
	backend Backend
}

var _ session.Persister = (*CredentialStore)(nil)

func NewCredentialStore(b Backend) *CredentialStore {
	return &CredentialStore{backend: b}
}

func (s *CredentialStore) Load() (session.State, error) {
	rec, err := s.backend.Get(context.Background(), CollectionAuth, currentSessionKey)
	if errors.Is(err, entities.ErrNotFound) {
		return session.State{}, nil
	}
	if err != nil {
		return session.State{}, err
	}
	var state session.State
	if err := rec.Decode(&state); err != nil {
		return session.State{}, err
	}
	return state, nil
}

func (s *CredentialStore) Save(state session.State) error {
	rec, err := Encode(CollectionAuth, currentSessionKey, state)
	if err != nil {
		return err
	}
	return s.backend.Set(context.Background(), rec)
}

func (s *CredentialStore) Clear() error {
	err := s.backend.Delete(context.Background(), CollectionAuth, currentSessionKey)
	if errors.Is(err, entities.ErrNotFound) {
		return nil
	}
	return err
}
