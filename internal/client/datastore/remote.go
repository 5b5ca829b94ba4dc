package datastore

import (
	"context"
	"sort"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/client/models"
)

// Endpoint is one API resource. The resources of remote.Client implement it.
type Endpoint[T any] interface {
	List(ctx context.Context, category string) ([]T, error)
	Create(ctx context.Context, v T) (T, error)
	Update(ctx context.Context, id int64, v T) (T, error)
	Delete(ctx context.Context, id int64) error
	Do(ctx context.Context, verb models.Verb, id int64) (T, error)
}

// RemoteStore adapts an Endpoint to Store.
type RemoteStore[T models.Entity[T]] struct {
	api Endpoint[T]
}

func NewRemoteStore[T models.Entity[T]](api Endpoint[T]) *RemoteStore[T] {
	return &RemoteStore[T]{api: api}
}

func (s *RemoteStore[T]) Read(ctx context.Context, q Query) ([]T, error) {
	items, err := s.api.List(ctx, q.Category)
	if err != nil {
		return nil, err
	}
	if q.ID != 0 {
		for _, item := range items {
			if item.Key() == q.ID {
				return []T{item}, nil
			}
		}
		return []T{}, nil
	}
	sortRecent(items)
	return items, nil
}

func (s *RemoteStore[T]) Write(ctx context.Context, op Op[T]) (T, error) {
	switch op.Verb {
	case models.VerbCreate:
		return s.api.Create(ctx, op.Value)
	case models.VerbUpdate:
		return s.api.Update(ctx, op.ID, op.Value)
	}
	return s.api.Do(ctx, op.Verb, op.ID)
}

func (s *RemoteStore[T]) Remove(ctx context.Context, id int64) error {
	return s.api.Delete(ctx, id)
}

// sortRecent orders records by creation time, newest first, then by id.
func sortRecent[T models.Entity[T]](items []T) {
	sort.SliceStable(items, func(i, j int) bool {
		ci, cj := items[i].Created(), items[j].Created()
		if !ci.Equal(cj) {
			return ci.After(cj)
		}
		return items[i].Key() > items[j].Key()
	})
}
