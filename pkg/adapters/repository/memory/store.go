// Package memory is an in-process record store and user directory.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/wadjakorntonsri/go-custom-links/pkg/core/domain"
	"github.com/wadjakorntonsri/go-custom-links/pkg/ports"
)

type Store struct {
	mu sync.Mutex

	nextLinkID int64
	nextUserID int64
	links      []domain.StoredLink // insertion order
	users      map[string]domain.User
}

func NewStore() *Store {
	return &Store{
		users: make(map[string]domain.User),
	}
}

func (s *Store) Query(_ context.Context, filter domain.LinkFilter) ([]domain.StoredLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.StoredLink
	for _, l := range s.links {
		if filter.Matches(l) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *Store) Insert(_ context.Context, link *domain.StoredLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextLinkID++
	link.ID = s.nextLinkID
	s.links = append(s.links, *link)
	return nil
}

// DeleteByID is a no-op for unknown ids
func (s *Store) DeleteByID(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, l := range s.links {
		if l.ID == id {
			s.links = append(s.links[:i], s.links[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[email]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (s *Store) EnsureUser(_ context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[email]
	if !ok {
		s.nextUserID++
		u = domain.User{ID: s.nextUserID, Email: email, CreatedAt: time.Now()}
		s.users[email] = u
	}
	return &u, nil
}

func (s *Store) ListUsers(_ context.Context) ([]domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

var (
	_ ports.RecordStore    = (*Store)(nil)
	_ ports.UserRepository = (*Store)(nil)
)
