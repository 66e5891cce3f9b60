package handler

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/wadjakorntonsri/go-custom-links/pkg/core/services"
	"github.com/wadjakorntonsri/go-custom-links/pkg/logger"
	"github.com/wadjakorntonsri/go-custom-links/pkg/ports"
	"go.uber.org/zap"
)

// sessionHost is the host context of one signed-in user's widget
type sessionHost struct {
	email    string
	users    ports.UserRepository
	embedded bool
}

func (h *sessionHost) CurrentUserID(ctx context.Context) (int64, error) {
	u, err := h.users.GetUserByEmail(ctx, h.email)
	if err != nil {
		return 0, err
	}
	if u == nil {
		return 0, errors.Errorf("no user registered for %s", h.email)
	}
	return u.ID, nil
}

func (h *sessionHost) Embedded() bool {
	return h.embedded
}

// surface holds the last markup the widget rendered
type surface struct {
	markup []byte
}

func (s *surface) Replace(markup []byte) error {
	s.markup = append(s.markup[:0], markup...)
	return nil
}

func (s *surface) Markup() []byte {
	return s.markup
}

// instance is one hosted widget. mu is held for the whole of each event so
// that events for the same user are handled one at a time.
type instance struct {
	mu      sync.Mutex
	host    *sessionHost
	surface *surface
	manager ports.LinkManager
}

// Registry owns one widget instance per signed-in email
type Registry struct {
	users  ports.UserRepository
	store  ports.RecordStore
	logger *zap.Logger

	mu        sync.Mutex
	instances map[string]*instance
}

func NewRegistry(users ports.UserRepository, store ports.RecordStore, log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		users:     users,
		store:     store,
		logger:    log,
		instances: make(map[string]*instance),
	}
}

// Acquire returns the initialized instance for email with its lock held.
// The caller must call the returned release func. An instance whose
// initialization fails is dropped so that the next request starts over.
func (r *Registry) Acquire(ctx context.Context, email string, embedded bool) (*instance, func(), error) {
	r.mu.Lock()
	inst, ok := r.instances[email]
	if !ok {
		host := &sessionHost{email: email, users: r.users}
		surf := &surface{}
		inst = &instance{
			host:    host,
			surface: surf,
			manager: services.NewLinkManager(host, r.store, surf, r.logger.With(zap.String(logger.FieldEmail, email))),
		}
		r.instances[email] = inst
	}
	r.mu.Unlock()

	inst.mu.Lock()
	inst.host.embedded = embedded

	if err := inst.manager.Initialize(ctx); err != nil {
		r.mu.Lock()
		if r.instances[email] == inst {
			delete(r.instances, email)
		}
		r.mu.Unlock()
		inst.mu.Unlock()
		return nil, nil, err
	}

	return inst, inst.mu.Unlock, nil
}

// Forget drops the instance for email, e.g. on logout
func (r *Registry) Forget(email string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.instances, email)
}
