package ports

import (
	"context"

	"github.com/wadjakorntonsri/go-custom-links/pkg/core/domain"
)

// RecordStore is the per-user list store backing the widget.
// The component writes only through Insert and DeleteByID.
type RecordStore interface {
	Query(ctx context.Context, filter domain.LinkFilter) ([]domain.StoredLink, error)
	Insert(ctx context.Context, link *domain.StoredLink) error // assigns link.ID
	DeleteByID(ctx context.Context, id int64) error
}

// UserRepository maps signed-in emails to integer user ids
type UserRepository interface {
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error) // nil, nil when absent
	EnsureUser(ctx context.Context, email string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
}

// HostContext is the session the widget is hosted in
type HostContext interface {
	CurrentUserID(ctx context.Context) (int64, error)
	// Embedded reports the special embedding environment (Teams)
	Embedded() bool
}

// RenderTarget receives the widget markup, replacing whatever was there
type RenderTarget interface {
	Replace(markup []byte) error
}

// Component is the capability pair driven by the host controller
type Component interface {
	Initialize(ctx context.Context) error
	Render() error
}

// LinkManager is the widget's add/edit/delete workflow
type LinkManager interface {
	Component

	LoadUserLinks(ctx context.Context) error
	SaveUserLinks(ctx context.Context) error
	AddLink(ctx context.Context) error
	Submit(ctx context.Context, title, url string) error
	DeleteLink(ctx context.Context) error

	OpenAdd() error
	OpenEdit(index int) error
	ClosePane() error

	Form() domain.FormDescriptor
	Snapshot() domain.Snapshot
}
