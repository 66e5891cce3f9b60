// Package repository picks the storage backend from the database URL.
package repository

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/wadjakorntonsri/go-custom-links/pkg/adapters/repository/memory"
	"github.com/wadjakorntonsri/go-custom-links/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/go-custom-links/pkg/ports"
)

const memoryScheme = "memory://"

// Backend serves both the link records and the user directory
type Backend interface {
	ports.RecordStore
	ports.UserRepository
	Close() error
}

type memoryBackend struct {
	*memory.Store
}

func (memoryBackend) Close() error { return nil }

// Open returns an in-process store for memory:// and a SQLite/libSQL
// repository for anything else
func Open(databaseURL string) (Backend, error) {
	if strings.HasPrefix(databaseURL, memoryScheme) {
		return memoryBackend{memory.NewStore()}, nil
	}

	repo, err := sqlite.NewSQLiteRepository(databaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite repository")
	}
	return repo, nil
}
