package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wadjakorntonsri/go-custom-links/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/go-custom-links/pkg/core/domain"
)

func TestLinksCommand(t *testing.T) {
	dbURL := "file:cli_links?mode=memory&cache=shared"
	repo, err := sqlite.NewSQLiteRepository(dbURL)
	require.NoError(t, err)
	defer repo.Close()

	ctx := context.Background()
	u, err := repo.EnsureUser(ctx, "cli@example.com")
	require.NoError(t, err)
	require.NoError(t, repo.Insert(ctx, &domain.StoredLink{Title: "Docs", URL: "http://a", UserID: u.ID}))

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"links", "--db", dbURL, "--email", "cli@example.com"})
	require.NoError(t, cmd.ExecuteContext(ctx))

	assert.Contains(t, out.String(), "TITLE")
	assert.Contains(t, out.String(), "Docs")
	assert.Contains(t, out.String(), "http://a")

	out.Reset()
	cmd = newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"users", "--db", dbURL})
	require.NoError(t, cmd.ExecuteContext(ctx))
	assert.Contains(t, out.String(), "cli@example.com")
}

func TestLinksCommandUnknownUser(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"links", "--db", "memory://", "--email", "ghost@example.com"})
	assert.Error(t, cmd.ExecuteContext(context.Background()))
}
