package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wadjakorntonsri/go-custom-links/pkg/core/domain"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository("file:" + t.Name() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestDriverFor(t *testing.T) {
	assert.Equal(t, "libsql", driverFor("libsql://db.turso.io?authToken=x"))
	assert.Equal(t, "libsql", driverFor("wss://db.turso.io"))
	assert.Equal(t, "sqlite", driverFor("file:db.sqlite"))
}

func TestEnsureUser(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	u1, err := repo.EnsureUser(ctx, "a@example.com")
	require.NoError(t, err)
	require.NotNil(t, u1)

	u2, err := repo.EnsureUser(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, u1.ID, u2.ID)

	missing, err := repo.GetUserByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)

	users, err := repo.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestQueryInsertDelete(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	records := []domain.StoredLink{
		{Title: "Docs", URL: "http://a", UserID: 1},
		{Title: "Wiki", URL: "http://b", UserID: 1},
		{Title: "Docs", URL: "http://a", UserID: 1},
		{Title: "Docs", URL: "http://a", UserID: 2},
	}
	for i := range records {
		require.NoError(t, repo.Insert(ctx, &records[i]))
		assert.NotZero(t, records[i].ID)
	}

	all, err := repo.Query(ctx, domain.LinkFilter{UserID: 1})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Docs", all[0].Title)
	assert.Equal(t, "Wiki", all[1].Title)

	dupes, err := repo.Query(ctx, domain.ByValue(1, domain.LinkRecord{Title: "Docs", URL: "http://a"}))
	require.NoError(t, err)
	assert.Len(t, dupes, 2)

	require.NoError(t, repo.DeleteByID(ctx, all[1].ID))
	all, err = repo.Query(ctx, domain.LinkFilter{UserID: 1})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	other, err := repo.Query(ctx, domain.LinkFilter{UserID: 2})
	require.NoError(t, err)
	assert.Len(t, other, 1)
}

func TestQueryQuotedValues(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	link := domain.StoredLink{Title: "O'Brien's page", URL: "http://x/?q='1'", UserID: 7}
	require.NoError(t, repo.Insert(ctx, &link))

	got, err := repo.Query(ctx, domain.ByValue(7, link.Record()))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, link.ID, got[0].ID)
}
