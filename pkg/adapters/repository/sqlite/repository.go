package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	_ "github.com/tursodatabase/libsql-client-go/libsql" // Turso driver
	"github.com/wadjakorntonsri/go-custom-links/pkg/core/domain"
	"github.com/wadjakorntonsri/go-custom-links/pkg/ports"
	_ "modernc.org/sqlite" // Local SQLite driver
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbURL string) (*SQLiteRepository, error) {
	db, err := sql.Open(driverFor(dbURL), dbURL)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	if err := migrate(db); err != nil {
		return nil, err
	}

	return &SQLiteRepository{db: db}, nil
}

func driverFor(dbURL string) string {
	if strings.Contains(dbURL, "libsql://") || strings.Contains(dbURL, "wss://") {
		return "libsql"
	}
	return "sqlite"
}

func migrate(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		email TEXT NOT NULL UNIQUE,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS user_links (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		url TEXT NOT NULL,
		user_id INTEGER NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(user_id) REFERENCES users(id)
	);
	CREATE INDEX IF NOT EXISTS idx_user_links_user_id ON user_links(user_id);
	`
	_, err := db.Exec(query)
	return err
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// --- Record store ---

// Query returns matching rows in insertion order
func (r *SQLiteRepository) Query(ctx context.Context, filter domain.LinkFilter) ([]domain.StoredLink, error) {
	query := `SELECT id, title, url, user_id FROM user_links WHERE user_id = ?`
	args := []interface{}{filter.UserID}

	if filter.Title != nil {
		query += " AND title = ?"
		args = append(args, *filter.Title)
	}
	if filter.URL != nil {
		query += " AND url = ?"
		args = append(args, *filter.URL)
	}
	query += " ORDER BY id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []domain.StoredLink
	for rows.Next() {
		var l domain.StoredLink
		if err := rows.Scan(&l.ID, &l.Title, &l.URL, &l.UserID); err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

func (r *SQLiteRepository) Insert(ctx context.Context, link *domain.StoredLink) error {
	query := `INSERT INTO user_links (title, url, user_id, created_at) VALUES (?, ?, ?, ?)`

	res, err := r.db.ExecContext(ctx, query, link.Title, link.URL, link.UserID, time.Now())
	if err != nil {
		return err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	link.ID = id
	return nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM user_links WHERE id = ?`, id)
	return err
}

// --- Users ---

func (r *SQLiteRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT id, email, created_at FROM users WHERE email = ?`

	var u domain.User
	err := r.db.QueryRowContext(ctx, query, email).Scan(&u.ID, &u.Email, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// EnsureUser returns the user for email, creating it on first sign-in
func (r *SQLiteRepository) EnsureUser(ctx context.Context, email string) (*domain.User, error) {
	_, err := r.db.ExecContext(ctx, `INSERT OR IGNORE INTO users (email, created_at) VALUES (?, ?)`, email, time.Now())
	if err != nil {
		return nil, err
	}
	return r.GetUserByEmail(ctx, email)
}

func (r *SQLiteRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, email, created_at FROM users ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Email, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Ensure interface compliance
var (
	_ ports.RecordStore    = (*SQLiteRepository)(nil)
	_ ports.UserRepository = (*SQLiteRepository)(nil)
)
