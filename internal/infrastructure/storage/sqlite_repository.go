package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"ArticleFeed/internal/domain"
	"ArticleFeed/internal/ports"
)

const schema = `CREATE TABLE IF NOT EXISTS liked_articles (
	id       TEXT PRIMARY KEY,
	title    TEXT NOT NULL,
	url      TEXT NOT NULL UNIQUE,
	extract  TEXT NOT NULL DEFAULT '',
	liked_at TIMESTAMP NOT NULL
)`

// SQLiteRepository persists liked articles into a local SQLite database.
type SQLiteRepository struct {
	db *sql.DB
}

var _ ports.LikeRepository = (*SQLiteRepository)(nil)

// NewSQLiteRepository opens (and if needed creates) the likes database at path.
func NewSQLiteRepository(path string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open likes database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// Close releases the underlying database handle.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Save upserts a liked article, keyed by its canonical URL.
func (r *SQLiteRepository) Save(ctx context.Context, article domain.LikedArticle) error {
	if article.ID == "" {
		article.ID = uuid.NewString()
	}
	if article.LikedAt.IsZero() {
		article.LikedAt = time.Now().UTC()
	}

	query, args, err := sq.Insert("liked_articles").
		Columns("id", "title", "url", "extract", "liked_at").
		Values(article.ID, article.Title, article.URL, article.Extract, article.LikedAt).
		Suffix("ON CONFLICT (url) DO UPDATE SET title = excluded.title, extract = excluded.extract").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save liked article: %w", err)
	}
	return nil
}

// List returns all liked articles, most recent first.
func (r *SQLiteRepository) List(ctx context.Context) ([]domain.LikedArticle, error) {
	query, args, err := sq.Select("id", "title", "url", "extract", "liked_at").
		From("liked_articles").
		OrderBy("liked_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query liked articles: %w", err)
	}
	defer rows.Close()

	var likes []domain.LikedArticle
	for rows.Next() {
		var like domain.LikedArticle
		if err := rows.Scan(&like.ID, &like.Title, &like.URL, &like.Extract, &like.LikedAt); err != nil {
			return nil, fmt.Errorf("scan liked article: %w", err)
		}
		likes = append(likes, like)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return likes, nil
}

// Delete removes one liked article by id. Unknown ids are a no-op.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	query, args, err := sq.Delete("liked_articles").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete liked article: %w", err)
	}
	return nil
}
