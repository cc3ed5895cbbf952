// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/summary-engine/pkg/types"
)

// Cache stores chat completion responses in SQLite so repeated identical
// requests are answered locally.
type Cache struct {
	db *sql.DB
}

// OpenCache opens or creates the response cache at path, creating parent
// directories and the schema as needed.
func OpenCache(path string) (*Cache, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	c := &Cache{db: db}
	if err := c.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}
	return c, nil
}

// Close releases the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

func (c *Cache) createSchema() error {
	_, err := c.db.Exec(`CREATE TABLE IF NOT EXISTS responses (
		key TEXT PRIMARY KEY,
		model TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// Get looks up a cached response. The second return is false on a miss.
func (c *Cache) Get(ctx context.Context, model string, messages []types.ChatMessage, temperature float64, maxTokens int) (string, bool, error) {
	var content string
	err := c.db.QueryRowContext(ctx,
		`SELECT content FROM responses WHERE key = ?`,
		requestKey(model, messages, temperature, maxTokens),
	).Scan(&content)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return content, true, nil
}

// Put stores a response, replacing any previous entry for the same
// request shape.
func (c *Cache) Put(ctx context.Context, model string, messages []types.ChatMessage, temperature float64, maxTokens int, content string) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO responses (key, model, content, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET content=excluded.content, created_at=excluded.created_at`,
		requestKey(model, messages, temperature, maxTokens), model, content,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	return err
}

// requestKey hashes the full request shape. Any change in model, message
// contents, or sampling parameters produces a different key.
func requestKey(model string, messages []types.ChatMessage, temperature float64, maxTokens int) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%.6f\x00%d\x00", model, temperature, maxTokens)
	for _, m := range messages {
		fmt.Fprintf(h, "%s\x1f%s\x1e", m.Role, m.Content)
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}
