// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/poiesic/noema/core"
	"github.com/poiesic/noema/storage"
	"github.com/poiesic/noema/storage/sqlite/migrations"
)

// Store implements storage.ThoughtStore on SQLite.
type Store struct {
	db     *sql.DB
	path   string
	closed atomic.Bool
	logger *slog.Logger
}

var _ storage.ThoughtStore = (*Store)(nil)

// NewStore creates a SQLite-backed thought store at dataDir. The database
// file is created on first use; WAL mode is enabled for concurrent readers.
func NewStore(dataDir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "thoughts.db")
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:     db,
		path:   dbPath,
		logger: logger.With("component", "sqlite_store"),
	}
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		s.logger.Info("applied migration", "version", version)
	}
	return nil
}

// AddThought stores a thought and its entities. For thoughts with ID=0,
// derives a content-based ID. Sets CreatedAt/UpdatedAt timestamps.
func (s *Store) AddThought(ctx context.Context, thought *core.Thought) (*core.Thought, error) {
	if s.closed.Load() {
		return nil, storage.ErrStorageClosed
	}
	if err := core.ValidateThought(thought); err != nil {
		return nil, err
	}

	stored := *thought
	stored.Tags = core.NormalizeTags(stored.Tags)
	if stored.Timestamp.IsZero() {
		stored.Timestamp = time.Now().UTC()
	}
	if stored.Id == 0 {
		stored.Id = core.IDFromContent(fmt.Sprintf("%s|%s|%d",
			stored.UserId, stored.Content, stored.Timestamp.UnixMicro()))
	}
	now := time.Now().UTC()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx, `
		INSERT INTO thoughts (id, user_id, content, mood, tags, timestamp, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, id) DO NOTHING
	`, int64(stored.Id), stored.UserId, stored.Content, stored.Mood, encodeTags(stored.Tags),
		stored.Timestamp.UnixMicro(), stored.CreatedAt.UnixMicro(), stored.UpdatedAt.UnixMicro())
	if err != nil {
		return nil, fmt.Errorf("inserting thought: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking insert result: %w", err)
	}
	if affected == 0 {
		return nil, storage.ErrDuplicateKey
	}

	if err := insertEntities(ctx, tx, &stored); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	s.logger.Debug("thought added", "thought_id", stored.Id, "user_id", stored.UserId)
	return &stored, nil
}

// UpdateThought replaces an existing thought and its entities.
func (s *Store) UpdateThought(ctx context.Context, thought *core.Thought) (*core.Thought, error) {
	if s.closed.Load() {
		return nil, storage.ErrStorageClosed
	}
	if err := core.ValidateThought(thought); err != nil {
		return nil, err
	}

	stored := *thought
	stored.Tags = core.NormalizeTags(stored.Tags)
	stored.UpdatedAt = time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx, `
		UPDATE thoughts
		SET content = ?, mood = ?, tags = ?, timestamp = ?, updated_at = ?
		WHERE user_id = ? AND id = ?
	`, stored.Content, stored.Mood, encodeTags(stored.Tags), stored.Timestamp.UnixMicro(),
		stored.UpdatedAt.UnixMicro(), stored.UserId, int64(stored.Id))
	if err != nil {
		return nil, fmt.Errorf("updating thought: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking update result: %w", err)
	}
	if affected == 0 {
		return nil, storage.ErrNotFound
	}

	_, err = tx.ExecContext(ctx, "DELETE FROM entities WHERE user_id = ? AND thought_id = ?",
		stored.UserId, int64(stored.Id))
	if err != nil {
		return nil, fmt.Errorf("clearing entities: %w", err)
	}
	if err := insertEntities(ctx, tx, &stored); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return &stored, nil
}

// DeleteThought removes a thought and its entities.
func (s *Store) DeleteThought(ctx context.Context, userId string, id core.ID) error {
	if s.closed.Load() {
		return storage.ErrStorageClosed
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx, "DELETE FROM thoughts WHERE user_id = ? AND id = ?",
		userId, int64(id))
	if err != nil {
		return fmt.Errorf("deleting thought: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}

	_, err = tx.ExecContext(ctx, "DELETE FROM entities WHERE user_id = ? AND thought_id = ?",
		userId, int64(id))
	if err != nil {
		return fmt.Errorf("deleting entities: %w", err)
	}
	return tx.Commit()
}

// GetThought retrieves a single thought with its entities.
func (s *Store) GetThought(ctx context.Context, userId string, id core.ID) (*core.Thought, error) {
	if s.closed.Load() {
		return nil, storage.ErrStorageClosed
	}
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, content, mood, tags, timestamp, created_at, updated_at
		FROM thoughts WHERE user_id = ? AND id = ?
	`, userId, int64(id))

	thought, err := scanThoughtRow(row)
	if err != nil {
		return nil, err
	}
	if err := s.loadEntities(ctx, userId, map[core.ID]*core.Thought{thought.Id: thought}); err != nil {
		return nil, err
	}
	return thought, nil
}

// GetThoughts retrieves multiple thoughts by their IDs. Missing IDs are
// skipped without error.
func (s *Store) GetThoughts(ctx context.Context, userId string, ids ...core.ID) ([]*core.Thought, error) {
	if s.closed.Load() {
		return nil, storage.ErrStorageClosed
	}
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, 0, len(ids)+1)
	args = append(args, userId)
	for i, id := range ids {
		placeholders[i] = "?"
		args = append(args, int64(id))
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT id, user_id, content, mood, tags, timestamp, created_at, updated_at
		FROM thoughts WHERE user_id = ? AND id IN (%s)
	`, strings.Join(placeholders, ", ")), args...)
	if err != nil {
		return nil, fmt.Errorf("querying thoughts: %w", err)
	}
	defer rows.Close()

	thoughts, err := scanThoughts(rows)
	if err != nil {
		return nil, err
	}
	if err := s.loadEntitiesFor(ctx, userId, thoughts); err != nil {
		return nil, err
	}
	return thoughts, nil
}

// GetRecentThoughts retrieves the N most recent thoughts, newest first.
func (s *Store) GetRecentThoughts(ctx context.Context, userId string, limit int) ([]*core.Thought, error) {
	if s.closed.Load() {
		return nil, storage.ErrStorageClosed
	}
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", storage.ErrInvalidQuery)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, content, mood, tags, timestamp, created_at, updated_at
		FROM thoughts WHERE user_id = ?
		ORDER BY timestamp DESC, id ASC
		LIMIT ?
	`, userId, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent thoughts: %w", err)
	}
	defer rows.Close()

	thoughts, err := scanThoughts(rows)
	if err != nil {
		return nil, err
	}
	if err := s.loadEntitiesFor(ctx, userId, thoughts); err != nil {
		return nil, err
	}
	return thoughts, nil
}

// ListThoughts pages through all of a user's thoughts in stable id order.
func (s *Store) ListThoughts(ctx context.Context, userId string, offset, limit int) ([]*core.Thought, error) {
	if s.closed.Load() {
		return nil, storage.ErrStorageClosed
	}
	if limit <= 0 || offset < 0 {
		return nil, fmt.Errorf("%w: invalid page bounds", storage.ErrInvalidQuery)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, content, mood, tags, timestamp, created_at, updated_at
		FROM thoughts WHERE user_id = ?
		ORDER BY id ASC
		LIMIT ? OFFSET ?
	`, userId, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("querying thoughts: %w", err)
	}
	defer rows.Close()

	thoughts, err := scanThoughts(rows)
	if err != nil {
		return nil, err
	}
	if err := s.loadEntitiesFor(ctx, userId, thoughts); err != nil {
		return nil, err
	}
	return thoughts, nil
}

// SearchKeyword runs the keyword retrieval path. The query tokens are
// matched as case-insensitive substrings of the content; filters narrow
// the candidate set before matching. The score of a hit is the fraction
// of query tokens present in its content.
func (s *Store) SearchKeyword(ctx context.Context, q storage.KeywordQuery) ([]storage.KeywordMatch, error) {
	if s.closed.Load() {
		return nil, storage.ErrStorageClosed
	}
	if q.UserId == "" {
		return nil, fmt.Errorf("%w: user id is required", storage.ErrInvalidQuery)
	}
	if q.Limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", storage.ErrInvalidQuery)
	}

	where, args := buildKeywordWhere(q)
	args = append(args, q.Limit)

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT id, user_id, content, mood, tags, timestamp, created_at, updated_at
		FROM thoughts
		WHERE %s
		ORDER BY timestamp DESC, id ASC
		LIMIT ?
	`, where), args...)
	if err != nil {
		return nil, fmt.Errorf("querying keyword matches: %w", err)
	}
	defer rows.Close()

	thoughts, err := scanThoughts(rows)
	if err != nil {
		return nil, err
	}
	if err := s.loadEntitiesFor(ctx, q.UserId, thoughts); err != nil {
		return nil, err
	}

	matches := make([]storage.KeywordMatch, 0, len(thoughts))
	for _, t := range thoughts {
		matches = append(matches, storage.KeywordMatch{
			Thought: t,
			Score:   overlapScore(t.Content, q.Tokens),
		})
	}
	return matches, nil
}

// CountMatches returns the number of thoughts a KeywordQuery would match,
// ignoring its Limit.
func (s *Store) CountMatches(ctx context.Context, q storage.KeywordQuery) (int, error) {
	if s.closed.Load() {
		return 0, storage.ErrStorageClosed
	}
	if q.UserId == "" {
		return 0, fmt.Errorf("%w: user id is required", storage.ErrInvalidQuery)
	}

	where, args := buildKeywordWhere(q)
	var count int
	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM thoughts WHERE %s", where), args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting matches: %w", err)
	}
	return count, nil
}

// SuggestTerms proposes up to limit alternative search terms: frequent
// entity values sharing the prefix first, then content words sharing it.
func (s *Store) SuggestTerms(ctx context.Context, userId, prefix string, limit int) ([]string, error) {
	if s.closed.Load() {
		return nil, storage.ErrStorageClosed
	}
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" || limit <= 0 {
		return nil, nil
	}

	terms := make([]string, 0, limit)
	seen := make(map[string]bool)

	rows, err := s.db.QueryContext(ctx, `
		SELECT LOWER(value), COUNT(*) AS freq
		FROM entities
		WHERE user_id = ? AND value LIKE ? ESCAPE '\'
		GROUP BY LOWER(value)
		ORDER BY freq DESC, LOWER(value) ASC
		LIMIT ?
	`, userId, escapeLike(prefix)+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("querying entity values: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var value string
		var freq int
		if err := rows.Scan(&value, &freq); err != nil {
			return nil, fmt.Errorf("scanning entity value: %w", err)
		}
		if !seen[value] {
			seen[value] = true
			terms = append(terms, value)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entity values: %w", err)
	}
	if len(terms) >= limit {
		return terms[:limit], nil
	}

	// Mine content words from thoughts mentioning the prefix.
	contentRows, err := s.db.QueryContext(ctx, `
		SELECT content FROM thoughts
		WHERE user_id = ? AND content LIKE ? ESCAPE '\'
		ORDER BY timestamp DESC
		LIMIT 200
	`, userId, "%"+escapeLike(prefix)+"%")
	if err != nil {
		return nil, fmt.Errorf("querying contents: %w", err)
	}
	defer contentRows.Close()

	freqs := make(map[string]int)
	for contentRows.Next() {
		var content string
		if err := contentRows.Scan(&content); err != nil {
			return nil, fmt.Errorf("scanning content: %w", err)
		}
		for _, word := range strings.Fields(strings.ToLower(content)) {
			word = strings.Trim(word, ".,!?;:\"'()[]{}")
			if len(word) > len(prefix) && strings.HasPrefix(word, prefix) {
				freqs[word]++
			}
		}
	}
	if err := contentRows.Err(); err != nil {
		return nil, fmt.Errorf("iterating contents: %w", err)
	}

	words := make([]string, 0, len(freqs))
	for w := range freqs {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if freqs[words[i]] != freqs[words[j]] {
			return freqs[words[i]] > freqs[words[j]]
		}
		return words[i] < words[j]
	})
	for _, w := range words {
		if len(terms) >= limit {
			break
		}
		if !seen[w] {
			seen[w] = true
			terms = append(terms, w)
		}
	}
	return terms, nil
}

// buildKeywordWhere assembles the WHERE clause shared by SearchKeyword and
// CountMatches.
func buildKeywordWhere(q storage.KeywordQuery) (string, []any) {
	clauses := []string{"user_id = ?"}
	args := []any{q.UserId}

	if len(q.Tokens) > 0 {
		tokenClauses := make([]string, len(q.Tokens))
		for i, tok := range q.Tokens {
			tokenClauses[i] = `content LIKE ? ESCAPE '\'`
			args = append(args, "%"+escapeLike(tok)+"%")
		}
		clauses = append(clauses, "("+strings.Join(tokenClauses, " OR ")+")")
	}
	if q.DateRange != nil {
		if !q.DateRange.Since.IsZero() {
			clauses = append(clauses, "timestamp >= ?")
			args = append(args, q.DateRange.Since.UnixMicro())
		}
		if !q.DateRange.Until.IsZero() {
			clauses = append(clauses, "timestamp <= ?")
			args = append(args, q.DateRange.Until.UnixMicro())
		}
	}
	for _, tag := range q.Tags {
		clauses = append(clauses, `tags LIKE ? ESCAPE '\'`)
		args = append(args, "%,"+escapeLike(strings.ToLower(tag))+",%")
	}
	if q.Mood != "" {
		clauses = append(clauses, "LOWER(mood) = ?")
		args = append(args, strings.ToLower(q.Mood))
	}
	if len(q.EntityTypes) > 0 {
		placeholders := make([]string, len(q.EntityTypes))
		for i, et := range q.EntityTypes {
			placeholders[i] = "?"
			args = append(args, string(et))
		}
		clauses = append(clauses, fmt.Sprintf(`EXISTS (
			SELECT 1 FROM entities e
			WHERE e.user_id = thoughts.user_id
			  AND e.thought_id = thoughts.id
			  AND e.entity_type IN (%s)
		)`, strings.Join(placeholders, ", ")))
	}
	return strings.Join(clauses, " AND "), args
}

// overlapScore is the fraction of query tokens found in the content.
func overlapScore(content string, tokens []string) float64 {
	if len(tokens) == 0 {
		return 0
	}
	lower := strings.ToLower(content)
	found := 0
	for _, tok := range tokens {
		if strings.Contains(lower, tok) {
			found++
		}
	}
	return float64(found) / float64(len(tokens))
}

// escapeLike escapes LIKE metacharacters in a user-supplied pattern.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// insertEntities writes all of a thought's entities within tx.
func insertEntities(ctx context.Context, tx *sql.Tx, thought *core.Thought) error {
	if len(thought.Entities) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO entities (thought_id, user_id, entity_type, value, confidence, start_pos, end_pos, extracted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing entity insert: %w", err)
	}
	defer stmt.Close()

	for i := range thought.Entities {
		e := &thought.Entities[i]
		e.ThoughtId = thought.Id
		if err := core.ValidateEntity(e); err != nil {
			return err
		}
		extractedAt := e.ExtractedAt
		if extractedAt.IsZero() {
			extractedAt = time.Now().UTC()
			e.ExtractedAt = extractedAt
		}
		if _, err := stmt.ExecContext(ctx, int64(thought.Id), thought.UserId, string(e.Type),
			e.Value, e.Confidence, e.StartPos, e.EndPos, extractedAt.UnixMicro()); err != nil {
			return fmt.Errorf("inserting entity: %w", err)
		}
	}
	return nil
}

// loadEntitiesFor attaches entities to the given thoughts.
func (s *Store) loadEntitiesFor(ctx context.Context, userId string, thoughts []*core.Thought) error {
	if len(thoughts) == 0 {
		return nil
	}
	byId := make(map[core.ID]*core.Thought, len(thoughts))
	for _, t := range thoughts {
		byId[t.Id] = t
	}
	return s.loadEntities(ctx, userId, byId)
}

func (s *Store) loadEntities(ctx context.Context, userId string, byId map[core.ID]*core.Thought) error {
	placeholders := make([]string, 0, len(byId))
	args := make([]any, 0, len(byId)+1)
	args = append(args, userId)
	for id := range byId {
		placeholders = append(placeholders, "?")
		args = append(args, int64(id))
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT id, thought_id, entity_type, value, confidence, start_pos, end_pos, extracted_at
		FROM entities WHERE user_id = ? AND thought_id IN (%s)
		ORDER BY id ASC
	`, strings.Join(placeholders, ", ")), args...)
	if err != nil {
		return fmt.Errorf("querying entities: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e core.Entity
		var id, thoughtId, extractedAt int64
		if err := rows.Scan(&id, &thoughtId, &e.Type, &e.Value, &e.Confidence,
			&e.StartPos, &e.EndPos, &extractedAt); err != nil {
			return fmt.Errorf("scanning entity: %w", err)
		}
		e.Id = core.ID(uint64(id))
		e.ThoughtId = core.ID(uint64(thoughtId))
		e.ExtractedAt = time.UnixMicro(extractedAt).UTC()
		if t, ok := byId[e.ThoughtId]; ok {
			t.Entities = append(t.Entities, e)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating entities: %w", err)
	}
	return nil
}

// scanThoughtRow scans a single thought row without entities.
func scanThoughtRow(row *sql.Row) (*core.Thought, error) {
	var t core.Thought
	var id, timestamp, createdAt, updatedAt int64
	var tags string
	if err := row.Scan(&id, &t.UserId, &t.Content, &t.Mood, &tags,
		&timestamp, &createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("scanning thought: %w", err)
	}
	t.Id = core.ID(uint64(id))
	t.Tags = decodeTags(tags)
	t.Timestamp = time.UnixMicro(timestamp).UTC()
	t.CreatedAt = time.UnixMicro(createdAt).UTC()
	t.UpdatedAt = time.UnixMicro(updatedAt).UTC()
	return &t, nil
}

// scanThoughts scans thought rows without entities.
func scanThoughts(rows *sql.Rows) ([]*core.Thought, error) {
	var thoughts []*core.Thought //nolint:prealloc // size unknown from query
	for rows.Next() {
		var t core.Thought
		var id, timestamp, createdAt, updatedAt int64
		var tags string
		if err := rows.Scan(&id, &t.UserId, &t.Content, &t.Mood, &tags,
			&timestamp, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning thought: %w", err)
		}
		t.Id = core.ID(uint64(id))
		t.Tags = decodeTags(tags)
		t.Timestamp = time.UnixMicro(timestamp).UTC()
		t.CreatedAt = time.UnixMicro(createdAt).UTC()
		t.UpdatedAt = time.UnixMicro(updatedAt).UTC()
		thoughts = append(thoughts, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating thoughts: %w", err)
	}
	return thoughts, nil
}

// encodeTags stores tags as ",a,b," so single tags match with one LIKE.
func encodeTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	return "," + strings.Join(tags, ",") + ","
}

func decodeTags(encoded string) []string {
	trimmed := strings.Trim(encoded, ",")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, ",")
}
