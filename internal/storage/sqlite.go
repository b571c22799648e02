package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"feedtagger/internal/models"
	"feedtagger/internal/tags"

	"github.com/mattn/go-sqlite3"
)

const driverName = "sqlite3_feedtagger"

// normalize_tags(field) exposes tags.NormalizeField to SQL so LIKE filters
// see the same canonical form the Go side produces.
func init() {
	sql.Register(driverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("normalize_tags", tags.NormalizeField, true)
		},
	})
}

// SQLiteStorage keeps a single-connection pool for writes and a separate
// pool for reads, so queries run against a WAL snapshot while a batch commit
// is in flight.
type SQLiteStorage struct {
	writeDB *sql.DB
	readDB  *sql.DB
	dbPath  string
}

func NewSQLiteStorage(dataDir string) (*SQLiteStorage, error) {
	// Ensure data directory exists with secure permissions (0750)
	if err := os.MkdirAll(dataDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "feedtagger.db")
	log.Printf("Initializing database at: %s", dbPath)

	dsn := dbPath + "?_journal=WAL&_synchronous=NORMAL&_busy_timeout=30000&_txlock=immediate"

	writeDB, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite only supports one writer at a time
	writeDB.SetMaxOpenConns(1)
	writeDB.SetMaxIdleConns(1)
	writeDB.SetConnMaxLifetime(time.Hour)

	if err := createTables(writeDB); err != nil {
		writeDB.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	readDB, err := sql.Open(driverName, dbPath+"?_journal=WAL&_busy_timeout=30000")
	if err != nil {
		writeDB.Close()
		return nil, fmt.Errorf("failed to open read pool: %w", err)
	}
	readDB.SetMaxOpenConns(4)
	readDB.SetConnMaxLifetime(time.Hour)

	return &SQLiteStorage{
		writeDB: writeDB,
		readDB:  readDB,
		dbPath:  dbPath,
	}, nil
}

const keywordsTable = `
	CREATE TABLE IF NOT EXISTS keywords (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		value TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT uq_keywords_value UNIQUE (value)
	);`

const articlesTable = `
	CREATE TABLE IF NOT EXISTS articles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		url TEXT NOT NULL UNIQUE,
		published_date DATETIME,
		summary TEXT NOT NULL DEFAULT '',
		source TEXT NOT NULL DEFAULT '',
		tags TEXT NOT NULL DEFAULT '', -- ",tag1,tag2," so LIKE '%,tag,%' is exact
		content TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_articles_published_date ON articles(published_date DESC);`

func createTables(db *sql.DB) error {
	if _, err := db.Exec(keywordsTable); err != nil {
		return fmt.Errorf("failed to create keywords table: %w", err)
	}

	if _, err := db.Exec(articlesTable); err != nil {
		return fmt.Errorf("failed to create articles table: %w", err)
	}

	return nil
}

func (s *SQLiteStorage) ListKeywords(ctx context.Context) ([]models.Keyword, error) {
	rows, err := s.readDB.QueryContext(ctx, "SELECT id, value FROM keywords ORDER BY value ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list keywords: %w", err)
	}
	defer rows.Close()

	var keywords []models.Keyword
	for rows.Next() {
		var kw models.Keyword
		if err := rows.Scan(&kw.ID, &kw.Value); err != nil {
			return nil, fmt.Errorf("failed to scan keyword: %w", err)
		}
		keywords = append(keywords, kw)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration: %w", err)
	}

	return keywords, nil
}

func (s *SQLiteStorage) CountKeywords(ctx context.Context) (int, error) {
	var count int
	if err := s.readDB.QueryRowContext(ctx, "SELECT COUNT(*) FROM keywords").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count keywords: %w", err)
	}
	return count, nil
}

// AddKeywords inserts the batch in one transaction. The unique constraint
// decides which values are new; the caller passes normalized values.
func (s *SQLiteStorage) AddKeywords(ctx context.Context, values []string) ([]string, []string, error) {
	added := []string{}
	skipped := []string{}

	tx, err := s.writeDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, "INSERT OR IGNORE INTO keywords (value) VALUES (?)")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer stmt.Close()

	for _, value := range values {
		result, err := stmt.ExecContext(ctx, value)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to insert keyword %q: %w", value, err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get rows affected: %w", err)
		}
		if n == 0 {
			skipped = append(skipped, value)
		} else {
			added = append(added, value)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return added, skipped, nil
}

func (s *SQLiteStorage) RemoveKeywords(ctx context.Context, values []string) ([]string, []string, error) {
	removed := []string{}
	notFound := []string{}

	tx, err := s.writeDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, "DELETE FROM keywords WHERE value = ?")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to prepare delete statement: %w", err)
	}
	defer stmt.Close()

	for _, value := range values {
		result, err := stmt.ExecContext(ctx, value)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to delete keyword %q: %w", value, err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get rows affected: %w", err)
		}
		if n == 0 {
			notFound = append(notFound, value)
		} else {
			removed = append(removed, value)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return removed, notFound, nil
}

func (s *SQLiteStorage) ArticleExists(ctx context.Context, url string) (bool, error) {
	var exists bool
	err := s.readDB.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM articles WHERE url = ?)", url).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check article %s: %w", url, err)
	}
	return exists, nil
}

// InsertArticles writes the whole batch or nothing
func (s *SQLiteStorage) InsertArticles(ctx context.Context, articles []models.Article) (int, error) {
	if len(articles) == 0 {
		return 0, nil
	}

	tx, err := s.writeDB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
				log.Printf("Warning: failed to rollback transaction: %v", err)
			}
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO articles (title, url, published_date, summary, source, tags, content)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer stmt.Close()

	for _, article := range articles {
		var published interface{}
		if article.PublishedDate != nil {
			published = article.PublishedDate.UTC()
		}

		_, err := stmt.ExecContext(ctx, article.Title, article.URL, published, article.Summary, article.Source, article.Tags, article.Content)
		if err != nil {
			return 0, fmt.Errorf("failed to insert article %s: %w", article.URL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	committed = true

	return len(articles), nil
}

// QueryArticles returns one page of articles carrying any of the tokens,
// newest first with undated articles last, plus the unpaged total.
func (s *SQLiteStorage) QueryArticles(ctx context.Context, tokens []string, offset, limit int) ([]models.Article, int, error) {
	where, args := tagFilterClause(tokens)

	tx, err := s.readDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to begin read transaction: %w", err)
	}
	defer tx.Rollback()

	var total int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM articles"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count articles: %w", err)
	}

	query := `
		SELECT id, title, url, published_date, summary, source, tags, content
		FROM articles` + where + `
		ORDER BY published_date IS NULL, published_date DESC, id DESC
		LIMIT ? OFFSET ?`
	pageArgs := append(append([]interface{}{}, args...), limit, offset)

	rows, err := tx.QueryContext(ctx, query, pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query articles: %w", err)
	}
	defer rows.Close()

	articles := []models.Article{}
	for rows.Next() {
		var article models.Article
		var published sql.NullTime

		err := rows.Scan(
			&article.ID,
			&article.Title,
			&article.URL,
			&published,
			&article.Summary,
			&article.Source,
			&article.Tags,
			&article.Content,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan article: %w", err)
		}

		if published.Valid {
			t := published.Time.UTC()
			article.PublishedDate = &t
		}

		articles = append(articles, article)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error during rows iteration: %w", err)
	}

	return articles, total, nil
}

// tagFilterClause ORs one guarded LIKE per token against the normalized field
func tagFilterClause(tokens []string) (string, []interface{}) {
	if len(tokens) == 0 {
		return "", nil
	}

	conditions := make([]string, 0, len(tokens))
	args := make([]interface{}, 0, len(tokens))
	for _, token := range tokens {
		conditions = append(conditions, `normalize_tags(tags) LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(tags.Guard(token))+"%")
	}

	return " WHERE (" + strings.Join(conditions, " OR ") + ")", args
}

func escapeLike(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s)
}

// DistinctTags aggregates the lower-cased tokens present on any article
func (s *SQLiteStorage) DistinctTags(ctx context.Context) ([]string, error) {
	rows, err := s.readDB.QueryContext(ctx, "SELECT tags FROM articles WHERE tags != ''")
	if err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	defer rows.Close()

	set := make(map[string]struct{})
	for rows.Next() {
		var field string
		if err := rows.Scan(&field); err != nil {
			return nil, fmt.Errorf("failed to scan tags: %w", err)
		}
		for _, token := range tags.Deserialize(field) {
			set[tags.Normalize(token)] = struct{}{}
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration: %w", err)
	}

	result := make([]string, 0, len(set))
	for token := range set {
		result = append(result, token)
	}
	sort.Strings(result)

	return result, nil
}

func (s *SQLiteStorage) HasArticlesWithTag(ctx context.Context, token string) (bool, error) {
	var exists bool
	err := s.readDB.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM articles WHERE normalize_tags(tags) LIKE ? ESCAPE '\')`,
		"%"+escapeLike(tags.Guard(token))+"%",
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check tag %q: %w", token, err)
	}
	return exists, nil
}

// ResetArticles drops and recreates the articles table. Keywords are kept.
func (s *SQLiteStorage) ResetArticles(ctx context.Context) error {
	if _, err := s.writeDB.ExecContext(ctx, "DROP TABLE IF EXISTS articles"); err != nil {
		return fmt.Errorf("failed to drop articles table: %w", err)
	}
	if _, err := s.writeDB.ExecContext(ctx, articlesTable); err != nil {
		return fmt.Errorf("failed to recreate articles table: %w", err)
	}
	log.Printf("Articles table reset")
	return nil
}

func (s *SQLiteStorage) GetDatabaseStats(ctx context.Context) (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var articleCount, keywordCount, undated int
	if err := s.readDB.QueryRowContext(ctx, "SELECT COUNT(*) FROM articles").Scan(&articleCount); err != nil {
		return nil, fmt.Errorf("failed to count articles: %w", err)
	}
	if err := s.readDB.QueryRowContext(ctx, "SELECT COUNT(*) FROM keywords").Scan(&keywordCount); err != nil {
		return nil, fmt.Errorf("failed to count keywords: %w", err)
	}
	if err := s.readDB.QueryRowContext(ctx, "SELECT COUNT(*) FROM articles WHERE published_date IS NULL").Scan(&undated); err != nil {
		return nil, fmt.Errorf("failed to count undated articles: %w", err)
	}

	stats["article_count"] = articleCount
	stats["keyword_count"] = keywordCount
	stats["undated_article_count"] = undated

	if info, err := os.Stat(s.dbPath); err == nil {
		stats["database_size_bytes"] = info.Size()
	}

	return stats, nil
}

func (s *SQLiteStorage) Close() error {
	readErr := s.readDB.Close()
	if err := s.writeDB.Close(); err != nil {
		return err
	}
	return readErr
}
