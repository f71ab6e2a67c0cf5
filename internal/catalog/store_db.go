package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
	openTimeout  = 5 * time.Second
)

var ErrUnsupportedDSN = errors.New("unsupported database url")

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS products (
	seq         BIGSERIAL PRIMARY KEY,
	id          TEXT NOT NULL UNIQUE,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	price       NUMERIC NOT NULL CHECK (price >= 0),
	image       TEXT NOT NULL DEFAULT '',
	category    TEXT NOT NULL DEFAULT 'General',
	discount    INTEGER NOT NULL DEFAULT 0 CHECK (discount BETWEEN 0 AND 100)
)`

// SQLite has no exact numeric type, so prices are kept as canonical text.
const schemaSQLite = `
CREATE TABLE IF NOT EXISTS products (
	seq         INTEGER PRIMARY KEY AUTOINCREMENT,
	id          TEXT NOT NULL UNIQUE,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	price       TEXT NOT NULL,
	image       TEXT NOT NULL DEFAULT '',
	category    TEXT NOT NULL DEFAULT 'General',
	discount    INTEGER NOT NULL DEFAULT 0 CHECK (discount BETWEEN 0 AND 100)
)`

// filterColumns maps Filter keys to table columns.
var filterColumns = map[string]string{
	"_id":         "id",
	"name":        "name",
	"description": "description",
	"image":       "image",
	"category":    "category",
	"price":       "price",
	"discount":    "discount",
}

// SQLStore is the durable catalog backed by Postgres or SQLite.
type SQLStore struct {
	db      *sql.DB
	backend Backend
}

func NewSQLStore(db *sql.DB, backend Backend) *SQLStore {
	return &SQLStore{db: db, backend: backend}
}

// OpenSQLStore connects to dsn, checks the connection and creates the schema.
// postgres:// and postgresql:// urls use pgx, sqlite:<path> uses SQLite.
func OpenSQLStore(ctx context.Context, dsn string) (*SQLStore, error) {
	backend, driver, source, err := parseDSN(dsn)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", backend, err)
	}
	if backend == BackendSQLite {
		db.SetMaxOpenConns(1)
	}

	s := NewSQLStore(db, backend)
	err = withTimeout(ctx, openTimeout, func(ctx context.Context) error {
		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("ping %s: %w", backend, err)
		}
		return s.Migrate(ctx)
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func parseDSN(dsn string) (backend Backend, driver, source string, err error) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return BackendPostgres, "pgx", dsn, nil
	case strings.HasPrefix(dsn, "sqlite:"):
		path := strings.TrimPrefix(strings.TrimPrefix(dsn, "sqlite:"), "//")
		if path == "" {
			return "", "", "", fmt.Errorf("%w: empty sqlite path", ErrUnsupportedDSN)
		}
		if !strings.Contains(path, "?") {
			path += "?_pragma=busy_timeout(5000)"
		}
		return BackendSQLite, "sqlite", path, nil
	default:
		return "", "", "", fmt.Errorf("%w: %q", ErrUnsupportedDSN, redact(dsn))
	}
}

// redact keeps only the scheme so credentials never reach the logs.
func redact(dsn string) string {
	if scheme, _, ok := strings.Cut(dsn, "://"); ok {
		return scheme + "://…"
	}
	return "…"
}

func (s *SQLStore) Backend() Backend { return s.backend }

func (s *SQLStore) Close() error { return s.db.Close() }

func (s *SQLStore) Migrate(ctx context.Context) error {
	schema := schemaSQLite
	if s.backend == BackendPostgres {
		schema = schemaPostgres
	}
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, schema)
		return err
	})
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

func (s *SQLStore) Count(ctx context.Context) (int, error) {
	var n int64
	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&n)
	})
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (s *SQLStore) InsertMany(ctx context.Context, products []Product) ([]Product, error) {
	stored, err := prepareInsert(products)
	if err != nil {
		return nil, err
	}
	if len(stored) == 0 {
		return stored, nil
	}

	err = withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		stmt, err := tx.PrepareContext(ctx, s.rebind(`
			INSERT INTO products (id, name, description, price, image, category, discount)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`))
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, p := range stored {
			if _, err := stmt.ExecContext(ctx,
				p.ID, p.Name, p.Description, p.Price.String(), p.Image, p.Category, p.Discount,
			); err != nil {
				return fmt.Errorf("insert %q: %w", p.Name, err)
			}
		}

		return tx.Commit()
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

func (s *SQLStore) Find(ctx context.Context, filter Filter, sort SortSpec) ([]Product, error) {
	where, args, ok := buildWhere(filter)
	if !ok {
		return []Product{}, nil
	}

	out := make([]Product, 0, 16)
	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, s.rebind(`
			SELECT id, name, description, price, image, category, discount
			FROM products`+where+`
			ORDER BY seq ASC
		`), args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var p Product
			if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Image, &p.Category, &p.Discount); err != nil {
				return err
			}
			out = append(out, p)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	sort.Apply(out)
	return out, nil
}

// buildWhere turns a filter into a WHERE clause with ? placeholders. ok is
// false when the filter can match nothing.
func buildWhere(filter Filter) (where string, args []any, ok bool) {
	if len(filter) == 0 {
		return "", nil, true
	}

	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	conds := make([]string, 0, len(keys))
	for _, k := range keys {
		col, known := filterColumns[k]
		if !known {
			return "", nil, false
		}

		v := filter[k]
		switch k {
		case "price":
			pr, err := NewPrice(v)
			if err != nil {
				return "", nil, false
			}
			args = append(args, pr.String())
		case "discount":
			n, err := strconv.Atoi(v)
			if err != nil {
				return "", nil, false
			}
			args = append(args, n)
		default:
			args = append(args, v)
		}
		conds = append(conds, col+" = ?")
	}

	return "\n\t\t\tWHERE " + strings.Join(conds, " AND "), args, true
}

// rebind rewrites ? placeholders to $n for Postgres.
func (s *SQLStore) rebind(q string) string {
	if s.backend != BackendPostgres {
		return q
	}

	var b strings.Builder
	b.Grow(len(q) + 8)
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
