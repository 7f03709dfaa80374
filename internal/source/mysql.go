package source

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dbsmedya/ndjson2csv/internal/config"
	"github.com/dbsmedya/ndjson2csv/internal/record"
	"github.com/dbsmedya/ndjson2csv/internal/sqlutil"
)

// MySQLSource turns the rows of a query into records. Each row becomes one
// object keyed by column name in column order.
type MySQLSource struct {
	db    *sql.DB
	query string
	desc  string
}

// NewMySQLSource builds a source from the query or table in cfg. The
// connection is owned by the caller.
func NewMySQLSource(db *sql.DB, cfg *config.DatabaseConfig) (*MySQLSource, error) {
	query := strings.TrimRight(strings.TrimSpace(cfg.Query), ";")
	desc := "mysql query"
	if query == "" {
		if cfg.Table == "" {
			return nil, errors.New("mysql source needs a query or a table")
		}
		table, err := sqlutil.QuoteTable(cfg.Table)
		if err != nil {
			return nil, err
		}
		query = "SELECT * FROM " + table
		desc = "mysql table " + cfg.Table
	}
	return &MySQLSource{db: db, query: query, desc: desc}, nil
}

// Query returns the statement run on every pass.
func (s *MySQLSource) Query() string {
	return s.query
}

// Describe names the query or table.
func (s *MySQLSource) Describe() string {
	return s.desc
}

// Count runs the query wrapped in COUNT(*).
func (s *MySQLSource) Count(ctx context.Context) (int64, error) {
	var n int64
	q := "SELECT COUNT(*) FROM (" + s.query + ") AS src"
	if err := s.db.QueryRowContext(ctx, q).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count rows: %w", err)
	}
	return n, nil
}

// Open runs the query.
func (s *MySQLSource) Open(ctx context.Context) (Stream, error) {
	rows, err := s.db.QueryContext(ctx, s.query)
	if err != nil {
		return nil, fmt.Errorf("failed to run source query: %w", err)
	}

	cols, err := rows.ColumnTypes()
	if err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to read column types: %w", err)
	}

	return &rowStream{rows: rows, cols: cols}, nil
}

// Close is a no-op; the connection belongs to the database manager.
func (s *MySQLSource) Close() error {
	return nil
}

type rowStream struct {
	rows *sql.Rows
	cols []*sql.ColumnType
	n    int64
}

func (s *rowStream) Next(ctx context.Context) (*record.Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !s.rows.Next() {
		if err := s.rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to read source rows: %w", err)
		}
		return nil, io.EOF
	}
	s.n++

	values := make([]any, len(s.cols))
	ptrs := make([]any, len(s.cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := s.rows.Scan(ptrs...); err != nil {
		return nil, fmt.Errorf("failed to scan row %d: %w", s.n, err)
	}

	obj := record.NewObject()
	for i, col := range s.cols {
		v, err := columnValue(col.DatabaseTypeName(), values[i])
		if err != nil {
			return nil, &ParseError{Record: s.n, Err: fmt.Errorf("column %s: %w", col.Name(), err)}
		}
		obj.Set(col.Name(), v)
	}
	return obj, nil
}

func (s *rowStream) Close() error {
	return s.rows.Close()
}

// columnValue maps a scanned driver value onto the record value model.
func columnValue(typeName string, v any) (any, error) {
	typeName = strings.TrimPrefix(strings.ToUpper(typeName), "UNSIGNED ")

	switch t := v.(type) {
	case nil:
		return nil, nil
	case []byte:
		return textValue(typeName, string(t))
	case string:
		return textValue(typeName, t)
	case int64:
		return json.Number(strconv.FormatInt(t, 10)), nil
	case uint64:
		return json.Number(strconv.FormatUint(t, 10)), nil
	case float64:
		return json.Number(strconv.FormatFloat(t, 'f', -1, 64)), nil
	case float32:
		return json.Number(strconv.FormatFloat(float64(t), 'f', -1, 32)), nil
	case bool:
		return t, nil
	case time.Time:
		return t.Format(time.RFC3339Nano), nil
	default:
		return fmt.Sprint(t), nil
	}
}

func textValue(typeName, s string) (any, error) {
	switch typeName {
	case "JSON":
		return record.Parse([]byte(s))
	case "TINYINT", "SMALLINT", "MEDIUMINT", "INT", "BIGINT", "DECIMAL", "FLOAT", "DOUBLE", "YEAR":
		return json.Number(s), nil
	default:
		return s, nil
	}
}
