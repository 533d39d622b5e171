// Package sqlread is a reference publisher that runs read-only SQL queries
// against a SQLite database. It exists so the harness and the CLI have a
// real plugin to exercise.
//
// Configure options:
//
//	dsn      string  required  SQLite data source (":memory:", "file:x.db")
//	timeout  int     optional  per-call timeout in seconds, default 5
//	setup    array   optional  SQL statements run once, in order, on configure
//
// Read parameters:
//
//	query    string  required  the SELECT to run
//	args     array   optional  positional bind arguments
//
// Rows come back as objects keyed by column name. REAL columns are rendered
// as decimal strings and BLOBs as text; NULL columns are omitted from the
// row object.
package sqlread

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/pubtest/internal/ir"
	"github.com/roach88/pubtest/internal/publisher"
)

// Name is the registry name.
const Name = "sqlite"

// DefaultTimeout applies when the timeout option is unset.
const DefaultTimeout = 5 * time.Second

// ErrNotConfigured is returned by Read before a successful Configure.
var ErrNotConfigured = errors.New("sqlread: publisher not configured")

func init() {
	publisher.Register(Name, New)
}

// Publisher is the SQLite read publisher.
type Publisher struct {
	db      *sql.DB
	timeout time.Duration
}

// New returns an unconfigured publisher.
func New() (publisher.Publisher, error) {
	return &Publisher{}, nil
}

// Configure opens the database and runs the setup statements.
// Reconfiguring closes the previous database first.
func (p *Publisher) Configure(ctx context.Context, req *publisher.ConfigureRequest) error {
	dsn, err := req.GetString("dsn")
	if err != nil {
		return err
	}
	if dsn == "" {
		return publisher.InvalidOption("dsn", "must not be empty")
	}

	seconds, err := req.IntOr("timeout", int64(DefaultTimeout/time.Second))
	if err != nil {
		return err
	}
	if seconds <= 0 {
		return publisher.InvalidOption("timeout", "must be positive, got %d", seconds)
	}

	var setup []string
	if req.Has("setup") {
		stmts, err := req.GetArray("setup")
		if err != nil {
			return err
		}
		for i, stmt := range stmts {
			s, ok := stmt.(ir.String)
			if !ok {
				return publisher.InvalidOption("setup", "element %d is not a string", i)
			}
			setup = append(setup, string(s))
		}
	}

	if err := p.Close(); err != nil {
		return fmt.Errorf("close previous database: %w", err)
	}

	db, err := open(dsn)
	if err != nil {
		return err
	}

	p.db = db
	p.timeout = time.Duration(seconds) * time.Second

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	for i, stmt := range setup {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("setup[%d]: %w", i, err)
		}
	}
	return nil
}

// Read runs the query and returns every row.
func (p *Publisher) Read(ctx context.Context, req *publisher.ReadRequest) (*publisher.ReadResult, error) {
	if p.db == nil {
		return nil, ErrNotConfigured
	}

	query, err := req.GetString("query")
	if err != nil {
		return nil, err
	}

	var args []any
	if req.Has("args") {
		arr, err := req.GetArray("args")
		if err != nil {
			return nil, err
		}
		for _, a := range arr {
			args = append(args, ir.ToGo(a))
		}
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("get columns: %w", err)
	}

	result := &publisher.ReadResult{Rows: ir.Array{}}
	values := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		row := make(ir.Object, len(columns))
		for i, col := range columns {
			if v, ok := toValue(values[i]); ok {
				row[col] = v
			}
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	colNames := make(ir.Array, len(columns))
	for i, c := range columns {
		colNames[i] = ir.String(c)
	}
	result.Metadata = ir.Object{"columns": colNames}
	return result, nil
}

// Close releases the database. Safe to call on an unconfigured publisher.
func (p *Publisher) Close() error {
	if p.db == nil {
		return nil
	}
	err := p.db.Close()
	p.db = nil
	return err
}

// toValue maps a scanned SQLite value to ir. NULL reports false.
func toValue(v any) (ir.Value, bool) {
	switch val := v.(type) {
	case nil:
		return nil, false
	case int64:
		return ir.Int(val), true
	case float64:
		return ir.String(strconv.FormatFloat(val, 'f', -1, 64)), true
	case bool:
		return ir.Bool(val), true
	case []byte:
		return ir.String(string(val)), true
	case string:
		return ir.String(val), true
	case time.Time:
		return ir.String(val.UTC().Format(time.RFC3339Nano)), true
	default:
		return ir.String(fmt.Sprintf("%v", val)), true
	}
}
