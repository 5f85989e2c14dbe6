package catalog

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"regexp"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog"
)

// DefaultPageSize is the listing page size when none is configured.
const DefaultPageSize = 10

// Service is the catalog core: product listing and mutation plus the category,
// order and stats operations that share the same store.
// Every call runs synchronously against the database; there is no in-process state.
type Service struct {
	db       *sql.DB
	log      zerolog.Logger
	pageSize int
	now      func() time.Time
}

func NewService(db *sql.DB, log zerolog.Logger, pageSize int) *Service {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Service{
		db:       db,
		log:      log.With().Str("component", "catalog").Logger(),
		pageSize: pageSize,
		now:      func() time.Time { return time.Now().UTC().Truncate(time.Second) },
	}
}

// PageSize is the configured listing page size.
func (s *Service) PageSize() int {
	return s.pageSize
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// MySQL server error numbers that can slip past pre-validation under concurrent writes.
const (
	mysqlDuplicateEntry  = 1062
	mysqlOutOfRange      = 1264
	mysqlNoReferencedRow = 1452
)

var outOfRangeColumnRe = regexp.MustCompile("column '([^']+)'")

// outOfRangeColumn names the column from an error 1264 message, "value" when it cannot.
func outOfRangeColumn(err error) string {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		if m := outOfRangeColumnRe.FindStringSubmatch(me.Message); m != nil {
			return m[1]
		}
	}
	return "value"
}

// clampPage keeps page >= 1 and small enough that (page-1)*pageSize fits a MySQL OFFSET.
func clampPage(page, pageSize int) int {
	if page < 1 {
		return 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	if limit := math.MaxInt32 / pageSize; page > limit {
		return limit
	}
	return page
}

func mysqlErrorNumber(err error) uint16 {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number
	}
	return 0
}

// exists runs a "SELECT 1 ... WHERE id = ?" style query and reports whether a row came back.
func exists(ctx context.Context, q queryer, query string, id int64) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx, query, id).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
