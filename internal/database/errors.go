package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// IsConnectionError reports whether err comes from losing or failing to reach
// the database rather than from the statement itself.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 08xxx connection exception, 57P0x operator intervention, 53300 too many connections.
		return strings.HasPrefix(pgErr.Code, "08") ||
			strings.HasPrefix(pgErr.Code, "57P0") ||
			pgErr.Code == "53300"
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

// Unavailable decides whether a failed statement should be reported as the
// store being down. When the error itself is ambiguous the pool is pinged.
func Unavailable(ctx context.Context, db *gorm.DB, err error) bool {
	if err == nil || errors.Is(err, gorm.ErrRecordNotFound) {
		return false
	}
	if IsConnectionError(err) {
		return true
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	return CheckHealth(ctx, db) != nil
}
