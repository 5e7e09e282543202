package dbx

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Dialect captures what differs between the supported SQL engines.
type Dialect struct {
	// Name is the goose dialect.
	Name string
	// Driver is the database/sql driver name.
	Driver string
	// Numbered placeholders ($1, $2, ...) instead of ?.
	Numbered bool
}

var (
	SQLite   = Dialect{Name: "sqlite3", Driver: "sqlite"}
	Postgres = Dialect{Name: "pgx", Driver: "pgx", Numbered: true}
)

// DialectFor picks the dialect from a DSN: postgres URLs and key/value
// strings select PostgreSQL, everything else is a SQLite path.
func DialectFor(dsn string) Dialect {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"),
		strings.Contains(dsn, "host="):
		return Postgres
	default:
		return SQLite
	}
}

// Rebind rewrites ? placeholders for the dialect.
func (d Dialect) Rebind(query string) string {
	if !d.Numbered {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
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

// Instants are stored as RFC 3339 text in UTC and dates as YYYY-MM-DD so that
// both engines round-trip them through plain strings.

// FormatInstant encodes t for storage.
func FormatInstant(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// ParseInstant decodes a stored instant into loc.
func ParseInstant(s string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid instant %q: %w", s, err)
	}
	return t.In(loc), nil
}

// NullInstant encodes an optional instant.
func NullInstant(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: FormatInstant(*t), Valid: true}
}

// ParseNullInstant decodes an optional instant.
func ParseNullInstant(s sql.NullString, loc *time.Location) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := ParseInstant(s.String, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FormatDate encodes the calendar day of t as seen in loc.
func FormatDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}

// ParseDate decodes a stored date at midnight in loc. PostgreSQL DATE
// columns come back as full timestamps; only the day part is used.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if len(s) > 10 {
		s = s[:10]
	}
	t, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// NullDate encodes an optional date.
func NullDate(t *time.Time, loc *time.Location) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: FormatDate(*t, loc), Valid: true}
}

// ParseNullDate decodes an optional date.
func ParseNullDate(s sql.NullString, loc *time.Location) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := ParseDate(s.String, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// NullString maps "" to NULL.
func NullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
