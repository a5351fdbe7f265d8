package directory

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // Pure Go SQLite driver, WAL-friendly
)

// Schema is the table layout SQLiteSource reads. Row order of employees is
// the input order the hierarchy builder sees.
const Schema = `
CREATE TABLE IF NOT EXISTS employees (
	id              INTEGER NOT NULL,
	title           TEXT    NOT NULL DEFAULT '',
	person_name     TEXT,
	person_email    TEXT,
	picture_url     TEXT,
	department      TEXT,
	location        TEXT,
	phone           INTEGER,
	view_names      TEXT,
	color           TEXT,
	font_color      TEXT,
	parent_order    INTEGER NOT NULL DEFAULT 0,
	child_order     INTEGER NOT NULL DEFAULT 0,
	sub_child_order INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS employee_managers (
	employee_row  INTEGER NOT NULL,
	position      INTEGER NOT NULL DEFAULT 0,
	manager_id    INTEGER,
	manager_name  TEXT,
	manager_email TEXT
);
CREATE TABLE IF NOT EXISTS employee_views (
	employee_row INTEGER NOT NULL,
	view_title   TEXT    NOT NULL
);
CREATE TABLE IF NOT EXISTS org_views (
	id    INTEGER PRIMARY KEY,
	title TEXT NOT NULL
);
`

// SQLiteSource reads records from a SQLite snapshot of the list in read-only
// WAL mode. employee_managers and employee_views reference employees by rowid
// so duplicate ids in the snapshot stay distinguishable.
type SQLiteSource struct {
	dbPath string
	dsn    string
}

// NewSQLiteSource constructs a source for the database at dbPath.
func NewSQLiteSource(dbPath string) *SQLiteSource {
	trimmed := strings.TrimSpace(dbPath)
	return &SQLiteSource{
		dbPath: trimmed,
		dsn:    buildSQLiteDSN(trimmed),
	}
}

// Path returns the database file the source reads.
func (s *SQLiteSource) Path() string {
	return s.dbPath
}

// buildSQLiteDSN creates a read-only WAL DSN for the given path.
func buildSQLiteDSN(dbPath string) string {
	u := url.URL{
		Scheme: "file",
		Path:   filepath.ToSlash(dbPath),
	}
	q := url.Values{}
	q.Set("mode", "ro")
	q.Set("_journal_mode", "WAL")
	q.Set("_busy_timeout", "3000")
	q.Set("cache", "shared")
	u.RawQuery = q.Encode()
	return u.String()
}

func (s *SQLiteSource) openDB(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open("sqlite", s.dsn)
	if err != nil {
		return nil, classifyLoadError(s.dbPath, "open", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, classifyLoadError(s.dbPath, "ping", err)
	}
	return db, nil
}

// queryer is the read side shared by *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Records returns every employee row in rowid order with its managers and
// view tags attached.
func (s *SQLiteSource) Records(ctx context.Context) ([]Record, error) {
	db, err := s.openDB(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = db.Close()
	}()
	return s.readRecords(ctx, db)
}

// OrgViews returns the org_views table ordered by id.
func (s *SQLiteSource) OrgViews(ctx context.Context) ([]OrgView, error) {
	db, err := s.openDB(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = db.Close()
	}()
	return s.readOrgViews(ctx, db)
}

// Snapshot reads records and org views inside one transaction so both come
// from the same database state.
func (s *SQLiteSource) Snapshot(ctx context.Context) (Snapshot, error) {
	db, err := s.openDB(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	defer func() {
		_ = db.Close()
	}()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Snapshot{}, classifyLoadError(s.dbPath, "begin", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	records, err := s.readRecords(ctx, tx)
	if err != nil {
		return Snapshot{}, err
	}
	views, err := s.readOrgViews(ctx, tx)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Records: records, Views: views}, nil
}

func (s *SQLiteSource) readRecords(ctx context.Context, q queryer) ([]Record, error) {
	byRow, ordered, err := loadEmployees(ctx, q)
	if err != nil {
		return nil, classifyLoadError(s.dbPath, "query", err)
	}
	if err := loadManagers(ctx, q, byRow); err != nil {
		return nil, classifyLoadError(s.dbPath, "query", err)
	}
	if err := loadViews(ctx, q, byRow); err != nil {
		return nil, classifyLoadError(s.dbPath, "query", err)
	}

	out := make([]Record, 0, len(ordered))
	for _, rec := range ordered {
		rec.normalize()
		out = append(out, *rec)
	}
	return out, nil
}

func (s *SQLiteSource) readOrgViews(ctx context.Context, q queryer) ([]OrgView, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, title FROM org_views ORDER BY id`)
	if err != nil {
		return nil, classifyLoadError(s.dbPath, "query", fmt.Errorf("query org views: %w", err))
	}
	defer func() {
		_ = rows.Close()
	}()

	var views []OrgView
	for rows.Next() {
		var v OrgView
		if err := rows.Scan(&v.ID, &v.Title); err != nil {
			return nil, classifyLoadError(s.dbPath, "query", fmt.Errorf("scan org view: %w", err))
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyLoadError(s.dbPath, "query", err)
	}
	return views, nil
}

func loadEmployees(ctx context.Context, q queryer) (map[int64]*Record, []*Record, error) {
	const query = `SELECT rowid, id, title,
		       person_name, COALESCE(person_email, ''), COALESCE(picture_url, ''),
		       COALESCE(department, ''), COALESCE(location, ''), COALESCE(phone, 0),
		       view_names, COALESCE(color, ''), COALESCE(font_color, ''),
		       parent_order, child_order, sub_child_order
		FROM employees ORDER BY rowid`

	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("query employees: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	byRow := make(map[int64]*Record)
	var ordered []*Record
	for rows.Next() {
		var (
			rowID      int64
			rec        Record
			personName sql.NullString
			email      string
			picture    string
			viewNames  sql.NullString
		)
		scanErr := rows.Scan(
			&rowID,
			&rec.ID,
			&rec.Title,
			&personName,
			&email,
			&picture,
			&rec.Department,
			&rec.Location,
			&rec.Phone,
			&viewNames,
			&rec.Color,
			&rec.FontColor,
			&rec.ParentOrder,
			&rec.ChildOrder,
			&rec.SubChildOrder,
		)
		if scanErr != nil {
			return nil, nil, fmt.Errorf("scan employee: %w", scanErr)
		}
		if personName.Valid {
			rec.Person = &Person{Name: personName.String, Email: email, PictureURL: picture}
		}
		if viewNames.Valid {
			rec.ViewNames = SplitViewNames(viewNames.String)
		}
		byRow[rowID] = &rec
		ordered = append(ordered, &rec)
	}
	return byRow, ordered, rows.Err()
}

func loadManagers(ctx context.Context, q queryer, byRow map[int64]*Record) error {
	rows, err := q.QueryContext(ctx, `
		SELECT employee_row, COALESCE(manager_id, 0), COALESCE(manager_name, ''), COALESCE(manager_email, '')
		FROM employee_managers
		ORDER BY employee_row, position, rowid`)
	if err != nil {
		return fmt.Errorf("query employee managers: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		var (
			rowID int64
			ref   ManagerRef
		)
		if err := rows.Scan(&rowID, &ref.ID, &ref.Name, &ref.Email); err != nil {
			return fmt.Errorf("scan employee manager: %w", err)
		}
		if rec, ok := byRow[rowID]; ok {
			rec.Managers = append(rec.Managers, ref)
		}
	}
	return rows.Err()
}

func loadViews(ctx context.Context, q queryer, byRow map[int64]*Record) error {
	rows, err := q.QueryContext(ctx, `
		SELECT employee_row, view_title
		FROM employee_views
		ORDER BY employee_row, rowid`)
	if err != nil {
		return fmt.Errorf("query employee views: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		var (
			rowID int64
			title string
		)
		if err := rows.Scan(&rowID, &title); err != nil {
			return fmt.Errorf("scan employee view: %w", err)
		}
		if rec, ok := byRow[rowID]; ok {
			rec.Views = append(rec.Views, ViewRef{Title: title})
		}
	}
	return rows.Err()
}
