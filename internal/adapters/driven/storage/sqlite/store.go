package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/timetable-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/timetable-cli/internal/core/domain"
	"github.com/custodia-labs/timetable-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.TimetableStore = (*Store)(nil)

// Store is a SQLite-based timetable store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.timetable/data/timetable.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".timetable", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "timetable.db")

	// WAL mode, and foreign keys on every pooled connection
	db, err := sql.Open("sqlite", dbPath+
		"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys fs.FS) error {
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
		// "001_initial.up.sql" -> 1
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
		if err := s.apply(version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

func (s *Store) apply(version int, script string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(script); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		return err
	}
	return tx.Commit()
}

// ==================== Runs ====================

const runColumns = `id, root, started_at, finished_at, pages, failed_pages,
	unrecognized_pages, lessons`

// SaveRun stores a run and its timetable, replacing any previous copy.
func (s *Store) SaveRun(ctx context.Context, run domain.CrawlRun, tt *domain.Timetable) error {
	if run.ID == "" {
		return domain.ErrInvalidInput
	}
	if tt == nil {
		tt = &domain.Timetable{}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", run.ID); err != nil {
		return fmt.Errorf("replacing run: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (`+runColumns+`, generated_on)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID, run.Root.String(), formatTime(run.StartedAt), formatTime(run.FinishedAt),
		run.Pages, run.FailedPages, run.UnrecognizedPages, run.Lessons,
		nullTime(tt.GeneratedOn),
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	if err := saveEntities(ctx, tx, run.ID, tt); err != nil {
		return err
	}
	if err := saveLessons(ctx, tx, run.ID, tt.Lessons); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetRun retrieves a run by ID.
func (s *Store) GetRun(ctx context.Context, id string) (*domain.CrawlRun, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+runColumns+" FROM runs WHERE id = ?", id)
	return scanRun(row)
}

// LatestRun returns the most recently started run.
func (s *Store) LatestRun(ctx context.Context) (*domain.CrawlRun, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+runColumns+" FROM runs ORDER BY started_at DESC LIMIT 1")
	return scanRun(row)
}

// ListRuns returns all runs, most recent first.
func (s *Store) ListRuns(ctx context.Context) ([]domain.CrawlRun, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+runColumns+" FROM runs ORDER BY started_at DESC")
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.CrawlRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// DeleteRun removes a run and, by cascade, its timetable.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting run: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting run: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*domain.CrawlRun, error) {
	var (
		run                 domain.CrawlRun
		root                string
		startedAt, finished string
	)
	err := row.Scan(&run.ID, &root, &startedAt, &finished,
		&run.Pages, &run.FailedPages, &run.UnrecognizedPages, &run.Lessons)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning run: %w", err)
	}
	run.Root = domain.PageRef(root)
	if run.StartedAt, err = parseTime(startedAt); err != nil {
		return nil, err
	}
	if run.FinishedAt, err = parseTime(finished); err != nil {
		return nil, err
	}
	return &run, nil
}

// ==================== Timetables ====================

// GetTimetable retrieves the timetable of a run.
func (s *Store) GetTimetable(ctx context.Context, runID string) (*domain.Timetable, error) {
	var generatedOn sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT generated_on FROM runs WHERE id = ?", runID).Scan(&generatedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("querying run: %w", err)
	}

	tt := &domain.Timetable{}
	if generatedOn.Valid && generatedOn.String != "" {
		if tt.GeneratedOn, err = parseTime(generatedOn.String); err != nil {
			return nil, err
		}
	}

	if err := s.loadEntities(ctx, runID, tt); err != nil {
		return nil, err
	}
	if tt.Lessons, err = s.loadLessons(ctx, runID); err != nil {
		return nil, err
	}
	return tt, nil
}

func saveEntities(ctx context.Context, tx *sql.Tx, runID string, tt *domain.Timetable) error {
	for _, t := range tt.Teachers {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO teachers (run_id, id, name, url) VALUES (?, ?, ?, ?)",
			runID, t.ID, t.Name, t.URL); err != nil {
			return fmt.Errorf("inserting teacher %d: %w", t.ID, err)
		}
	}
	for _, c := range tt.Classrooms {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO classrooms (run_id, id, name, url) VALUES (?, ?, ?, ?)",
			runID, c.ID, c.Name, c.URL); err != nil {
			return fmt.Errorf("inserting classroom %d: %w", c.ID, err)
		}
	}
	for _, r := range tt.Registers {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO registers (run_id, id, type, name, url) VALUES (?, ?, ?, ?, ?)",
			runID, r.ID, string(r.Type), r.Name, r.URL); err != nil {
			return fmt.Errorf("inserting register %d: %w", r.ID, err)
		}
	}
	for _, t := range tt.Teams {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO teams (run_id, id, register_id, name) VALUES (?, ?, ?, ?)",
			runID, t.ID, t.RegisterID, t.Name); err != nil {
			return fmt.Errorf("inserting team %d: %w", t.ID, err)
		}
	}
	for _, sub := range tt.Subjects {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO subjects (run_id, id, name) VALUES (?, ?, ?)",
			runID, sub.ID, sub.Name); err != nil {
			return fmt.Errorf("inserting subject %d: %w", sub.ID, err)
		}
	}
	return nil
}

func saveLessons(ctx context.Context, tx *sql.Tx, runID string, lessons []domain.Lesson) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO lessons (run_id, seq, id, weekday, number, start_minute, end_minute,
			subject_id, teacher_ids, classroom_id, register_id, team_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing lesson insert: %w", err)
	}
	defer stmt.Close()

	for i, l := range lessons {
		teacherIDs := l.TeacherIDs
		if teacherIDs == nil {
			teacherIDs = []int{}
		}
		teachersJSON, err := json.Marshal(teacherIDs)
		if err != nil {
			return fmt.Errorf("marshalling teacher ids: %w", err)
		}

		var number sql.NullInt64
		if l.Number != nil {
			number = sql.NullInt64{Int64: int64(*l.Number), Valid: true}
		}

		if _, err := stmt.ExecContext(ctx,
			runID, i, l.ID, int(l.Weekday), number,
			l.Start.Minutes(), l.End.Minutes(),
			l.SubjectID, string(teachersJSON), l.ClassroomID, l.RegisterID, l.TeamID,
		); err != nil {
			return fmt.Errorf("inserting lesson %d: %w", l.ID, err)
		}
	}
	return nil
}

func (s *Store) loadEntities(ctx context.Context, runID string, tt *domain.Timetable) error {
	err := queryEach(ctx, s.db, "SELECT id, name, url FROM teachers WHERE run_id = ? ORDER BY id", runID,
		func(rows *sql.Rows) error {
			var t domain.Teacher
			if err := rows.Scan(&t.ID, &t.Name, &t.URL); err != nil {
				return err
			}
			tt.Teachers = append(tt.Teachers, t)
			return nil
		})
	if err != nil {
		return fmt.Errorf("loading teachers: %w", err)
	}

	err = queryEach(ctx, s.db, "SELECT id, name, url FROM classrooms WHERE run_id = ? ORDER BY id", runID,
		func(rows *sql.Rows) error {
			var c domain.Classroom
			if err := rows.Scan(&c.ID, &c.Name, &c.URL); err != nil {
				return err
			}
			tt.Classrooms = append(tt.Classrooms, c)
			return nil
		})
	if err != nil {
		return fmt.Errorf("loading classrooms: %w", err)
	}

	err = queryEach(ctx, s.db, "SELECT id, type, name, url FROM registers WHERE run_id = ? ORDER BY id", runID,
		func(rows *sql.Rows) error {
			var (
				r   domain.Register
				typ string
			)
			if err := rows.Scan(&r.ID, &typ, &r.Name, &r.URL); err != nil {
				return err
			}
			r.Type = domain.RegisterType(typ)
			tt.Registers = append(tt.Registers, r)
			return nil
		})
	if err != nil {
		return fmt.Errorf("loading registers: %w", err)
	}

	err = queryEach(ctx, s.db, "SELECT id, register_id, name FROM teams WHERE run_id = ? ORDER BY id", runID,
		func(rows *sql.Rows) error {
			var t domain.Team
			if err := rows.Scan(&t.ID, &t.RegisterID, &t.Name); err != nil {
				return err
			}
			tt.Teams = append(tt.Teams, t)
			return nil
		})
	if err != nil {
		return fmt.Errorf("loading teams: %w", err)
	}

	err = queryEach(ctx, s.db, "SELECT id, name FROM subjects WHERE run_id = ? ORDER BY id", runID,
		func(rows *sql.Rows) error {
			var sub domain.Subject
			if err := rows.Scan(&sub.ID, &sub.Name); err != nil {
				return err
			}
			tt.Subjects = append(tt.Subjects, sub)
			return nil
		})
	if err != nil {
		return fmt.Errorf("loading subjects: %w", err)
	}
	return nil
}

func (s *Store) loadLessons(ctx context.Context, runID string) ([]domain.Lesson, error) {
	var lessons []domain.Lesson
	err := queryEach(ctx, s.db, `
		SELECT id, weekday, number, start_minute, end_minute, subject_id,
			teacher_ids, classroom_id, register_id, team_id
		FROM lessons WHERE run_id = ? ORDER BY seq
	`, runID, func(rows *sql.Rows) error {
		var (
			l            domain.Lesson
			weekday      int
			number       sql.NullInt64
			start, end   int
			teachersJSON string
		)
		if err := rows.Scan(&l.ID, &weekday, &number, &start, &end, &l.SubjectID,
			&teachersJSON, &l.ClassroomID, &l.RegisterID, &l.TeamID); err != nil {
			return err
		}
		l.Weekday = domain.Weekday(weekday)
		if number.Valid {
			n := int(number.Int64)
			l.Number = &n
		}
		l.Start = minutesToTime(start)
		l.End = minutesToTime(end)
		if err := json.Unmarshal([]byte(teachersJSON), &l.TeacherIDs); err != nil {
			return fmt.Errorf("unmarshalling teacher ids: %w", err)
		}
		lessons = append(lessons, l)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading lessons: %w", err)
	}
	return lessons, nil
}

// ==================== Helpers ====================

// timeLayout has fixed-width fractions so stored times sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func queryEach(ctx context.Context, db *sql.DB, query, runID string, fn func(*sql.Rows) error) error {
	rows, err := db.QueryContext(ctx, query, runID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func nullTime(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(t), Valid: true}
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing time %q: %w", s, err)
	}
	return t, nil
}

func minutesToTime(m int) domain.TimeOfDay {
	return domain.TimeOfDay{Hour: m / 60, Minute: m % 60}
}
