package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"exercisecatalog/pkg/models"

	_ "modernc.org/sqlite"
)

// Store manages exercise records in SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewStore opens (or creates) the catalog database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	database, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database: %w", ErrDatabaseError, err)
	}

	ctx := context.Background()

	// WAL lets readers proceed while the single writer holds the lock
	if _, err := database.ExecContext(ctx, "PRAGMA journal_mode = WAL"); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("%w: failed to enable WAL mode: %w", ErrDatabaseError, err)
	}

	if _, err := database.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("%w: failed to set busy timeout: %w", ErrDatabaseError, err)
	}

	store := &Store{db: database}
	if err := store.Initialize(ctx); err != nil {
		_ = database.Close()
		return nil, err
	}

	return store, nil
}

// Initialize creates the database schema.
func (s *Store) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("%w: failed to initialize schema: %w", ErrDatabaseError, err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Insert adds a record and returns it as stored, with its assigned id.
func (s *Store) Insert(ctx context.Context, exercise models.NewExercise) (*models.Exercise, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	createdAt := time.Now().UTC()
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO exercises (title, author, faculty, file_name, created_at) VALUES (?, ?, ?, ?, ?)`,
		exercise.Title, exercise.Author, exercise.Faculty, exercise.FileName, createdAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}

	exerciseID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}

	return &models.Exercise{
		ID:             exerciseID,
		Title:          exercise.Title,
		Author:         exercise.Author,
		Faculty:        exercise.Faculty,
		StoredFileName: exercise.FileName,
		CreatedAt:      createdAt,
	}, nil
}

// FileNameInUse reports whether a live record already stores its file under fileName.
func (s *Store) FileNameInUse(ctx context.Context, fileName string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM exercises WHERE file_name = ?)`, fileName).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}
	return exists, nil
}

// Get retrieves a record by id.
func (s *Store) Get(ctx context.Context, exerciseID int64) (*models.Exercise, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	exercise := &models.Exercise{}
	err := s.db.QueryRowContext(ctx,
		`SELECT exercise_id, title, author, faculty, file_name, created_at FROM exercises WHERE exercise_id = ?`,
		exerciseID,
	).Scan(&exercise.ID, &exercise.Title, &exercise.Author, &exercise.Faculty, &exercise.StoredFileName, &exercise.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrExerciseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}

	return exercise, nil
}

// List returns every record in id order.
func (s *Store) List(ctx context.Context) ([]models.Exercise, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT exercise_id, title, author, faculty, file_name, created_at FROM exercises ORDER BY exercise_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}
	defer func() { _ = rows.Close() }()

	exercises := []models.Exercise{}
	for rows.Next() {
		var exercise models.Exercise
		if err := rows.Scan(
			&exercise.ID, &exercise.Title, &exercise.Author, &exercise.Faculty, &exercise.StoredFileName, &exercise.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDatabaseError, err)
		}
		exercises = append(exercises, exercise)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}

	return exercises, nil
}

// ListSummaries returns every record without its stored file name, in id order.
func (s *Store) ListSummaries(ctx context.Context) ([]models.ExerciseSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT exercise_id, title, author, faculty FROM exercises ORDER BY exercise_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}
	defer func() { _ = rows.Close() }()

	summaries := []models.ExerciseSummary{}
	for rows.Next() {
		var summary models.ExerciseSummary
		if err := rows.Scan(&summary.ID, &summary.Title, &summary.Author, &summary.Faculty); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDatabaseError, err)
		}
		summaries = append(summaries, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}

	return summaries, nil
}

// Delete removes a record. It returns ErrExerciseNotFound when nothing was deleted.
func (s *Store) Delete(ctx context.Context, exerciseID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, `DELETE FROM exercises WHERE exercise_id = ?`, exerciseID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}

	if rowsAffected == 0 {
		return ErrExerciseNotFound
	}

	return nil
}
