package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNotFound is returned by repositories when a requested record does not
// exist. Callers distinguish it from storage failures with errors.Is.
var ErrNotFound = errors.New("store: record not found")

// Store wraps the gorm connection and hands out repositories.
type Store struct {
	db *gorm.DB
}

// Open connects to the SQLite database at dsn, applies recommended pragmas
// and runs auto-migration for all entities.
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}

	if err := applyPragmas(db); err != nil {
		return nil, errors.Wrap(err, "apply pragmas")
	}

	if err := db.AutoMigrate(
		&Subject{},
		&Topic{},
		&Tag{},
		&Question{},
		&Choice{},
		&Mastery{},
		&QuizSession{},
		&QuizSessionItem{},
		&StudyStreak{},
	); err != nil {
		return nil, errors.Wrap(err, "auto-migrate")
	}

	return &Store{db: db}, nil
}

// DB returns the underlying gorm handle for ad-hoc queries.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Questions returns the question repository backed by this store.
func (s *Store) Questions() *QuestionRepo {
	return &QuestionRepo{db: s.db}
}

// Sessions returns the quiz session repository backed by this store.
func (s *Store) Sessions() *SessionRepo {
	return &SessionRepo{db: s.db}
}

// Masteries returns the mastery repository backed by this store.
func (s *Store) Masteries() *MasteryRepo {
	return &MasteryRepo{db: s.db}
}

// Streaks returns the study streak repository backed by this store.
func (s *Store) Streaks() *StreakRepo {
	return &StreakRepo{db: s.db}
}

// applyPragmas configures SQLite for single-user durability and cascades.
func applyPragmas(db *gorm.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if err := db.Exec(p).Error; err != nil {
			return errors.Wrap(err, p)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. QUIZCRAFT_DB environment variable
// 2. $XDG_DATA_HOME/quizcraft/quizcraft.db
// 3. ~/.local/share/quizcraft/quizcraft.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("QUIZCRAFT_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "quizcraft", "quizcraft.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
