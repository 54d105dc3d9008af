// Package localstore persists the client session (bearer token plus the
// signed-in user's profile blob) across process restarts, playing the
// role browser local storage plays for the web front end. It is backed
// by a single-row SQLite table.
package localstore

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"plantshop/internal/models"
)

// session is the single persisted row.
type session struct {
	ID        uint   `gorm:"primaryKey"`
	Token     string `gorm:"type:text"`
	UserJSON  string `gorm:"type:text"`
	UpdatedAt time.Time
}

// Store reads and writes the persisted session.
type Store struct {
	db *gorm.DB
}

// Open opens (or creates) the session database at path. Use
// "file::memory:?cache=shared" for an ephemeral store in tests.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open session store at %s: %w", path, err)
	}
	if err := db.AutoMigrate(&session{}); err != nil {
		return nil, fmt.Errorf("failed to migrate session store: %w", err)
	}
	return &Store{db: db}, nil
}

// Save overwrites the persisted session with the given token and user.
func (s *Store) Save(token string, user *models.User) error {
	userJSON := ""
	if user != nil {
		encoded, err := json.Marshal(user)
		if err != nil {
			return fmt.Errorf("failed to encode user for session store: %w", err)
		}
		userJSON = string(encoded)
	}

	row := session{ID: 1, Token: token, UserJSON: userJSON, UpdatedAt: time.Now()}
	if err := s.db.Save(&row).Error; err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Load returns the persisted token and user. A missing session yields
// empty values and no error.
func (s *Store) Load() (string, *models.User, error) {
	var row session
	if err := s.db.First(&row, "id = ?", 1).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", nil, nil
		}
		return "", nil, fmt.Errorf("failed to load session: %w", err)
	}

	var user *models.User
	if row.UserJSON != "" {
		user = &models.User{}
		if err := json.Unmarshal([]byte(row.UserJSON), user); err != nil {
			return "", nil, fmt.Errorf("failed to decode stored user: %w", err)
		}
	}
	return row.Token, user, nil
}

// Clear wipes the persisted session. Called on logout and on 401.
func (s *Store) Clear() error {
	if err := s.db.Delete(&session{}, "id = ?", 1).Error; err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
