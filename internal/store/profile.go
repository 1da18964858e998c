package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ayusman/handwing/internal/profile"
)

// activeProfileKey is the settings key holding the active profile ID.
const activeProfileKey = "active_profile"

// ProfileRepository provides CRUD operations for calibration profiles.
type ProfileRepository struct {
	db *sql.DB
}

// Profiles returns the profile repository for this store.
func (s *Store) Profiles() *ProfileRepository {
	return &ProfileRepository{db: s.db}
}

// Create inserts a new profile into the database. The profile must
// already carry its ID.
func (r *ProfileRepository) Create(p *profile.Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}

	now := time.Now()
	_, err = r.db.Exec(
		`INSERT INTO profiles (id, name, data, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.Name, string(data), now, now,
	)
	if err != nil {
		return err
	}

	return nil
}

// GetByID retrieves a profile by its ID.
func (r *ProfileRepository) GetByID(id string) (*profile.Profile, error) {
	return r.get(`SELECT data FROM profiles WHERE id = ?`, id)
}

// GetByName retrieves a profile by its name.
func (r *ProfileRepository) GetByName(name string) (*profile.Profile, error) {
	return r.get(`SELECT data FROM profiles WHERE name = ?`, name)
}

func (r *ProfileRepository) get(query string, arg any) (*profile.Profile, error) {
	var data string
	err := r.db.QueryRow(query, arg).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	p := &profile.Profile{}
	if err := json.Unmarshal([]byte(data), p); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	return p, nil
}

// List retrieves all profiles from the database.
func (r *ProfileRepository) List() ([]*profile.Profile, error) {
	rows, err := r.db.Query(`SELECT data FROM profiles ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*profile.Profile
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}

		p := &profile.Profile{}
		if err := json.Unmarshal([]byte(data), p); err != nil {
			return nil, fmt.Errorf("failed to decode profile: %w", err)
		}
		profiles = append(profiles, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return profiles, nil
}

// Update updates an existing profile in the database.
func (r *ProfileRepository) Update(p *profile.Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}

	result, err := r.db.Exec(
		`UPDATE profiles SET name = ?, data = ?, updated_at = ? WHERE id = ?`,
		p.Name, string(data), time.Now(), p.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a profile from the database by its ID.
func (r *ProfileRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM profiles WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// SetActive marks the profile with the given ID as the active profile.
func (r *ProfileRepository) SetActive(id string) error {
	if _, err := r.GetByID(id); err != nil {
		return err
	}

	_, err := r.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		activeProfileKey, id,
	)
	return err
}

// GetActive retrieves the active profile. ErrNotFound means no profile
// has been activated yet.
func (r *ProfileRepository) GetActive() (*profile.Profile, error) {
	var id string
	err := r.db.QueryRow(
		`SELECT value FROM settings WHERE key = ?`, activeProfileKey,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return r.GetByID(id)
}
