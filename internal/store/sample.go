package store

import (
	"database/sql"

	"github.com/ayusman/handwing/internal/profile"
)

// SampleRepository stores the raw hand positions recorded during a
// calibration sweep.
type SampleRepository struct {
	db *sql.DB
}

// Samples returns the calibration sample repository for this store.
func (s *Store) Samples() *SampleRepository {
	return &SampleRepository{db: s.db}
}

// Add appends a batch of samples for a profile in one transaction.
func (r *SampleRepository) Add(profileID string, samples []profile.Sample) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO calibration_samples
		 (profile_id, left_x, left_y, right_x, right_y, left_present, right_present)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range samples {
		_, err := stmt.Exec(
			profileID, s.LeftX, s.LeftY, s.RightX, s.RightY,
			boolToInt(s.LeftPresent), boolToInt(s.RightPresent),
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ListByProfile retrieves all samples recorded for a profile in
// insertion order.
func (r *SampleRepository) ListByProfile(profileID string) ([]profile.Sample, error) {
	rows, err := r.db.Query(
		`SELECT left_x, left_y, right_x, right_y, left_present, right_present
		 FROM calibration_samples WHERE profile_id = ? ORDER BY id`,
		profileID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var samples []profile.Sample
	for rows.Next() {
		var s profile.Sample
		var leftPresent, rightPresent int

		err := rows.Scan(&s.LeftX, &s.LeftY, &s.RightX, &s.RightY, &leftPresent, &rightPresent)
		if err != nil {
			return nil, err
		}

		s.LeftPresent = leftPresent != 0
		s.RightPresent = rightPresent != 0
		samples = append(samples, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return samples, nil
}

// DeleteByProfile removes all samples recorded for a profile.
func (r *SampleRepository) DeleteByProfile(profileID string) error {
	_, err := r.db.Exec(`DELETE FROM calibration_samples WHERE profile_id = ?`, profileID)
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
