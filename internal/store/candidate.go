package store

import (
	"database/sql"
	"fmt"

	"halalan/internal/model"
)

type CandidateStore struct {
	db *sql.DB
}

func NewCandidateStore(db *sql.DB) *CandidateStore {
	return &CandidateStore{db: db}
}

const candidateCols = `id, position_id, full_name, batch_year, campus_chapter, bio, is_official, source_nomination_id, created_at`

func scanCandidate(scanner interface{ Scan(...any) error }) (*model.Candidate, error) {
	var c model.Candidate
	var sourceID sql.NullInt64
	err := scanner.Scan(
		&c.ID, &c.PositionID, &c.FullName, &c.BatchYear, &c.CampusChapter,
		&c.Bio, &c.IsOfficial, &sourceID, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if sourceID.Valid {
		c.SourceNominationID = &sourceID.Int64
	}
	return &c, nil
}

func (s *CandidateStore) Create(positionID int64, fullName, batchYear, campusChapter, bio string, official bool) (*model.Candidate, error) {
	result, err := s.db.Exec(
		`INSERT INTO candidates (position_id, full_name, batch_year, campus_chapter, bio, is_official)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		positionID, fullName, batchYear, campusChapter, bio, official,
	)
	if err != nil {
		return nil, fmt.Errorf("insert candidate: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *CandidateStore) GetByID(id int64) (*model.Candidate, error) {
	row := s.db.QueryRow(`SELECT `+candidateCols+` FROM candidates WHERE id = ?`, id)
	c, err := scanCandidate(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get candidate: %w", err)
	}
	return c, nil
}

// ListOfficial returns the official candidates for a position, the only
// ones visible on ballots and in tallies.
func (s *CandidateStore) ListOfficial(positionID int64) ([]model.Candidate, error) {
	rows, err := s.db.Query(
		`SELECT `+candidateCols+` FROM candidates WHERE position_id = ? AND is_official = 1 ORDER BY full_name ASC`,
		positionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	defer rows.Close()

	var candidates []model.Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		candidates = append(candidates, *c)
	}
	return candidates, rows.Err()
}
