package store

import (
	"database/sql"
	"fmt"
	"time"

	"halalan/internal/domain"
	"halalan/internal/model"
)

type NominationStore struct {
	db *sql.DB
}

func NewNominationStore(db *sql.DB) *NominationStore {
	return &NominationStore{db: db}
}

const nominationCols = `id, election_id, position_id, nominator_id, nominee_full_name, nominee_batch_year,
	nominee_campus_chapter, reason, promoted, promoted_at, created_at`

func scanNomination(scanner interface{ Scan(...any) error }) (*model.Nomination, error) {
	var n model.Nomination
	var promotedAt sql.NullTime
	err := scanner.Scan(
		&n.ID, &n.ElectionID, &n.PositionID, &n.NominatorID,
		&n.NomineeFullName, &n.NomineeBatchYear, &n.NomineeCampusChapter,
		&n.Reason, &n.Promoted, &promotedAt, &n.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if promotedAt.Valid {
		n.PromotedAt = &promotedAt.Time
	}
	return &n, nil
}

// Create stores a nomination, enforcing one per voter per election. The
// UNIQUE(election_id, nominator_id) constraint is the race-safety backstop:
// if two requests from the same voter land together, exactly one row is
// stored and the loser gets ErrDuplicateNomination.
func (s *NominationStore) Create(electionID, positionID, nominatorID int64, fullName, batchYear, campusChapter, reason string) (*model.Nomination, error) {
	existing, err := s.GetForVoter(electionID, nominatorID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateNomination
	}

	result, err := s.db.Exec(
		`INSERT INTO nominations (election_id, position_id, nominator_id, nominee_full_name, nominee_batch_year, nominee_campus_chapter, reason)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		electionID, positionID, nominatorID, fullName, batchYear, campusChapter, reason,
	)
	if isUniqueViolation(err) {
		return nil, domain.ErrDuplicateNomination
	}
	if err != nil {
		return nil, fmt.Errorf("insert nomination: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *NominationStore) GetByID(id int64) (*model.Nomination, error) {
	row := s.db.QueryRow(`SELECT `+nominationCols+` FROM nominations WHERE id = ?`, id)
	n, err := scanNomination(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get nomination: %w", err)
	}
	return n, nil
}

func (s *NominationStore) GetForVoter(electionID, nominatorID int64) (*model.Nomination, error) {
	row := s.db.QueryRow(
		`SELECT `+nominationCols+` FROM nominations WHERE election_id = ? AND nominator_id = ?`,
		electionID, nominatorID,
	)
	n, err := scanNomination(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get nomination for voter: %w", err)
	}
	return n, nil
}

func (s *NominationStore) ListByElection(electionID int64) ([]model.Nomination, error) {
	rows, err := s.db.Query(
		`SELECT `+nominationCols+` FROM nominations WHERE election_id = ? ORDER BY created_at ASC`,
		electionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list nominations: %w", err)
	}
	defer rows.Close()

	var nominations []model.Nomination
	for rows.Next() {
		n, err := scanNomination(rows)
		if err != nil {
			return nil, fmt.Errorf("scan nomination: %w", err)
		}
		nominations = append(nominations, *n)
	}
	return nominations, rows.Err()
}

// Promote turns a nomination into an official candidate within one
// transaction. A candidate with the same full name on the same position is
// reused instead of duplicated; re-promoting an already-promoted nomination
// returns the existing candidate without creating another. The nominee name
// match is a de-duplication heuristic, not an identity check.
func (s *NominationStore) Promote(nominationID int64, now time.Time) (*model.Candidate, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRow(`SELECT `+nominationCols+` FROM nominations WHERE id = ?`, nominationID)
	n, err := scanNomination(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get nomination: %w", err)
	}

	if n.Promoted {
		row := tx.QueryRow(`SELECT `+candidateCols+` FROM candidates WHERE source_nomination_id = ?`, n.ID)
		c, err := scanCandidate(row)
		if err == nil {
			return c, tx.Commit()
		}
		if err != sql.ErrNoRows {
			return nil, fmt.Errorf("get promoted candidate: %w", err)
		}
		// Promoted flag set but no linked candidate: fall through to the
		// name match so the promotion converges.
	}

	row = tx.QueryRow(
		`SELECT `+candidateCols+` FROM candidates WHERE position_id = ? AND full_name = ?`,
		n.PositionID, n.NomineeFullName,
	)
	candidate, err := scanCandidate(row)
	if err == sql.ErrNoRows {
		result, err := tx.Exec(
			`INSERT INTO candidates (position_id, full_name, batch_year, campus_chapter, bio, is_official, source_nomination_id)
			 VALUES (?, ?, ?, ?, ?, 1, ?)`,
			n.PositionID, n.NomineeFullName, n.NomineeBatchYear, n.NomineeCampusChapter, n.Reason, n.ID,
		)
		if err != nil {
			return nil, fmt.Errorf("insert candidate: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("last insert id: %w", err)
		}
		row := tx.QueryRow(`SELECT `+candidateCols+` FROM candidates WHERE id = ?`, id)
		candidate, err = scanCandidate(row)
		if err != nil {
			return nil, fmt.Errorf("get candidate: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("find candidate: %w", err)
	}

	if _, err := tx.Exec(
		`UPDATE nominations SET promoted = 1, promoted_at = ? WHERE id = ?`,
		now, n.ID,
	); err != nil {
		return nil, fmt.Errorf("mark promoted: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return candidate, nil
}
