package store

import (
	"database/sql"
	"fmt"
	"time"

	"halalan/internal/domain"
	"halalan/internal/model"
)

type ElectionStore struct {
	db *sql.DB
}

func NewElectionStore(db *sql.DB) *ElectionStore {
	return &ElectionStore{db: db}
}

const electionCols = `id, name, description, nomination_start, nomination_end, voting_start, voting_end,
	results_at, is_active, results_published, results_published_at, created_at`

func scanElection(scanner interface{ Scan(...any) error }) (*model.Election, error) {
	var e model.Election
	var resultsAt, publishedAt sql.NullTime
	err := scanner.Scan(
		&e.ID, &e.Name, &e.Description,
		&e.NominationStart, &e.NominationEnd, &e.VotingStart, &e.VotingEnd,
		&resultsAt, &e.IsActive, &e.ResultsPublished, &publishedAt, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if resultsAt.Valid {
		e.ResultsAt = &resultsAt.Time
	}
	if publishedAt.Valid {
		e.ResultsPublishedAt = &publishedAt.Time
	}
	return &e, nil
}

// Create inserts an election. When active is true, every other election is
// deactivated in the same transaction so at most one stays active.
func (s *ElectionStore) Create(name, description string, nominationStart, nominationEnd, votingStart, votingEnd time.Time, resultsAt *time.Time, active bool) (*model.Election, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`INSERT INTO elections (name, description, nomination_start, nomination_end, voting_start, voting_end, results_at, is_active)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		name, description, nominationStart, nominationEnd, votingStart, votingEnd, nullableTime(resultsAt), active,
	)
	if err != nil {
		return nil, fmt.Errorf("insert election: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	if active {
		if _, err := tx.Exec(`UPDATE elections SET is_active = 0 WHERE id != ?`, id); err != nil {
			return nil, fmt.Errorf("deactivate others: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s.GetByID(id)
}

func (s *ElectionStore) GetByID(id int64) (*model.Election, error) {
	row := s.db.QueryRow(`SELECT `+electionCols+` FROM elections WHERE id = ?`, id)
	e, err := scanElection(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get election: %w", err)
	}
	return e, nil
}

// Active returns the active election, or nil if none. When several are
// flagged active the one with the most recent nomination window wins.
func (s *ElectionStore) Active() (*model.Election, error) {
	row := s.db.QueryRow(`SELECT ` + electionCols + ` FROM elections WHERE is_active = 1 ORDER BY nomination_start DESC LIMIT 1`)
	e, err := scanElection(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("active election: %w", err)
	}
	return e, nil
}

// Latest returns the active election, or failing that the most recently
// scheduled one. Results and publication outlive the active flag, which
// End clears.
func (s *ElectionStore) Latest() (*model.Election, error) {
	e, err := s.Active()
	if err != nil || e != nil {
		return e, err
	}
	row := s.db.QueryRow(`SELECT ` + electionCols + ` FROM elections ORDER BY nomination_start DESC LIMIT 1`)
	e, err = scanElection(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest election: %w", err)
	}
	return e, nil
}

func (s *ElectionStore) List() ([]model.Election, error) {
	rows, err := s.db.Query(`SELECT ` + electionCols + ` FROM elections ORDER BY nomination_start DESC`)
	if err != nil {
		return nil, fmt.Errorf("list elections: %w", err)
	}
	defer rows.Close()

	var elections []model.Election
	for rows.Next() {
		e, err := scanElection(rows)
		if err != nil {
			return nil, fmt.Errorf("scan election: %w", err)
		}
		elections = append(elections, *e)
	}
	return elections, rows.Err()
}

// End deactivates the active election and clamps voting_end to now if the
// window is still open. The window is never extended.
func (s *ElectionStore) End(now time.Time) (*model.Election, error) {
	e, err := s.Active()
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, domain.ErrNoActiveElection
	}

	votingEnd := e.VotingEnd
	if votingEnd.After(now) {
		votingEnd = now
	}
	_, err = s.db.Exec(
		`UPDATE elections SET is_active = 0, voting_end = ? WHERE id = ?`,
		votingEnd, e.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("end election: %w", err)
	}
	return s.GetByID(e.ID)
}

// SetPublished flips the publication flag, stamping or clearing the
// timestamp. Idempotent: republishing keeps the original timestamp.
func (s *ElectionStore) SetPublished(id int64, published bool, now time.Time) (*model.Election, error) {
	e, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, domain.ErrNotFound
	}
	if e.ResultsPublished == published {
		return e, nil
	}

	var publishedAt any
	if published {
		publishedAt = now
	}
	_, err = s.db.Exec(
		`UPDATE elections SET results_published = ?, results_published_at = ? WHERE id = ?`,
		published, publishedAt, id,
	)
	if err != nil {
		return nil, fmt.Errorf("set published: %w", err)
	}
	return s.GetByID(id)
}

// Reset deletes every vote and nomination scoped to the election's
// positions and restores all voters to a pre-voting state, atomically.
// Candidates are untouched. There is no undo.
func (s *ElectionStore) Reset(electionID int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`DELETE FROM votes WHERE position_id IN (SELECT id FROM positions WHERE election_id = ?)`,
		electionID,
	); err != nil {
		return fmt.Errorf("delete votes: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM nominations WHERE election_id = ?`, electionID); err != nil {
		return fmt.Errorf("delete nominations: %w", err)
	}

	if _, err := tx.Exec(
		`UPDATE voters SET has_voted = 0, session_token = NULL, is_active = 1`,
	); err != nil {
		return fmt.Errorf("reset voters: %w", err)
	}

	return tx.Commit()
}

// ElectionSummary carries per-election totals for the admin list view.
type ElectionSummary struct {
	model.Election
	TotalPositions  int     `json:"total_positions"`
	TotalCandidates int     `json:"total_candidates"`
	TotalVotes      int     `json:"total_votes"`
	TurnoutPercent  float64 `json:"turnout_percent"`
}

func (s *ElectionStore) Summaries() ([]ElectionSummary, error) {
	elections, err := s.List()
	if err != nil {
		return nil, err
	}

	var totalVoters int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM voters`).Scan(&totalVoters); err != nil {
		return nil, fmt.Errorf("count voters: %w", err)
	}

	summaries := make([]ElectionSummary, 0, len(elections))
	for _, e := range elections {
		sum := ElectionSummary{Election: e}
		var uniqueVoters int
		err := s.db.QueryRow(`
			SELECT
				(SELECT COUNT(*) FROM positions p WHERE p.election_id = ?),
				(SELECT COUNT(*) FROM candidates c JOIN positions p ON c.position_id = p.id WHERE p.election_id = ?),
				(SELECT COUNT(*) FROM votes v JOIN positions p ON v.position_id = p.id WHERE p.election_id = ?),
				(SELECT COUNT(DISTINCT v.voter_id) FROM votes v JOIN positions p ON v.position_id = p.id WHERE p.election_id = ?)`,
			e.ID, e.ID, e.ID, e.ID,
		).Scan(&sum.TotalPositions, &sum.TotalCandidates, &sum.TotalVotes, &uniqueVoters)
		if err != nil {
			return nil, fmt.Errorf("election summary: %w", err)
		}
		if totalVoters > 0 {
			sum.TurnoutPercent = round2(float64(uniqueVoters) / float64(totalVoters) * 100)
		}
		summaries = append(summaries, sum)
	}
	return summaries, nil
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
