package store

import (
	"database/sql"
	"fmt"

	"halalan/internal/domain"
)

type VoteStore struct {
	db *sql.DB
}

func NewVoteStore(db *sql.DB) *VoteStore {
	return &VoteStore{db: db}
}

// SubmitBallot validates and commits a complete ballot in one transaction.
// selections maps position id to candidate id and must cover exactly the
// election's active positions. Validation, the per-position double-vote
// re-check, the inserts, and the has_voted flip all happen under the same
// transaction, so a failed submission leaves no trace. A commit-time UNIQUE
// violation (two submissions racing past the re-check) is reported as
// ErrAlreadyVoted.
func (s *VoteStore) SubmitBallot(voterID, electionID int64, selections map[int64]int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	// The ballot must cover the active position set exactly.
	rows, err := tx.Query(`SELECT id FROM positions WHERE election_id = ? AND is_active = 1`, electionID)
	if err != nil {
		return fmt.Errorf("list positions: %w", err)
	}
	required := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("scan position: %w", err)
		}
		required[id] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("list positions: %w", err)
	}

	if len(selections) != len(required) {
		return domain.ErrIncompleteBallot
	}
	for positionID := range selections {
		if !required[positionID] {
			return domain.ErrIncompleteBallot
		}
	}

	// Every selected candidate must exist, be official, and belong to the
	// position it was selected for.
	for positionID, candidateID := range selections {
		var ok bool
		err := tx.QueryRow(
			`SELECT EXISTS(SELECT 1 FROM candidates WHERE id = ? AND position_id = ? AND is_official = 1)`,
			candidateID, positionID,
		).Scan(&ok)
		if err != nil {
			return fmt.Errorf("check candidate: %w", err)
		}
		if !ok {
			return domain.ErrInvalidSelection
		}
	}

	// Re-check under the transaction that no vote exists yet for any
	// position. This, backed by UNIQUE(voter_id, position_id), is what keeps
	// a double submit from committing two ballots.
	for positionID := range selections {
		var exists bool
		err := tx.QueryRow(
			`SELECT EXISTS(SELECT 1 FROM votes WHERE voter_id = ? AND position_id = ?)`,
			voterID, positionID,
		).Scan(&exists)
		if err != nil {
			return fmt.Errorf("check existing vote: %w", err)
		}
		if exists {
			return domain.ErrAlreadyVoted
		}
	}

	for positionID, candidateID := range selections {
		_, err := tx.Exec(
			`INSERT INTO votes (voter_id, position_id, candidate_id) VALUES (?, ?, ?)`,
			voterID, positionID, candidateID,
		)
		if isUniqueViolation(err) {
			return domain.ErrAlreadyVoted
		}
		if err != nil {
			return fmt.Errorf("insert vote: %w", err)
		}
	}

	if _, err := tx.Exec(`UPDATE voters SET has_voted = 1 WHERE id = ?`, voterID); err != nil {
		return fmt.Errorf("mark voted: %w", err)
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyVoted
		}
		return fmt.Errorf("commit ballot: %w", err)
	}
	return nil
}

// VoteDetail is a voter-facing projection of one committed vote.
type VoteDetail struct {
	PositionID    int64  `json:"position_id"`
	PositionName  string `json:"position"`
	CandidateID   int64  `json:"candidate_id"`
	CandidateName string `json:"candidate"`
}

// ListByVoter returns the voter's own committed votes.
func (s *VoteStore) ListByVoter(voterID int64) ([]VoteDetail, error) {
	rows, err := s.db.Query(`
		SELECT v.position_id, p.name, v.candidate_id, c.full_name
		FROM votes v
		JOIN positions p ON p.id = v.position_id
		JOIN candidates c ON c.id = v.candidate_id
		WHERE v.voter_id = ?
		ORDER BY p.display_order ASC, p.name ASC`,
		voterID,
	)
	if err != nil {
		return nil, fmt.Errorf("list votes: %w", err)
	}
	defer rows.Close()

	var votes []VoteDetail
	for rows.Next() {
		var v VoteDetail
		if err := rows.Scan(&v.PositionID, &v.PositionName, &v.CandidateID, &v.CandidateName); err != nil {
			return nil, fmt.Errorf("scan vote: %w", err)
		}
		votes = append(votes, v)
	}
	return votes, rows.Err()
}

// CandidateTally is one candidate's count within a position tally.
type CandidateTally struct {
	CandidateID   int64  `json:"candidate_id"`
	FullName      string `json:"full_name"`
	BatchYear     string `json:"batch_year"`
	CampusChapter string `json:"campus_chapter"`
	Votes         int    `json:"votes"`
	Winner        bool   `json:"winner"`
}

// PositionTally groups candidate counts under their position.
type PositionTally struct {
	PositionID int64            `json:"position_id"`
	Position   string           `json:"position"`
	Seats      int              `json:"seats"`
	TotalVotes int              `json:"total_votes"`
	Candidates []CandidateTally `json:"candidates"`
}

// Tally counts votes per official candidate for every active position of
// the election. A single statement produces the whole result, so all
// counts come from one snapshot even while ballots are being committed.
func (s *VoteStore) Tally(electionID int64) ([]PositionTally, error) {
	rows, err := s.db.Query(`
		SELECT p.id, p.name, p.seats, c.id, c.full_name, c.batch_year, c.campus_chapter,
		       (SELECT COUNT(*) FROM votes v WHERE v.position_id = p.id AND v.candidate_id = c.id)
		FROM positions p
		JOIN candidates c ON c.position_id = p.id AND c.is_official = 1
		WHERE p.election_id = ? AND p.is_active = 1
		ORDER BY p.display_order ASC, p.name ASC, c.full_name ASC`,
		electionID,
	)
	if err != nil {
		return nil, fmt.Errorf("tally: %w", err)
	}
	defer rows.Close()

	var tallies []PositionTally
	for rows.Next() {
		var positionID int64
		var positionName string
		var seats int
		var ct CandidateTally
		if err := rows.Scan(&positionID, &positionName, &seats, &ct.CandidateID, &ct.FullName, &ct.BatchYear, &ct.CampusChapter, &ct.Votes); err != nil {
			return nil, fmt.Errorf("scan tally row: %w", err)
		}
		if len(tallies) == 0 || tallies[len(tallies)-1].PositionID != positionID {
			tallies = append(tallies, PositionTally{PositionID: positionID, Position: positionName, Seats: seats})
		}
		last := &tallies[len(tallies)-1]
		last.TotalVotes += ct.Votes
		last.Candidates = append(last.Candidates, ct)
	}
	return tallies, rows.Err()
}

// Results is Tally with winner flags: every candidate whose count equals
// the position's maximum non-zero count is a winner, so ties stand. A
// position with no votes has no winners.
func (s *VoteStore) Results(electionID int64) ([]PositionTally, error) {
	tallies, err := s.Tally(electionID)
	if err != nil {
		return nil, err
	}
	for i := range tallies {
		max := 0
		for _, c := range tallies[i].Candidates {
			if c.Votes > max {
				max = c.Votes
			}
		}
		if max == 0 {
			continue
		}
		for j := range tallies[i].Candidates {
			tallies[i].Candidates[j].Winner = tallies[i].Candidates[j].Votes == max
		}
	}
	return tallies, nil
}
