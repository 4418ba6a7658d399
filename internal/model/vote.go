package model

import "time"

type Vote struct {
	ID          int64     `json:"id"`
	VoterID     int64     `json:"voter_id"`
	PositionID  int64     `json:"position_id"`
	CandidateID int64     `json:"candidate_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type Nomination struct {
	ID                   int64      `json:"id"`
	ElectionID           int64      `json:"election_id"`
	PositionID           int64      `json:"position_id"`
	NominatorID          int64      `json:"nominator_id"`
	NomineeFullName      string     `json:"nominee_full_name"`
	NomineeBatchYear     string     `json:"nominee_batch_year"`
	NomineeCampusChapter string     `json:"nominee_campus_chapter"`
	Reason               string     `json:"reason"`
	Promoted             bool       `json:"promoted"`
	PromotedAt           *time.Time `json:"promoted_at"`
	CreatedAt            time.Time  `json:"created_at"`
}
