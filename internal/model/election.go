package model

import "time"

type Election struct {
	ID                 int64      `json:"id"`
	Name               string     `json:"name"`
	Description        string     `json:"description"`
	NominationStart    time.Time  `json:"nomination_start"`
	NominationEnd      time.Time  `json:"nomination_end"`
	VotingStart        time.Time  `json:"voting_start"`
	VotingEnd          time.Time  `json:"voting_end"`
	ResultsAt          *time.Time `json:"results_at"`
	IsActive           bool       `json:"is_active"`
	ResultsPublished   bool       `json:"results_published"`
	ResultsPublishedAt *time.Time `json:"results_published_at"`
	CreatedAt          time.Time  `json:"created_at"`
}

type Position struct {
	ID           int64     `json:"id"`
	ElectionID   int64     `json:"election_id"`
	Name         string    `json:"name"`
	DisplayOrder int       `json:"display_order"`
	Seats        int       `json:"seats"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

type Candidate struct {
	ID                 int64     `json:"id"`
	PositionID         int64     `json:"position_id"`
	FullName           string    `json:"full_name"`
	BatchYear          string    `json:"batch_year"`
	CampusChapter      string    `json:"campus_chapter"`
	Bio                string    `json:"bio"`
	IsOfficial         bool      `json:"is_official"`
	SourceNominationID *int64    `json:"source_nomination_id"`
	CreatedAt          time.Time `json:"created_at"`
}

type Reminder struct {
	ID         int64     `json:"id"`
	ElectionID int64     `json:"election_id"`
	RemindAt   time.Time `json:"remind_at"`
	Note       string    `json:"note"`
	CreatedAt  time.Time `json:"created_at"`
}
