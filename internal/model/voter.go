package model

import "time"

type Voter struct {
	ID             int64     `json:"id"`
	VoterID        string    `json:"voter_id"`
	Name           string    `json:"name"`
	BatchYear      string    `json:"batch_year"`
	CampusChapter  string    `json:"campus_chapter"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	PrivacyConsent bool      `json:"privacy_consent"`
	HasVoted       bool      `json:"has_voted"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

type Admin struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}
