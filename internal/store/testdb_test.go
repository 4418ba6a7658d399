package store

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"halalan/internal/database"
	"halalan/internal/model"
)

// setupTestDB opens a fresh migrated database in a temp dir. A file-backed
// db (not :memory:) so concurrent connections share one database.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// seedElection creates an active election whose voting window contains now,
// with two active positions of two official candidates each.
func seedElection(t *testing.T, db *sql.DB) (*model.Election, []model.Position, map[int64][]model.Candidate) {
	t.Helper()
	now := time.Now().UTC()

	es := NewElectionStore(db)
	e, err := es.Create("Test Election", "",
		now.Add(-48*time.Hour), now.Add(-24*time.Hour), // nominations closed
		now.Add(-time.Hour), now.Add(time.Hour), // voting open
		nil, true)
	if err != nil {
		t.Fatalf("create election: %v", err)
	}

	ps := NewPositionStore(db)
	cs := NewCandidateStore(db)
	var positions []model.Position
	candidates := make(map[int64][]model.Candidate)
	for i, name := range []string{"President", "Secretary"} {
		p, err := ps.Create(e.ID, name, i, 1)
		if err != nil {
			t.Fatalf("create position: %v", err)
		}
		positions = append(positions, *p)
		for _, cn := range []string{name + " A", name + " B"} {
			c, err := cs.Create(p.ID, cn, "2019", "", "", true)
			if err != nil {
				t.Fatalf("create candidate: %v", err)
			}
			candidates[p.ID] = append(candidates[p.ID], *c)
		}
	}
	return e, positions, candidates
}

func seedVoter(t *testing.T, db *sql.DB, name string) *model.Voter {
	t.Helper()
	vs := NewVoterStore(db)
	v, _, err := vs.Create(name, "2019", "", "", "", true, "")
	if err != nil {
		t.Fatalf("create voter: %v", err)
	}
	return v
}

// fullBallot picks the first candidate for every position.
func fullBallot(positions []model.Position, candidates map[int64][]model.Candidate) map[int64]int64 {
	selections := make(map[int64]int64, len(positions))
	for _, p := range positions {
		selections[p.ID] = candidates[p.ID][0].ID
	}
	return selections
}
