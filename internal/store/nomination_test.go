package store

import (
	"errors"
	"testing"
	"time"

	"halalan/internal/domain"
)

func TestNominationCreate(t *testing.T) {
	db := setupTestDB(t)
	_, positions, _ := seedElection(t, db)
	voter := seedVoter(t, db, "Ana Cruz")

	e, _ := NewElectionStore(db).Active()
	ns := NewNominationStore(db)

	n, err := ns.Create(e.ID, positions[0].ID, voter.ID, "Carla Santos", "2018", "Cebu", "gets things done")
	if err != nil {
		t.Fatalf("create nomination: %v", err)
	}
	if n.Promoted {
		t.Error("new nomination already promoted")
	}

	got, err := ns.GetForVoter(e.ID, voter.ID)
	if err != nil {
		t.Fatalf("get for voter: %v", err)
	}
	if got == nil || got.ID != n.ID {
		t.Error("nomination not found by voter")
	}
}

func TestNominationOnePerVoter(t *testing.T) {
	db := setupTestDB(t)
	_, positions, _ := seedElection(t, db)
	voter := seedVoter(t, db, "Ana Cruz")

	e, _ := NewElectionStore(db).Active()
	ns := NewNominationStore(db)

	if _, err := ns.Create(e.ID, positions[0].ID, voter.ID, "Carla Santos", "2018", "", ""); err != nil {
		t.Fatalf("first nomination: %v", err)
	}
	// A second nomination is rejected even for a different position.
	_, err := ns.Create(e.ID, positions[1].ID, voter.ID, "Dan Lim", "2020", "", "")
	if !errors.Is(err, domain.ErrDuplicateNomination) {
		t.Fatalf("got %v, want ErrDuplicateNomination", err)
	}

	all, err := ns.ListByElection(e.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("got %d nominations, want 1", len(all))
	}
}

func TestNominationPromote(t *testing.T) {
	db := setupTestDB(t)
	_, positions, _ := seedElection(t, db)
	voter := seedVoter(t, db, "Ana Cruz")

	e, _ := NewElectionStore(db).Active()
	ns := NewNominationStore(db)

	n, err := ns.Create(e.ID, positions[0].ID, voter.ID, "Carla Santos", "2018", "Cebu", "")
	if err != nil {
		t.Fatalf("create nomination: %v", err)
	}

	c, err := ns.Promote(n.ID, time.Now().UTC())
	if err != nil {
		t.Fatalf("promote: %v", err)
	}
	if !c.IsOfficial {
		t.Error("promoted candidate not official")
	}
	if c.SourceNominationID == nil || *c.SourceNominationID != n.ID {
		t.Error("candidate not linked to its nomination")
	}
	if c.FullName != "Carla Santos" || c.PositionID != positions[0].ID {
		t.Errorf("candidate %q on position %d, want Carla Santos on %d", c.FullName, c.PositionID, positions[0].ID)
	}

	got, _ := ns.GetByID(n.ID)
	if !got.Promoted || got.PromotedAt == nil {
		t.Error("nomination not marked promoted")
	}

	// Promoting again returns the same candidate, no duplicate row.
	c2, err := ns.Promote(n.ID, time.Now().UTC())
	if err != nil {
		t.Fatalf("second promote: %v", err)
	}
	if c2.ID != c.ID {
		t.Errorf("second promote made candidate %d, want %d", c2.ID, c.ID)
	}
	official, _ := NewCandidateStore(db).ListOfficial(positions[0].ID)
	var matches int
	for _, oc := range official {
		if oc.FullName == "Carla Santos" {
			matches++
		}
	}
	if matches != 1 {
		t.Errorf("%d official candidates named Carla Santos, want 1", matches)
	}
}

func TestNominationPromoteReusesExistingCandidate(t *testing.T) {
	db := setupTestDB(t)
	_, positions, _ := seedElection(t, db)
	voter := seedVoter(t, db, "Ana Cruz")

	e, _ := NewElectionStore(db).Active()
	ns := NewNominationStore(db)

	existing, err := NewCandidateStore(db).Create(positions[0].ID, "Carla Santos", "2018", "", "", true)
	if err != nil {
		t.Fatalf("create candidate: %v", err)
	}
	n, err := ns.Create(e.ID, positions[0].ID, voter.ID, "Carla Santos", "2018", "", "")
	if err != nil {
		t.Fatalf("create nomination: %v", err)
	}

	c, err := ns.Promote(n.ID, time.Now().UTC())
	if err != nil {
		t.Fatalf("promote: %v", err)
	}
	if c.ID != existing.ID {
		t.Errorf("promote made candidate %d, want existing %d", c.ID, existing.ID)
	}
}

func TestNominationPromoteMissing(t *testing.T) {
	db := setupTestDB(t)
	seedElection(t, db)

	_, err := NewNominationStore(db).Promote(99999, time.Now().UTC())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}
