package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"halalan/internal/model"
	"halalan/internal/store"
)

func fullVotes(positions []model.Position, candidates map[int64][]model.Candidate) map[int64]int64 {
	votes := make(map[int64]int64, len(positions))
	for _, p := range positions {
		votes[p.ID] = candidates[p.ID][0].ID
	}
	return votes
}

func TestBallotSubmit(t *testing.T) {
	env := setupEnv(t)
	_, positions, candidates := env.seedVotingElection(t)
	voter := env.newVoter(t, "Ana Cruz", true)

	h := NewBallotHandler(store.NewVoteStore(env.db), env.elections, env.hub, env.logger)

	rec := httptest.NewRecorder()
	h.Submit(rec, asVoter(t, voter, "POST", "/api/ballot",
		map[string]any{"votes": fullVotes(positions, candidates)}))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusCreated, rec.Body.String())
	}

	// Second attempt, fresh context voter state.
	updated, _ := env.voters.GetByID(voter.ID)
	rec = httptest.NewRecorder()
	h.Submit(rec, asVoter(t, updated, "POST", "/api/ballot",
		map[string]any{"votes": fullVotes(positions, candidates)}))
	wantCode(t, rec, http.StatusBadRequest, "already_voted")
}

func TestBallotSubmitConsentRequired(t *testing.T) {
	env := setupEnv(t)
	_, positions, candidates := env.seedVotingElection(t)
	voter := env.newVoter(t, "Ana Cruz", false)

	h := NewBallotHandler(store.NewVoteStore(env.db), env.elections, env.hub, env.logger)

	rec := httptest.NewRecorder()
	h.Submit(rec, asVoter(t, voter, "POST", "/api/ballot",
		map[string]any{"votes": fullVotes(positions, candidates)}))
	wantCode(t, rec, http.StatusBadRequest, "consent_required")
}

func TestBallotSubmitPhaseClosed(t *testing.T) {
	env := setupEnv(t)
	now := time.Now().UTC()
	// Voting has not started yet.
	_, positions, candidates := env.seedElectionAt(t,
		now.Add(-2*time.Hour), now.Add(-time.Hour),
		now.Add(time.Hour), now.Add(2*time.Hour))
	voter := env.newVoter(t, "Ana Cruz", true)

	h := NewBallotHandler(store.NewVoteStore(env.db), env.elections, env.hub, env.logger)

	rec := httptest.NewRecorder()
	h.Submit(rec, asVoter(t, voter, "POST", "/api/ballot",
		map[string]any{"votes": fullVotes(positions, candidates)}))
	wantCode(t, rec, http.StatusBadRequest, "phase_closed")
}

func TestBallotSubmitEmpty(t *testing.T) {
	env := setupEnv(t)
	now := time.Now().UTC()
	// Voting not yet open: the phase gate must answer before any ballot
	// shape complaints.
	env.seedElectionAt(t,
		now.Add(-2*time.Hour), now.Add(-time.Hour),
		now.Add(time.Hour), now.Add(2*time.Hour))
	voter := env.newVoter(t, "Ana Cruz", true)

	h := NewBallotHandler(store.NewVoteStore(env.db), env.elections, env.hub, env.logger)

	rec := httptest.NewRecorder()
	h.Submit(rec, asVoter(t, voter, "POST", "/api/ballot",
		map[string]any{"votes": map[int64]int64{}}))
	wantCode(t, rec, http.StatusBadRequest, "phase_closed")

	// During voting an empty ballot is incomplete.
	if _, err := env.db.Exec(
		`UPDATE elections SET voting_start = ?, voting_end = ?`,
		now.Add(-time.Hour), now.Add(time.Hour)); err != nil {
		t.Fatalf("open voting: %v", err)
	}
	rec = httptest.NewRecorder()
	h.Submit(rec, asVoter(t, voter, "POST", "/api/ballot",
		map[string]any{"votes": map[int64]int64{}}))
	wantCode(t, rec, http.StatusBadRequest, "incomplete_ballot")
}

func TestBallotSubmitIncomplete(t *testing.T) {
	env := setupEnv(t)
	_, positions, candidates := env.seedVotingElection(t)
	voter := env.newVoter(t, "Ana Cruz", true)

	h := NewBallotHandler(store.NewVoteStore(env.db), env.elections, env.hub, env.logger)

	votes := fullVotes(positions, candidates)
	delete(votes, positions[1].ID)
	rec := httptest.NewRecorder()
	h.Submit(rec, asVoter(t, voter, "POST", "/api/ballot", map[string]any{"votes": votes}))
	wantCode(t, rec, http.StatusBadRequest, "incomplete_ballot")

	// Nothing committed.
	var n int
	if err := env.db.QueryRow(`SELECT COUNT(*) FROM votes WHERE voter_id = ?`, voter.ID).Scan(&n); err != nil {
		t.Fatalf("count votes: %v", err)
	}
	if n != 0 {
		t.Errorf("%d votes committed from rejected ballot", n)
	}
}

func TestBallotSubmitInvalidSelection(t *testing.T) {
	env := setupEnv(t)
	_, positions, candidates := env.seedVotingElection(t)
	voter := env.newVoter(t, "Ana Cruz", true)

	h := NewBallotHandler(store.NewVoteStore(env.db), env.elections, env.hub, env.logger)

	votes := fullVotes(positions, candidates)
	votes[positions[0].ID] = candidates[positions[1].ID][0].ID
	rec := httptest.NewRecorder()
	h.Submit(rec, asVoter(t, voter, "POST", "/api/ballot", map[string]any{"votes": votes}))
	wantCode(t, rec, http.StatusBadRequest, "invalid_selection")
}

func TestBallotSubmitNoActiveElection(t *testing.T) {
	env := setupEnv(t)
	voter := env.newVoter(t, "Ana Cruz", true)

	h := NewBallotHandler(store.NewVoteStore(env.db), env.elections, env.hub, env.logger)

	rec := httptest.NewRecorder()
	h.Submit(rec, asVoter(t, voter, "POST", "/api/ballot",
		map[string]any{"votes": map[int64]int64{1: 1}}))
	wantCode(t, rec, http.StatusBadRequest, "no_active_election")
}

func TestBallotMine(t *testing.T) {
	env := setupEnv(t)
	_, positions, candidates := env.seedVotingElection(t)
	voter := env.newVoter(t, "Ana Cruz", true)

	h := NewBallotHandler(store.NewVoteStore(env.db), env.elections, env.hub, env.logger)

	rec := httptest.NewRecorder()
	h.Mine(rec, asVoter(t, voter, "GET", "/api/ballot/mine", nil))
	var before struct {
		HasVoted bool               `json:"has_voted"`
		Votes    []store.VoteDetail `json:"votes"`
	}
	decodeBody(t, rec, &before)
	if before.HasVoted || len(before.Votes) != 0 {
		t.Errorf("unexpected votes before submission: %+v", before)
	}

	rec = httptest.NewRecorder()
	h.Submit(rec, asVoter(t, voter, "POST", "/api/ballot",
		map[string]any{"votes": fullVotes(positions, candidates)}))
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit status = %d (body %s)", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.Mine(rec, asVoter(t, voter, "GET", "/api/ballot/mine", nil))
	var after struct {
		HasVoted bool               `json:"has_voted"`
		Votes    []store.VoteDetail `json:"votes"`
	}
	decodeBody(t, rec, &after)
	if !after.HasVoted || len(after.Votes) != len(positions) {
		t.Errorf("got has_voted=%v with %d votes, want true with %d", after.HasVoted, len(after.Votes), len(positions))
	}
}
