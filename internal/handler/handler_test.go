package handler

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"halalan/internal/auth"
	"halalan/internal/database"
	"halalan/internal/events"
	"halalan/internal/model"
	"halalan/internal/store"
)

type testEnv struct {
	db         *sql.DB
	elections  *store.ElectionStore
	positions  *store.PositionStore
	candidates *store.CandidateStore
	voters     *store.VoterStore
	admins     *store.AdminStore
	hub        *events.Hub
	logger     *slog.Logger
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &testEnv{
		db:         db,
		elections:  store.NewElectionStore(db),
		positions:  store.NewPositionStore(db),
		candidates: store.NewCandidateStore(db),
		voters:     store.NewVoterStore(db),
		admins:     store.NewAdminStore(db),
		hub:        events.NewHub(logger),
		logger:     logger,
	}
}

// seedVotingElection creates an active election in its voting phase with
// two single-seat positions of two official candidates each.
func (env *testEnv) seedVotingElection(t *testing.T) (*model.Election, []model.Position, map[int64][]model.Candidate) {
	t.Helper()
	now := time.Now().UTC()
	return env.seedElectionAt(t,
		now.Add(-48*time.Hour), now.Add(-24*time.Hour),
		now.Add(-time.Hour), now.Add(time.Hour))
}

func (env *testEnv) seedElectionAt(t *testing.T, nomStart, nomEnd, voteStart, voteEnd time.Time) (*model.Election, []model.Position, map[int64][]model.Candidate) {
	t.Helper()
	e, err := env.elections.Create("Alumni Election", "", nomStart, nomEnd, voteStart, voteEnd, nil, true)
	if err != nil {
		t.Fatalf("create election: %v", err)
	}
	var positions []model.Position
	candidates := make(map[int64][]model.Candidate)
	for i, name := range []string{"President", "Secretary"} {
		p, err := env.positions.Create(e.ID, name, i, 1)
		if err != nil {
			t.Fatalf("create position: %v", err)
		}
		positions = append(positions, *p)
		for _, cn := range []string{name + " A", name + " B"} {
			c, err := env.candidates.Create(p.ID, cn, "2019", "", "", true)
			if err != nil {
				t.Fatalf("create candidate: %v", err)
			}
			candidates[p.ID] = append(candidates[p.ID], *c)
		}
	}
	return e, positions, candidates
}

func (env *testEnv) newVoter(t *testing.T, name string, consent bool) *model.Voter {
	t.Helper()
	v, _, err := env.voters.Create(name, "2019", "", "", "", consent, "")
	if err != nil {
		t.Fatalf("create voter: %v", err)
	}
	return v
}

// asVoter builds a request with the voter already on the context, the way
// the auth middleware would leave it.
func asVoter(t *testing.T, voter *model.Voter, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	if voter != nil {
		req = req.WithContext(auth.WithVoter(req.Context(), voter))
	}
	return req
}

func fmtID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func wantCode(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, status, rec.Body.String())
	}
	var body struct {
		Code string `json:"code"`
	}
	decodeBody(t, rec, &body)
	if body.Code != code {
		t.Errorf("code = %q, want %q", body.Code, code)
	}
}
