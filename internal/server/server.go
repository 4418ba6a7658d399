package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"halalan/internal/config"
	"halalan/internal/events"
	"halalan/internal/handler"
	"halalan/internal/middleware"
	"halalan/internal/store"
)

type Server struct {
	db          *sql.DB
	hub         *events.Hub
	voters      *store.VoterStore
	admins      *store.AdminStore
	authH       *handler.AuthHandler
	electionH   *handler.ElectionHandler
	positionH   *handler.PositionAdminHandler
	nominationH *handler.NominationHandler
	ballotH     *handler.BallotHandler
	resultsH    *handler.ResultsHandler
	voterAdminH *handler.VoterAdminHandler
	reminderH   *handler.ReminderHandler
	rateLimiter *middleware.RateLimiter
	tokenSecret string
	logger      *slog.Logger
}

func New(db *sql.DB, cfg *config.Config, logger *slog.Logger) *Server {
	hub := events.NewHub(logger)

	elections := store.NewElectionStore(db)
	positions := store.NewPositionStore(db)
	candidates := store.NewCandidateStore(db)
	voters := store.NewVoterStore(db)
	admins := store.NewAdminStore(db)
	nominations := store.NewNominationStore(db)
	votes := store.NewVoteStore(db)
	reminders := store.NewReminderStore(db)

	return &Server{
		db:          db,
		hub:         hub,
		voters:      voters,
		admins:      admins,
		authH:       handler.NewAuthHandler(voters, admins, cfg.TokenSecret, logger),
		electionH:   handler.NewElectionHandler(elections, positions, candidates, hub, logger),
		positionH:   handler.NewPositionAdminHandler(positions, candidates, elections, logger),
		nominationH: handler.NewNominationHandler(nominations, elections, positions, hub, logger),
		ballotH:     handler.NewBallotHandler(votes, elections, hub, logger),
		resultsH:    handler.NewResultsHandler(votes, elections, voters, logger),
		voterAdminH: handler.NewVoterAdminHandler(voters, logger),
		reminderH:   handler.NewReminderHandler(reminders, elections, logger),
		rateLimiter: middleware.NewRateLimiter(),
		tokenSecret: cfg.TokenSecret,
		logger:      logger,
	}
}

// Hub exposes the event hub so other components can publish.
func (s *Server) Hub() *events.Hub {
	return s.hub
}

// RateLimiter returns the limiter for periodic cleanup.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("GET /health", s.healthHandler)
	mux.HandleFunc("GET /api/election/current", s.electionH.Current)
	mux.HandleFunc("GET /api/positions", s.electionH.Positions)
	mux.HandleFunc("GET /api/candidates", s.electionH.Candidates)
	mux.HandleFunc("GET /api/results", s.resultsH.Public)
	mux.Handle("GET /ws", events.Handler(s.hub))

	// Logins are rate limited by client IP
	mux.HandleFunc("POST /api/auth/login", s.rateLimited(s.authH.VoterLogin))
	mux.HandleFunc("POST /api/admin/login", s.rateLimited(s.authH.AdminLogin))

	// Voter routes
	voterMux := http.NewServeMux()
	voterMux.HandleFunc("POST /api/auth/logout", s.authH.VoterLogout)
	voterMux.HandleFunc("GET /api/auth/me", s.authH.VoterMe)
	voterMux.HandleFunc("POST /api/auth/consent", s.authH.VoterConsent)
	voterMux.HandleFunc("POST /api/auth/finish", s.authH.VoterFinish)
	voterMux.HandleFunc("POST /api/nominations", s.nominationH.Submit)
	voterMux.HandleFunc("GET /api/nominations/mine", s.nominationH.Mine)
	voterMux.HandleFunc("POST /api/ballot", s.ballotH.Submit)
	voterMux.HandleFunc("GET /api/ballot/mine", s.ballotH.Mine)

	voterAuth := middleware.VoterAuth(s.voters)
	for _, pattern := range []string{
		"POST /api/auth/logout", "GET /api/auth/me", "POST /api/auth/consent",
		"POST /api/auth/finish", "POST /api/nominations", "GET /api/nominations/mine",
		"POST /api/ballot", "GET /api/ballot/mine",
	} {
		mux.Handle(pattern, voterAuth(voterMux))
	}

	// Admin routes
	adminMux := http.NewServeMux()
	adminMux.HandleFunc("GET /api/admin/me", s.authH.AdminMe)
	adminMux.HandleFunc("GET /api/admin/elections", s.electionH.List)
	adminMux.HandleFunc("POST /api/admin/elections", s.electionH.Create)
	adminMux.HandleFunc("POST /api/admin/election/end", s.electionH.End)
	adminMux.HandleFunc("POST /api/admin/election/publish", s.electionH.Publish)
	adminMux.HandleFunc("POST /api/admin/reset-election", s.electionH.ResetElection)
	adminMux.HandleFunc("POST /api/admin/positions", s.positionH.CreatePosition)
	adminMux.HandleFunc("PATCH /api/admin/positions/{id}", s.positionH.SetPositionActive)
	adminMux.HandleFunc("POST /api/admin/candidates", s.positionH.CreateCandidate)
	adminMux.HandleFunc("GET /api/admin/nominations", s.nominationH.List)
	adminMux.HandleFunc("POST /api/admin/nominations/{id}/promote", s.nominationH.Promote)
	adminMux.HandleFunc("GET /api/admin/tally", s.resultsH.Tally)
	adminMux.HandleFunc("GET /api/admin/stats", s.resultsH.Stats)
	adminMux.HandleFunc("GET /api/admin/voters", s.voterAdminH.List)
	adminMux.HandleFunc("POST /api/admin/voters", s.voterAdminH.Create)
	adminMux.HandleFunc("POST /api/admin/reset-voters", s.voterAdminH.Reset)
	adminMux.HandleFunc("GET /api/admin/reminders", s.reminderH.List)
	adminMux.HandleFunc("POST /api/admin/reminders", s.reminderH.Create)
	adminMux.HandleFunc("DELETE /api/admin/reminders/{id}", s.reminderH.Delete)

	adminAuth := middleware.AdminAuth(s.admins, s.tokenSecret)
	mux.Handle("/api/admin/", adminAuth(adminMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimited(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(h).ServeHTTP(w, r)
	}
}
