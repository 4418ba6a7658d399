package store

import (
	"crypto/rand"
	"database/sql"
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"halalan/internal/domain"
	"halalan/internal/model"
)

type VoterStore struct {
	db *sql.DB
}

func NewVoterStore(db *sql.DB) *VoterStore {
	return &VoterStore{db: db}
}

const voterCols = `id, voter_id, name, batch_year, campus_chapter, email, phone, privacy_consent, has_voted, is_active, created_at`

func scanVoter(scanner interface{ Scan(...any) error }) (*model.Voter, error) {
	var v model.Voter
	err := scanner.Scan(
		&v.ID, &v.VoterID, &v.Name, &v.BatchYear, &v.CampusChapter,
		&v.Email, &v.Phone, &v.PrivacyConsent, &v.HasVoted, &v.IsActive, &v.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Create registers a voter. A blank rawPIN gets a generated 4-digit PIN.
// The PIN is hashed before storage; the plaintext is returned exactly once
// and cannot be recovered afterwards.
func (s *VoterStore) Create(name, batchYear, campusChapter, email, phone string, consent bool, rawPIN string) (*model.Voter, string, error) {
	if rawPIN == "" {
		rawPIN = generatePIN()
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(rawPIN), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash pin: %w", err)
	}

	// The voter code space is small, so collide-and-retry.
	for attempt := 0; attempt < 100; attempt++ {
		code := generateVoterCode()
		result, err := s.db.Exec(
			`INSERT INTO voters (voter_id, name, batch_year, campus_chapter, email, phone, privacy_consent, pin_hash)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			code, name, batchYear, campusChapter, email, phone, consent, string(hash),
		)
		if isUniqueViolation(err) {
			continue
		}
		if err != nil {
			return nil, "", fmt.Errorf("insert voter: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return nil, "", fmt.Errorf("last insert id: %w", err)
		}
		v, err := s.GetByID(id)
		if err != nil {
			return nil, "", err
		}
		return v, rawPIN, nil
	}
	return nil, "", fmt.Errorf("insert voter: voter id space exhausted")
}

func (s *VoterStore) GetByID(id int64) (*model.Voter, error) {
	row := s.db.QueryRow(`SELECT `+voterCols+` FROM voters WHERE id = ?`, id)
	v, err := scanVoter(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get voter: %w", err)
	}
	return v, nil
}

func (s *VoterStore) GetByVoterID(voterID string) (*model.Voter, error) {
	row := s.db.QueryRow(`SELECT `+voterCols+` FROM voters WHERE voter_id = ?`, voterID)
	v, err := scanVoter(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get voter by voter_id: %w", err)
	}
	return v, nil
}

// GetBySessionToken resolves a bearer token to an active voter. An unknown
// token or a deactivated voter both come back nil, not an error.
func (s *VoterStore) GetBySessionToken(token string) (*model.Voter, error) {
	if token == "" {
		return nil, nil
	}
	row := s.db.QueryRow(`SELECT `+voterCols+` FROM voters WHERE session_token = ? AND is_active = 1`, token)
	v, err := scanVoter(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get voter by token: %w", err)
	}
	return v, nil
}

// Authenticate verifies voter_id + PIN and rotates the session token.
// Credential failures of any kind come back as ErrUnauthenticated so the
// response never reveals whether the voter id exists.
func (s *VoterStore) Authenticate(voterID, pin string) (*model.Voter, string, error) {
	var id int64
	var hash string
	err := s.db.QueryRow(`SELECT id, pin_hash FROM voters WHERE voter_id = ? AND is_active = 1`, voterID).Scan(&id, &hash)
	if err == sql.ErrNoRows {
		return nil, "", domain.ErrUnauthenticated
	}
	if err != nil {
		return nil, "", fmt.Errorf("lookup voter: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)) != nil {
		return nil, "", domain.ErrUnauthenticated
	}

	token := uuid.NewString()
	if _, err := s.db.Exec(`UPDATE voters SET session_token = ? WHERE id = ?`, token, id); err != nil {
		return nil, "", fmt.Errorf("start session: %w", err)
	}

	v, err := s.GetByID(id)
	if err != nil {
		return nil, "", err
	}
	return v, token, nil
}

// EndSession clears the voter's session token, making it unusable.
func (s *VoterStore) EndSession(id int64) error {
	_, err := s.db.Exec(`UPDATE voters SET session_token = NULL WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	return nil
}

// Finish deactivates the voter and ends their session; used when a voter
// declares they are done for the day. Only an administrative reset
// reactivates them.
func (s *VoterStore) Finish(id int64) error {
	_, err := s.db.Exec(`UPDATE voters SET is_active = 0, session_token = NULL WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("finish voter: %w", err)
	}
	return nil
}

func (s *VoterStore) SetConsent(id int64, consent bool) error {
	_, err := s.db.Exec(`UPDATE voters SET privacy_consent = ? WHERE id = ?`, consent, id)
	if err != nil {
		return fmt.Errorf("set consent: %w", err)
	}
	return nil
}

func (s *VoterStore) List() ([]model.Voter, error) {
	rows, err := s.db.Query(`SELECT ` + voterCols + ` FROM voters ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list voters: %w", err)
	}
	defer rows.Close()

	var voters []model.Voter
	for rows.Next() {
		v, err := scanVoter(rows)
		if err != nil {
			return nil, fmt.Errorf("scan voter: %w", err)
		}
		voters = append(voters, *v)
	}
	return voters, rows.Err()
}

// Counts returns total registered voters and how many have voted.
func (s *VoterStore) Counts() (total, voted int, err error) {
	err = s.db.QueryRow(
		`SELECT COUNT(*), COUNT(CASE WHEN has_voted = 1 THEN 1 END) FROM voters`,
	).Scan(&total, &voted)
	if err != nil {
		return 0, 0, fmt.Errorf("count voters: %w", err)
	}
	return total, voted, nil
}

// VoterPIN pairs a voter with a freshly issued plaintext PIN. The caller
// gets this list exactly once; only the hash is persisted.
type VoterPIN struct {
	VoterID string `json:"voter_id"`
	Name    string `json:"name"`
	PIN     string `json:"pin"`
}

// ResetAll restores every voter to a pre-voting state: has_voted cleared,
// session ended, account reactivated. With reshufflePins, each voter also
// gets a new PIN, returned in plaintext for one-time distribution. The
// whole operation is one transaction.
func (s *VoterStore) ResetAll(reshufflePins bool) ([]VoterPIN, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE voters SET has_voted = 0, session_token = NULL, is_active = 1`); err != nil {
		return nil, fmt.Errorf("reset voters: %w", err)
	}

	var pins []VoterPIN
	if reshufflePins {
		rows, err := tx.Query(`SELECT id, voter_id, name FROM voters ORDER BY name ASC`)
		if err != nil {
			return nil, fmt.Errorf("list voters: %w", err)
		}
		type target struct {
			id      int64
			voterID string
			name    string
		}
		var targets []target
		for rows.Next() {
			var t target
			if err := rows.Scan(&t.id, &t.voterID, &t.name); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scan voter: %w", err)
			}
			targets = append(targets, t)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("list voters: %w", err)
		}

		for _, t := range targets {
			pin := generatePIN()
			hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
			if err != nil {
				return nil, fmt.Errorf("hash pin: %w", err)
			}
			if _, err := tx.Exec(`UPDATE voters SET pin_hash = ? WHERE id = ?`, string(hash), t.id); err != nil {
				return nil, fmt.Errorf("update pin: %w", err)
			}
			pins = append(pins, VoterPIN{VoterID: t.voterID, Name: t.name, PIN: pin})
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return pins, nil
}

func generatePIN() string {
	return randomDigits(4)
}

func generateVoterCode() string {
	return "VOTER-" + randomDigits(4)
}

func randomDigits(n int) string {
	digits := make([]byte, n)
	for i := range digits {
		r, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			panic(err) // crypto/rand failure is unrecoverable
		}
		digits[i] = byte('0' + r.Int64())
	}
	return string(digits)
}
