package store

import (
	"database/sql"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"halalan/internal/domain"
	"halalan/internal/model"
)

type AdminStore struct {
	db *sql.DB
}

func NewAdminStore(db *sql.DB) *AdminStore {
	return &AdminStore{db: db}
}

const adminCols = `id, username, full_name, is_active, created_at`

func scanAdmin(scanner interface{ Scan(...any) error }) (*model.Admin, error) {
	var a model.Admin
	err := scanner.Scan(&a.ID, &a.Username, &a.FullName, &a.IsActive, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create registers an admin with the password hashed at this boundary; the
// raw password is never stored.
func (s *AdminStore) Create(username, fullName, password string) (*model.Admin, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	result, err := s.db.Exec(
		`INSERT INTO admins (username, full_name, password_hash) VALUES (?, ?, ?)`,
		username, fullName, string(hash),
	)
	if err != nil {
		return nil, fmt.Errorf("insert admin: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *AdminStore) GetByID(id int64) (*model.Admin, error) {
	row := s.db.QueryRow(`SELECT `+adminCols+` FROM admins WHERE id = ? AND is_active = 1`, id)
	a, err := scanAdmin(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get admin: %w", err)
	}
	return a, nil
}

func (s *AdminStore) GetByUsername(username string) (*model.Admin, error) {
	row := s.db.QueryRow(`SELECT `+adminCols+` FROM admins WHERE username = ? AND is_active = 1`, username)
	a, err := scanAdmin(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get admin by username: %w", err)
	}
	return a, nil
}

// Authenticate verifies admin credentials. Bad username and bad password
// are indistinguishable to the caller.
func (s *AdminStore) Authenticate(username, password string) (*model.Admin, error) {
	var id int64
	var hash string
	err := s.db.QueryRow(`SELECT id, password_hash FROM admins WHERE username = ? AND is_active = 1`, username).Scan(&id, &hash)
	if err == sql.ErrNoRows {
		return nil, domain.ErrUnauthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("lookup admin: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, domain.ErrUnauthenticated
	}
	return s.GetByID(id)
}
