package store

import (
	"database/sql"
	"fmt"

	"halalan/internal/model"
)

type PositionStore struct {
	db *sql.DB
}

func NewPositionStore(db *sql.DB) *PositionStore {
	return &PositionStore{db: db}
}

const positionCols = `id, election_id, name, display_order, seats, is_active, created_at`

func scanPosition(scanner interface{ Scan(...any) error }) (*model.Position, error) {
	var p model.Position
	err := scanner.Scan(&p.ID, &p.ElectionID, &p.Name, &p.DisplayOrder, &p.Seats, &p.IsActive, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PositionStore) Create(electionID int64, name string, displayOrder, seats int) (*model.Position, error) {
	if seats < 1 {
		seats = 1
	}
	result, err := s.db.Exec(
		`INSERT INTO positions (election_id, name, display_order, seats) VALUES (?, ?, ?, ?)`,
		electionID, name, displayOrder, seats,
	)
	if err != nil {
		return nil, fmt.Errorf("insert position: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *PositionStore) GetByID(id int64) (*model.Position, error) {
	row := s.db.QueryRow(`SELECT `+positionCols+` FROM positions WHERE id = ?`, id)
	p, err := scanPosition(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get position: %w", err)
	}
	return p, nil
}

// ListActive returns the election's active positions in display order. This
// is the position set a complete ballot must cover.
func (s *PositionStore) ListActive(electionID int64) ([]model.Position, error) {
	rows, err := s.db.Query(
		`SELECT `+positionCols+` FROM positions WHERE election_id = ? AND is_active = 1 ORDER BY display_order ASC, name ASC`,
		electionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list positions: %w", err)
	}
	defer rows.Close()

	var positions []model.Position
	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, fmt.Errorf("scan position: %w", err)
		}
		positions = append(positions, *p)
	}
	return positions, rows.Err()
}

func (s *PositionStore) SetActive(id int64, active bool) error {
	_, err := s.db.Exec(`UPDATE positions SET is_active = ? WHERE id = ?`, active, id)
	if err != nil {
		return fmt.Errorf("set position active: %w", err)
	}
	return nil
}
