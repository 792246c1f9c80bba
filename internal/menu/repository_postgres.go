package menu

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// menuRow mirrors the items JSONB column.
type menuRow struct {
	Items      []LineItem `json:"items"`
	Confidence *float64   `json:"confidence,omitempty"`
}

func (r *PostgresRepository) SaveMenu(ctx context.Context, userID string, m *ParsedMenu) error {
	doc, err := json.Marshal(menuRow{Items: m.Items, Confidence: m.Confidence})
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO menus (id, user_id, source_image_url, source_language, items, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING
	`, m.ID, userID, m.SourceImageURL, m.SourceLanguage, doc, m.CreatedAt)

	return err
}

func (r *PostgresRepository) GetMenu(ctx context.Context, menuID string) (*ParsedMenu, error) {
	var (
		imageURL  string
		language  string
		doc       []byte
		createdAt time.Time
	)

	err := r.db.QueryRow(ctx, `
		SELECT source_image_url, source_language, items, created_at
		FROM menus
		WHERE id = $1
	`, menuID).Scan(&imageURL, &language, &doc, &createdAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrMenuNotFound
	}
	if err != nil {
		return nil, err
	}

	var row menuRow
	if err := json.Unmarshal(doc, &row); err != nil {
		return nil, err
	}

	return NewParsedMenu(menuID, imageURL, row.Items, language, createdAt, row.Confidence)
}

func (r *PostgresRepository) ListMenus(ctx context.Context, userID string) ([]*ParsedMenu, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, source_image_url, source_language, items, created_at
		FROM menus
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var menus []*ParsedMenu
	for rows.Next() {
		var (
			id        string
			imageURL  string
			language  string
			doc       []byte
			createdAt time.Time
		)
		if err := rows.Scan(&id, &imageURL, &language, &doc, &createdAt); err != nil {
			return nil, err
		}

		var row menuRow
		if err := json.Unmarshal(doc, &row); err != nil {
			return nil, err
		}

		m, err := NewParsedMenu(id, imageURL, row.Items, language, createdAt, row.Confidence)
		if err != nil {
			return nil, err
		}
		menus = append(menus, m)
	}

	return menus, rows.Err()
}

func (r *PostgresRepository) SaveSelection(ctx context.Context, menuID, userID string, snap SelectionSnapshot) error {
	doc, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO selections (menu_id, user_id, state, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (menu_id, user_id)
		DO UPDATE SET state = $3, updated_at = now()
	`, menuID, userID, doc)

	return err
}

func (r *PostgresRepository) GetSelection(ctx context.Context, menuID, userID string) (SelectionSnapshot, error) {
	empty := SelectionSnapshot{
		QuantityByItem:      map[string]int{},
		ChosenVariantByItem: map[string]Variant{},
	}

	var doc []byte
	err := r.db.QueryRow(ctx, `
		SELECT state FROM selections
		WHERE menu_id = $1 AND user_id = $2
	`, menuID, userID).Scan(&doc)

	if errors.Is(err, pgx.ErrNoRows) {
		return empty, nil
	}
	if err != nil {
		return empty, err
	}

	var snap SelectionSnapshot
	if err := json.Unmarshal(doc, &snap); err != nil {
		return empty, err
	}
	if snap.QuantityByItem == nil {
		snap.QuantityByItem = map[string]int{}
	}
	if snap.ChosenVariantByItem == nil {
		snap.ChosenVariantByItem = map[string]Variant{}
	}
	return snap, nil
}

func (r *PostgresRepository) DeleteSelection(ctx context.Context, menuID, userID string) error {
	_, err := r.db.Exec(ctx, `
		DELETE FROM selections
		WHERE menu_id = $1 AND user_id = $2
	`, menuID, userID)
	return err
}
