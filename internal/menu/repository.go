package menu

import (
	"context"
	"errors"
)

var ErrMenuNotFound = errors.New("menu not found")

// Repository defines all database operations for parsed menus and
// per-user selection state.
type Repository interface {

	// -------------------------------
	// Parsed menus (immutable)
	// -------------------------------

	SaveMenu(ctx context.Context, userID string, m *ParsedMenu) error
	GetMenu(ctx context.Context, menuID string) (*ParsedMenu, error)
	ListMenus(ctx context.Context, userID string) ([]*ParsedMenu, error)

	// -------------------------------
	// Selection state (per menu, per user)
	// -------------------------------

	SaveSelection(ctx context.Context, menuID, userID string, snap SelectionSnapshot) error
	GetSelection(ctx context.Context, menuID, userID string) (SelectionSnapshot, error)
	DeleteSelection(ctx context.Context, menuID, userID string) error
}
