package menu

import (
	"context"
	"sync"
)

// InMemoryRepository backs tests and local development without Postgres.
type InMemoryRepository struct {
	mu         sync.Mutex
	menus      map[string]*ParsedMenu
	owners     map[string]string
	selections map[string]SelectionSnapshot // key: menuID + "/" + userID
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		menus:      make(map[string]*ParsedMenu),
		owners:     make(map[string]string),
		selections: make(map[string]SelectionSnapshot),
	}
}

func selKey(menuID, userID string) string { return menuID + "/" + userID }

func (r *InMemoryRepository) SaveMenu(ctx context.Context, userID string, m *ParsedMenu) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.menus[m.ID] = m
	r.owners[m.ID] = userID
	return nil
}

func (r *InMemoryRepository) GetMenu(ctx context.Context, menuID string) (*ParsedMenu, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.menus[menuID]
	if !ok {
		return nil, ErrMenuNotFound
	}
	return m, nil
}

func (r *InMemoryRepository) ListMenus(ctx context.Context, userID string) ([]*ParsedMenu, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*ParsedMenu
	for id, m := range r.menus {
		if r.owners[id] == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) SaveSelection(ctx context.Context, menuID, userID string, snap SelectionSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.selections[selKey(menuID, userID)] = snap
	return nil
}

func (r *InMemoryRepository) GetSelection(ctx context.Context, menuID, userID string) (SelectionSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap, ok := r.selections[selKey(menuID, userID)]
	if !ok {
		return SelectionSnapshot{
			QuantityByItem:      map[string]int{},
			ChosenVariantByItem: map[string]Variant{},
		}, nil
	}
	return snap, nil
}

func (r *InMemoryRepository) DeleteSelection(ctx context.Context, menuID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.selections, selKey(menuID, userID))
	return nil
}
