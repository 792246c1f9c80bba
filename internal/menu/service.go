package menu

import "context"

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// OrderSummary is the derived view of a selection handed to the
// presentation layer. It is recomputed on every mutation.
type OrderSummary struct {
	MenuID        string      `json:"menu_id"`
	SelectedCount int         `json:"selected_count"`
	TotalQuantity int         `json:"total_quantity"`
	TotalPrice    float64     `json:"total_price"`
	OrderText     string      `json:"order_text"`
	Lines         []OrderLine `json:"lines"`
}

func summarize(menuID string, sel *Selection) OrderSummary {
	return OrderSummary{
		MenuID:        menuID,
		SelectedCount: sel.SelectedCount(),
		TotalQuantity: sel.TotalQuantity(),
		TotalPrice:    sel.TotalPrice(),
		OrderText:     sel.OrderText(),
		Lines:         sel.Lines(),
	}
}

func (s *Service) GetMenu(ctx context.Context, menuID string) (*ParsedMenu, error) {
	return s.repo.GetMenu(ctx, menuID)
}

func (s *Service) ListMenus(ctx context.Context, userID string) ([]*ParsedMenu, error) {
	return s.repo.ListMenus(ctx, userID)
}

func (s *Service) loadSelection(ctx context.Context, menuID, userID string) (*Selection, error) {
	m, err := s.repo.GetMenu(ctx, menuID)
	if err != nil {
		return nil, err
	}
	snap, err := s.repo.GetSelection(ctx, menuID, userID)
	if err != nil {
		return nil, err
	}
	return RestoreSelection(m, snap), nil
}

// mutate loads the selection, applies fn and persists the result.
func (s *Service) mutate(ctx context.Context, menuID, userID string, fn func(*Selection)) (OrderSummary, error) {
	sel, err := s.loadSelection(ctx, menuID, userID)
	if err != nil {
		return OrderSummary{}, err
	}
	fn(sel)
	if err := s.repo.SaveSelection(ctx, menuID, userID, sel.Snapshot()); err != nil {
		return OrderSummary{}, err
	}
	return summarize(menuID, sel), nil
}

func (s *Service) ToggleItem(ctx context.Context, menuID, userID, itemID string) (OrderSummary, error) {
	return s.mutate(ctx, menuID, userID, func(sel *Selection) {
		sel.Toggle(itemID)
	})
}

func (s *Service) SetQuantity(ctx context.Context, menuID, userID, itemID string, n int) (OrderSummary, error) {
	return s.mutate(ctx, menuID, userID, func(sel *Selection) {
		sel.SetQuantity(itemID, n)
	})
}

func (s *Service) SelectVariant(ctx context.Context, menuID, userID, itemID string, v Variant) (OrderSummary, error) {
	return s.mutate(ctx, menuID, userID, func(sel *Selection) {
		sel.SelectVariant(itemID, v)
	})
}

func (s *Service) ClearSelection(ctx context.Context, menuID, userID string) error {
	return s.repo.DeleteSelection(ctx, menuID, userID)
}

func (s *Service) OrderSummaryFor(ctx context.Context, menuID, userID string) (OrderSummary, error) {
	sel, err := s.loadSelection(ctx, menuID, userID)
	if err != nil {
		return OrderSummary{}, err
	}
	return summarize(menuID, sel), nil
}
