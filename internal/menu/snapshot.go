package menu

// SelectionSnapshot is the persisted wire shape of a Selection. The
// JSON keys mirror the stored structure one-to-one so a round trip is
// lossless for both maps.
type SelectionSnapshot struct {
	QuantityByItem      map[string]int     `json:"quantityByItem"`
	ChosenVariantByItem map[string]Variant `json:"chosenVariantByItem"`
}

func (s *Selection) Snapshot() SelectionSnapshot {
	snap := SelectionSnapshot{
		QuantityByItem:      make(map[string]int, len(s.quantities)),
		ChosenVariantByItem: make(map[string]Variant, len(s.variants)),
	}
	for id, q := range s.quantities {
		snap.QuantityByItem[id] = q
	}
	for id, v := range s.variants {
		snap.ChosenVariantByItem[id] = v
	}
	return snap
}

// RestoreSelection rebuilds a Selection from a snapshot against the
// given menu. Entries referencing items no longer on the menu are
// dropped, and non-positive quantities are discarded, so a restored
// selection always satisfies the engine's invariants.
func RestoreSelection(m *ParsedMenu, snap SelectionSnapshot) *Selection {
	s := NewSelection(m)
	for id, q := range snap.QuantityByItem {
		if q > 0 {
			s.SetQuantity(id, q)
		}
	}
	for id, v := range snap.ChosenVariantByItem {
		s.SelectVariant(id, v)
	}
	return s
}
