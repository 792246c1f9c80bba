package menu

import (
	"strconv"
	"strings"
)

// Selection tracks which items of one parsed menu the user intends to
// order, with a quantity and an optional chosen variant per item.
//
// Selection membership and quantity are co-extensive: a quantity that
// reaches zero removes the entry, and there is no "quantity 0 but still
// selected" state. Variant choice is an independent axis: a user may
// pick a variant before deciding to order the item.
//
// Totals are pure derivations over the two maps, never stored, so they
// cannot drift. Operations on ids absent from the menu are no-ops; this
// tolerates the menu being replaced mid-interaction.
type Selection struct {
	menu       *ParsedMenu
	quantities map[string]int
	variants   map[string]Variant
}

func NewSelection(m *ParsedMenu) *Selection {
	return &Selection{
		menu:       m,
		quantities: make(map[string]int),
		variants:   make(map[string]Variant),
	}
}

func (s *Selection) knows(itemID string) bool {
	if s.menu == nil {
		return false
	}
	_, ok := s.menu.Item(itemID)
	return ok
}

// Toggle inserts the item with quantity 1, or removes it when already
// selected. Two toggles return the selection to its prior state.
func (s *Selection) Toggle(itemID string) {
	if !s.knows(itemID) {
		return
	}
	if _, ok := s.quantities[itemID]; ok {
		delete(s.quantities, itemID)
		return
	}
	s.quantities[itemID] = 1
}

// SetQuantity sets the quantity exactly. Zero or below removes the item.
func (s *Selection) SetQuantity(itemID string, n int) {
	if !s.knows(itemID) {
		return
	}
	if n <= 0 {
		delete(s.quantities, itemID)
		return
	}
	s.quantities[itemID] = n
}

func (s *Selection) Increment(itemID string) {
	if !s.knows(itemID) {
		return
	}
	s.quantities[itemID]++
}

func (s *Selection) Decrement(itemID string) {
	if !s.knows(itemID) {
		return
	}
	s.SetQuantity(itemID, s.quantities[itemID]-1)
}

// SelectVariant records the chosen variant for the item. It does not
// touch selection membership or quantity.
func (s *Selection) SelectVariant(itemID string, v Variant) {
	if !s.knows(itemID) {
		return
	}
	s.variants[itemID] = v
}

// Clear empties both maps.
func (s *Selection) Clear() {
	s.quantities = make(map[string]int)
	s.variants = make(map[string]Variant)
}

func (s *Selection) IsSelected(itemID string) bool {
	_, ok := s.quantities[itemID]
	return ok
}

func (s *Selection) Quantity(itemID string) int {
	return s.quantities[itemID]
}

// ChosenVariant returns the explicitly chosen variant, or false.
func (s *Selection) ChosenVariant(itemID string) (Variant, bool) {
	v, ok := s.variants[itemID]
	return v, ok
}

// SelectedCount is the number of distinct selected items.
func (s *Selection) SelectedCount() int {
	return len(s.quantities)
}

// TotalQuantity is the sum of units across all selected items.
func (s *Selection) TotalQuantity() int {
	total := 0
	for _, q := range s.quantities {
		total += q
	}
	return total
}

// TotalPrice sums unit price times quantity over the selected items,
// using the chosen variant or the item's first variant. An item with no
// usable price contributes zero rather than failing the total.
func (s *Selection) TotalPrice() float64 {
	total := 0.0
	for id, q := range s.quantities {
		item, ok := s.menu.Item(id)
		if !ok {
			continue
		}
		v, chosen := s.variants[id]
		if !chosen {
			v = item.Variants[0]
		}
		total += v.Price * float64(q)
	}
	return total
}

// OrderLine is one row of the order card shown to restaurant staff.
type OrderLine struct {
	Item     LineItem `json:"item"`
	Variant  Variant  `json:"variant"`
	Quantity int      `json:"quantity"`
}

// Lines returns the selected items in menu order with their effective
// variant and quantity.
func (s *Selection) Lines() []OrderLine {
	if s.menu == nil {
		return nil
	}
	var lines []OrderLine
	for _, item := range s.menu.Items {
		q, ok := s.quantities[item.ID]
		if !ok {
			continue
		}
		v, chosen := s.variants[item.ID]
		if !chosen {
			v = item.Variants[0]
		}
		lines = append(lines, OrderLine{Item: item, Variant: v, Quantity: q})
	}
	return lines
}

// OrderText renders the order in the menu's source language, one line
// per selected item, for pointing at or reading to staff.
func (s *Selection) OrderText() string {
	var b strings.Builder
	for i, line := range s.Lines() {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(line.Item.OriginalName)
		if len(line.Item.Variants) > 1 {
			b.WriteString(" (")
			b.WriteString(line.Variant.Spec)
			b.WriteString(")")
		}
		b.WriteString(" ×")
		b.WriteString(strconv.Itoa(line.Quantity))
	}
	return b.String()
}
