package menu

import (
	"errors"
	"fmt"
	"time"
)

// TaxStatus tells whether a variant's price already includes tax,
// as presented on the original menu.
type TaxStatus string

const (
	TaxIncluded TaxStatus = "tax_included"
	TaxExcluded TaxStatus = "tax_excluded"
)

// Variant is one purchasable configuration of a line item
// (serving size, set vs. single dish, and so on).
type Variant struct {
	Spec      string    `json:"spec"`
	Price     float64   `json:"price"`
	TaxStatus TaxStatus `json:"tax_status"`
}

// NewVariant validates at the construction boundary. A price of zero is
// allowed so an unparseable upstream price can degrade to a priceless
// variant instead of sinking the whole menu.
func NewVariant(spec string, price float64, taxStatus TaxStatus) (Variant, error) {
	if spec == "" {
		return Variant{}, errors.New("variant spec must not be empty")
	}
	if price < 0 {
		return Variant{}, fmt.Errorf("variant price must not be negative, got %v", price)
	}
	if taxStatus != TaxIncluded && taxStatus != TaxExcluded {
		return Variant{}, fmt.Errorf("unknown tax status %q", taxStatus)
	}
	return Variant{Spec: spec, Price: price, TaxStatus: taxStatus}, nil
}

// LineItem is one dish or drink as extracted from a menu.
type LineItem struct {
	ID             string    `json:"id"`
	OriginalName   string    `json:"original_name"`
	TranslatedName string    `json:"translated_name"`
	Variants       []Variant `json:"variants"`
}

func NewLineItem(id, originalName, translatedName string, variants []Variant) (LineItem, error) {
	if id == "" {
		return LineItem{}, errors.New("line item id must not be empty")
	}
	if originalName == "" {
		return LineItem{}, errors.New("line item original name must not be empty")
	}
	if translatedName == "" {
		return LineItem{}, errors.New("line item translated name must not be empty")
	}
	if len(variants) == 0 {
		return LineItem{}, fmt.Errorf("line item %q needs at least one variant", id)
	}
	return LineItem{
		ID:             id,
		OriginalName:   originalName,
		TranslatedName: translatedName,
		Variants:       variants,
	}, nil
}

// ParsedMenu is the result of one successful scan. It is immutable
// after construction; selection state lives in Selection, never here.
type ParsedMenu struct {
	ID             string     `json:"id"`
	SourceImageURL string     `json:"source_image_url"`
	Items          []LineItem `json:"items"`
	SourceLanguage string     `json:"source_language"`
	CreatedAt      time.Time  `json:"created_at"`
	Confidence     *float64   `json:"confidence,omitempty"`
}

func NewParsedMenu(
	id string,
	sourceImageURL string,
	items []LineItem,
	sourceLanguage string,
	createdAt time.Time,
	confidence *float64,
) (*ParsedMenu, error) {
	if id == "" {
		return nil, errors.New("menu id must not be empty")
	}
	if len(items) == 0 {
		return nil, errors.New("menu must contain at least one item")
	}
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		if seen[it.ID] {
			return nil, fmt.Errorf("duplicate item id %q", it.ID)
		}
		seen[it.ID] = true
	}
	if confidence != nil && (*confidence < 0 || *confidence > 1) {
		return nil, fmt.Errorf("confidence %v out of range [0,1]", *confidence)
	}
	return &ParsedMenu{
		ID:             id,
		SourceImageURL: sourceImageURL,
		Items:          items,
		SourceLanguage: sourceLanguage,
		CreatedAt:      createdAt,
		Confidence:     confidence,
	}, nil
}

// Item returns the line item with the given id, or false.
func (m *ParsedMenu) Item(id string) (LineItem, bool) {
	for _, it := range m.Items {
		if it.ID == id {
			return it, true
		}
	}
	return LineItem{}, false
}
