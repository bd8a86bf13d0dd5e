// Package cart holds the shopper's in-memory cart.
package cart

import (
	"errors"

	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/shopspring/decimal"
)

var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// Store is an ordered set of cart items keyed by product id. Insertion order is display order.
// It does not consult stock and is not safe for concurrent use; the owning session serializes access.
type Store struct {
	items []model.CartItem
}

func NewStore() *Store {
	return &Store{}
}

// AddItem increments the quantity of an existing line or appends a new one.
func (s *Store) AddItem(p model.Product, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	if i := s.indexOf(p.ID); i >= 0 {
		s.items[i].Quantity += quantity
		return nil
	}
	s.items = append(s.items, model.CartItem{Product: p, Quantity: quantity})
	return nil
}

// UpdateQuantity sets the quantity of id; a quantity <= 0 removes the line.
func (s *Store) UpdateQuantity(id string, quantity int) {
	i := s.indexOf(id)
	if i < 0 {
		return
	}
	if quantity <= 0 {
		s.removeAt(i)
		return
	}
	s.items[i].Quantity = quantity
}

func (s *Store) RemoveItem(id string) {
	if i := s.indexOf(id); i >= 0 {
		s.removeAt(i)
	}
}

func (s *Store) Clear() {
	s.items = nil
}

// Items returns a copy of the lines in display order.
func (s *Store) Items() []model.CartItem {
	out := make([]model.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

// Total is recomputed from the current lines on every call.
func (s *Store) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range s.items {
		total = total.Add(it.LineTotal())
	}
	return total
}

// Count is the number of units across all lines.
func (s *Store) Count() int {
	n := 0
	for _, it := range s.items {
		n += it.Quantity
	}
	return n
}

func (s *Store) Len() int { return len(s.items) }

func (s *Store) IsEmpty() bool { return len(s.items) == 0 }

func (s *Store) View() model.CartView {
	return model.CartView{
		Items: s.Items(),
		Total: s.Total(),
		Count: s.Count(),
	}
}

func (s *Store) indexOf(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) removeAt(i int) {
	s.items = append(s.items[:i], s.items[i+1:]...)
}
