package cart

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"sync"

	"GroceryStore/internal/catalog"
)

// DefaultCartID names the shared cart used by clients that send no cart id.
const DefaultCartID = "default"

const checkoutMessage = "Checkout complete (fake)"

var (
	ErrInvalidProduct  = errors.New("product id required")
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
)

type Entry struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

type CheckoutResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Cart is an ordered list of entries, at most one per product id. All
// methods return a copy of the entries.
type Cart struct {
	mu      sync.Mutex
	entries []Entry
}

func (c *Cart) List() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// Add merges quantity into the entry for p, or appends a new entry.
func (c *Cart) Add(p catalog.Product, quantity int) ([]Entry, error) {
	if strings.TrimSpace(p.ID) == "" {
		return nil, ErrInvalidProduct
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.index(p.ID); i >= 0 {
		if quantity > math.MaxInt-c.entries[i].Quantity {
			return nil, fmt.Errorf("%w: total for %q would overflow", ErrInvalidQuantity, p.ID)
		}
		c.entries[i].Quantity += quantity
	} else {
		c.entries = append(c.entries, Entry{Product: p, Quantity: quantity})
	}
	return c.snapshot(), nil
}

// Remove drops the entry for productID. Unknown ids are ignored.
func (c *Cart) Remove(productID string) []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.index(productID); i >= 0 {
		c.entries = slices.Delete(c.entries, i, i+1)
	}
	return c.snapshot()
}

func (c *Cart) Checkout() CheckoutResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = nil
	return CheckoutResult{Success: true, Message: checkoutMessage}
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cart) index(productID string) int {
	return slices.IndexFunc(c.entries, func(e Entry) bool { return e.Product.ID == productID })
}

func (c *Cart) snapshot() []Entry {
	if len(c.entries) == 0 {
		return []Entry{}
	}
	return slices.Clone(c.entries)
}

// Store holds carts by id. Carts live for the life of the process.
type Store struct {
	mu    sync.Mutex
	carts map[string]*Cart
}

func NewStore() *Store {
	return &Store{carts: map[string]*Cart{}}
}

// Cart returns the cart for id, creating it on first use. An empty id
// selects DefaultCartID.
func (s *Store) Cart(id string) *Cart {
	id = strings.TrimSpace(id)
	if id == "" {
		id = DefaultCartID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[id]
	if !ok {
		c = &Cart{}
		s.carts[id] = c
	}
	return c
}

// Entries counts entries across all carts.
func (s *Store) Entries() int {
	s.mu.Lock()
	carts := make([]*Cart, 0, len(s.carts))
	for _, c := range s.carts {
		carts = append(carts, c)
	}
	s.mu.Unlock()

	n := 0
	for _, c := range carts {
		n += c.Len()
	}
	return n
}
