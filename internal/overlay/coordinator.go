// Package overlay tracks which storefront overlay (cart drawer, checkout modal, search panel) is visible.
package overlay

type Overlay int

const (
	None Overlay = iota
	Cart
	Checkout
	Search
)

func (o Overlay) String() string {
	switch o {
	case Cart:
		return "cart"
	case Checkout:
		return "checkout"
	case Search:
		return "search"
	default:
		return "none"
	}
}

func (o Overlay) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Coordinator holds a single active overlay, so two overlays can never be open together.
// Checkout is modal: while it is open, cart and search cannot be opened over it.
// Not safe for concurrent use.
type Coordinator struct {
	active     Overlay
	searchTerm string
	route      string
}

func NewCoordinator() *Coordinator {
	return &Coordinator{}
}

// State is a read-only snapshot for views.
type State struct {
	Active         Overlay `json:"active"`
	IsCartOpen     bool    `json:"is_cart_open"`
	IsCheckoutOpen bool    `json:"is_checkout_open"`
	IsSearchOpen   bool    `json:"is_search_open"`
	SearchTerm     string  `json:"search_term"`
	Route          string  `json:"route,omitempty"`
}

func (c *Coordinator) State() State {
	return State{
		Active:         c.active,
		IsCartOpen:     c.active == Cart,
		IsCheckoutOpen: c.active == Checkout,
		IsSearchOpen:   c.active == Search,
		SearchTerm:     c.searchTerm,
		Route:          c.route,
	}
}

func (c *Coordinator) Active() Overlay      { return c.active }
func (c *Coordinator) SearchTerm() string   { return c.searchTerm }
func (c *Coordinator) IsCartOpen() bool     { return c.active == Cart }
func (c *Coordinator) IsCheckoutOpen() bool { return c.active == Checkout }
func (c *Coordinator) IsSearchOpen() bool   { return c.active == Search }

func (c *Coordinator) OpenCart() {
	c.open(Cart)
}

func (c *Coordinator) CloseCart() {
	c.close(Cart)
}

func (c *Coordinator) ToggleCart() {
	if c.active == Cart {
		c.close(Cart)
		return
	}
	c.open(Cart)
}

// OpenCheckout supersedes whatever is open.
func (c *Coordinator) OpenCheckout() {
	c.switchTo(Checkout)
}

func (c *Coordinator) CloseCheckout() {
	c.close(Checkout)
}

func (c *Coordinator) OpenSearch() {
	c.open(Search)
}

// CloseSearch hides the search panel and forgets the term.
func (c *Coordinator) CloseSearch() {
	c.close(Search)
}

// SetSearchTerm only applies while the search panel is open.
func (c *Coordinator) SetSearchTerm(term string) {
	if c.active != Search {
		return
	}
	c.searchTerm = term
}

// Navigate records a route change. It always closes search.
func (c *Coordinator) Navigate(path string) {
	c.route = path
	c.CloseSearch()
}

func (c *Coordinator) open(o Overlay) {
	if c.active == Checkout {
		return
	}
	c.switchTo(o)
}

func (c *Coordinator) close(o Overlay) {
	if c.active != o {
		return
	}
	c.switchTo(None)
}

func (c *Coordinator) switchTo(o Overlay) {
	if c.active == Search && o != Search {
		c.searchTerm = ""
	}
	c.active = o
}
