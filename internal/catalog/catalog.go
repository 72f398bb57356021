package catalog

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/anyapi/internal/domain"
)

// Catalog is the read-only collection of registered API descriptions.
// It is never mutated after Build, so concurrent readers need no locking.
type Catalog struct {
	order []string
	byID  map[string]*domain.Description
}

// Summary counts the registered APIs by authentication requirement.
type Summary struct {
	Total         int `json:"total"`
	Authenticated int `json:"authenticated"`
	Public        int `json:"public"`
}

// Get returns the description registered under id.
// The returned value must be treated as read-only.
func (c *Catalog) Get(id string) (*domain.Description, bool) {
	d, ok := c.byID[id]
	return d, ok
}

// List returns all descriptions in registration order.
func (c *Catalog) List() []*domain.Description {
	out := make([]*domain.Description, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// IDs returns the registered ids in registration order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.order))
	copy(ids, c.order)
	return ids
}

// Len returns the number of registered APIs.
func (c *Catalog) Len() int { return len(c.order) }

// Search returns descriptions whose id, name or description contains query,
// ignoring case. An empty query matches everything.
func (c *Catalog) Search(query string) []*domain.Description {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []*domain.Description
	for _, d := range c.List() {
		if q == "" ||
			strings.Contains(strings.ToLower(d.ID), q) ||
			strings.Contains(strings.ToLower(d.Name), q) ||
			strings.Contains(strings.ToLower(d.Description), q) {
			out = append(out, d)
		}
	}
	return out
}

// FilterByAuth returns descriptions whose RequiresAuth equals requiresAuth.
func (c *Catalog) FilterByAuth(requiresAuth bool) []*domain.Description {
	var out []*domain.Description
	for _, d := range c.List() {
		if d.RequiresAuth == requiresAuth {
			out = append(out, d)
		}
	}
	return out
}

// Summary returns totals for the registered APIs.
func (c *Catalog) Summary() Summary {
	s := Summary{Total: len(c.order)}
	for _, d := range c.byID {
		if d.RequiresAuth {
			s.Authenticated++
		} else {
			s.Public++
		}
	}
	return s
}

// Builder collects descriptions before the catalog is frozen.
// A Builder is not safe for concurrent use.
type Builder struct {
	logger *slog.Logger
	order  []string
	byID   map[string]*domain.Description
}

// NewBuilder creates an empty Builder.
func NewBuilder(logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		logger: logger.With("component", "catalog_builder"),
		byID:   make(map[string]*domain.Description),
	}
}

// Register validates d and adds a copy of it to the catalog under
// construction. A duplicate id overwrites the earlier registration, keeps its
// position and logs a warning. Lint findings are logged and never rejected.
func (b *Builder) Register(d *domain.Description) error {
	if d == nil {
		return fmt.Errorf("%w: nil description", domain.ErrInvalidDescription)
	}
	desc := *d
	desc.Endpoints = append([]domain.Endpoint(nil), d.Endpoints...)
	if err := desc.Validate(); err != nil {
		return err
	}

	for _, finding := range desc.Lint() {
		b.logger.Warn("api description lint", "api_id", desc.ID, "finding", finding)
	}

	if _, exists := b.byID[desc.ID]; exists {
		b.logger.Warn("overwriting api description registered under the same id", "api_id", desc.ID)
	} else {
		b.order = append(b.order, desc.ID)
	}
	b.byID[desc.ID] = &desc
	return nil
}

// RegisterAll registers each description in turn, stopping at the first error.
func (b *Builder) RegisterAll(descs []*domain.Description) error {
	for _, d := range descs {
		if err := b.Register(d); err != nil {
			return err
		}
	}
	return nil
}

// Build freezes the registered descriptions into a Catalog. The Builder may
// keep registering afterwards without affecting the returned Catalog.
func (b *Builder) Build() *Catalog {
	c := &Catalog{
		order: make([]string, len(b.order)),
		byID:  make(map[string]*domain.Description, len(b.byID)),
	}
	copy(c.order, b.order)
	for id, d := range b.byID {
		c.byID[id] = d
	}
	return c
}
