package botservice

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"whats-my-order/internal/domain/orders"
	"whats-my-order/internal/ports"
	"whats-my-order/internal/shared/config"
)

// memoryCatalog is the read-only product catalog, loaded once at boot.
// Codes are normalized upper-case; lookups never touch I/O.
type memoryCatalog struct {
	entries map[string]ports.CatalogEntry
}

var _ ports.Catalog = (*memoryCatalog)(nil)

// NewCatalog builds a catalog from the given entries, normalizing codes upper-case.
func NewCatalog(entries []ports.CatalogEntry) ports.Catalog {
	c := &memoryCatalog{entries: make(map[string]ports.CatalogEntry, len(entries))}
	for _, e := range entries {
		e.Code = strings.ToUpper(strings.TrimSpace(e.Code))
		c.entries[e.Code] = e
	}
	return c
}

// NewCatalogFromConfig parses the config catalog section, where each entry is
// "CODE: Display Name, price".
func NewCatalogFromConfig(cfg *config.Config) (ports.Catalog, error) {
	entries := make([]ports.CatalogEntry, 0, len(cfg.Catalog))
	for code, val := range cfg.Catalog {
		comma := strings.LastIndexByte(val, ',')
		if comma <= 0 {
			return nil, fmt.Errorf("catalog entry %q: expected \"Name, price\", got %q", code, val)
		}
		name := strings.TrimSpace(val[:comma])
		priceStr := strings.TrimSpace(val[comma+1:])
		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil {
			return nil, fmt.Errorf("catalog entry %q: bad price %q: %w", code, priceStr, err)
		}
		if name == "" || price <= 0 {
			return nil, fmt.Errorf("catalog entry %q: name and positive price are required", code)
		}
		entries = append(entries, ports.CatalogEntry{
			Code:  code,
			Name:  name,
			Price: orders.NewMoneyFromFloat2(price),
		})
	}
	return NewCatalog(entries), nil
}

func (c *memoryCatalog) Lookup(code string) (ports.CatalogEntry, bool) {
	e, ok := c.entries[strings.ToUpper(strings.TrimSpace(code))]
	return e, ok
}

// List returns all entries ordered by code.
func (c *memoryCatalog) List() []ports.CatalogEntry {
	out := make([]ports.CatalogEntry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
