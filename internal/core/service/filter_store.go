package service

import (
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ecommerceapp/storefront/internal/core/domain"
	"github.com/ecommerceapp/storefront/internal/core/ports"
)

// DefaultPageSize is the number of products shown per catalog page.
const DefaultPageSize = 9

// FilterStore owns the active search query, category selection, and
// pagination cursor. Changing the query or the category always resets the
// page to 1; the store enforces this, not the view.
type FilterStore struct {
	mu       sync.Mutex
	state    domain.FilterState
	fields   domain.SearchFields
	pageSize int
	log      zerolog.Logger
}

func NewFilterStore(pageSize int, fields domain.SearchFields, log zerolog.Logger) *FilterStore {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &FilterStore{
		state:    domain.FilterState{Page: 1},
		fields:   fields,
		pageSize: pageSize,
		log:      log,
	}
}

// SetQuery updates the free-text query and resets the page.
func (s *FilterStore) SetQuery(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Query = query
	s.state.Page = 1
}

// SetCategory updates the category selection and resets the page.
// An empty category clears the selection.
func (s *FilterStore) SetCategory(category string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Category = category
	s.state.Page = 1
}

// SetPage moves the pagination cursor. Values below 1 clamp to 1.
func (s *FilterStore) SetPage(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if page < 1 {
		page = 1
	}
	s.state.Page = page
}

// ClearFilters resets query, category, and page.
func (s *FilterStore) ClearFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = domain.FilterState{Page: 1}
	s.log.Debug().Msg("filters cleared")
}

// State returns a copy of the current filter state.
func (s *FilterStore) State() domain.FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Visible applies the store's current state to the catalog.
func (s *FilterStore) Visible(catalog []domain.Product) ports.CatalogPage {
	s.mu.Lock()
	state, fields, size := s.state, s.fields, s.pageSize
	s.mu.Unlock()
	return VisibleProducts(catalog, state, fields, size)
}

// VisibleProducts composes search, category filter, and pagination over the
// catalog. It is a pure function: identical inputs yield identical output.
func VisibleProducts(catalog []domain.Product, state domain.FilterState, fields domain.SearchFields, pageSize int) ports.CatalogPage {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	filtered := catalog
	if q := strings.TrimSpace(state.Query); q != "" {
		q = strings.ToLower(q)
		filtered = nil
		for _, p := range catalog {
			if matchesQuery(p, q, fields) {
				filtered = append(filtered, p)
			}
		}
	}
	if state.Category != "" {
		kept := filtered[:0:0]
		for _, p := range filtered {
			if strings.EqualFold(p.Category, state.Category) {
				kept = append(kept, p)
			}
		}
		filtered = kept
	}

	page := state.Page
	if page < 1 {
		page = 1
	}
	total := len(filtered)
	totalPages := (total + pageSize - 1) / pageSize

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	items := make([]domain.Product, end-start)
	copy(items, filtered[start:end])

	return ports.CatalogPage{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// matchesQuery reports whether the product matches the lowercased query on
// the name or any enabled optional field.
func matchesQuery(p domain.Product, q string, fields domain.SearchFields) bool {
	if strings.Contains(strings.ToLower(p.Name), q) {
		return true
	}
	if fields.Category && strings.Contains(strings.ToLower(p.Category), q) {
		return true
	}
	if fields.Brand && strings.Contains(strings.ToLower(p.Brand), q) {
		return true
	}
	if fields.Badge && strings.Contains(strings.ToLower(p.Badge), q) {
		return true
	}
	return false
}

// Categories derives the category selector from the catalog: one facet per
// distinct category (case-insensitive key, original-case label of the first
// occurrence), with product counts, sorted by descending count. Ties sort by
// key so the result is deterministic.
func Categories(catalog []domain.Product) []ports.CategoryFacet {
	index := make(map[string]int)
	var facets []ports.CategoryFacet
	for _, p := range catalog {
		c := strings.TrimSpace(p.Category)
		if c == "" {
			continue
		}
		key := strings.ToLower(c)
		if i, ok := index[key]; ok {
			facets[i].Count++
			continue
		}
		index[key] = len(facets)
		facets = append(facets, ports.CategoryFacet{Key: key, Label: c, Count: 1})
	}
	sort.Slice(facets, func(i, j int) bool {
		if facets[i].Count != facets[j].Count {
			return facets[i].Count > facets[j].Count
		}
		return facets[i].Key < facets[j].Key
	})
	return facets
}
