package service

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/ecommerceapp/storefront/internal/core/domain"
)

func catalogOf(n int) []domain.Product {
	products := make([]domain.Product, 0, n)
	for i := 1; i <= n; i++ {
		products = append(products, domain.Product{
			ID:    fmt.Sprintf("%d", i),
			Name:  fmt.Sprintf("Product %d", i),
			Price: domain.Money{Amount: float64(i), Currency: "USD"},
		})
	}
	return products
}

func TestFilterStore_QueryResetsPage(t *testing.T) {
	s := NewFilterStore(9, domain.DefaultSearchFields(), discardLogger)
	s.SetPage(3)

	s.SetQuery("phone")
	if got := s.State(); got.Page != 1 {
		t.Fatalf("setting query must reset page to 1, got %d", got.Page)
	}

	s.SetPage(2)
	s.SetCategory("laptops")
	if got := s.State(); got.Page != 1 {
		t.Fatalf("setting category must reset page to 1, got %d", got.Page)
	}
}

func TestFilterStore_SetPageClamps(t *testing.T) {
	s := NewFilterStore(9, domain.DefaultSearchFields(), discardLogger)
	s.SetPage(0)
	if got := s.State(); got.Page != 1 {
		t.Fatalf("page below 1 must clamp, got %d", got.Page)
	}
	s.SetPage(-4)
	if got := s.State(); got.Page != 1 {
		t.Fatalf("negative page must clamp, got %d", got.Page)
	}
}

func TestFilterStore_ClearFilters(t *testing.T) {
	s := NewFilterStore(9, domain.DefaultSearchFields(), discardLogger)
	s.SetQuery("phone")
	s.SetCategory("laptops")
	s.SetPage(2)

	s.ClearFilters()

	want := domain.FilterState{Page: 1}
	if got := s.State(); got != want {
		t.Fatalf("clear filters: got %+v, want %+v", got, want)
	}
}

func TestVisibleProducts_Pagination(t *testing.T) {
	catalog := catalogOf(20)

	page1 := VisibleProducts(catalog, domain.FilterState{Page: 1}, domain.DefaultSearchFields(), 9)
	if len(page1.Items) != 9 || page1.Items[0].ID != "1" || page1.Items[8].ID != "9" {
		t.Fatalf("page 1 wrong: %d items, first %s", len(page1.Items), page1.Items[0].ID)
	}
	if page1.Total != 20 || page1.TotalPages != 3 {
		t.Fatalf("totals wrong: %+v", page1)
	}

	page3 := VisibleProducts(catalog, domain.FilterState{Page: 3}, domain.DefaultSearchFields(), 9)
	if len(page3.Items) != 2 || page3.Items[0].ID != "19" || page3.Items[1].ID != "20" {
		t.Fatalf("page 3 wrong: %+v", page3.Items)
	}

	beyond := VisibleProducts(catalog, domain.FilterState{Page: 9}, domain.DefaultSearchFields(), 9)
	if len(beyond.Items) != 0 {
		t.Fatalf("page beyond range must be empty, got %d items", len(beyond.Items))
	}
}

func TestVisibleProducts_SearchIsCaseInsensitive(t *testing.T) {
	catalog := []domain.Product{
		{ID: "1", Name: "iPhone 13", Category: "telephone"},
		{ID: "2", Name: "ThinkPad", Category: "ordinateur"},
	}

	page := VisibleProducts(catalog, domain.FilterState{Query: "iphone", Page: 1}, domain.DefaultSearchFields(), 9)
	if len(page.Items) != 1 || page.Items[0].ID != "1" {
		t.Fatalf("expected exactly the iPhone, got %+v", page.Items)
	}
}

func TestVisibleProducts_MatchFields(t *testing.T) {
	catalog := []domain.Product{
		{ID: "1", Name: "Alpha", Category: "Audio"},
		{ID: "2", Name: "Beta", Brand: "AudioCorp"},
		{ID: "3", Name: "Gamma", Badge: "audio deal"},
		{ID: "4", Name: "Delta"},
	}

	all := VisibleProducts(catalog, domain.FilterState{Query: "audio", Page: 1}, domain.DefaultSearchFields(), 9)
	if len(all.Items) != 3 {
		t.Fatalf("all fields enabled: want 3 matches, got %d", len(all.Items))
	}

	nameOnly := VisibleProducts(catalog, domain.FilterState{Query: "audio", Page: 1}, domain.SearchFields{}, 9)
	if len(nameOnly.Items) != 0 {
		t.Fatalf("name-only matching: want 0 matches, got %d", len(nameOnly.Items))
	}

	brandOnly := VisibleProducts(catalog, domain.FilterState{Query: "audio", Page: 1}, domain.SearchFields{Brand: true}, 9)
	if len(brandOnly.Items) != 1 || brandOnly.Items[0].ID != "2" {
		t.Fatalf("brand-only matching: got %+v", brandOnly.Items)
	}
}

func TestVisibleProducts_CategoryFilter(t *testing.T) {
	catalog := []domain.Product{
		{ID: "1", Name: "A", Category: "Telephone"},
		{ID: "2", Name: "B", Category: "telephone"},
		{ID: "3", Name: "C", Category: "ordinateur"},
	}

	page := VisibleProducts(catalog, domain.FilterState{Category: "TELEPHONE", Page: 1}, domain.DefaultSearchFields(), 9)
	if len(page.Items) != 2 {
		t.Fatalf("category match must be case-insensitive, got %d items", len(page.Items))
	}
}

func TestVisibleProducts_SearchThenCategory(t *testing.T) {
	catalog := []domain.Product{
		{ID: "1", Name: "Pro Max", Category: "telephone"},
		{ID: "2", Name: "Pro Book", Category: "ordinateur"},
		{ID: "3", Name: "Basic", Category: "telephone"},
	}

	state := domain.FilterState{Query: "pro", Category: "telephone", Page: 1}
	page := VisibleProducts(catalog, state, domain.DefaultSearchFields(), 9)
	if len(page.Items) != 1 || page.Items[0].ID != "1" {
		t.Fatalf("composed filter wrong: %+v", page.Items)
	}
}

func TestVisibleProducts_Idempotent(t *testing.T) {
	catalog := catalogOf(20)
	state := domain.FilterState{Query: "product 1", Page: 1}

	first := VisibleProducts(catalog, state, domain.DefaultSearchFields(), 9)
	second := VisibleProducts(catalog, state, domain.DefaultSearchFields(), 9)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("identical inputs must yield identical output")
	}
}

func TestCategories_FacetsSortedByCount(t *testing.T) {
	catalog := []domain.Product{
		{ID: "1", Category: "Telephone"},
		{ID: "2", Category: "telephone"},
		{ID: "3", Category: "TELEPHONE"},
		{ID: "4", Category: "Ordinateur"},
		{ID: "5", Category: "ordinateur"},
		{ID: "6", Category: "Accessoires"},
		{ID: "7"},
	}

	facets := Categories(catalog)
	if len(facets) != 3 {
		t.Fatalf("want 3 facets, got %d", len(facets))
	}
	if facets[0].Key != "telephone" || facets[0].Count != 3 {
		t.Fatalf("first facet wrong: %+v", facets[0])
	}
	if facets[0].Label != "Telephone" {
		t.Fatalf("label must keep the case of the first occurrence, got %q", facets[0].Label)
	}
	if facets[1].Key != "ordinateur" || facets[2].Key != "accessoires" {
		t.Fatalf("facet order wrong: %+v", facets)
	}
}
