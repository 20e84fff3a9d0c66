package products

import (
	"sort"
	"strings"
)

type SortKey string

const (
	SortLatest    SortKey = "latest"
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
	SortRating    SortKey = "rating"
)

// ParseSortKey devuelve SortLatest para valores desconocidos.
func ParseSortKey(s string) SortKey {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortPriceAsc, SortPriceDesc, SortRating:
		return k
	default:
		return SortLatest
	}
}

const (
	DefaultPriceMin = 0
	DefaultPriceMax = 10000

	// LatestCount es el tamaño del slider de novedades.
	LatestCount = 10
)

type Filter struct {
	PriceMin   float64
	PriceMax   float64
	SortBy     SortKey
	Categories []Category
	SearchTerm string
}

func DefaultFilter() Filter {
	return Filter{
		PriceMin: DefaultPriceMin,
		PriceMax: DefaultPriceMax,
		SortBy:   SortLatest,
	}
}

// ToggleCategory agrega c si no estaba seleccionada, o la quita.
// No modifica f.Categories in-place.
func ToggleCategory(f Filter, c Category) Filter {
	out := make([]Category, 0, len(f.Categories)+1)
	found := false
	for _, sel := range f.Categories {
		if sel == c {
			found = true
			continue
		}
		out = append(out, sel)
	}
	if !found {
		out = append(out, c)
	}
	f.Categories = out
	return f
}

// Apply filtra y ordena sin tocar list. Categorías: OR; vacío = sin filtro.
// Precio: rango inclusivo sobre Price (no DiscountPrice). Orden estable.
func Apply(list []Product, f Filter) []Product {
	cats := make(map[Category]struct{}, len(f.Categories))
	for _, c := range f.Categories {
		cats[c] = struct{}{}
	}
	term := strings.ToLower(strings.TrimSpace(f.SearchTerm))

	out := make([]Product, 0, len(list))
	for _, p := range list {
		if len(cats) > 0 {
			if _, ok := cats[p.Category]; !ok {
				continue
			}
		}
		if p.Price < f.PriceMin || p.Price > f.PriceMax {
			continue
		}
		if term != "" && !matches(p, term) {
			continue
		}
		out = append(out, p)
	}

	sortProducts(out, f.SortBy)
	return out
}

// Latest devuelve los n productos más nuevos (createdAt desc, sin fecha = más viejo).
func Latest(list []Product, n int) []Product {
	out := make([]Product, len(list))
	copy(out, list)
	sortProducts(out, SortLatest)
	if n >= 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

func sortProducts(ps []Product, key SortKey) {
	var less func(a, b Product) bool
	switch key {
	case SortPriceAsc:
		less = func(a, b Product) bool { return a.Price < b.Price }
	case SortPriceDesc:
		less = func(a, b Product) bool { return a.Price > b.Price }
	case SortRating:
		less = func(a, b Product) bool { return a.rating() > b.rating() }
	default:
		less = func(a, b Product) bool { return a.createdUnix() > b.createdUnix() }
	}
	sort.SliceStable(ps, func(i, j int) bool { return less(ps[i], ps[j]) })
}

func matches(p Product, term string) bool {
	for _, s := range []string{p.Name, p.Brand, p.Description, p.ShortDescription} {
		if strings.Contains(strings.ToLower(s), term) {
			return true
		}
	}
	return false
}
