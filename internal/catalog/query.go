package catalog

import (
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Filter maps JSON field names to exact-match values. An empty filter
// matches every product.
type Filter map[string]string

// SortSpec is the "<field>_<direction>" ordering requested by clients, for
// example "price_desc". Unknown fields leave the order untouched.
type SortSpec string

const (
	sortName      = "name"
	sortPrice     = "price"
	directionDesc = "desc"
)

func (s SortSpec) parse() (field string, desc bool) {
	if s == "" {
		return "", false
	}
	parts := strings.Split(string(s), "_")
	field = parts[0]
	if len(parts) > 1 {
		desc = parts[1] == directionDesc
	}
	return field, desc
}

// Apply sorts products in place. The sort is stable so equal keys keep their
// insertion order.
func (s SortSpec) Apply(products []Product) {
	field, desc := s.parse()

	var cmp func(a, b Product) int
	switch field {
	case sortPrice:
		cmp = func(a, b Product) int { return a.Price.Cmp(b.Price.Decimal) }
	case sortName:
		// Collator keeps internal buffers, so one per call.
		col := collate.New(language.English, collate.IgnoreCase)
		cmp = func(a, b Product) int { return col.CompareString(a.Name, b.Name) }
	default:
		return
	}

	if desc {
		asc := cmp
		cmp = func(a, b Product) int { return asc(b, a) }
	}
	slices.SortStableFunc(products, cmp)
}

// filterFields lists the fields a Filter may name.
var filterFields = map[string]func(Product) string{
	"_id":         func(p Product) string { return p.ID },
	"name":        func(p Product) string { return p.Name },
	"description": func(p Product) string { return p.Description },
	"image":       func(p Product) string { return p.Image },
	"category":    func(p Product) string { return p.Category },
	"price":       func(p Product) string { return p.Price.String() },
	"discount":    func(p Product) string { return strconv.Itoa(p.Discount) },
}

// Match reports whether p carries every value in f. A field outside
// filterFields never matches.
func (f Filter) Match(p Product) bool {
	for k, want := range f {
		get, ok := filterFields[k]
		if !ok {
			return false
		}
		got := get(p)
		switch k {
		case "price":
			w, err := NewPrice(want)
			if err != nil || !w.Equal(p.Price.Decimal) {
				return false
			}
		case "discount":
			n, err := strconv.Atoi(want)
			if err != nil || strconv.Itoa(n) != got {
				return false
			}
		default:
			if got != want {
				return false
			}
		}
	}
	return true
}
