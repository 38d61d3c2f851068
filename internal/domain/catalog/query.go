package catalog

import (
	"cmp"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKey selects the total order applied to query results.
type SortKey string

const (
	SortName      SortKey = "name"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortCondition SortKey = "condition"
	SortRating    SortKey = "rating"
	SortNewest    SortKey = "newest"
)

// GroupKey selects how query results are partitioned into labeled groups.
type GroupKey string

const (
	GroupNone      GroupKey = "none"
	GroupCategory  GroupKey = "category"
	GroupCondition GroupKey = "condition"
	GroupPrice     GroupKey = "price"
	GroupRating    GroupKey = "rating"
)

// CategoryAll is the sentinel category filter value that disables filtering.
const CategoryAll = "all"

// ParseSortKey maps a raw string to a SortKey. Unrecognized values fall back
// to SortName rather than failing.
func ParseSortKey(s string) SortKey {
	switch k := SortKey(s); k {
	case SortName, SortPriceLow, SortPriceHigh, SortCondition, SortRating, SortNewest:
		return k
	default:
		return SortName
	}
}

// ParseGroupKey maps a raw string to a GroupKey. Unrecognized values fall
// back to GroupNone rather than failing.
func ParseGroupKey(s string) GroupKey {
	switch k := GroupKey(s); k {
	case GroupNone, GroupCategory, GroupCondition, GroupPrice, GroupRating:
		return k
	default:
		return GroupNone
	}
}

// Params holds the user-editable query parameters for one Query invocation.
// Params carries no identity: the same products and Params always produce
// the same result.
type Params struct {
	Search   string
	Category string
	Sort     SortKey
	Group    GroupKey
}

// Group is one labeled bucket of the query result.
type Group struct {
	Label    string
	Products []Product
}

// conditionRank orders condition labels best-first. Labels outside the table
// rank 0 and therefore sort last.
var conditionRank = map[string]int{
	"Excellent": 4,
	"Very Good": 3,
	"Good":      2,
	"Fair":      1,
}

var (
	price30  = decimal.NewFromInt(30)
	price60  = decimal.NewFromInt(60)
	price100 = decimal.NewFromInt(100)
)

// Query runs the catalog pipeline: search filter, category filter, stable
// sort, grouping. It never fails and never mutates products; callers may
// invoke it concurrently over the same collection.
func Query(products []Product, params Params) []Group {
	filtered := filter(products, params)
	sortProducts(filtered, params.Sort)
	return group(filtered, params.Group)
}

// filter applies the search and category stages, returning a fresh slice so
// the caller's collection is never reordered by the sort stage.
func filter(products []Product, params Params) []Product {
	query := strings.ToLower(strings.TrimSpace(params.Search))
	byCategory := params.Category != "" && params.Category != CategoryAll

	out := make([]Product, 0, len(products))
	for _, p := range products {
		if query != "" && !matchesSearch(p, query) {
			continue
		}
		if byCategory && p.Category != params.Category {
			continue
		}
		out = append(out, p)
	}
	return out
}

// matchesSearch reports whether p matches the lowercased query. Tags match
// in both directions so that a partial tag ("blue" vs "bluetooth") and an
// over-specified query ("sony headphones cheap" vs "sony") both hit.
func matchesSearch(p Product, query string) bool {
	if strings.Contains(strings.ToLower(p.Name), query) {
		return true
	}
	for _, tag := range p.Tags {
		tag = strings.ToLower(tag)
		if strings.Contains(tag, query) || strings.Contains(query, tag) {
			return true
		}
	}
	if strings.Contains(strings.ToLower(p.Description), query) {
		return true
	}
	return strings.Contains(strings.ToLower(p.Category), query)
}

// sortProducts applies a stable in-place sort per key. Stability is what
// makes tie ordering deterministic and testable.
func sortProducts(products []Product, key SortKey) {
	switch key {
	case SortPriceLow:
		slices.SortStableFunc(products, func(a, b Product) int {
			return a.Price.Cmp(b.Price)
		})
	case SortPriceHigh:
		slices.SortStableFunc(products, func(a, b Product) int {
			return b.Price.Cmp(a.Price)
		})
	case SortCondition:
		slices.SortStableFunc(products, func(a, b Product) int {
			return conditionRank[b.Condition] - conditionRank[a.Condition]
		})
	case SortRating:
		slices.SortStableFunc(products, func(a, b Product) int {
			return cmp.Compare(b.Rating, a.Rating)
		})
	case SortNewest:
		slices.SortStableFunc(products, func(a, b Product) int {
			return cmp.Compare(b.ID, a.ID)
		})
	default: // SortName and anything unrecognized
		c := collate.New(language.English)
		slices.SortStableFunc(products, func(a, b Product) int {
			return c.CompareString(a.Name, b.Name)
		})
	}
}

// group partitions the sorted products into labeled buckets, preserving sort
// order within each bucket and first-appearance order of labels.
func group(products []Product, key GroupKey) []Group {
	if key == GroupNone {
		return []Group{{Label: "All Products", Products: products}}
	}

	index := make(map[string]int)
	var groups []Group
	for _, p := range products {
		label := groupLabel(p, key)
		i, ok := index[label]
		if !ok {
			i = len(groups)
			index[label] = i
			groups = append(groups, Group{Label: label})
		}
		groups[i].Products = append(groups[i].Products, p)
	}
	return groups
}

func groupLabel(p Product, key GroupKey) string {
	switch key {
	case GroupCategory:
		return p.Category
	case GroupCondition:
		return p.Condition
	case GroupPrice:
		return priceLabel(p.Price)
	case GroupRating:
		return ratingLabel(p.Rating)
	default:
		return "All Products"
	}
}

func priceLabel(price decimal.Decimal) string {
	switch {
	case price.LessThan(price30):
		return "Under $30"
	case price.LessThan(price60):
		return "$30 - $60"
	case price.LessThan(price100):
		return "$60 - $100"
	default:
		return "Over $100"
	}
}

func ratingLabel(rating float64) string {
	switch {
	case rating >= 4.5:
		return "4.5+ Stars"
	case rating >= 4:
		return "4+ Stars"
	case rating >= 3.5:
		return "3.5+ Stars"
	default:
		return "Under 3.5 Stars"
	}
}
