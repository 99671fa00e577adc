package store

import "fmt"

// Sort enumerates the four supported sort directives.
type Sort string

const (
	SortCreatedDesc Sort = "date_desc"
	SortCreatedAsc  Sort = "date_asc"
	SortNameAsc     Sort = "name_asc"
	SortNameDesc    Sort = "name_desc"
)

// ParseSort maps a raw sort value to a directive, defaulting to newest-first.
func ParseSort(s string) Sort {
	switch Sort(s) {
	case SortCreatedAsc, SortNameAsc, SortNameDesc:
		return Sort(s)
	default:
		return SortCreatedDesc
	}
}

// Kind identifies a predicate directive.
type Kind int

const (
	KindEqual Kind = iota
	KindIn
	KindSearch
	KindOrder
	KindLimit
	KindOffset
)

// Predicate is one directive of an ordered predicate set sent to the store.
type Predicate struct {
	Kind       Kind
	Field      string
	Value      any
	Descending bool
}

func Equal(field string, value any) Predicate {
	return Predicate{Kind: KindEqual, Field: field, Value: value}
}

// In matches documents whose field equals any of the given values.
func In(field string, values []any) Predicate {
	return Predicate{Kind: KindIn, Field: field, Value: values}
}

func TextSearch(field, term string) Predicate {
	return Predicate{Kind: KindSearch, Field: field, Value: term}
}

func OrderBy(field string, descending bool) Predicate {
	return Predicate{Kind: KindOrder, Field: field, Descending: descending}
}

func Limit(n int) Predicate {
	return Predicate{Kind: KindLimit, Value: n}
}

func Offset(n int) Predicate {
	return Predicate{Kind: KindOffset, Value: n}
}

// ListQuery is the full input to one listing fetch.
type ListQuery struct {
	OwnerID    string
	Search     string
	CategoryID string
	Sort       Sort
	Page       int
	PageSize   int
}

// Compose builds the ordered predicate set for a listing query. The owner
// predicate is mandatory: every query is scoped to its owner, and composing
// without one is an error rather than a wider query.
func Compose(q ListQuery) ([]Predicate, error) {
	if q.OwnerID == "" {
		return nil, fmt.Errorf("list query has no owner")
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		return nil, fmt.Errorf("list query has page size %d", q.PageSize)
	}

	preds := []Predicate{Equal("user_id", q.OwnerID)}

	if q.Search != "" {
		preds = append(preds, TextSearch("name", q.Search))
	}
	if q.CategoryID != "" {
		preds = append(preds, Equal("category_id", q.CategoryID))
	}

	switch q.Sort {
	case SortCreatedAsc:
		preds = append(preds, OrderBy("created_at", false))
	case SortNameAsc:
		preds = append(preds, OrderBy("name", false))
	case SortNameDesc:
		preds = append(preds, OrderBy("name", true))
	default:
		preds = append(preds, OrderBy("created_at", true))
	}

	preds = append(preds,
		Limit(q.PageSize),
		Offset((q.Page-1)*q.PageSize),
	)

	return preds, nil
}
