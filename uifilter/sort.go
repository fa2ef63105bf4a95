package uifilter

import (
	"strings"
)

// SortOrder is one entry of a SortSpec.
type SortOrder struct {
	Field     string
	Ascending bool
}

// SortSpec is the ordered sort specification of a query, primary order first.
// An empty SortSpec means unsorted.
type SortSpec struct {
	Orders []SortOrder
}

// Unsorted returns a SortSpec without any order.
func Unsorted() SortSpec {
	return SortSpec{}
}

// IsUnsorted reports whether s imposes no order.
func (s SortSpec) IsUnsorted() bool {
	return len(s.Orders) == 0
}

func (s SortSpec) String() string {
	if s.IsUnsorted() {
		return "unsorted"
	}

	parts := make([]string, 0, len(s.Orders))
	for _, o := range s.Orders {
		direction := "ASC"
		if !o.Ascending {
			direction = "DESC"
		}

		parts = append(parts, o.Field+" "+direction)
	}

	return strings.Join(parts, ", ")
}

// BuildSort converts the sort criteria of filter into a SortSpec.
//
// Without sort criteria it sorts ascending on defaultField, or returns Unsorted if defaultField is blank.
// Duplicate fields are kept in the order given; executors decide how to treat them.
func BuildSort(filter Filter, defaultField string) SortSpec {
	if len(filter.SortCriteria()) == 0 {
		if strings.TrimSpace(defaultField) == "" {
			return Unsorted()
		}

		return SortSpec{Orders: []SortOrder{{Field: defaultField, Ascending: true}}}
	}

	orders := make([]SortOrder, 0, len(filter.SortCriteria()))
	for _, sc := range filter.SortCriteria() {
		orders = append(orders, SortOrder{Field: sc.Field(), Ascending: sc.Ascending()})
	}

	return SortSpec{Orders: orders}
}
