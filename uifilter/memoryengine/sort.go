package memoryengine

import (
	"fmt"
	"slices"
	"strings"

	"github.com/AntonStoeckl/uifilter-go/uifilter"
)

// sortRecords orders records in place by the given orders. The sort is stable, so records that compare
// equal on every order keep their stored order. Missing and nil values sort after all others
// in ascending order and before all others in descending order.
func sortRecords(records uifilter.Records, spec uifilter.SortSpec) {
	if spec.IsUnsorted() {
		return
	}

	slices.SortStableFunc(records, func(a, b uifilter.Record) int {
		for _, order := range spec.Orders {
			result := compareForSort(a[order.Field], b[order.Field])
			if result == 0 {
				continue
			}

			if !order.Ascending {
				return -result
			}

			return result
		}

		return 0
	})
}

func compareForSort(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}

	if result, ok := compareValues(a, b); ok {
		return result
	}

	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}
