package uifilter

import (
	"slices"
	"strings"
)

/***** Filter *****/

// Filter is the immutable description of a UI data request: a pagination window,
// an ordered sort specification, and per-field filter criteria in insertion order.
//
// It must be constructed with BuildFilter or DecodeFilter.
type Filter struct {
	offset          int
	pageSize        int
	sortCriteria    []SortCriterion
	fieldCriteria   []FieldCriteria
	globalFieldName string
}

// Offset is the index of the first record to load.
func (f Filter) Offset() int {
	return f.offset
}

// PageSize is the number of records to load. Zero means unbounded.
func (f Filter) PageSize() int {
	return f.pageSize
}

// SortCriteria returns the sort criteria, primary sort first.
func (f Filter) SortCriteria() []SortCriterion {
	return f.sortCriteria
}

// FieldCriteria returns the filtered fields in insertion order.
func (f Filter) FieldCriteria() []FieldCriteria {
	return f.fieldCriteria
}

// GlobalFieldName is the sentinel field name that triggers a global search. Empty means none.
func (f Filter) GlobalFieldName() string {
	return f.globalFieldName
}

// Criteria returns the criteria supplied for field, or nil.
func (f Filter) Criteria(field string) []FilterCriterion {
	for _, fc := range f.fieldCriteria {
		if fc.field == field {
			return fc.criteria
		}
	}

	return nil
}

// IsGlobalField reports whether field is the global search field of this Filter.
func (f Filter) IsGlobalField(field string) bool {
	return f.globalFieldName != "" && field == f.globalFieldName
}

/***** FieldCriteria *****/

// FieldCriteria pairs a field name with the ordered criteria supplied for it.
type FieldCriteria struct {
	field    string
	criteria []FilterCriterion
}

func (fc FieldCriteria) Field() string {
	return fc.field
}

func (fc FieldCriteria) Criteria() []FilterCriterion {
	return fc.criteria
}

/***** FilterCriterion *****/

// FilterCriterion is one comparison requested for a field.
//
// The value shape depends on the match mode: between needs a two-element []any,
// in needs a []any, every other mode needs a scalar.
type FilterCriterion struct {
	value     any
	matchMode MatchMode
	operator  Operator
}

// Criterion creates a FilterCriterion with the default match mode and no operator.
func Criterion(value any) FilterCriterion {
	return FilterCriterion{value: value}
}

// WithMatchMode returns a copy of the criterion using mode.
func (fc FilterCriterion) WithMatchMode(mode MatchMode) FilterCriterion {
	fc.matchMode = mode
	return fc
}

// WithOperator returns a copy of the criterion voting for operator as the field's group operator.
func (fc FilterCriterion) WithOperator(operator Operator) FilterCriterion {
	fc.operator = operator
	return fc
}

func (fc FilterCriterion) Value() any {
	return fc.value
}

func (fc FilterCriterion) MatchMode() MatchMode {
	return fc.matchMode
}

func (fc FilterCriterion) Operator() Operator {
	return fc.operator
}

/***** SortCriterion *****/

// SortCriterion requests sorting on one field.
type SortCriterion struct {
	field    string
	order    int
	hasOrder bool
}

// SortField creates a SortCriterion. A positive order sorts ascending, zero or negative descending.
func SortField(field string, order int) SortCriterion {
	return SortCriterion{field: field, order: order, hasOrder: true}
}

// SortFieldWithoutOrder creates a SortCriterion without a direction, which sorts ascending.
func SortFieldWithoutOrder(field string) SortCriterion {
	return SortCriterion{field: field}
}

func (sc SortCriterion) Field() string {
	return sc.field
}

// Order returns the signed direction and whether one was supplied.
func (sc SortCriterion) Order() (int, bool) {
	return sc.order, sc.hasOrder
}

// Ascending reports whether the criterion sorts ascending: no order or a positive one.
func (sc SortCriterion) Ascending() bool {
	return !sc.hasOrder || sc.order > 0
}

/***** FilterBuilder *****/

// FilterBuilder assembles a Filter. Every method returns a new builder, so partially built
// filters can be shared and extended independently.
type FilterBuilder struct {
	filter Filter
}

// BuildFilter creates a FilterBuilder which must eventually be finalized with Finalize.
func BuildFilter() FilterBuilder {
	return FilterBuilder{}
}

// WithOffset sets the index of the first record to load.
func (fb FilterBuilder) WithOffset(offset int) FilterBuilder {
	fb.filter.offset = offset
	return fb
}

// WithPageSize sets the number of records to load, zero meaning unbounded.
func (fb FilterBuilder) WithPageSize(pageSize int) FilterBuilder {
	fb.filter.pageSize = pageSize
	return fb
}

// WithGlobalFieldName sets the sentinel field name used for global searches.
func (fb FilterBuilder) WithGlobalFieldName(name string) FilterBuilder {
	fb.filter.globalFieldName = name
	return fb
}

// AddSortField appends a sort criterion; see SortField for the meaning of order.
func (fb FilterBuilder) AddSortField(field string, order int) FilterBuilder {
	return fb.AddSortCriterion(SortField(field, order))
}

// AddSortCriterion appends a sort criterion. Duplicate fields are kept as supplied.
func (fb FilterBuilder) AddSortCriterion(criterion SortCriterion) FilterBuilder {
	fb.filter.sortCriteria = append(slices.Clip(fb.filter.sortCriteria), criterion)
	return fb
}

// AddFilter appends a criterion to the criteria of field, creating the field entry on first use.
func (fb FilterBuilder) AddFilter(field string, criterion FilterCriterion, criteria ...FilterCriterion) FilterBuilder {
	allCriteria := append([]FilterCriterion{criterion}, criteria...)
	fieldCriteria := slices.Clone(fb.filter.fieldCriteria)

	idx := slices.IndexFunc(fieldCriteria, func(fc FieldCriteria) bool { return fc.field == field })
	if idx < 0 {
		fieldCriteria = append(fieldCriteria, FieldCriteria{field: field, criteria: allCriteria})
	} else {
		fieldCriteria[idx].criteria = append(slices.Clip(fieldCriteria[idx].criteria), allCriteria...)
	}

	fb.filter.fieldCriteria = fieldCriteria

	return fb
}

// Finalize validates the shape of the Filter and returns it.
func (fb FilterBuilder) Finalize() (Filter, error) {
	f := fb.filter

	if f.offset < 0 {
		return Filter{}, ErrNegativeOffset
	}

	if f.pageSize < 0 {
		return Filter{}, ErrNegativePageSize
	}

	for _, sc := range f.sortCriteria {
		if strings.TrimSpace(sc.field) == "" {
			return Filter{}, ErrEmptySortField
		}
	}

	for _, fc := range f.fieldCriteria {
		if strings.TrimSpace(fc.field) == "" {
			return Filter{}, ErrEmptyFieldName
		}

		for _, c := range fc.criteria {
			if c.matchMode.IsSet() && !c.matchMode.IsValid() {
				return Filter{}, ErrUnknownMatchMode
			}

			if _, err := ParseOperator(string(c.operator)); err != nil {
				return Filter{}, err
			}
		}
	}

	return f, nil
}

// MustFinalize is like Finalize but panics on an invalid Filter. Intended for tests and static filters.
func (fb FilterBuilder) MustFinalize() Filter {
	f, err := fb.Finalize()
	if err != nil {
		panic(err)
	}

	return f
}
