package uifilter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
)

const (
	jsonFirst           = "first"
	jsonRows            = "rows"
	jsonSortFields      = "sortFields"
	jsonFilters         = "filters"
	jsonGlobalFieldName = "globalFieldName"
	jsonField           = "field"
	jsonOrder           = "order"
	jsonValue           = "value"
	jsonMatchMode       = "matchMode"
	jsonOperator        = "operator"
)

var filterJSON = jsoniter.Config{UseNumber: true}.Froze()

// DecodeFilter decodes the JSON form of a Filter as sent by table widgets:
//
//	{
//	  "first": 0,
//	  "rows": 10,
//	  "sortFields": [{"field": "name", "order": 1}],
//	  "filters": {"name": [{"value": "bolt", "matchMode": "contains", "operator": "and"}]},
//	  "globalFieldName": "global"
//	}
//
// Unknown properties are ignored, data after the object is rejected. The order of the "filters" properties is preserved.
// A filter entry may be a single object instead of a list. Criteria with a null or empty
// string value are dropped, and so are fields left without criteria.
// Integral numbers decode as int64, other numbers as float64.
func DecodeFilter(data []byte) (Filter, error) {
	iter := jsoniter.ParseBytes(filterJSON, data)
	if iter.WhatIsNext() != jsoniter.ObjectValue {
		return Filter{}, fmt.Errorf("%w: expected an object", ErrInvalidFilterJSON)
	}

	fb := BuildFilter()
	var decodeErr error

	iter.ReadObjectCB(func(it *jsoniter.Iterator, key string) bool {
		switch key {
		case jsonFirst:
			fb = fb.WithOffset(readOptionalInt(it))

		case jsonRows:
			fb = fb.WithPageSize(readOptionalInt(it))

		case jsonGlobalFieldName:
			fb = fb.WithGlobalFieldName(readOptionalString(it))

		case jsonSortFields:
			fb = readSortFields(it, fb)

		case jsonFilters:
			fb, decodeErr = readFilters(it, fb)

		default:
			it.Skip()
		}

		return decodeErr == nil && it.Error == nil
	})

	if decodeErr != nil {
		return Filter{}, decodeErr
	}

	if iter.Error != nil {
		return Filter{}, errors.Join(ErrInvalidFilterJSON, iter.Error)
	}

	// only whitespace may follow, which leaves the iterator at io.EOF
	if iter.WhatIsNext() != jsoniter.InvalidValue || !errors.Is(iter.Error, io.EOF) {
		return Filter{}, fmt.Errorf("%w: unexpected data after the object", ErrInvalidFilterJSON)
	}

	return fb.Finalize()
}

func readSortFields(iter *jsoniter.Iterator, fb FilterBuilder) FilterBuilder {
	iter.ReadArrayCB(func(it *jsoniter.Iterator) bool {
		var field string
		var order int
		var hasOrder bool

		it.ReadObjectCB(func(it *jsoniter.Iterator, key string) bool {
			switch key {
			case jsonField:
				field = readOptionalString(it)
			case jsonOrder:
				if it.WhatIsNext() == jsoniter.NilValue {
					it.ReadNil()
				} else {
					order, hasOrder = it.ReadInt(), true
				}
			default:
				it.Skip()
			}

			return it.Error == nil
		})

		if hasOrder {
			fb = fb.AddSortCriterion(SortField(field, order))
		} else {
			fb = fb.AddSortCriterion(SortFieldWithoutOrder(field))
		}

		return it.Error == nil
	})

	return fb
}

func readFilters(iter *jsoniter.Iterator, fb FilterBuilder) (FilterBuilder, error) {
	var decodeErr error

	iter.ReadObjectCB(func(it *jsoniter.Iterator, field string) bool {
		var criteria []FilterCriterion

		switch it.WhatIsNext() {
		case jsoniter.ObjectValue:
			criterion, keep, err := readCriterion(it)
			if err != nil {
				decodeErr = err
				return false
			}

			if keep {
				criteria = append(criteria, criterion)
			}

		case jsoniter.ArrayValue:
			it.ReadArrayCB(func(it *jsoniter.Iterator) bool {
				criterion, keep, err := readCriterion(it)
				if err != nil {
					decodeErr = err
					return false
				}

				if keep {
					criteria = append(criteria, criterion)
				}

				return it.Error == nil
			})

		default:
			it.Skip()
		}

		if len(criteria) > 0 {
			fb = fb.AddFilter(field, criteria[0], criteria[1:]...)
		}

		return decodeErr == nil && it.Error == nil
	})

	return fb, decodeErr
}

// readCriterion reads one criterion object and reports whether it carries a usable value.
func readCriterion(iter *jsoniter.Iterator) (FilterCriterion, bool, error) {
	var criterion FilterCriterion
	var decodeErr error

	iter.ReadObjectCB(func(it *jsoniter.Iterator, key string) bool {
		switch key {
		case jsonValue:
			criterion.value = normalizeJSONValue(it.Read())

		case jsonMatchMode:
			criterion.matchMode, decodeErr = ParseMatchMode(readOptionalString(it))

		case jsonOperator:
			criterion.operator, decodeErr = ParseOperator(readOptionalString(it))

		default:
			it.Skip()
		}

		return decodeErr == nil && it.Error == nil
	})

	if decodeErr != nil {
		return FilterCriterion{}, false, decodeErr
	}

	if s, isString := criterion.value.(string); criterion.value == nil || (isString && s == "") {
		return criterion, false, nil
	}

	return criterion, true, nil
}

func readOptionalInt(iter *jsoniter.Iterator) int {
	if iter.ReadNil() {
		return 0
	}

	return iter.ReadInt()
}

func readOptionalString(iter *jsoniter.Iterator) string {
	if iter.ReadNil() {
		return ""
	}

	return iter.ReadString()
}

// normalizeJSONValue replaces json.Number by int64 or float64, recursively.
func normalizeJSONValue(v any) any {
	switch value := v.(type) {
	case json.Number:
		if i, err := value.Int64(); err == nil {
			return i
		}

		if f, err := value.Float64(); err == nil {
			return f
		}

		return value.String()

	case []any:
		normalized := make([]any, len(value))
		for i := range value {
			normalized[i] = normalizeJSONValue(value[i])
		}

		return normalized

	case map[string]any:
		normalized := make(map[string]any, len(value))
		for k, item := range value {
			normalized[k] = normalizeJSONValue(item)
		}

		return normalized

	default:
		return v
	}
}

// MarshalJSON encodes the Filter in the form DecodeFilter reads, keeping field order.
func (f Filter) MarshalJSON() ([]byte, error) {
	stream := filterJSON.BorrowStream(nil)
	defer filterJSON.ReturnStream(stream)

	stream.WriteObjectStart()
	stream.WriteObjectField(jsonFirst)
	stream.WriteInt(f.offset)
	stream.WriteMore()
	stream.WriteObjectField(jsonRows)
	stream.WriteInt(f.pageSize)

	stream.WriteMore()
	stream.WriteObjectField(jsonSortFields)
	stream.WriteArrayStart()
	for i, sc := range f.sortCriteria {
		if i > 0 {
			stream.WriteMore()
		}

		stream.WriteObjectStart()
		stream.WriteObjectField(jsonField)
		stream.WriteString(sc.field)
		stream.WriteMore()
		stream.WriteObjectField(jsonOrder)
		if sc.hasOrder {
			stream.WriteInt(sc.order)
		} else {
			stream.WriteNil()
		}
		stream.WriteObjectEnd()
	}
	stream.WriteArrayEnd()

	stream.WriteMore()
	stream.WriteObjectField(jsonFilters)
	stream.WriteObjectStart()
	for i, fc := range f.fieldCriteria {
		if i > 0 {
			stream.WriteMore()
		}

		stream.WriteObjectField(fc.field)
		stream.WriteArrayStart()
		for j, c := range fc.criteria {
			if j > 0 {
				stream.WriteMore()
			}

			writeCriterion(stream, c)
		}
		stream.WriteArrayEnd()
	}
	stream.WriteObjectEnd()

	if f.globalFieldName != "" {
		stream.WriteMore()
		stream.WriteObjectField(jsonGlobalFieldName)
		stream.WriteString(f.globalFieldName)
	}

	stream.WriteObjectEnd()

	if stream.Error != nil {
		return nil, stream.Error
	}

	return append([]byte(nil), stream.Buffer()...), nil
}

func writeCriterion(stream *jsoniter.Stream, c FilterCriterion) {
	stream.WriteObjectStart()
	stream.WriteObjectField(jsonValue)
	stream.WriteVal(c.value)

	if c.matchMode.IsSet() {
		stream.WriteMore()
		stream.WriteObjectField(jsonMatchMode)
		stream.WriteString(c.matchMode.String())
	}

	if c.operator.IsSet() {
		stream.WriteMore()
		stream.WriteObjectField(jsonOperator)
		stream.WriteString(c.operator.String())
	}

	stream.WriteObjectEnd()
}
