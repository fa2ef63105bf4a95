package memoryengine

import (
	"time"

	"github.com/AntonStoeckl/uifilter-go/uifilter"
)

// InferSchema derives a uifilter.StaticFieldResolver from the Go types of the record values.
//
// Strings are text, numbers and time.Time are ordered, everything else (uuid.UUID, bool, ...) is opaque.
// The first non-nil value of a field decides its category; fields that are nil everywhere are left out.
func InferSchema(records uifilter.Records) uifilter.StaticFieldResolver {
	schema := make(uifilter.StaticFieldResolver)

	for _, record := range records {
		for field, value := range record {
			if _, known := schema[field]; known || value == nil {
				continue
			}

			schema[field] = categoryOf(value)
		}
	}

	return schema
}

func categoryOf(value any) uifilter.FieldValueCategory {
	switch value.(type) {
	case string:
		return uifilter.CategoryText
	case time.Time:
		return uifilter.CategoryOrdered
	}

	if _, ok := toFloat(value); ok {
		return uifilter.CategoryOrdered
	}

	return uifilter.CategoryOpaque
}

// Schema returns the schema inferred from the stored records.
func (e *Executor) Schema() uifilter.StaticFieldResolver {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return InferSchema(e.records)
}
