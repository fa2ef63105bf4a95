package uifilter

// FieldValueCategory is the kind of value a field holds. It decides which match modes are legal.
type FieldValueCategory int

const (
	// CategoryText fields are compared case-insensitively and support pattern matching.
	CategoryText FieldValueCategory = iota + 1

	// CategoryOrdered fields hold any totally ordered value: numbers, dates, timestamps, ...
	CategoryOrdered

	// CategoryOpaque fields only support equality: enums, identifiers, embedded objects.
	CategoryOpaque
)

func (c FieldValueCategory) String() string {
	switch c {
	case CategoryText:
		return "text"
	case CategoryOrdered:
		return "ordered"
	case CategoryOpaque:
		return "opaque"
	default:
		return "unknown"
	}
}

// FieldResolver tells the compiler what kind of value a field holds.
// It returns false if the field is unknown.
type FieldResolver interface {
	ResolveField(name string) (FieldValueCategory, bool)
}

// FieldResolverFunc adapts a function to the FieldResolver interface.
type FieldResolverFunc func(name string) (FieldValueCategory, bool)

func (f FieldResolverFunc) ResolveField(name string) (FieldValueCategory, bool) {
	return f(name)
}

// StaticFieldResolver resolves fields from a fixed map.
type StaticFieldResolver map[string]FieldValueCategory

func (r StaticFieldResolver) ResolveField(name string) (FieldValueCategory, bool) {
	category, ok := r[name]
	return category, ok
}

// ChainFieldResolvers combines resolvers, e.g. one per joined entity.
// The first resolver that knows the field wins, in argument order.
func ChainFieldResolvers(resolvers ...FieldResolver) FieldResolver {
	return FieldResolverFunc(func(name string) (FieldValueCategory, bool) {
		for _, r := range resolvers {
			if r == nil {
				continue
			}

			if category, ok := r.ResolveField(name); ok {
				return category, true
			}
		}

		return 0, false
	})
}
