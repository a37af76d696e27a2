package cursorable

import (
	"fmt"

	"github.com/samber/lo"
)

// SortKeyRegistry is a named mapping from sort key identifier to SortKey.
// Registration order is significant: the first registered key is the default
// unless another default is configured explicitly. The registry is written
// once at setup time and read-only afterwards.
type SortKeyRegistry struct {
	names       []string
	keys        map[string]SortKey
	defaultName string
}

func NewSortKeyRegistry() *SortKeyRegistry {
	return &SortKeyRegistry{
		keys: make(map[string]SortKey),
	}
}

// Register adds a named sort key. The key is validated eagerly so a typo in
// a column name fails at setup rather than on the first page request.
func (r *SortKeyRegistry) Register(name string, columns ...ColumnSort) error {
	if name == "" {
		return fmt.Errorf("empty sort key name")
	}
	if _, ok := r.keys[name]; ok {
		return fmt.Errorf("sort key '%s' already registered", name)
	}

	key := SortKey(columns)
	if err := key.validate(); err != nil {
		return fmt.Errorf("cannot register sort key '%s': %w", name, err)
	}

	r.names = append(r.names, name)
	r.keys[name] = key

	return nil
}

// SetDefault marks a registered key as the one resolved for requests that
// name no sort key.
func (r *SortKeyRegistry) SetDefault(name string) error {
	if _, ok := r.keys[name]; !ok {
		return r.unknown(name)
	}

	r.defaultName = name

	return nil
}

// Resolve returns the named sort key. An empty name resolves to the default,
// either the explicitly configured one or the first registered key. An
// unknown name is a hard error, never a fallback to the default.
func (r *SortKeyRegistry) Resolve(name string) (SortKey, error) {
	if len(r.names) == 0 {
		return nil, fmt.Errorf("no sort keys registered")
	}

	if name == "" {
		name = r.defaultName
		if name == "" {
			name = r.names[0]
		}
	}

	key, ok := r.keys[name]
	if !ok {
		return nil, r.unknown(name)
	}

	return key, nil
}

// Names returns the registered sort key names in registration order.
func (r *SortKeyRegistry) Names() []string {
	return lo.Map(r.names, func(name string, _ int) string { return name })
}

func (r *SortKeyRegistry) unknown(name string) error {
	return &UnknownSortKeyError{
		Name:    name,
		Closest: closestAlias(name, r.names),
	}
}
