package model

import "slices"

// ParseEnum maps a raw external code onto one of values. Unknown codes always
// fail with *EnumMappingError, the zero value is never returned silently.
func ParseEnum[T ~string](enumName, raw string, values ...T) (T, error) {
	if i := slices.Index(values, T(raw)); i >= 0 {
		return values[i], nil
	}
	var zero T
	return zero, &EnumMappingError{RawValue: raw, EnumName: enumName}
}
