package pipeline

import (
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// dimensionFields are the grouping columns transformations apply to.
var dimensionFields = []string{colProductName, colCustomerCity, colCustomerState}

var transformations = map[string]func(string) string{
	"trimStrings":        strings.TrimSpace,
	"convertToLowercase": strings.ToLower,
	"convertToUppercase": strings.ToUpper,
	"normalizeNames":     normalizeName,
}

// normalizeName title-cases a name, e.g. "SAO PAULO" -> "Sao Paulo".
// A Caser is stateful, so each call gets its own.
func normalizeName(s string) string {
	return cases.Title(language.Und).String(s)
}

// ValidateTransformations rejects unknown transformation names.
func ValidateTransformations(names []string) error {
	for _, name := range names {
		if _, ok := transformations[name]; !ok {
			return eris.Errorf("pipeline: unknown transformation %q", name)
		}
	}
	return nil
}

// applyTransformations rewrites the dimension fields of a row in order.
// Names must have passed ValidateTransformations.
func applyTransformations(fields map[string]string, names []string) {
	for _, name := range names {
		fn := transformations[name]
		for _, col := range dimensionFields {
			if v, ok := fields[col]; ok {
				fields[col] = fn(v)
			}
		}
	}
}
