// Package normalizer canonicalizes a product's option schema and checks every
// variation against it. All functions are pure.
package normalizer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/murkotick/catalog-service/internal/app/catalog/domain"
)

// Normalize returns canonical copies of attrs and variations, or the first
// schema violation found.
//
// Attribute names and values are trimmed, empty values dropped and duplicate
// values collapsed in first-seen order. Each variation's selected options
// must name a declared attribute (SchemaMismatch) and pick one of its values
// (InvalidOptionValue). Variation SKUs must be unique within the product.
func Normalize(attrs []domain.Attribute, variations []domain.Variation) ([]domain.Attribute, []domain.Variation, error) {
	outAttrs, err := Attributes(attrs)
	if err != nil {
		return nil, nil, err
	}

	index := make(map[string]domain.Attribute, len(outAttrs))
	for _, a := range outAttrs {
		index[a.Name] = a
	}

	outVars := make([]domain.Variation, len(variations))
	skus := make(map[string]int, len(variations))
	for i, v := range variations {
		field := fmt.Sprintf("variations[%d]", i)

		v.SKU = trim(v.SKU)
		if v.SKU == "" {
			return nil, nil, domain.NewValidationError(field+".sku", "variation sku is required")
		}
		if prev, dup := skus[v.SKU]; dup {
			return nil, nil, domain.NewValidationError(field+".sku",
				fmt.Sprintf("sku %q already used by variations[%d]", v.SKU, prev))
		}
		skus[v.SKU] = i

		opts, err := checkOptions(index, v.SelectedOptions, field+".selectedOptions")
		if err != nil {
			return nil, nil, err
		}
		v.SelectedOptions = opts
		outVars[i] = v
	}

	return outAttrs, outVars, nil
}

// Attributes canonicalizes an attribute schema on its own.
func Attributes(attrs []domain.Attribute) ([]domain.Attribute, error) {
	out := make([]domain.Attribute, 0, len(attrs))
	names := make(map[string]bool, len(attrs))
	for i, a := range attrs {
		name := trim(a.Name)
		if name == "" {
			return nil, domain.NewValidationError(fmt.Sprintf("attributes[%d].name", i), "attribute name is required")
		}
		if names[name] {
			return nil, domain.NewValidationError(fmt.Sprintf("attributes[%d].name", i),
				fmt.Sprintf("attribute %q declared twice", name))
		}
		names[name] = true

		values := make([]string, 0, len(a.Values))
		seen := make(map[string]bool, len(a.Values))
		for _, v := range a.Values {
			v = trim(v)
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			values = append(values, v)
		}
		out = append(out, domain.Attribute{Name: name, Values: values})
	}
	return out, nil
}

// CheckOptions validates a single selected-options map against attrs.
func CheckOptions(attrs []domain.Attribute, opts domain.SelectedOptions, field string) (domain.SelectedOptions, error) {
	index := make(map[string]domain.Attribute, len(attrs))
	for _, a := range attrs {
		index[a.Name] = a
	}
	return checkOptions(index, opts, field)
}

func checkOptions(index map[string]domain.Attribute, opts domain.SelectedOptions, field string) (domain.SelectedOptions, error) {
	out := make(domain.SelectedOptions, len(opts))

	// Sorted so the reported violation does not depend on map order.
	keys := make([]string, 0, len(opts))
	for k := range opts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		name := trim(k)
		value := trim(opts[k])
		attr, ok := index[name]
		if !ok {
			return nil, domain.NewSchemaMismatchError(field+"."+name, name)
		}
		if !attr.Has(value) {
			return nil, domain.NewInvalidOptionValueError(field+"."+name, name, value)
		}
		out[name] = value
	}
	return out, nil
}

func trim(s string) string {
	return strings.TrimSpace(s)
}
