package domain

// Attribute is one selectable option of a product, e.g. "Color" with its
// declared values.
type Attribute struct {
	Name   string
	Values []string
}

// Has reports whether v is one of the declared values.
func (a Attribute) Has(v string) bool {
	for _, declared := range a.Values {
		if declared == v {
			return true
		}
	}
	return false
}

// SelectedOptions maps an attribute name to the value a variation selects.
type SelectedOptions map[string]string

// Variation is a purchasable combination of attribute values. It is owned by
// exactly one product and has no lifecycle of its own.
type Variation struct {
	ID              string
	SKU             string
	Image           string
	Description     string
	Price           *Money
	SalePrice       *Money
	Stock           int64
	SelectedOptions SelectedOptions
}

func cloneAttributes(in []Attribute) []Attribute {
	if in == nil {
		return nil
	}
	out := make([]Attribute, len(in))
	for i, a := range in {
		out[i] = Attribute{Name: a.Name, Values: append([]string(nil), a.Values...)}
	}
	return out
}

func cloneVariations(in []Variation) []Variation {
	if in == nil {
		return nil
	}
	out := make([]Variation, len(in))
	for i, v := range in {
		out[i] = v
		if v.SelectedOptions != nil {
			opts := make(SelectedOptions, len(v.SelectedOptions))
			for k, val := range v.SelectedOptions {
				opts[k] = val
			}
			out[i].SelectedOptions = opts
		}
	}
	return out
}
