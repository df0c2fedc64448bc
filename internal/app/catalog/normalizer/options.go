package normalizer

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/murkotick/catalog-service/internal/app/catalog/domain"
)

// OptionPair is the list wire form of one selected option.
type OptionPair struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// RawOptions holds a variation's selected options exactly as they arrived on
// the wire: either a list of {key, value} pairs or an object.
type RawOptions struct {
	pairs []OptionPair
	m     map[string]string
	list  bool
}

// OptionsFromPairs builds RawOptions in list form.
func OptionsFromPairs(pairs ...OptionPair) RawOptions {
	return RawOptions{pairs: append([]OptionPair(nil), pairs...), list: true}
}

// OptionsFromMap builds RawOptions in object form.
func OptionsFromMap(m map[string]string) RawOptions {
	cp := make(map[string]string, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return RawOptions{m: cp}
}

// IsZero reports whether nothing was supplied.
func (o RawOptions) IsZero() bool {
	return len(o.pairs) == 0 && len(o.m) == 0
}

func (o *RawOptions) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*o = RawOptions{}
		return nil
	}
	switch b[0] {
	case '[':
		var pairs []OptionPair
		if err := json.Unmarshal(b, &pairs); err != nil {
			return fmt.Errorf("selected options: %w", err)
		}
		*o = RawOptions{pairs: pairs, list: true}
	case '{':
		var m map[string]string
		if err := json.Unmarshal(b, &m); err != nil {
			return fmt.Errorf("selected options: %w", err)
		}
		*o = RawOptions{m: m}
	default:
		return fmt.Errorf("selected options: expected array or object")
	}
	return nil
}

func (o RawOptions) MarshalJSON() ([]byte, error) {
	if o.list {
		return json.Marshal(o.pairs)
	}
	if o.m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(o.m)
}

// Canonical converts o to a selected-options map. field prefixes error
// locations, e.g. "variations[2].selectedOptions".
func (o RawOptions) Canonical(field string) (domain.SelectedOptions, error) {
	out := make(domain.SelectedOptions)
	if o.list {
		for i, p := range o.pairs {
			key := trim(p.Key)
			if key == "" {
				return nil, domain.NewValidationError(fmt.Sprintf("%s[%d].key", field, i), "option key is required")
			}
			if _, dup := out[key]; dup {
				return nil, domain.NewValidationError(fmt.Sprintf("%s[%d].key", field, i), fmt.Sprintf("option %q selected twice", key))
			}
			out[key] = trim(p.Value)
		}
		return out, nil
	}
	for k, v := range o.m {
		key := trim(k)
		if key == "" {
			return nil, domain.NewValidationError(field, "option key is required")
		}
		if _, dup := out[key]; dup {
			return nil, domain.NewValidationError(field, fmt.Sprintf("option %q selected twice", key))
		}
		out[key] = trim(v)
	}
	return out, nil
}
