package normalizer

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/murkotick/catalog-service/internal/app/catalog/domain"
)

func field(t *testing.T, err error) string {
	t.Helper()
	var de *domain.Error
	require.True(t, errors.As(err, &de), "want *domain.Error, got %v", err)
	return de.Field
}

func TestAttributes_Canonicalizes(t *testing.T) {
	got, err := Attributes([]domain.Attribute{
		{Name: " Color ", Values: []string{" Red", "Blue", "", "Red ", "Green"}},
		{Name: "Size"},
	})
	require.NoError(t, err)
	assert.Equal(t, []domain.Attribute{
		{Name: "Color", Values: []string{"Red", "Blue", "Green"}},
		{Name: "Size", Values: []string{}},
	}, got)
}

func TestAttributes_Rejects(t *testing.T) {
	_, err := Attributes([]domain.Attribute{{Name: "Color"}, {Name: "  "}})
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "attributes[1].name", field(t, err))

	_, err = Attributes([]domain.Attribute{{Name: "Color"}, {Name: " Color"}})
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "attributes[1].name", field(t, err))
}

func TestNormalize(t *testing.T) {
	attrs := []domain.Attribute{
		{Name: "Color", Values: []string{"Red", "Blue"}},
		{Name: "Size", Values: []string{"S", "M"}},
	}

	tests := []struct {
		name  string
		vars  []domain.Variation
		kind  error
		field string
	}{
		{
			name: "valid",
			vars: []domain.Variation{
				{SKU: " A ", SelectedOptions: domain.SelectedOptions{" Color": "Red ", "Size": "S"}},
				{SKU: "B", SelectedOptions: domain.SelectedOptions{"Color": "Blue"}},
			},
		},
		{
			name:  "undeclared attribute",
			vars:  []domain.Variation{{SKU: "A", SelectedOptions: domain.SelectedOptions{"Material": "Wood"}}},
			kind:  domain.ErrSchemaMismatch,
			field: "variations[0].selectedOptions.Material",
		},
		{
			name: "undeclared value",
			vars: []domain.Variation{
				{SKU: "A", SelectedOptions: domain.SelectedOptions{"Color": "Red"}},
				{SKU: "B", SelectedOptions: domain.SelectedOptions{"Color": "Green"}},
			},
			kind:  domain.ErrInvalidOptionValue,
			field: "variations[1].selectedOptions.Color",
		},
		{
			name:  "missing sku",
			vars:  []domain.Variation{{SKU: " "}},
			kind:  domain.ErrValidation,
			field: "variations[0].sku",
		},
		{
			name:  "duplicate sku",
			vars:  []domain.Variation{{SKU: "A"}, {SKU: "A "}},
			kind:  domain.ErrValidation,
			field: "variations[1].sku",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outAttrs, outVars, err := Normalize(attrs, tt.vars)
			if tt.kind != nil {
				require.ErrorIs(t, err, tt.kind)
				assert.Equal(t, tt.field, field(t, err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, attrs, outAttrs)
			require.Len(t, outVars, 2)
			assert.Equal(t, "A", outVars[0].SKU)
			assert.Equal(t, domain.SelectedOptions{"Color": "Red", "Size": "S"}, outVars[0].SelectedOptions)
		})
	}
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	vars := []domain.Variation{{SKU: " A ", SelectedOptions: domain.SelectedOptions{" Color ": "Red"}}}
	_, _, err := Normalize([]domain.Attribute{{Name: "Color", Values: []string{"Red"}}}, vars)
	require.NoError(t, err)
	assert.Equal(t, " A ", vars[0].SKU)
	assert.Equal(t, "Red", vars[0].SelectedOptions[" Color "])
}

func TestCheckOptions(t *testing.T) {
	attrs := []domain.Attribute{{Name: "Color", Values: []string{"Red"}}}
	got, err := CheckOptions(attrs, domain.SelectedOptions{"Color": " Red"}, "selectedOptions")
	require.NoError(t, err)
	assert.Equal(t, domain.SelectedOptions{"Color": "Red"}, got)

	_, err = CheckOptions(nil, domain.SelectedOptions{"Color": "Red"}, "selectedOptions")
	require.ErrorIs(t, err, domain.ErrSchemaMismatch)
}

func TestRawOptions_BothWireForms(t *testing.T) {
	var v struct {
		List RawOptions `json:"list"`
		Obj  RawOptions `json:"obj"`
		None RawOptions `json:"none"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{
		"list": [{"key": "Color", "value": "Red"}, {"key": " Size", "value": "M "}],
		"obj":  {"Color": "Red", "Size": "M"},
		"none": null
	}`), &v))

	want := domain.SelectedOptions{"Color": "Red", "Size": "M"}
	got, err := v.List.Canonical("selectedOptions")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	got, err = v.Obj.Canonical("selectedOptions")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	assert.True(t, v.None.IsZero())
	got, err = v.None.Canonical("selectedOptions")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRawOptions_Rejects(t *testing.T) {
	var o RawOptions
	assert.Error(t, json.Unmarshal([]byte(`"Color=Red"`), &o))

	dup := OptionsFromPairs(OptionPair{Key: "Color", Value: "Red"}, OptionPair{Key: "Color ", Value: "Blue"})
	_, err := dup.Canonical("variations[0].selectedOptions")
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "variations[0].selectedOptions[1].key", field(t, err))

	_, err = OptionsFromMap(map[string]string{" ": "x"}).Canonical("selectedOptions")
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestRawOptions_MarshalKeepsForm(t *testing.T) {
	b, err := json.Marshal(OptionsFromPairs(OptionPair{Key: "Color", Value: "Red"}))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"key":"Color","value":"Red"}]`, string(b))

	b, err = json.Marshal(OptionsFromMap(map[string]string{"Color": "Red"}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"Color":"Red"}`, string(b))
}
