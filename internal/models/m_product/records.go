package m_product

import "encoding/json"

// The attributes and variations columns hold JSON documents of these shapes.

type MoneyRecord struct {
	Num int64 `json:"num"`
	Den int64 `json:"den"`
}

type AttributeRecord struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

type VariationRecord struct {
	ID              string            `json:"id"`
	SKU             string            `json:"sku"`
	Image           string            `json:"image"`
	Description     string            `json:"description,omitempty"`
	Price           *MoneyRecord      `json:"price,omitempty"`
	SalePrice       *MoneyRecord      `json:"sale_price,omitempty"`
	Stock           int64             `json:"stock"`
	SelectedOptions map[string]string `json:"selected_options"`
}

func EncodeAttributes(in []AttributeRecord) (string, error) {
	if in == nil {
		in = []AttributeRecord{}
	}
	b, err := json.Marshal(in)
	return string(b), err
}

func DecodeAttributes(s string) ([]AttributeRecord, error) {
	if s == "" {
		return nil, nil
	}
	var out []AttributeRecord
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func EncodeVariations(in []VariationRecord) (string, error) {
	if in == nil {
		in = []VariationRecord{}
	}
	b, err := json.Marshal(in)
	return string(b), err
}

func DecodeVariations(s string) ([]VariationRecord, error) {
	if s == "" {
		return nil, nil
	}
	var out []VariationRecord
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, err
	}
	return out, nil
}
