package shared

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/murkotick/catalog-service/internal/app/catalog/contracts"
	"github.com/murkotick/catalog-service/internal/app/catalog/domain"
	"github.com/murkotick/catalog-service/internal/app/catalog/normalizer"
)

// AttributeInput is the wire form of one attribute.
type AttributeInput struct {
	Name   string   `json:"name" validate:"required"`
	Values []string `json:"values"`
}

// VariationInput is the wire form of one variation. Its image comes from an
// uploaded variation image (by ImageIndex, or by position where the
// operation allows it) or from Image.
type VariationInput struct {
	ID              string                `json:"id"`
	SKU             string                `json:"sku" validate:"required"`
	Image           string                `json:"image"`
	ImageIndex      *int                  `json:"imageIndex" validate:"omitempty,gte=0"`
	Description     string                `json:"description"`
	Price           json.Number           `json:"price" validate:"required,money"`
	SalePrice       json.Number           `json:"salePrice" validate:"required,money"`
	Stock           *int64                `json:"stock" validate:"required,gte=0"`
	SelectedOptions normalizer.RawOptions `json:"selectedOptions"`
}

func BuildAttributes(in []AttributeInput) []domain.Attribute {
	out := make([]domain.Attribute, len(in))
	for i, a := range in {
		out[i] = domain.Attribute{Name: a.Name, Values: append([]string(nil), a.Values...)}
	}
	return out
}

// ImageSource tells where a variation's image comes from: an uploaded
// variation image (Upload >= 0) or an existing locator.
type ImageSource struct {
	Upload  int
	Locator string
}

// VariationPlan is a variation built from input whose image is not yet
// uploaded.
type VariationPlan struct {
	Variation domain.Variation
	Image     ImageSource
}

// PlanVariations converts inputs into variations and decides each image
// source. positional lets uploads[i] serve variation i when no ImageIndex is
// given. existing supplies the current variations for merge by id; pass nil
// when ids are not matched. A matched variation keeps its prior image unless
// it names an upload. A supplied image locator is accepted only when it is
// one of owned, the locators the product already holds.
func PlanVariations(in []VariationInput, uploads []contracts.Asset, positional bool, existing []domain.Variation, owned []string) ([]VariationPlan, error) {
	prior := make(map[string]domain.Variation, len(existing))
	for _, v := range existing {
		prior[v.ID] = v
	}
	ownedSet := make(map[string]bool, len(owned))
	for _, l := range owned {
		ownedSet[l] = true
	}

	out := make([]VariationPlan, len(in))
	for i, vi := range in {
		field := fmt.Sprintf("variations[%d]", i)

		price, err := ParseMoney(field+".price", vi.Price)
		if err != nil {
			return nil, err
		}
		sale, err := ParseMoney(field+".salePrice", vi.SalePrice)
		if err != nil {
			return nil, err
		}
		opts, err := vi.SelectedOptions.Canonical(field + ".selectedOptions")
		if err != nil {
			return nil, err
		}

		v := domain.Variation{
			ID:              strings.TrimSpace(vi.ID),
			SKU:             vi.SKU,
			Description:     vi.Description,
			Price:           price,
			SalePrice:       sale,
			SelectedOptions: opts,
		}
		if vi.Stock != nil {
			v.Stock = *vi.Stock
		}

		old, matched := prior[v.ID]
		if v.ID == "" || (existing != nil && !matched) {
			v.ID = uuid.New().String()
		}

		src := ImageSource{Upload: -1}
		switch {
		case vi.ImageIndex != nil:
			if *vi.ImageIndex >= len(uploads) {
				return nil, domain.NewValidationError(field+".imageIndex",
					fmt.Sprintf("no uploaded variation image at index %d", *vi.ImageIndex))
			}
			src.Upload = *vi.ImageIndex
		case positional && i < len(uploads):
			src.Upload = i
		case matched && old.Image != "":
			src.Locator = old.Image
		case strings.TrimSpace(vi.Image) != "":
			loc := strings.TrimSpace(vi.Image)
			if !ownedSet[loc] {
				return nil, domain.NewValidationError(field+".image", "variation image must be uploaded")
			}
			src.Locator = loc
		default:
			return nil, domain.NewValidationError(field+".image", "variation image is required")
		}

		out[i] = VariationPlan{Variation: v, Image: src}
	}
	return out, nil
}

// Variations extracts the planned variations.
func Variations(plans []VariationPlan) []domain.Variation {
	out := make([]domain.Variation, len(plans))
	for i, p := range plans {
		out[i] = p.Variation
	}
	return out
}

// UploadIndexes lists the variation-image uploads the plans reference.
func UploadIndexes(plans []VariationPlan) []int {
	var out []int
	for _, p := range plans {
		if p.Image.Upload >= 0 {
			out = append(out, p.Image.Upload)
		}
	}
	return out
}

// AttachImages sets each variation's image from its plan. vs and plans are
// parallel.
func AttachImages(vs []domain.Variation, plans []VariationPlan, uploaded map[int]string) {
	for i := range vs {
		if src := plans[i].Image; src.Upload >= 0 {
			vs[i].Image = uploaded[src.Upload]
		} else {
			vs[i].Image = src.Locator
		}
	}
}
