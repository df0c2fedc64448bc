package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/murkotick/catalog-service/internal/app/catalog/contracts"
	"github.com/murkotick/catalog-service/internal/app/catalog/domain"
)

// Multipart field names.
const (
	FieldProductData     = "productData"
	FieldThumbnail       = "thumbnail"
	FieldImages          = "images"
	FieldVariationImages = "variationImages"
)

// maxMemory is how much of a multipart body is held in memory before
// spilling to temporary files.
const maxMemory = 32 << 20

// payload is a decoded mutation request: the product data plus its uploads.
type payload struct {
	thumbnail       *contracts.Asset
	images          []contracts.Asset
	variationImages []contracts.Asset
}

// decodeMutation fills dst from the request. A multipart body carries the
// product data as JSON in the productData field next to the files; any other
// body is the JSON product data alone.
func decodeMutation(r *http.Request, dst interface{}) (payload, error) {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return payload{}, decodeJSON(r.Body, dst)
	}

	if err := r.ParseMultipartForm(maxMemory); err != nil {
		return payload{}, domain.NewValidationError("", fmt.Sprintf("unable to parse form: %v", err))
	}
	defer r.MultipartForm.RemoveAll()

	data := r.FormValue(FieldProductData)
	if data == "" {
		data = "{}"
	}
	if err := decodeJSON(strings.NewReader(data), dst); err != nil {
		return payload{}, err
	}

	var (
		out payload
		err error
	)
	files := r.MultipartForm.File
	if hs := files[FieldThumbnail]; len(hs) > 0 {
		a, err := readAsset(hs[0])
		if err != nil {
			return payload{}, err
		}
		out.thumbnail = &a
	}
	if out.images, err = readAssets(files[FieldImages]); err != nil {
		return payload{}, err
	}
	if out.variationImages, err = readAssets(files[FieldVariationImages]); err != nil {
		return payload{}, err
	}
	return out, nil
}

func decodeJSON(r io.Reader, dst interface{}) error {
	if err := json.NewDecoder(r).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return domain.NewValidationError(FieldProductData, fmt.Sprintf("malformed product data: %v", err))
	}
	return nil
}

func readAssets(hs []*multipart.FileHeader) ([]contracts.Asset, error) {
	out := make([]contracts.Asset, 0, len(hs))
	for _, h := range hs {
		a, err := readAsset(h)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func readAsset(h *multipart.FileHeader) (contracts.Asset, error) {
	f, err := h.Open()
	if err != nil {
		return contracts.Asset{}, domain.NewValidationError(h.Filename, fmt.Sprintf("unable to read upload: %v", err))
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return contracts.Asset{}, domain.NewValidationError(h.Filename, fmt.Sprintf("unable to read upload: %v", err))
	}
	return contracts.Asset{Filename: h.Filename, Content: content}, nil
}
