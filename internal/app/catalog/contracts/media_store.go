package contracts

import (
	"context"
	"errors"
)

// ErrInvalidLocator is returned by Release for a locator the store could
// never have issued. Retrying it cannot succeed.
var ErrInvalidLocator = errors.New("invalid media locator")

// Purpose says what an uploaded asset is used for. Stores may use it to lay
// out keys.
type Purpose string

const (
	PurposeThumbnail      Purpose = "thumbnail"
	PurposeImage          Purpose = "image"
	PurposeVariationImage Purpose = "variation-image"
)

// Asset is one uploaded binary as received from the caller.
type Asset struct {
	Filename string
	Content  []byte
}

// MediaStore holds binary assets outside the catalog store.
type MediaStore interface {
	// Store saves the asset and returns a stable locator.
	Store(ctx context.Context, a Asset, purpose Purpose) (string, error)
	// Release deletes the asset behind locator. Releasing an absent locator
	// is not an error.
	Release(ctx context.Context, locator string) error
}
