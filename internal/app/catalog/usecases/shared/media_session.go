package shared

import (
	"context"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/murkotick/catalog-service/internal/app/catalog/contracts"
	"github.com/murkotick/catalog-service/internal/app/catalog/domain"
)

// compensationTimeout bounds releases run after the caller's context is gone.
const compensationTimeout = 30 * time.Second

// UploadSession stores the assets of one mutation and remembers them so they
// can be released if the mutation does not commit.
type UploadSession struct {
	media  contracts.MediaStore
	logger hclog.Logger
	stored []string
}

func NewUploadSession(media contracts.MediaStore, logger hclog.Logger) *UploadSession {
	return &UploadSession{media: media, logger: logger}
}

// Upload stores a and returns its locator. Failures come back as
// MediaStoreError.
func (s *UploadSession) Upload(ctx context.Context, a contracts.Asset, purpose contracts.Purpose) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", domain.NewMediaStoreError(a.Filename, err)
	}
	loc, err := s.media.Store(ctx, a, purpose)
	if err != nil {
		return "", domain.NewMediaStoreError(a.Filename, err)
	}
	s.stored = append(s.stored, loc)
	return loc, nil
}

// UploadIndexed uploads each referenced asset once and returns locators by
// asset index.
func (s *UploadSession) UploadIndexed(ctx context.Context, assets []contracts.Asset, indexes []int, purpose contracts.Purpose) (map[int]string, error) {
	out := make(map[int]string, len(indexes))
	for _, i := range indexes {
		if _, done := out[i]; done {
			continue
		}
		loc, err := s.Upload(ctx, assets[i], purpose)
		if err != nil {
			return nil, err
		}
		out[i] = loc
	}
	return out, nil
}

// Stored lists the locators uploaded so far.
func (s *UploadSession) Stored() []string {
	return append([]string(nil), s.stored...)
}

// Compensate releases everything this session uploaded. It runs on a context
// detached from ctx's cancellation so an aborted request still cleans up.
func (s *UploadSession) Compensate(ctx context.Context) {
	if len(s.stored) == 0 {
		return
	}
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
	defer cancel()

	s.logger.Warn("Releasing uploaded assets of failed mutation", "count", len(s.stored))
	ReleaseAll(cctx, s.media, s.logger, s.stored)
	s.stored = nil
}
