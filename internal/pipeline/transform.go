package pipeline

import (
	"context"

	"github.com/couchcryptid/recon-obs-decoder/internal/decoder"
	"github.com/couchcryptid/recon-obs-decoder/internal/domain"
)

// BulletinTransformer implements Transformer by dispatching framed messages
// through the format decoder.
type BulletinTransformer struct {
	dec *decoder.Decoder
}

// NewTransformer wraps a decoder as a pipeline stage.
func NewTransformer(dec *decoder.Decoder) *BulletinTransformer {
	return &BulletinTransformer{dec: dec}
}

func (t *BulletinTransformer) Transform(_ context.Context, b domain.Bulletin) ([]domain.SoundingRecord, error) {
	return t.dec.Decode(b.Lines)
}
