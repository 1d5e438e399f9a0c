package renderlist

import (
	"github.com/gekko3d/scenegraph/gfx"
)

// Bucket is the pass a record is drawn in.
type Bucket uint8

const (
	BucketOpaque Bucket = iota
	BucketTransparent
	BucketTransmissive
)

func (b Bucket) String() string {
	switch b {
	case BucketTransparent:
		return "transparent"
	case BucketTransmissive:
		return "transmissive"
	default:
		return "opaque"
	}
}

// Classify picks the bucket for a material. Transmission wins over the
// transparent flag. A nil material is opaque.
func Classify(m gfx.Material) Bucket {
	switch {
	case m == nil:
		return BucketOpaque
	case m.Transmission() > 0:
		return BucketTransmissive
	case m.Transparent():
		return BucketTransparent
	default:
		return BucketOpaque
	}
}
