// Package debugdraw rasterises the submission order of a render list on top
// of an image, one numbered marker per draw.
package debugdraw

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"os"
	"strconv"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/gekko3d/scenegraph/render/projector"
	"github.com/gekko3d/scenegraph/render/renderlist"
)

type Options struct {
	// Colors per bucket; zero values fall back to DefaultOptions.
	Opaque       color.RGBA
	Transmissive color.RGBA
	Transparent  color.RGBA
	MarkerSize   int
	// Background clears dst before drawing when set.
	Background *color.RGBA
}

func DefaultOptions() Options {
	return Options{
		Opaque:       color.RGBA{80, 220, 80, 255},
		Transmissive: color.RGBA{80, 180, 255, 255},
		Transparent:  color.RGBA{255, 120, 60, 255},
		MarkerSize:   3,
	}
}

// Label is one drawn marker: the item's submission index and where it
// landed in dst.
type Label struct {
	Index  int
	Name   string
	Bucket renderlist.Bucket
	At     image.Point
}

type worldPlaced interface {
	MatrixWorld() mgl64.Mat4
}

type named interface {
	String() string
}

// DrawOrder draws the submission index of every item in list at the
// projected origin of its object. Render group entries are not numbered.
// Items whose object has no world matrix, or that project behind the
// camera or off the image, are counted but not drawn.
func DrawOrder(dst *image.RGBA, list *renderlist.RenderList, camera projector.Camera, opts Options) []Label {
	opts = withDefaults(opts)
	if opts.Background != nil {
		draw.Draw(dst, dst.Bounds(), image.NewUniform(*opts.Background), image.Point{}, draw.Src)
	}

	viewProj := projector.ViewProjection(camera)
	bounds := dst.Bounds()
	lineHeight := basicfont.Face7x13.Metrics().Height.Ceil()
	taken := map[image.Point]int{}

	var labels []Label
	index := 0
	list.Each(func(it *renderlist.RenderItem, b renderlist.Bucket) {
		if it.IsRenderGroup() {
			return
		}
		i := index
		index++

		obj, ok := it.Object.(worldPlaced)
		if !ok {
			return
		}
		p, ok := toPixel(viewProj, obj.MatrixWorld().Col(3).Vec3(), bounds)
		if !ok {
			return
		}

		// Several items of one object share a point; stack their labels.
		at := p.Add(image.Pt(0, taken[p]*lineHeight))
		taken[p]++

		c := opts.colorOf(b)
		marker(dst, p, opts.MarkerSize, c)
		d := &font.Drawer{
			Dst:  dst,
			Src:  image.NewUniform(c),
			Face: basicfont.Face7x13,
			Dot:  fixed.P(at.X+opts.MarkerSize+2, at.Y+opts.MarkerSize),
		}
		d.DrawString(strconv.Itoa(i))

		l := Label{Index: i, Bucket: b, At: at}
		if n, ok := it.Object.(named); ok {
			l.Name = n.String()
		}
		labels = append(labels, l)
	})
	return labels
}

func withDefaults(opts Options) Options {
	def := DefaultOptions()
	if opts.Opaque == (color.RGBA{}) {
		opts.Opaque = def.Opaque
	}
	if opts.Transmissive == (color.RGBA{}) {
		opts.Transmissive = def.Transmissive
	}
	if opts.Transparent == (color.RGBA{}) {
		opts.Transparent = def.Transparent
	}
	if opts.MarkerSize <= 0 {
		opts.MarkerSize = def.MarkerSize
	}
	return opts
}

func (o Options) colorOf(b renderlist.Bucket) color.RGBA {
	switch b {
	case renderlist.BucketTransmissive:
		return o.Transmissive
	case renderlist.BucketTransparent:
		return o.Transparent
	default:
		return o.Opaque
	}
}

// toPixel maps a world point to image coordinates, y down.
func toPixel(viewProj mgl64.Mat4, world mgl64.Vec3, bounds image.Rectangle) (image.Point, bool) {
	clip := viewProj.Mul4x1(world.Vec4(1))
	if clip.W() <= 0 {
		return image.Point{}, false
	}
	ndc := clip.Vec3().Mul(1 / clip.W())
	if ndc.Z() < -1 || ndc.Z() > 1 {
		return image.Point{}, false
	}
	x := bounds.Min.X + int((ndc.X()+1)*0.5*float64(bounds.Dx()))
	y := bounds.Min.Y + int((1-ndc.Y())*0.5*float64(bounds.Dy()))
	p := image.Pt(x, y)
	if !p.In(bounds) {
		return image.Point{}, false
	}
	return p, true
}

func marker(dst *image.RGBA, p image.Point, size int, c color.RGBA) {
	r := image.Rect(p.X-size, p.Y-size, p.X+size+1, p.Y+size+1).Intersect(dst.Bounds())
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Src)
}

// WritePNG encodes img to path.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("debugdraw: create %s: %w", path, err)
	}
	if err := EncodePNG(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func EncodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("debugdraw: encode png: %w", err)
	}
	return nil
}
