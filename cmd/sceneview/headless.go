package main

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/gekko3d/scenegraph"
	"github.com/gekko3d/scenegraph/config"
	"github.com/gekko3d/scenegraph/logging"
	"github.com/gekko3d/scenegraph/render/debugdraw"
	"github.com/gekko3d/scenegraph/render/projector"
	"github.com/gekko3d/scenegraph/render/renderlist"
)

func newCamera(cfg config.Config) *projector.PerspectiveCamera {
	aspect := float64(cfg.Viewer.Width) / float64(cfg.Viewer.Height)
	cam := projector.NewPerspectiveCamera("camera", cfg.Viewer.Fov, aspect, 0.1, 100)
	cam.SetPosition(mgl64.Vec3{0, 4, 10})
	cam.LookAt(mgl64.Vec3{0, 0, 0})
	return cam
}

// runHeadless projects one frame of the demo scene and prints the order
// records would be submitted in. dump, when set, receives an overlay PNG.
func runHeadless(cfg config.Config, logger logging.Logger, out io.Writer, dump string) error {
	scene := demoScene()
	cam := newCamera(cfg)

	lists := renderlist.NewRenderLists(cfg.RenderListOptions(logger))
	defer lists.Dispose()
	list := lists.Get(scene, 0)

	stats := projector.New(cfg.ProjectorOptions(logger)).Project(scene, cam, list)
	logger.Infof("projected %s: visited=%d culled=%d pushed=%d", scene, stats.Visited, stats.Culled, stats.Pushed)

	if err := printOrder(out, list); err != nil {
		return err
	}

	if dump != "" {
		img := image.NewRGBA(image.Rect(0, 0, cfg.Viewer.Width, cfg.Viewer.Height))
		opts := debugdraw.DefaultOptions()
		cc := cfg.Viewer.ClearColor
		opts.Background = &color.RGBA{uint8(cc[0] * 255), uint8(cc[1] * 255), uint8(cc[2] * 255), uint8(cc[3] * 255)}
		labels := debugdraw.DrawOrder(img, list, cam, opts)
		if err := debugdraw.WritePNG(dump, img); err != nil {
			return err
		}
		logger.Infof("wrote %s (%d labels)", dump, len(labels))
	}

	list.Finish()
	return nil
}

func printOrder(out io.Writer, list *renderlist.RenderList) error {
	i := 0
	var err error
	list.Each(func(it *renderlist.RenderItem, b renderlist.Bucket) {
		if err != nil {
			return
		}
		if it.IsRenderGroup() {
			_, err = fmt.Fprintf(out, "   -  %-12s %s (render group)\n", b, it.Object)
			return
		}
		material := "-"
		if m, ok := it.Material.(fmt.Stringer); ok {
			material = m.String()
		}
		_, err = fmt.Fprintf(out, "%4d  %-12s %-28s %-14s program=%d group=%d order=%d z=%.4f\n",
			i, b, it.Object, material, it.Program.ID(), it.GroupOrder, it.RenderOrder, it.Z)
		i++
	})
	return err
}

// nodeOf unwraps a render item's object.
func nodeOf(it *renderlist.RenderItem) *scenegraph.Node {
	n, _ := it.Object.(*scenegraph.Node)
	return n
}
