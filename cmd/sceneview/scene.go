package main

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/gekko3d/scenegraph"
	"github.com/gekko3d/scenegraph/gfx"
)

const ringSize = 6

// demoScene builds a small scene touching every bucket: opaque and
// blended cubes on a spinning ring, a multi-material cube, a render group
// panel, and a hidden node.
func demoScene() *scenegraph.Node {
	scene := scenegraph.NewScene("demo")

	floor := scenegraph.NewMesh("floor", gfx.NewBoxGeometry(12, 0.2, 12),
		gfx.NewBasicMaterial("floor", [4]float32{0.35, 0.35, 0.38, 1}))
	floor.SetPosition(mgl64.Vec3{0, -1, 0})
	floor.FrustumCulled = false

	ring := scenegraph.NewGroup("ring")
	ring.SetRenderOrder(1)
	cube := gfx.NewBoxGeometry(1, 1, 1)
	for i := 0; i < ringSize; i++ {
		angle := 2 * math.Pi * float64(i) / ringSize
		n := scenegraph.NewMesh("ring"+string(rune('A'+i)), cube, ringMaterial(i))
		n.SetPosition(mgl64.Vec3{3 * math.Cos(angle), 0, 3 * math.Sin(angle)})
		mustAdd(ring, n)
	}

	faces := make([]gfx.Material, 6)
	for i := range faces {
		c := [4]float32{float32(i%2) * 0.8, float32(i%3) * 0.4, 0.9, 1}
		m := gfx.NewBasicMaterial("face", c)
		if i >= 4 {
			c[3] = 0.4
			m = gfx.NewBasicMaterial("faceBlend", c).SetTransparent(true)
		}
		faces[i] = m
	}
	dice := scenegraph.NewMesh("dice", gfx.NewBoxGeometry(1.2, 1.2, 1.2), faces...)
	dice.SetPosition(mgl64.Vec3{0, 1.5, 0})

	panel := scenegraph.NewGroup("panel")
	panel.RenderGroup = &scenegraph.RenderGroupSettings{}
	panel.SetPosition(mgl64.Vec3{0, 0.5, -4})
	pane := gfx.NewBoxGeometry(2, 1.5, 0.05)
	back := scenegraph.NewMesh("paneBack", pane, gfx.NewBasicMaterial("back", [4]float32{0.9, 0.9, 0.2, 1}))
	front := scenegraph.NewMesh("paneFront", pane,
		gfx.NewBasicMaterial("front", [4]float32{0.2, 0.9, 0.9, 0.5}).SetTransparent(true))
	front.SetPosition(mgl64.Vec3{0, 0, 0.3})
	mustAdd(panel, back, front)

	hidden := scenegraph.NewMesh("hidden", cube, gfx.NewBasicMaterial("hidden", [4]float32{1, 0, 0, 1}))
	hidden.SetVisible(false)

	mustAdd(scene, floor, ring, dice, panel, hidden)
	return scene
}

func ringMaterial(i int) gfx.Material {
	hue := [4]float32{0.9, 0.3, 0.2, 1}
	switch i % 3 {
	case 1:
		hue = [4]float32{0.2, 0.5, 0.9, 0.45}
		return gfx.NewBasicMaterial("ringBlend", hue).SetTransparent(true)
	case 2:
		hue = [4]float32{0.7, 0.9, 1, 0.3}
		return gfx.NewBasicMaterial("ringGlass", hue).SetTransmission(1)
	}
	return gfx.NewBasicMaterial("ringSolid", hue)
}

func mustAdd(parent *scenegraph.Node, children ...*scenegraph.Node) {
	if err := parent.Add(children...); err != nil {
		panic(err)
	}
}

// animate advances the demo by dt seconds.
func animate(scene *scenegraph.Node, dt float64) {
	if ring := scene.GetObjectByName("ring"); ring != nil {
		ring.RotateY(0.4 * dt)
	}
	if dice := scene.GetObjectByName("dice"); dice != nil {
		dice.RotateOnAxis(mgl64.Vec3{1, 1, 0}.Normalize(), 0.9*dt)
	}
}
