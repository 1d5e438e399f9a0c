package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/scenegraph/config"
	"github.com/gekko3d/scenegraph/logging"
	"github.com/gekko3d/scenegraph/render/projector"
	"github.com/gekko3d/scenegraph/render/renderlist"
)

func TestDemoSceneBuckets(t *testing.T) {
	cfg := config.Default()
	cfg.Projector.FrustumCulling = false
	scene := demoScene()

	list := renderlist.NewRenderList(cfg.RenderListOptions(nil))
	stats := projector.New(cfg.ProjectorOptions(nil)).Project(scene, newCamera(cfg), list)

	assert.Equal(t, projector.Stats{Visited: 13, Pushed: 15}, stats)
	assert.Len(t, list.Opaque, 8)
	assert.Len(t, list.Transmissive, 2)
	assert.Len(t, list.Transparent, 4)

	groups := list.Groups()
	require.Len(t, groups, 1)
	assert.Len(t, groups[0].Opaque, 1)
	assert.Len(t, groups[0].Transparent, 1)

	for _, it := range list.Opaque {
		if n := nodeOf(it); n != nil && strings.HasPrefix(n.Name, "ring") {
			assert.Equal(t, 1, it.GroupOrder, n.Name)
		}
	}
}

func TestAnimateMovesRingAndDice(t *testing.T) {
	scene := demoScene()
	ring := scene.GetObjectByName("ring")
	dice := scene.GetObjectByName("dice")
	before, diceBefore := ring.Quaternion(), dice.Quaternion()

	animate(scene, 0.5)

	assert.NotEqual(t, before, ring.Quaternion())
	assert.NotEqual(t, diceBefore, dice.Quaternion())
	assert.Equal(t, 0.0, scene.GetObjectByName("floor").Rotation().Y)
}

func TestRunHeadless(t *testing.T) {
	cfg := config.Default()
	cfg.Viewer.Width, cfg.Viewer.Height = 320, 180
	dump := filepath.Join(t.TempDir(), "order.png")

	var out bytes.Buffer
	require.NoError(t, runHeadless(cfg, logging.NewNopLogger(), &out, dump))

	text := out.String()
	assert.Contains(t, text, "(render group)")
	assert.Contains(t, text, `"paneFront"`)
	assert.Contains(t, text, "transmissive")
	assert.NotContains(t, text, `"hidden"`)

	info, err := os.Stat(dump)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
