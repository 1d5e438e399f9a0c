package renderlist

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/scenegraph/gfx"
)

type testObject struct {
	id          uint64
	renderOrder int
	exclude     bool
}

func (o *testObject) ID() uint64               { return o.id }
func (o *testObject) RenderOrder() int         { return o.renderOrder }
func (o *testObject) ExcludeTransparent() bool { return o.exclude }

type testProgram int

func (p testProgram) ID() int { return int(p) }

type testMaterial struct {
	id           uint64
	transparent  bool
	transmission float64
	program      gfx.Program
}

func (m *testMaterial) ID() uint64            { return m.id }
func (m *testMaterial) UUID() uuid.UUID       { return uuid.Nil }
func (m *testMaterial) Transparent() bool     { return m.transparent }
func (m *testMaterial) Transmission() float64 { return m.transmission }
func (m *testMaterial) Visible() bool         { return true }
func (m *testMaterial) Program() gfx.Program  { return m.program }

var (
	opaqueMat       = &testMaterial{id: 1}
	transparentMat  = &testMaterial{id: 2, transparent: true}
	transmissiveMat = &testMaterial{id: 3, transmission: 0.5}
)

func obj(id uint64) *testObject { return &testObject{id: id} }

func zs(items []*RenderItem) []float64 {
	out := make([]float64, len(items))
	for i, it := range items {
		out[i] = it.Z
	}
	return out
}

func ids(items []*RenderItem) []uint64 {
	out := make([]uint64, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestClassify(t *testing.T) {
	assert.Equal(t, BucketOpaque, Classify(opaqueMat))
	assert.Equal(t, BucketTransparent, Classify(transparentMat))
	assert.Equal(t, BucketTransmissive, Classify(transmissiveMat))
	assert.Equal(t, BucketTransmissive, Classify(&testMaterial{transparent: true, transmission: 1}))
	assert.Equal(t, BucketOpaque, Classify(nil))
}

func TestPushClassifies(t *testing.T) {
	l := NewRenderList(Options{})
	l.Init()
	l.Push(obj(1), nil, opaqueMat, 0, 0, nil)
	l.Push(obj(2), nil, transparentMat, 0, 0, nil)
	l.Push(obj(3), nil, transmissiveMat, 0, 0, nil)
	l.Push(obj(4), nil, &testMaterial{id: 9, transparent: true, transmission: 0.1}, 0, 0, nil)

	assert.Equal(t, []uint64{1}, ids(l.Opaque))
	assert.Equal(t, []uint64{2}, ids(l.Transparent))
	assert.Equal(t, []uint64{3, 4}, ids(l.Transmissive))
	assert.Equal(t, StateCollecting, l.State())
	assert.Equal(t, 4, l.Len())
}

func TestPushFillsRecord(t *testing.T) {
	l := NewRenderList(Options{})
	l.Init()
	o := &testObject{id: 7, renderOrder: 3}
	m := &testMaterial{id: 4, program: testProgram(12)}
	g := &gfx.Group{Start: 6, Count: 6, MaterialIndex: 1}

	it := l.Push(o, nil, m, 2, 1.5, g)
	assert.Equal(t, uint64(7), it.ID)
	assert.Same(t, o, it.Object)
	assert.Equal(t, 12, it.Program.ID())
	assert.Equal(t, 2, it.GroupOrder)
	assert.Equal(t, 3, it.RenderOrder)
	assert.Equal(t, 1.5, it.Z)
	assert.Same(t, g, it.Group)

	it = l.Push(o, nil, opaqueMat, 0, 0, nil)
	assert.Equal(t, -1, it.Program.ID())
}

func TestOpaqueSortsFrontToBack(t *testing.T) {
	l := NewRenderList(Options{})
	l.Init()
	for i, z := range []float64{5, 1, 3} {
		l.Push(obj(uint64(i)), nil, opaqueMat, 0, z, nil)
	}
	l.Sort(nil, nil)

	assert.Equal(t, []float64{1, 3, 5}, zs(l.Opaque))
	assert.Equal(t, StateSorted, l.State())
}

func TestTransparentSortsBackToFront(t *testing.T) {
	l := NewRenderList(Options{})
	l.Init()
	for i, z := range []float64{1, 5, 3} {
		l.Push(obj(uint64(i)), nil, transparentMat, 0, z, nil)
		l.Push(obj(uint64(10+i)), nil, transmissiveMat, 0, z, nil)
	}
	l.Sort(nil, nil)

	assert.Equal(t, []float64{5, 3, 1}, zs(l.Transparent))
	assert.Equal(t, []float64{5, 3, 1}, zs(l.Transmissive))
}

func TestStableTieBreak(t *testing.T) {
	l := NewRenderList(Options{})
	l.Init()
	o := obj(1)
	first := l.Push(o, nil, opaqueMat, 0, 2, nil)
	second := l.Push(o, nil, opaqueMat, 0, 2, nil)
	tFirst := l.Push(o, nil, transparentMat, 0, 2, nil)
	tSecond := l.Push(o, nil, transparentMat, 0, 2, nil)
	l.Sort(nil, nil)

	assert.Same(t, first, l.Opaque[0])
	assert.Same(t, second, l.Opaque[1])
	assert.Same(t, tFirst, l.Transparent[0])
	assert.Same(t, tSecond, l.Transparent[1])
}

func TestPainterSortStableKeys(t *testing.T) {
	base := func() *RenderItem {
		return &RenderItem{ID: 5, Program: testProgram(1), Material: &testMaterial{id: 1}}
	}
	tests := []struct {
		name   string
		modify func(a, b *RenderItem)
	}{
		{"group order", func(a, b *RenderItem) { a.GroupOrder, b.GroupOrder, a.RenderOrder = 0, 1, 9 }},
		{"render order", func(a, b *RenderItem) { a.RenderOrder, b.RenderOrder, a.Program = 0, 1, testProgram(9) }},
		{"program", func(a, b *RenderItem) { a.Program, b.Program, a.Material = testProgram(0), testProgram(1), &testMaterial{id: 9} }},
		{"material", func(a, b *RenderItem) { a.Material, b.Material, a.Z = &testMaterial{id: 0}, &testMaterial{id: 1}, 9 }},
		{"z", func(a, b *RenderItem) { a.Z, b.Z, a.ID = 0, 1, 9 }},
		{"id", func(a, b *RenderItem) { a.ID, b.ID = 0, 1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := base(), base()
			tt.modify(a, b)
			assert.Negative(t, PainterSortStable(a, b))
			assert.Positive(t, PainterSortStable(b, a))
		})
	}
	assert.Zero(t, PainterSortStable(base(), base()))
}

func TestReversePainterSortStableIgnoresProgramAndMaterial(t *testing.T) {
	a := &RenderItem{ID: 1, Z: 5, Program: testProgram(9), Material: &testMaterial{id: 9}}
	b := &RenderItem{ID: 2, Z: 1, Program: testProgram(0), Material: &testMaterial{id: 0}}
	assert.Negative(t, ReversePainterSortStable(a, b))

	b.Z = 5
	assert.Negative(t, ReversePainterSortStable(a, b))

	b.RenderOrder = -1
	assert.Positive(t, ReversePainterSortStable(a, b))
}

func TestCustomComparators(t *testing.T) {
	l := NewRenderList(Options{})
	l.Init()
	for i, z := range []float64{1, 3, 2} {
		l.Push(obj(uint64(i)), nil, opaqueMat, 0, z, nil)
		l.Push(obj(uint64(i)), nil, transparentMat, 0, z, nil)
	}
	byZDesc := func(a, b *RenderItem) int { return ReversePainterSortStable(a, b) }
	byZAsc := func(a, b *RenderItem) int { return PainterSortStable(a, b) }
	l.Sort(byZDesc, byZAsc)

	assert.Equal(t, []float64{3, 2, 1}, zs(l.Opaque))
	assert.Equal(t, []float64{1, 2, 3}, zs(l.Transparent))
}

func TestUnshift(t *testing.T) {
	l := NewRenderList(Options{})
	l.Init()
	l.Push(obj(1), nil, opaqueMat, 0, 0, nil)
	l.Unshift(obj(2), nil, opaqueMat, 0, 0, nil)
	l.Push(obj(3), nil, transparentMat, 0, 0, nil)
	l.Unshift(obj(4), nil, transparentMat, 0, 0, nil)

	assert.Equal(t, []uint64{2, 1}, ids(l.Opaque))
	assert.Equal(t, []uint64{4, 3}, ids(l.Transparent))
}

func TestRenderGroupIsolation(t *testing.T) {
	l := NewRenderList(Options{})
	l.Init()
	l.Push(obj(1), nil, opaqueMat, 0, 0, nil)

	entry := l.PushRenderGroup(obj(100), 0, 0)
	require.True(t, entry.IsRenderGroup())
	l.Push(obj(2), nil, opaqueMat, 0, 0, nil)
	l.Push(obj(3), nil, transparentMat, 0, 0, nil)
	l.Push(obj(4), nil, transmissiveMat, 0, 0, nil)
	l.PopRenderGroup()

	l.Push(obj(5), nil, opaqueMat, 0, 0, nil)
	l.Push(obj(6), nil, transparentMat, 0, 0, nil)

	assert.Equal(t, []uint64{1, 100, 5}, ids(l.Opaque))
	assert.Equal(t, []uint64{6}, ids(l.Transparent))
	assert.Equal(t, []uint64{4}, ids(l.Transmissive))

	g := entry.RenderGroup
	assert.Equal(t, uint64(100), g.ID)
	assert.Equal(t, []uint64{2}, ids(g.Opaque))
	assert.Equal(t, []uint64{3}, ids(g.Transparent))
	assert.Len(t, l.Groups(), 1)
}

func TestNestedRenderGroups(t *testing.T) {
	l := NewRenderList(Options{})
	l.Init()

	outer := l.PushRenderGroup(obj(100), 0, 0)
	inner := l.PushRenderGroup(&testObject{id: 200, exclude: true}, 0, 0)
	l.Push(obj(1), nil, opaqueMat, 0, 0, nil)
	l.Push(obj(2), nil, transparentMat, 0, 0, nil)
	l.PopRenderGroup()
	l.Push(obj(3), nil, opaqueMat, 0, 0, nil)
	l.PopRenderGroup()
	l.Push(obj(4), nil, transparentMat, 0, 0, nil)

	assert.Equal(t, []uint64{100}, ids(l.Opaque))
	assert.Equal(t, []uint64{200, 3}, ids(outer.RenderGroup.Opaque))
	assert.Equal(t, []uint64{1}, ids(inner.RenderGroup.Opaque))
	// the inner group excludes transparency, so its transparent record
	// lands in the nearest group that keeps it
	assert.Empty(t, inner.RenderGroup.Transparent)
	assert.Equal(t, []uint64{2}, ids(outer.RenderGroup.Transparent))
	assert.Equal(t, []uint64{4}, ids(l.Transparent))
}

func TestExcludedTransparentEscapesToTopLevel(t *testing.T) {
	l := NewRenderList(Options{})
	l.Init()
	l.PushRenderGroup(&testObject{id: 100, exclude: true}, 0, 0)
	l.Push(obj(1), nil, transparentMat, 0, 0, nil)
	l.PopRenderGroup()

	assert.Equal(t, []uint64{1}, ids(l.Transparent))
}

func TestSortRecursesIntoGroups(t *testing.T) {
	l := NewRenderList(Options{})
	l.Init()
	entry := l.PushRenderGroup(obj(100), 0, 0)
	for i, z := range []float64{5, 1, 3} {
		l.Push(obj(uint64(i)), nil, opaqueMat, 0, z, nil)
		l.Push(obj(uint64(i)), nil, transparentMat, 0, z, nil)
	}
	l.PopRenderGroup()
	l.Sort(nil, nil)

	assert.Equal(t, []float64{1, 3, 5}, zs(entry.RenderGroup.Opaque))
	assert.Equal(t, []float64{5, 3, 1}, zs(entry.RenderGroup.Transparent))
}

func TestUnbalancedPopPanics(t *testing.T) {
	l := NewRenderList(Options{})
	l.Init()
	assert.PanicsWithError(t, ErrUnbalancedRenderGroup.Error(), func() { l.PopRenderGroup() })
}

func TestSortWithOpenGroupPanics(t *testing.T) {
	l := NewRenderList(Options{})
	l.Init()
	l.PushRenderGroup(obj(1), 0, 0)

	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		assert.ErrorIs(t, err, ErrOpenRenderGroup)
	}()
	l.Sort(nil, nil)
}

func TestPushAfterFinishPanics(t *testing.T) {
	l := NewRenderList(Options{})
	l.Init()
	l.Push(obj(1), nil, opaqueMat, 0, 0, nil)
	l.Sort(nil, nil)
	l.Finish()
	assert.Equal(t, StateFinished, l.State())

	assert.PanicsWithError(t, ErrFinished.Error(), func() {
		l.Push(obj(2), nil, opaqueMat, 0, 0, nil)
	})

	l.Init()
	assert.Equal(t, StateIdle, l.State())
	assert.NotPanics(t, func() { l.Push(obj(2), nil, opaqueMat, 0, 0, nil) })
}

func TestPoolReuse(t *testing.T) {
	l := NewRenderList(Options{})

	l.Init()
	first := make([]*RenderItem, 5)
	for i := range first {
		first[i] = l.Push(obj(uint64(i)), nil, opaqueMat, 0, float64(i), nil)
	}
	l.PushRenderGroup(obj(50), 0, 0)
	l.PopRenderGroup()
	l.Sort(nil, nil)
	l.Finish()
	assert.Equal(t, 6, l.Capacity())

	l.Init()
	second := make([]*RenderItem, 2)
	for i := range second {
		second[i] = l.Push(obj(uint64(10+i)), nil, opaqueMat, 0, 0, nil)
	}
	l.Sort(nil, nil)
	l.Finish()

	// records are reused, not reallocated
	assert.Same(t, first[0], second[0])
	assert.Same(t, first[1], second[1])
	assert.Equal(t, 6, l.Capacity())

	// slots not pushed this frame no longer reference last frame's objects
	for _, it := range first[2:] {
		assert.Nil(t, it.Object)
		assert.Nil(t, it.Material)
		assert.Nil(t, it.Program)
	}
	for _, it := range l.Opaque {
		assert.NotNil(t, it.Object)
	}
	assert.Nil(t, l.groups[0].Object)
}

func TestInitialCapacity(t *testing.T) {
	l := NewRenderList(Options{InitialCapacity: 8})
	assert.Equal(t, 8, l.Capacity())

	l.Init()
	for i := 0; i < 9; i++ {
		l.Push(obj(uint64(i)), nil, opaqueMat, 0, 0, nil)
	}
	assert.Equal(t, 9, l.Capacity())
	assert.Equal(t, 9, l.Len())
}

func TestEachOrder(t *testing.T) {
	l := NewRenderList(Options{})
	l.Init()
	l.Push(obj(1), nil, transparentMat, 0, 0, nil)
	l.Push(obj(2), nil, transmissiveMat, 0, 0, nil)
	l.PushRenderGroup(obj(100), 0, 1)
	l.Push(obj(3), nil, transparentMat, 0, 0, nil)
	l.Push(obj(4), nil, opaqueMat, 0, 0, nil)
	l.PopRenderGroup()
	l.Push(obj(5), nil, opaqueMat, 0, 0, nil)
	l.Sort(nil, nil)

	var order []uint64
	var buckets []Bucket
	l.Each(func(it *RenderItem, b Bucket) {
		order = append(order, it.ID)
		buckets = append(buckets, b)
	})

	// the group entry has no material, so it sorts ahead of item 5
	assert.Equal(t, []uint64{100, 4, 3, 5, 2, 1}, order)
	assert.Equal(t, []Bucket{
		BucketOpaque, BucketOpaque, BucketTransparent, BucketOpaque, BucketTransmissive, BucketTransparent,
	}, buckets)
}

func TestRenderGroupEntryNeverSharesMaterialKey(t *testing.T) {
	l := NewRenderList(Options{})
	l.Init()

	m := gfx.NewBasicMaterial("first", [4]float32{1, 1, 1, 1})
	entry := l.PushRenderGroup(obj(1), 0, 0)
	l.PopRenderGroup()
	it := l.Push(obj(1), nil, m, 0, 0, nil)

	assert.NotEqual(t, materialID(entry), materialID(it))
	assert.Negative(t, PainterSortStable(entry, it))
}
