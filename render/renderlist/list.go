package renderlist

import (
	"fmt"
	"slices"

	"github.com/gekko3d/scenegraph/gfx"
	"github.com/gekko3d/scenegraph/logging"
)

// State is the phase of a RenderList within a frame.
type State uint8

const (
	StateIdle State = iota
	StateCollecting
	StateSorted
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateCollecting:
		return "collecting"
	case StateSorted:
		return "sorted"
	case StateFinished:
		return "finished"
	default:
		return "idle"
	}
}

type Options struct {
	// InitialCapacity pre-allocates this many records.
	InitialCapacity int
	Logger          logging.Logger
}

// RenderList buckets and sorts the draw records of one frame. Records and
// render groups are pooled: Init rewinds the pool, it never frees it.
//
// The per-frame cycle is Init, Push/Unshift/PushRenderGroup/PopRenderGroup,
// Sort, then Finish. A RenderList must be used from one goroutine.
type RenderList struct {
	Opaque       []*RenderItem
	Transmissive []*RenderItem
	Transparent  []*RenderItem

	items     []*RenderItem
	itemIndex int

	groups     []*RenderGroup
	groupIndex int

	// scope stacks; transparentStack only holds groups that keep their
	// transparent records
	groupStack       []*RenderGroup
	transparentStack []*RenderGroup

	state  State
	logger logging.Logger
}

func NewRenderList(opts Options) *RenderList {
	l := &RenderList{logger: logging.OrNop(opts.Logger)}
	if n := opts.InitialCapacity; n > 0 {
		l.items = make([]*RenderItem, n)
		for i := range l.items {
			l.items[i] = &RenderItem{}
		}
		l.Opaque = make([]*RenderItem, 0, n)
		l.Transparent = make([]*RenderItem, 0, n)
	}
	return l
}

func (l *RenderList) State() State { return l.state }

// Len is the number of records handed out since Init.
func (l *RenderList) Len() int { return l.itemIndex }

// Capacity is the size of the record pool.
func (l *RenderList) Capacity() int { return len(l.items) }

// Init starts a new frame. Bucket slices are truncated in place.
func (l *RenderList) Init() {
	l.itemIndex = 0
	l.groupIndex = 0

	l.Opaque = l.Opaque[:0]
	l.Transmissive = l.Transmissive[:0]
	l.Transparent = l.Transparent[:0]
	l.groupStack = l.groupStack[:0]
	l.transparentStack = l.transparentStack[:0]

	l.state = StateIdle
}

func (l *RenderList) collecting() {
	if l.state == StateFinished {
		panic(ErrFinished)
	}
	l.state = StateCollecting
}

func (l *RenderList) nextItem() *RenderItem {
	if l.itemIndex == len(l.items) {
		l.items = append(l.items, &RenderItem{})
		if n := len(l.items); n&(n-1) == 0 {
			l.logger.Debugf("render item pool grew to %d", n)
		}
	}
	it := l.items[l.itemIndex]
	l.itemIndex++
	return it
}

func (l *RenderList) nextGroup() *RenderGroup {
	if l.groupIndex == len(l.groups) {
		l.groups = append(l.groups, &RenderGroup{})
		l.logger.Debugf("render group pool grew to %d", len(l.groups))
	}
	g := l.groups[l.groupIndex]
	l.groupIndex++
	g.reset()
	return g
}

func (l *RenderList) fill(object Object, geometry gfx.Geometry, material gfx.Material, groupOrder int, z float64, group *gfx.Group) *RenderItem {
	it := l.nextItem()
	it.ID = object.ID()
	it.Object = object
	it.Geometry = geometry
	it.Material = material
	it.Program = DefaultProgram
	if material != nil {
		if p := material.Program(); p != nil {
			it.Program = p
		}
	}
	it.GroupOrder = groupOrder
	it.RenderOrder = object.RenderOrder()
	it.Z = z
	it.Group = group
	it.RenderGroup = nil
	return it
}

// target returns the slice a record of bucket b goes to in the current scope.
func (l *RenderList) target(b Bucket) *[]*RenderItem {
	switch b {
	case BucketTransmissive:
		return &l.Transmissive
	case BucketTransparent:
		if n := len(l.transparentStack); n > 0 {
			return &l.transparentStack[n-1].Transparent
		}
		return &l.Transparent
	default:
		if n := len(l.groupStack); n > 0 {
			return &l.groupStack[n-1].Opaque
		}
		return &l.Opaque
	}
}

// Push appends a record to the bucket chosen by Classify. Inside a render
// group scope opaque and transparent records go to the group; transmissive
// records always go to the top level Transmissive list.
func (l *RenderList) Push(object Object, geometry gfx.Geometry, material gfx.Material, groupOrder int, z float64, group *gfx.Group) *RenderItem {
	l.collecting()
	it := l.fill(object, geometry, material, groupOrder, z, group)
	dst := l.target(Classify(material))
	*dst = append(*dst, it)
	return it
}

// Unshift is Push that inserts at the front of the target bucket.
func (l *RenderList) Unshift(object Object, geometry gfx.Geometry, material gfx.Material, groupOrder int, z float64, group *gfx.Group) *RenderItem {
	l.collecting()
	it := l.fill(object, geometry, material, groupOrder, z, group)
	dst := l.target(Classify(material))
	*dst = slices.Insert(*dst, 0, it)
	return it
}

// PushRenderGroup opens a render group scope for object. The group's entry
// is placed in the current opaque bucket and returned.
func (l *RenderList) PushRenderGroup(object Object, groupOrder int, z float64) *RenderItem {
	l.collecting()

	g := l.nextGroup()
	g.ID = object.ID()
	g.Object = object
	g.RenderOrder = object.RenderOrder()
	if s, ok := object.(transparencyScoped); ok {
		g.ExcludeTransparent = s.ExcludeTransparent()
	}

	it := l.fill(object, nil, nil, groupOrder, z, nil)
	it.RenderGroup = g
	dst := l.target(BucketOpaque)
	*dst = append(*dst, it)

	l.groupStack = append(l.groupStack, g)
	if !g.ExcludeTransparent {
		l.transparentStack = append(l.transparentStack, g)
	}
	return it
}

// PopRenderGroup closes the innermost render group scope. It panics when no
// scope is open.
func (l *RenderList) PopRenderGroup() {
	l.collecting()

	n := len(l.groupStack)
	if n == 0 {
		panic(ErrUnbalancedRenderGroup)
	}
	g := l.groupStack[n-1]
	l.groupStack[n-1] = nil
	l.groupStack = l.groupStack[:n-1]

	if m := len(l.transparentStack); m > 0 && l.transparentStack[m-1] == g {
		l.transparentStack[m-1] = nil
		l.transparentStack = l.transparentStack[:m-1]
	}
}

// Sort orders every bucket and every render group's lists. Nil comparators
// select PainterSortStable for opaque lists and ReversePainterSortStable
// for transmissive and transparent ones. Sorting is stable. It panics when
// a render group scope is still open.
func (l *RenderList) Sort(opaque, transparent CompareFunc) {
	if n := len(l.groupStack); n > 0 {
		panic(fmt.Errorf("%w: %d scope(s)", ErrOpenRenderGroup, n))
	}
	if opaque == nil {
		opaque = PainterSortStable
	}
	if transparent == nil {
		transparent = ReversePainterSortStable
	}

	sortItems(l.Opaque, opaque)
	sortItems(l.Transmissive, transparent)
	sortItems(l.Transparent, transparent)
	for _, g := range l.groups[:l.groupIndex] {
		sortItems(g.Opaque, opaque)
		sortItems(g.Transparent, transparent)
	}
	l.state = StateSorted
}

func sortItems(items []*RenderItem, cmp CompareFunc) {
	if len(items) > 1 {
		slices.SortStableFunc(items, cmp)
	}
}

// Finish drops the references held by pool slots that were used in an
// earlier frame but not in this one.
func (l *RenderList) Finish() {
	for i := l.itemIndex; i < len(l.items); i++ {
		it := l.items[i]
		if it.Object == nil {
			break
		}
		it.reset()
	}
	for i := l.groupIndex; i < len(l.groups); i++ {
		g := l.groups[i]
		if g.Object == nil {
			break
		}
		g.reset()
	}
	l.state = StateFinished
}

// Groups returns the render groups opened since Init, in opening order.
func (l *RenderList) Groups() []*RenderGroup {
	return l.groups[:l.groupIndex]
}

// Each visits records in submission order: the opaque list, then the
// transmissive list, then the transparent list. A render group entry is
// visited and followed by its own opaque then transparent records.
func (l *RenderList) Each(visit func(it *RenderItem, b Bucket)) {
	eachIn(l.Opaque, BucketOpaque, visit)
	eachIn(l.Transmissive, BucketTransmissive, visit)
	eachIn(l.Transparent, BucketTransparent, visit)
}

func eachIn(items []*RenderItem, b Bucket, visit func(*RenderItem, Bucket)) {
	for _, it := range items {
		visit(it, b)
		if g := it.RenderGroup; g != nil {
			eachIn(g.Opaque, BucketOpaque, visit)
			eachIn(g.Transparent, BucketTransparent, visit)
		}
	}
}
