package renderlist

import (
	"fmt"

	"github.com/gekko3d/scenegraph/logging"
)

// Scene is the key of a set of render lists.
type Scene interface {
	ID() uint64
	// OnDispose registers a callback run when the scene is disposed and
	// returns the func that unregisters it.
	OnDispose(fn func()) (remove func())
}

type sceneLists struct {
	byDepth []*RenderList
	// unsubscribe drops the dispose callback registered on the scene
	unsubscribe func()
}

// RenderLists hands out one RenderList per scene and render call depth.
// Nested renders (a render triggered while another is in progress) use a
// deeper list so they do not clobber the outer frame's records.
type RenderLists struct {
	opts   Options
	lists  map[uint64]*sceneLists
	logger logging.Logger
}

func NewRenderLists(opts Options) *RenderLists {
	return &RenderLists{
		opts:   opts,
		lists:  make(map[uint64]*sceneLists),
		logger: logging.OrNop(opts.Logger),
	}
}

// Get returns the list for scene at renderCallDepth, creating it on first
// use. Lists of a scene are dropped when the scene is disposed, and the
// dispose callback is unregistered with them.
func (r *RenderLists) Get(scene Scene, renderCallDepth int) *RenderList {
	if renderCallDepth < 0 {
		panic(fmt.Sprintf("renderlist: negative render call depth %d", renderCallDepth))
	}

	id := scene.ID()
	sl, known := r.lists[id]
	if !known {
		sl = &sceneLists{}
		sl.unsubscribe = scene.OnDispose(func() { r.onSceneDispose(id) })
		r.lists[id] = sl
	}
	for len(sl.byDepth) <= renderCallDepth {
		sl.byDepth = append(sl.byDepth, nil)
	}

	list := sl.byDepth[renderCallDepth]
	if list == nil {
		list = NewRenderList(r.opts)
		sl.byDepth[renderCallDepth] = list
		r.logger.Debugf("created render list for scene %d at depth %d", id, renderCallDepth)
	}
	return list
}

func (r *RenderLists) onSceneDispose(id uint64) {
	sl, ok := r.lists[id]
	if !ok {
		return
	}
	sl.unsubscribe()
	delete(r.lists, id)
	r.logger.Debugf("dropped render lists of disposed scene %d", id)
}

// Len is the number of scenes with lists.
func (r *RenderLists) Len() int { return len(r.lists) }

// Dispose drops every list and unregisters from every scene.
func (r *RenderLists) Dispose() {
	for _, sl := range r.lists {
		sl.unsubscribe()
	}
	r.lists = make(map[uint64]*sceneLists)
}
