package renderlist

import (
	"cmp"
)

// CompareFunc orders two records like cmp.Compare.
type CompareFunc func(a, b *RenderItem) int

// PainterSortStable is the opaque order: group order, render order,
// program, material, then front to back.
func PainterSortStable(a, b *RenderItem) int {
	if c := cmp.Compare(a.GroupOrder, b.GroupOrder); c != 0 {
		return c
	}
	if c := cmp.Compare(a.RenderOrder, b.RenderOrder); c != 0 {
		return c
	}
	if c := cmp.Compare(programID(a), programID(b)); c != 0 {
		return c
	}
	if c := cmp.Compare(materialID(a), materialID(b)); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Z, b.Z); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// ReversePainterSortStable is the blended order: group order, render
// order, then back to front.
func ReversePainterSortStable(a, b *RenderItem) int {
	if c := cmp.Compare(a.GroupOrder, b.GroupOrder); c != 0 {
		return c
	}
	if c := cmp.Compare(a.RenderOrder, b.RenderOrder); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Z, a.Z); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}
