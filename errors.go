package scenegraph

import "errors"

var (
	// ErrSelfParent is returned when a node would become its own parent or
	// the parent of one of its ancestors.
	ErrSelfParent      = errors.New("scenegraph: node cannot be a child of itself")
	ErrNilNode         = errors.New("scenegraph: nil node")
	ErrNotChild        = errors.New("scenegraph: node is not a child")
	ErrIndexOutOfRange = errors.New("scenegraph: child index out of range")
)
