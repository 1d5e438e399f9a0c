package gfx

import (
	"github.com/google/uuid"
)

// BasicMaterial is an unlit single-colour material.
type BasicMaterial struct {
	id           uint64
	uuid         uuid.UUID
	Name         string
	Color        [4]float32
	transparent  bool
	transmission float64
	visible      bool
	program      Program
}

func NewBasicMaterial(name string, color [4]float32) *BasicMaterial {
	return &BasicMaterial{
		id:      nextMaterialID(),
		uuid:    uuid.New(),
		Name:    name,
		Color:   color,
		visible: true,
	}
}

func (m *BasicMaterial) ID() uint64            { return m.id }
func (m *BasicMaterial) UUID() uuid.UUID       { return m.uuid }
func (m *BasicMaterial) Transparent() bool     { return m.transparent }
func (m *BasicMaterial) Transmission() float64 { return m.transmission }
func (m *BasicMaterial) Visible() bool         { return m.visible }
func (m *BasicMaterial) Program() Program      { return m.program }

func (m *BasicMaterial) SetTransparent(transparent bool) *BasicMaterial {
	m.transparent = transparent
	return m
}

func (m *BasicMaterial) SetTransmission(transmission float64) *BasicMaterial {
	m.transmission = transmission
	return m
}

func (m *BasicMaterial) SetVisible(visible bool) *BasicMaterial {
	m.visible = visible
	return m
}

// SetProgram is called by the renderer once the material has been compiled.
func (m *BasicMaterial) SetProgram(p Program) *BasicMaterial {
	m.program = p
	return m
}

func (m *BasicMaterial) String() string { return m.Name }
