package scenegraph

import (
	"encoding/json"

	"github.com/google/uuid"
)

const jsonFormatVersion = 4.4

type JSONMetadata struct {
	Version   float64 `json:"version"`
	Type      string  `json:"type"`
	Generator string  `json:"generator"`
}

// JSONResource references a geometry or material by UUID.
type JSONResource struct {
	UUID string `json:"uuid"`
}

// JSONDocument is the serialized form of a subtree.
type JSONDocument struct {
	Metadata   JSONMetadata   `json:"metadata"`
	Geometries []JSONResource `json:"geometries,omitempty"`
	Materials  []JSONResource `json:"materials,omitempty"`
	Object     JSONObject     `json:"object"`
}

// JSONObject is one node. Flags holding their default value are omitted.
type JSONObject struct {
	UUID             string         `json:"uuid"`
	Type             string         `json:"type"`
	Name             string         `json:"name,omitempty"`
	Matrix           [16]float64    `json:"matrix"`
	Layers           uint32         `json:"layers"`
	Visible          *bool          `json:"visible,omitempty"`
	CastShadow       bool           `json:"castShadow,omitempty"`
	ReceiveShadow    bool           `json:"receiveShadow,omitempty"`
	FrustumCulled    *bool          `json:"frustumCulled,omitempty"`
	RenderOrder      int            `json:"renderOrder,omitempty"`
	MatrixAutoUpdate *bool          `json:"matrixAutoUpdate,omitempty"`
	UserData         map[string]any `json:"userData,omitempty"`
	Geometry         string         `json:"geometry,omitempty"`
	Material         any            `json:"material,omitempty"`
	Children         []JSONObject   `json:"children,omitempty"`
}

// ToJSON serializes n and its descendants. Matrices are the cached local
// matrices in column-major order.
func (n *Node) ToJSON() JSONDocument {
	doc := JSONDocument{
		Metadata: JSONMetadata{Version: jsonFormatVersion, Type: "Object", Generator: "Object3D.toJSON"},
	}
	seen := map[uuid.UUID]bool{}
	doc.Object = n.toJSONObject(&doc, seen)
	return doc
}

func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.ToJSON())
}

func (n *Node) toJSONObject(doc *JSONDocument, seen map[uuid.UUID]bool) JSONObject {
	off := false
	o := JSONObject{
		UUID:          n.uuid.String(),
		Type:          n.nodeType.String(),
		Name:          n.Name,
		Matrix:        [16]float64(n.matrix),
		Layers:        uint32(n.Layers),
		CastShadow:    n.CastShadow,
		ReceiveShadow: n.ReceiveShadow,
		RenderOrder:   n.renderOrder,
	}
	if !n.visible {
		o.Visible = &off
	}
	if !n.FrustumCulled {
		o.FrustumCulled = &off
	}
	if !n.MatrixAutoUpdate {
		o.MatrixAutoUpdate = &off
	}
	if len(n.UserData) > 0 {
		o.UserData = n.UserData
	}

	if n.Mesh != nil {
		if g := n.Mesh.Geometry; g != nil {
			o.Geometry = g.UUID().String()
			if !seen[g.UUID()] {
				seen[g.UUID()] = true
				doc.Geometries = append(doc.Geometries, JSONResource{UUID: o.Geometry})
			}
		}
		ids := make([]string, 0, len(n.Mesh.Materials))
		for _, m := range n.Mesh.Materials {
			if m == nil {
				continue
			}
			id := m.UUID().String()
			ids = append(ids, id)
			if !seen[m.UUID()] {
				seen[m.UUID()] = true
				doc.Materials = append(doc.Materials, JSONResource{UUID: id})
			}
		}
		switch len(ids) {
		case 0:
		case 1:
			o.Material = ids[0]
		default:
			o.Material = ids
		}
	}

	for _, c := range n.children {
		o.Children = append(o.Children, c.toJSONObject(doc, seen))
	}
	return o
}
