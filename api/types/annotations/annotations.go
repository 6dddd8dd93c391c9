package annotations

import (
	"bytes"
	"encoding/json"

	"github.com/framehubio/framehub/pkg/cmp"
)

// Size of the annotated media, in pixels.
type Size struct {
	Height int `json:"height"`
	Width  int `json:"width"`
}

// Figure is a single labeled geometry on an item.
//
// Geometry is kept raw: its shape depends on the class declared in the
// project meta (rectangle corners, polygon exterior/interior, bitmap
// origin + packed data, ...), and the client does not interpret it.
type Figure struct {
	Id        int             `json:"id,omitempty"`
	ClassName string          `json:"className"`
	Geometry  json.RawMessage `json:"geometry"`
	Labeler   string          `json:"labeler,omitempty"`
}

func (f Figure) Equal(o Figure) bool {
	return f.Id == o.Id &&
		f.ClassName == o.ClassName &&
		f.Labeler == o.Labeler &&
		jsonEq(f.Geometry, o.Geometry)
}

// ItemTag is a tag instance put on an item or a figure.
type ItemTag struct {
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
}

// Annotation is the full annotation of one item.
type Annotation struct {
	ItemId  int       `json:"itemId"`
	Size    Size      `json:"size"`
	Figures []Figure  `json:"figures"`
	Tags    []ItemTag `json:"tags"`
}

func (a Annotation) Equal(o Annotation) bool {
	return a.ItemId == o.ItemId &&
		a.Size == o.Size &&
		cmp.SliceContentEqWith(a.Figures, o.Figures, Figure.Equal) &&
		cmp.SliceContentEq(a.Tags, o.Tags)
}

func jsonEq(a, b json.RawMessage) bool {
	if a == nil || b == nil {
		return bytes.Equal(a, b)
	}
	ca := new(bytes.Buffer)
	if err := json.Compact(ca, a); err != nil {
		return false
	}
	cb := new(bytes.Buffer)
	if err := json.Compact(cb, b); err != nil {
		return false
	}
	return bytes.Equal(ca.Bytes(), cb.Bytes())
}
