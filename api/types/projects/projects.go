package projects

import (
	"fmt"

	"github.com/framehubio/framehub/api/types/misc/rfctime"
	"github.com/framehubio/framehub/api/types/tags"
	"github.com/framehubio/framehub/pkg/cmp"
)

// Type tells what kind of items a project holds.
type Type string

const (
	Images Type = "images"
	Videos Type = "videos"
)

func (t Type) Valid() bool {
	switch t {
	case Images, Videos:
		return true
	default:
		return false
	}
}

type Summary struct {
	Id          int             `json:"id"`
	WorkspaceId int             `json:"workspaceId"`
	Name        string          `json:"name"`
	Type        Type            `json:"type"`
	CreatedAt   rfctime.RFC3339 `json:"createdAt"`
}

func (s Summary) Equal(o Summary) bool {
	return s.Id == o.Id &&
		s.WorkspaceId == o.WorkspaceId &&
		s.Name == o.Name &&
		s.Type == o.Type &&
		s.CreatedAt.Equal(o.CreatedAt)
}

type Detail struct {
	Summary
	Description  string     `json:"description,omitempty"`
	Tags         []tags.Tag `json:"tags"`
	DatasetCount int        `json:"datasetCount"`
	ItemCount    int        `json:"itemCount"`
}

func (d Detail) Equal(o Detail) bool {
	return d.Summary.Equal(o.Summary) &&
		d.Description == o.Description &&
		cmp.SliceContentEqWith(d.Tags, o.Tags, tags.Tag.Equal) &&
		d.DatasetCount == o.DatasetCount &&
		d.ItemCount == o.ItemCount
}

// Spec is a request to create a project.
type Spec struct {
	WorkspaceId int            `json:"workspaceId"`
	Name        string         `json:"name"`
	Type        Type           `json:"type"`
	Description string         `json:"description,omitempty"`
	Tags        []tags.UserTag `json:"tags,omitempty"`
}

func (s Spec) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("project name is required")
	}
	if !s.Type.Valid() {
		return fmt.Errorf("unknown project type: %s", s.Type)
	}
	return nil
}

// Shape of an annotation figure.
type Shape string

const (
	Rectangle Shape = "rectangle"
	Polygon   Shape = "polygon"
	Bitmap    Shape = "bitmap"
	Point     Shape = "point"
	Polyline  Shape = "polyline"
	Graph     Shape = "graph"
)

// ObjectClass declares a class of annotated objects in a project.
type ObjectClass struct {
	Name   string `json:"name"`
	Shape  Shape  `json:"shape"`
	Color  string `json:"color,omitempty"` // "#RRGGBB"
	Hotkey string `json:"hotkey,omitempty"`
}

func (c ObjectClass) Equal(o ObjectClass) bool {
	return c == o
}

// ValueType of a tag declared in project meta.
type ValueType string

const (
	NoneValue   ValueType = "none"
	TextValue   ValueType = "text"
	NumberValue ValueType = "number"
	OneofValue  ValueType = "oneof"
)

// TagMeta declares an item/figure tag usable in a project.
type TagMeta struct {
	Name           string    `json:"name"`
	ValueType      ValueType `json:"valueType"`
	PossibleValues []string  `json:"possibleValues,omitempty"`
}

func (tm TagMeta) Equal(o TagMeta) bool {
	return tm.Name == o.Name &&
		tm.ValueType == o.ValueType &&
		cmp.SliceEq(tm.PossibleValues, o.PossibleValues)
}

// Meta is the annotation schema of a project.
type Meta struct {
	Classes  []ObjectClass `json:"classes"`
	TagMetas []TagMeta     `json:"tagMetas"`
}

func (m Meta) Equal(o Meta) bool {
	return cmp.SliceContentEqWith(m.Classes, o.Classes, ObjectClass.Equal) &&
		cmp.SliceContentEqWith(m.TagMetas, o.TagMetas, TagMeta.Equal)
}

// ClassByName finds the class declaration with name.
func (m Meta) ClassByName(name string) (ObjectClass, bool) {
	for _, c := range m.Classes {
		if c.Name == name {
			return c, true
		}
	}
	return ObjectClass{}, false
}
