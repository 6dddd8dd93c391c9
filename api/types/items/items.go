package items

import (
	"github.com/framehubio/framehub/api/types/misc/rfctime"
	"github.com/framehubio/framehub/api/types/tags"
	"github.com/framehubio/framehub/pkg/cmp"
)

// Image is metadata of an image item.
//
// Hash is the platform content hash (base64 of sha256); items sharing a
// Hash share stored content. Link is set for items registered by remote
// URL instead of uploaded content.
type Image struct {
	Id        int             `json:"id"`
	DatasetId int             `json:"datasetId"`
	Name      string          `json:"name"`
	Hash      string          `json:"hash,omitempty"`
	Ext       string          `json:"ext,omitempty"`
	Size      int64           `json:"size,omitempty"`
	Width     int             `json:"width,omitempty"`
	Height    int             `json:"height,omitempty"`
	Link      string          `json:"link,omitempty"`
	UpdatedAt rfctime.RFC3339 `json:"updatedAt"`
	Tags      []tags.Tag      `json:"tags"`
}

func (i Image) Equal(o Image) bool {
	return i.Id == o.Id &&
		i.DatasetId == o.DatasetId &&
		i.Name == o.Name &&
		i.Hash == o.Hash &&
		i.Ext == o.Ext &&
		i.Size == o.Size &&
		i.Width == o.Width &&
		i.Height == o.Height &&
		i.Link == o.Link &&
		i.UpdatedAt.Equal(o.UpdatedAt) &&
		cmp.SliceContentEqWith(i.Tags, o.Tags, tags.Tag.Equal)
}

// Video is metadata of a video item.
type Video struct {
	Id          int             `json:"id"`
	DatasetId   int             `json:"datasetId"`
	Name        string          `json:"name"`
	Hash        string          `json:"hash,omitempty"`
	Size        int64           `json:"size,omitempty"`
	FramesCount int             `json:"framesCount,omitempty"`
	FrameWidth  int             `json:"frameWidth,omitempty"`
	FrameHeight int             `json:"frameHeight,omitempty"`
	Duration    float64         `json:"duration,omitempty"` // seconds
	Link        string          `json:"link,omitempty"`
	UpdatedAt   rfctime.RFC3339 `json:"updatedAt"`
	Tags        []tags.Tag      `json:"tags"`
}

func (v Video) Equal(o Video) bool {
	return v.Id == o.Id &&
		v.DatasetId == o.DatasetId &&
		v.Name == o.Name &&
		v.Hash == o.Hash &&
		v.Size == o.Size &&
		v.FramesCount == o.FramesCount &&
		v.FrameWidth == o.FrameWidth &&
		v.FrameHeight == o.FrameHeight &&
		v.Duration == o.Duration &&
		v.Link == o.Link &&
		v.UpdatedAt.Equal(o.UpdatedAt) &&
		cmp.SliceContentEqWith(v.Tags, o.Tags, tags.Tag.Equal)
}

// HashRef registers an item pointing at already-uploaded content.
type HashRef struct {
	Name string         `json:"name"`
	Hash string         `json:"hash"`
	Tags []tags.UserTag `json:"tags,omitempty"`
}

// LinkRef registers an item pointing at a remote URL.
type LinkRef struct {
	Name string         `json:"name"`
	Link string         `json:"link"`
	Tags []tags.UserTag `json:"tags,omitempty"`
}
