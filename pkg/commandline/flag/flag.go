package flag

import (
	"fmt"
	"strings"

	"github.com/framehubio/framehub/api/types/tags"
	"github.com/framehubio/framehub/pkg/utils/slices"
)

type Argslice []string

func (s *Argslice) String() string {
	return fmt.Sprintf("%v", *s)
}

func (s *Argslice) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// Tags is a repeatable KEY:VALUE flag, system tags included.
type Tags []tags.Tag

func (t *Tags) String() string {
	if t == nil || len(*t) == 0 {
		return ""
	}
	return strings.Join(slices.Map(*t, tags.Tag.String), " ")
}

func (t *Tags) Set(v string) error {
	var tag tags.Tag
	if err := tag.Parse(v); err != nil {
		return err
	}
	*t = append(*t, tag)
	return nil
}

// UserTags is a repeatable KEY:VALUE flag rejecting system tags.
type UserTags []tags.UserTag

func (t *UserTags) String() string {
	if t == nil || len(*t) == 0 {
		return ""
	}
	return strings.Join(slices.Map(*t, tags.UserTag.String), " ")
}

func (t *UserTags) Set(v string) error {
	var tag tags.UserTag
	if err := tag.Parse(v); err != nil {
		return err
	}
	*t = append(*t, tag)
	return nil
}
