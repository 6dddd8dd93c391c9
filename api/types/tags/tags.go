package tags

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/framehubio/framehub/api/types/misc/rfctime"
	"github.com/framehubio/framehub/pkg/cmp"
	"gopkg.in/yaml.v3"
)

// Tags under SystemTagPrefix are put by the platform, not by users.
//
// - KeyItemId carries the id the platform assigned to an item; its
// value is the decimal id.
//
// - KeyTimestamp carries when the item was registered; its value is an
// RFC3339 timestamp.
const (
	SystemTagPrefix string = "fh#"
	KeyItemId       string = SystemTagPrefix + "id"
	KeyTimestamp    string = SystemTagPrefix + "timestamp"
)

// Tag is a key:value pair put on projects and items.
//
// Keys under the "fh#" namespace are reserved for the platform.
type Tag struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (t Tag) String() string {
	return t.Key + ":" + t.Value
}

func (a Tag) Equal(b Tag) bool {
	if a.Key != b.Key {
		return false
	}

	if a.Key != KeyTimestamp {
		return a.Value == b.Value
	}

	vA, errA := rfctime.ParseRFC3339DateTime(a.Value)
	vB, errB := rfctime.ParseRFC3339DateTime(b.Value)

	return (errA == nil) && (errB == nil) &&
		vA.Equiv(vB)
}

// parse string value as Tag
//
// # Args
//
// - string: "KEY:VALUE" formatted string. If not, it returns error.
func (t *Tag) Parse(s string) error {
	k, v, ok := strings.Cut(s, ":")
	if !ok {
		return fmt.Errorf("tag parse error: %s :no key", s)
	}

	k = strings.TrimSpace(k)
	v = strings.TrimSpace(v)

	switch k {
	case KeyTimestamp:
		_, err := rfctime.ParseRFC3339DateTime(v)
		if err != nil {
			return fmt.Errorf("tag parse error: %s is not timestamp", s)
		}
	case KeyItemId:
		if _, err := strconv.Atoi(v); err != nil {
			return fmt.Errorf("tag parse error: %s is not an item id", s)
		}
	}
	t.Key = k
	t.Value = v

	return nil
}

// UserTag is a Tag out of the system namespace.
type UserTag Tag

func (t Tag) AsUserTag(ut *UserTag) bool {
	if strings.HasPrefix(t.Key, SystemTagPrefix) {
		return false
	}
	*ut = UserTag(t)
	return true
}

func (t *Tag) UnmarshalJSON(data []byte) error {
	{
		s := new(string)
		if err := json.Unmarshal(data, s); err == nil {
			return t.Parse(*s)
		}
	}

	var dat map[string]interface{}
	if err := json.Unmarshal(data, &dat); err != nil {
		return errors.New(`failed to parse Tag`)
	}

	return t.unmarshal(dat)
}

func (t *Tag) UnmarshalYAML(n *yaml.Node) error {
	{
		s := new(string)
		if err := n.Decode(s); err == nil {
			return t.Parse(*s)
		}
	}

	var dat map[string]interface{}
	if err := n.Decode(&dat); err != nil {
		return errors.New(`failed to parse Tag`)
	}
	return t.unmarshal(dat)
}

func (t Tag) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

func (t Tag) MarshalYAML() (interface{}, error) {
	n := yaml.Node{
		Kind:  yaml.ScalarNode,
		Value: t.String(),
		Style: yaml.DoubleQuotedStyle,
	}
	return n, nil
}

func (t *Tag) unmarshal(dat map[string]interface{}) error {
	if dat == nil {
		return errors.New("tag is nil")
	}

	bkey, ok := dat["key"]
	if !ok || bkey == nil {
		return errors.New(`field "key" is missing`)
	}
	key, ok := bkey.(string)
	if !ok {
		return errors.New(`field "key"'s value is invalid`)
	}
	t.Key = key

	bvalue, ok := dat["value"]
	if !ok || bvalue == nil {
		return errors.New(`field "value" is missing`)
	}
	value, ok := bvalue.(string)
	if !ok {
		return errors.New(`field "value"'s value is invalid`)
	}
	t.Value = value

	return nil
}

// parse string value as UserTag
//
// # Args
//
// - string: "KEY:VALUE" formatted string. If not, it returns error.
// If KEY part is started with "fh#", it returns error.
func (ut *UserTag) Parse(s string) error {
	t := &Tag{}
	if err := t.Parse(s); err != nil {
		return err
	}
	if strings.HasPrefix(t.Key, SystemTagPrefix) {
		return fmt.Errorf(`tag key "%s..." is reserved for system tags`, SystemTagPrefix)
	}
	*ut = UserTag(*t)
	return nil
}

func (ut *UserTag) UnmarshalJSON(data []byte) error {
	t := &Tag{}
	if err := t.UnmarshalJSON(data); err != nil {
		return err
	}
	if strings.HasPrefix(t.Key, SystemTagPrefix) {
		return fmt.Errorf(`tag key "%s..." is reserved for system tags`, SystemTagPrefix)
	}
	*ut = UserTag(*t)
	return nil
}

func (ut *UserTag) UnmarshalYAML(n *yaml.Node) error {
	t := &Tag{}
	if err := t.UnmarshalYAML(n); err != nil {
		return err
	}
	if strings.HasPrefix(t.Key, SystemTagPrefix) {
		return fmt.Errorf(`tag key "%s..." is reserved for system tags`, SystemTagPrefix)
	}
	*ut = UserTag(*t)
	return nil
}

func (u UserTag) String() string {
	return Tag(u).String()
}

func (u UserTag) Equal(o UserTag) bool {
	ut, ot := Tag(u), Tag(o)
	return ut.Equal(ot)
}

// Change is an add/remove tagging request.
type Change struct {
	AddTags    []UserTag `json:"add"`
	RemoveTags []UserTag `json:"remove"`
}

func (c Change) Equal(o Change) bool {
	return cmp.SliceContentEqWith(c.AddTags, o.AddTags, UserTag.Equal) &&
		cmp.SliceContentEqWith(c.RemoveTags, o.RemoveTags, UserTag.Equal)
}
