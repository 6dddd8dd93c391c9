package tags_test

import (
	"encoding/json"
	"testing"

	"github.com/framehubio/framehub/api/types/tags"
	"gopkg.in/yaml.v3"
)

func TestTagParse(t *testing.T) {
	t.Run("it splits on the first colon and trims spaces", func(t *testing.T) {
		tag := &tags.Tag{}
		if err := tag.Parse(" project : mnist:v2 "); err != nil {
			t.Fatal(err)
		}
		if tag.Key != "project" || tag.Value != "mnist:v2" {
			t.Errorf("unexpected tag: %+v", tag)
		}
	})

	t.Run("it rejects an expression without colon", func(t *testing.T) {
		tag := &tags.Tag{}
		if err := tag.Parse("no-colon-here"); err == nil {
			t.Error("error is expected")
		}
	})

	t.Run("it validates fh#timestamp value", func(t *testing.T) {
		tag := &tags.Tag{}
		if err := tag.Parse(tags.KeyTimestamp + ":2024-10-22T12:00:00+00:00"); err != nil {
			t.Error(err)
		}
		if err := tag.Parse(tags.KeyTimestamp + ":yesterday"); err == nil {
			t.Error("error is expected")
		}
	})

	t.Run("it validates fh#id value", func(t *testing.T) {
		tag := &tags.Tag{}
		if err := tag.Parse(tags.KeyItemId + ":42"); err != nil {
			t.Error(err)
		}
		if err := tag.Parse(tags.KeyItemId + ":the-answer"); err == nil {
			t.Error("error is expected")
		}
	})
}

func TestTagCodec(t *testing.T) {
	t.Run("it marshals to the string form in JSON", func(t *testing.T) {
		buf, err := json.Marshal(tags.Tag{Key: "type", Value: "raw data"})
		if err != nil {
			t.Fatal(err)
		}
		if string(buf) != `"type:raw data"` {
			t.Errorf("unexpected JSON: %s", buf)
		}
	})

	t.Run("it unmarshals both string and object form in JSON", func(t *testing.T) {
		for name, expr := range map[string]string{
			"string form": `"type:raw data"`,
			"object form": `{"key": "type", "value": "raw data"}`,
		} {
			t.Run(name, func(t *testing.T) {
				tag := &tags.Tag{}
				if err := json.Unmarshal([]byte(expr), tag); err != nil {
					t.Fatal(err)
				}
				if tag.Key != "type" || tag.Value != "raw data" {
					t.Errorf("unexpected tag: %+v", tag)
				}
			})
		}
	})

	t.Run("it unmarshals string form in YAML", func(t *testing.T) {
		tag := &tags.Tag{}
		if err := yaml.Unmarshal([]byte(`"format: png"`), tag); err != nil {
			t.Fatal(err)
		}
		if tag.Key != "format" || tag.Value != "png" {
			t.Errorf("unexpected tag: %+v", tag)
		}
	})
}

func TestTagEqual(t *testing.T) {
	t.Run("fh#timestamp tags are equal across timezone representations", func(t *testing.T) {
		a := tags.Tag{Key: tags.KeyTimestamp, Value: "2024-10-22T12:00:00+09:00"}
		b := tags.Tag{Key: tags.KeyTimestamp, Value: "2024-10-22T03:00:00Z"}
		if !a.Equal(b) {
			t.Errorf("%s and %s should be equal", a, b)
		}
	})

	t.Run("other tags are compared verbatim", func(t *testing.T) {
		a := tags.Tag{Key: "phase", Value: "train"}
		b := tags.Tag{Key: "phase", Value: "test"}
		if a.Equal(b) {
			t.Errorf("%s and %s should not be equal", a, b)
		}
	})
}

func TestUserTag(t *testing.T) {
	t.Run("it rejects system tags", func(t *testing.T) {
		ut := &tags.UserTag{}
		if err := ut.Parse(tags.KeyItemId + ":whatever"); err == nil {
			t.Error("error is expected")
		}
	})

	t.Run("AsUserTag filters system tags", func(t *testing.T) {
		ut := &tags.UserTag{}
		if ok := (tags.Tag{Key: tags.KeyItemId, Value: "x"}).AsUserTag(ut); ok {
			t.Error("system tag should not convert")
		}
		if ok := (tags.Tag{Key: "project", Value: "x"}).AsUserTag(ut); !ok {
			t.Error("user tag should convert")
		}
	})
}
