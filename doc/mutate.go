package doc

import (
	"strings"

	"github.com/pkg/errors"
)

// SetByPath applies value at a dot-separated path. Every segment except
// the last must already exist and resolve to an object; a violation fails
// with ErrPathTraversal. The final segment may be a new key on the parent
// object.
func (d Document) SetByPath(path string, value interface{}) (Document, error) {
	if path == "" {
		return Document{}, errors.Wrap(ErrPathTraversal, "empty path")
	}
	segments := strings.Split(path, ".")
	for i := range segments[:len(segments)-1] {
		prefix := strings.Join(segments[:i+1], ".")
		r := d.Get(prefix)
		if !r.Exists() {
			return Document{}, errors.Wrapf(ErrPathTraversal, "segment %q does not exist", prefix)
		}
		if !r.IsObject() {
			return Document{}, errors.Wrapf(ErrPathTraversal, "segment %q is not an object", prefix)
		}
	}
	return d.SetValue(path, value)
}

// Update is the entry point for field-level edits. It funnels through
// SetByPath and recomputes derived fields: changing game.crossPlatform
// rewrites game.supportedPlatforms to match.
func (d Document) Update(path string, value interface{}) (Document, error) {
	if path == "game.crossPlatform" {
		cross := truthy(value)
		out, err := d.SetByPath(path, cross)
		if err != nil {
			return Document{}, err
		}
		return out.SetByPath("game.supportedPlatforms", SupportedPlatforms(cross))
	}
	return d.SetByPath(path, value)
}

// SupportedPlatforms derives the platform list from the cross-platform
// flag.
func SupportedPlatforms(crossPlatform bool) []string {
	if crossPlatform {
		return []string{"PLATFORM_PC", "PLATFORM_XBL", "PLATFORM_PSN"}
	}
	return []string{"PLATFORM_PC"}
}

func truthy(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case int:
		return x != 0
	case int64:
		return x != 0
	case float64:
		return x != 0
	default:
		return true
	}
}
