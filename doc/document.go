package doc

import (
	"encoding/json"
	"reflect"
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// MissionHeaderPath is the location of the mission header bag inside the
// config document.
const MissionHeaderPath = "game.gameProperties.missionHeader"

// Document is a server configuration in its encoded JSON form.
type Document struct {
	raw []byte
}

// FromJSON wraps raw JSON text as a Document. The text must be a valid
// JSON object; anything else fails with ErrParse.
func FromJSON(raw []byte) (Document, error) {
	if !gjson.ValidBytes(raw) {
		return Document{}, errors.Wrap(ErrParse, "malformed JSON")
	}
	if !gjson.ParseBytes(raw).IsObject() {
		return Document{}, errors.Wrap(ErrParse, "top-level value is not an object")
	}
	return Document{raw: append([]byte(nil), raw...)}, nil
}

// MustFromJSON is FromJSON for statically known documents.
func MustFromJSON(raw []byte) Document {
	d, err := FromJSON(raw)
	if err != nil {
		panic(err)
	}
	return d
}

// Raw returns a copy of the encoded document.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

func (d Document) String() string {
	return string(d.raw)
}

// Get resolves a gjson dot-path against the document.
func (d Document) Get(path string) gjson.Result {
	return gjson.GetBytes(d.raw, path)
}

// Has reports whether a value exists at path.
func (d Document) Has(path string) bool {
	return d.Get(path).Exists()
}

// Keys returns the top-level key names in document order.
func (d Document) Keys() []string {
	var keys []string
	gjson.ParseBytes(d.raw).ForEach(func(key, _ gjson.Result) bool {
		keys = append(keys, key.String())
		return true
	})
	return keys
}

// KeysAt returns the key names of the object at path in document order,
// or nil if path does not resolve to an object.
func (d Document) KeysAt(path string) []string {
	r := d.Get(path)
	if !r.IsObject() {
		return nil
	}
	var keys []string
	r.ForEach(func(key, _ gjson.Result) bool {
		keys = append(keys, key.String())
		return true
	})
	return keys
}

// SetValue writes a Go value at path, creating intermediate objects as
// needed. Callers that require the path to already exist use SetByPath.
func (d Document) SetValue(path string, value interface{}) (Document, error) {
	out, err := sjson.SetBytes(d.raw, path, value)
	if err != nil {
		return Document{}, errors.Wrapf(err, "failed to set %q", path)
	}
	return Document{raw: out}, nil
}

// SetRaw writes an encoded JSON value at path, creating intermediate
// objects as needed.
func (d Document) SetRaw(path string, raw json.RawMessage) (Document, error) {
	out, err := sjson.SetRawBytes(d.raw, path, raw)
	if err != nil {
		return Document{}, errors.Wrapf(err, "failed to set %q", path)
	}
	return Document{raw: out}, nil
}

// Delete removes the value at path. Deleting an absent path is a no-op.
func (d Document) Delete(path string) (Document, error) {
	out, err := sjson.DeleteBytes(d.raw, path)
	if err != nil {
		return Document{}, errors.Wrapf(err, "failed to delete %q", path)
	}
	return Document{raw: out}, nil
}

// Equal reports whether two documents hold the same values, ignoring key
// order and whitespace.
func (d Document) Equal(o Document) bool {
	var a, b interface{}
	if err := json.Unmarshal(d.raw, &a); err != nil {
		return false
	}
	if err := json.Unmarshal(o.raw, &b); err != nil {
		return false
	}
	return reflect.DeepEqual(a, b)
}

// EscapeSegment escapes a single key name for use inside a gjson/sjson
// dot-path.
func EscapeSegment(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `.`, `\.`, `*`, `\*`, `?`, `\?`, `|`, `\|`)
	return r.Replace(s)
}

// JoinPath builds a dot-path from literal key names.
func JoinPath(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = EscapeSegment(s)
	}
	return strings.Join(escaped, ".")
}
