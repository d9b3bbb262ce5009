// Package catalog holds the static table of known mods and the mission
// header fields they contribute to the server configuration. A catalog
// entry describes its fields as a recursive tree: a node carrying a
// "type" key is a leaf descriptor (with an optional "default" value), any
// other object node is a group to recurse into.
package catalog

import (
	_ "embed"
	"encoding/json"
	"reflect"
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/reforgerctl/reforgerctl/doc"
)

//go:embed modconfigs.json
var catalogJSON []byte

const workshopPrefix = "workshop/"

// ModConfig is one catalog entry: a mod-ID prefix and the mission header
// field schema that mod understands.
type ModConfig struct {
	ModIDPrefix string
	DisplayName string
	fields      gjson.Result
}

// Catalog is the ordered set of known mod configurations. Declaration
// order is significant: when several prefixes match a mod ID, the first
// entry wins.
type Catalog struct {
	entries []ModConfig
}

// Load parses the embedded catalog.
func Load() *Catalog {
	c, err := Parse(catalogJSON)
	if err != nil {
		panic(err)
	}
	return c
}

// Parse builds a catalog from raw JSON of the form {"mods": [...]}.
func Parse(raw []byte) (*Catalog, error) {
	if !gjson.ValidBytes(raw) {
		return nil, errors.New("catalog data is not valid JSON")
	}
	mods := gjson.GetBytes(raw, "mods")
	if !mods.IsArray() {
		return nil, errors.New("catalog data has no mods array")
	}

	c := &Catalog{}
	var parseErr error
	mods.ForEach(func(_, entry gjson.Result) bool {
		prefix := entry.Get("modIdPrefix").String()
		if prefix == "" {
			parseErr = errors.New("catalog entry is missing modIdPrefix")
			return false
		}
		c.entries = append(c.entries, ModConfig{
			ModIDPrefix: prefix,
			DisplayName: entry.Get("displayName").String(),
			fields:      entry.Get("missionHeaderFields"),
		})
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return c, nil
}

// Find returns the first catalog entry whose prefix matches modID, or nil
// when the mod is unknown.
func (c *Catalog) Find(modID string) *ModConfig {
	for i := range c.entries {
		if c.entries[i].Matches(modID) {
			return &c.entries[i]
		}
	}
	return nil
}

// Has reports whether a catalog entry matches modID.
func (c *Catalog) Has(modID string) bool {
	return c.Find(modID) != nil
}

// DisplayName returns the catalog display name for modID, or an empty
// string when unknown.
func (c *Catalog) DisplayName(modID string) string {
	if m := c.Find(modID); m != nil {
		return m.DisplayName
	}
	return ""
}

// Matches strips an optional workshop/ prefix from modID and checks it
// against the entry's prefix.
func (m *ModConfig) Matches(modID string) bool {
	return strings.HasPrefix(strings.TrimPrefix(modID, workshopPrefix), m.ModIDPrefix)
}

// Fields returns the raw mission header field schema of the entry.
func (m *ModConfig) Fields() json.RawMessage {
	return json.RawMessage(m.fields.Raw)
}

// DefaultConfig extracts the entry's default values as a nested map.
// Branches that yield no defaults are omitted entirely.
func (m *ModConfig) DefaultConfig() map[string]interface{} {
	return extractDefaults(m.fields)
}

func extractDefaults(fields gjson.Result) map[string]interface{} {
	out := make(map[string]interface{})
	fields.ForEach(func(key, value gjson.Result) bool {
		if !value.IsObject() {
			return true
		}
		if def := value.Get("default"); def.Exists() {
			out[key.String()] = def.Value()
			return true
		}
		if value.Get("type").Exists() {
			// leaf without a default contributes nothing
			return true
		}
		if nested := extractDefaults(value); len(nested) > 0 {
			out[key.String()] = nested
		}
		return true
	})
	return out
}

// MergeInto deep-merges the entry's defaults into the object at base
// inside d. Existing values always win: a default is written only when
// the key is entirely absent at that path, and never beneath a
// non-object value the user has set.
func (m *ModConfig) MergeInto(d doc.Document, base string) (doc.Document, error) {
	return mergeFields(d, base, m.fields)
}

func mergeFields(d doc.Document, base string, fields gjson.Result) (doc.Document, error) {
	var err error
	fields.ForEach(func(key, value gjson.Result) bool {
		if !value.IsObject() {
			return true
		}
		path := base + "." + doc.EscapeSegment(key.String())
		if def := value.Get("default"); def.Exists() {
			var ok bool
			if ok, err = settable(d, path); err != nil || !ok {
				return err == nil
			}
			d, err = d.SetRaw(path, json.RawMessage(def.Raw))
			return err == nil
		}
		if value.Get("type").Exists() {
			return true
		}
		// group: recurse only while nothing non-object blocks the path
		if r := d.Get(path); r.Exists() && !r.IsObject() {
			return true
		}
		d, err = mergeFields(d, path, value)
		return err == nil
	})
	if err != nil {
		return doc.Document{}, err
	}
	return d, nil
}

// settable reports whether path is absent and every existing ancestor on
// the way down is an object.
func settable(d doc.Document, path string) (bool, error) {
	if d.Get(path).Exists() {
		return false, nil
	}
	segments := strings.Split(path, ".")
	for i := 1; i < len(segments); i++ {
		prefix := strings.Join(segments[:i], ".")
		r := d.Get(prefix)
		if !r.Exists() {
			return true, nil
		}
		if !r.IsObject() {
			return false, nil
		}
	}
	return true, nil
}

// MergeMissionHeader folds the defaults of every catalog-matched mod in
// modIDs, in order, into the document's mission header. Later mods can
// only add fields still absent after earlier merges. The document is
// returned unchanged when no mod matches. Implements doc.Merger.
func (c *Catalog) MergeMissionHeader(d doc.Document, modIDs []string) (doc.Document, error) {
	var err error
	for _, id := range modIDs {
		m := c.Find(id)
		if m == nil {
			continue
		}
		if d, err = m.MergeInto(d, doc.MissionHeaderPath); err != nil {
			return doc.Document{}, errors.Wrapf(err, "failed to merge defaults for mod %s", id)
		}
	}
	return d, nil
}

// Clean removes this mod's contribution from the object at base inside
// d: a leaf is deleted only when its current value still deep-equals the
// mod's default, and a group is deleted only when it ends up empty. Values
// the user changed, and fields the mod does not own, are left alone.
func (m *ModConfig) Clean(d doc.Document, base string) (doc.Document, error) {
	return cleanFields(d, base, m.fields)
}

func cleanFields(d doc.Document, base string, fields gjson.Result) (doc.Document, error) {
	var err error
	fields.ForEach(func(key, value gjson.Result) bool {
		if !value.IsObject() {
			return true
		}
		path := base + "." + doc.EscapeSegment(key.String())
		if def := value.Get("default"); def.Exists() {
			cur := d.Get(path)
			if cur.Exists() && jsonEqual(cur, def) {
				d, err = d.Delete(path)
			}
			return err == nil
		}
		if value.Get("type").Exists() {
			return true
		}
		cur := d.Get(path)
		if !cur.IsObject() {
			return true
		}
		if d, err = cleanFields(d, path, value); err != nil {
			return false
		}
		if r := d.Get(path); r.IsObject() && len(r.Map()) == 0 {
			d, err = d.Delete(path)
		}
		return err == nil
	})
	if err != nil {
		return doc.Document{}, err
	}
	return d, nil
}

func jsonEqual(a, b gjson.Result) bool {
	var av, bv interface{}
	if err := json.Unmarshal([]byte(a.Raw), &av); err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(b.Raw), &bv); err != nil {
		return false
	}
	return reflect.DeepEqual(av, bv)
}
