package doc

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

// missionHeaderBaseline is injected whenever the mission header section is
// enabled without a previous value.
var missionHeaderBaseline = json.RawMessage(`{"m_iPlayerCount":40,"m_eEditableGameFlags":6,"m_eDefaultGameFlags":6}`)

// sectionDefaults are the fallback values for top-level optional sections
// toggled on without a caller-supplied default.
var sectionDefaults = map[string]json.RawMessage{
	"rcon": json.RawMessage(`{"address":"0.0.0.0","port":19999,"password":"","maxClients":10,"permission":"admin"}`),
}

// ToggleSection enables or disables an optional top-level section.
// Enabling an already-present section leaves its value untouched; enabling
// an absent one injects def, or the built-in fallback when def is nil.
// Disabling deletes the key entirely.
func (d Document) ToggleSection(key string, enabled bool, def json.RawMessage) (Document, error) {
	path := EscapeSegment(key)
	if !enabled {
		return d.Delete(path)
	}
	if d.Has(path) {
		return d, nil
	}
	if def == nil {
		def = sectionDefaults[key]
	}
	if def == nil {
		return Document{}, errors.Errorf("no default value known for section %q", key)
	}
	return d.SetRaw(path, def)
}

// ToggleGameProperty applies the same on/off semantics one level deeper,
// under the game section. An absent default injects an empty array, which
// is what both optional game properties (admins, disableNavmeshStreaming
// lives under operating but follows the same shape) start out as.
func (d Document) ToggleGameProperty(key string, enabled bool, def json.RawMessage) (Document, error) {
	path := "game." + EscapeSegment(key)
	if !enabled {
		return d.Delete(path)
	}
	if d.Has(path) {
		return d, nil
	}
	if def == nil {
		def = json.RawMessage(`[]`)
	}
	return d.SetRaw(path, def)
}

// ToggleOperatingProperty is ToggleGameProperty for the operating section.
func (d Document) ToggleOperatingProperty(key string, enabled bool, def json.RawMessage) (Document, error) {
	path := "operating." + EscapeSegment(key)
	if !enabled {
		return d.Delete(path)
	}
	if d.Has(path) {
		return d, nil
	}
	if def == nil {
		def = json.RawMessage(`[]`)
	}
	return d.SetRaw(path, def)
}

// ToggleMissionHeader enables or disables the mission header section with
// its fixed baseline default.
func (d Document) ToggleMissionHeader(enabled bool) (Document, error) {
	if !enabled {
		return d.Delete(MissionHeaderPath)
	}
	if d.Has(MissionHeaderPath) {
		return d, nil
	}
	return d.SetRaw(MissionHeaderPath, missionHeaderBaseline)
}

// RebuildWithKeyOrder inserts key into keyOrder at originalPos (appended
// when the index is out of bounds, pass a negative value when the original
// position is unknown) and rebuilds the document so its top-level keys
// follow the resulting order, with any keys not in the order trailing in
// document order. Returns the rebuilt document and the new order.
func (d Document) RebuildWithKeyOrder(keyOrder []string, key string, originalPos int) (Document, []string, error) {
	nextOrder := append([]string(nil), keyOrder...)
	if !containsKey(nextOrder, key) {
		if originalPos >= 0 && originalPos <= len(nextOrder) {
			nextOrder = append(nextOrder[:originalPos], append([]string{key}, nextOrder[originalPos:]...)...)
		} else {
			nextOrder = append(nextOrder, key)
		}
	}

	var buf bytes.Buffer
	buf.WriteByte('{')

	used := make(map[string]bool)
	first := true
	writePair := func(k, raw string) error {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		name, err := json.Marshal(k)
		if err != nil {
			return err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.WriteString(raw)
		return nil
	}

	for _, k := range nextOrder {
		if used[k] {
			continue
		}
		if r := d.Get(EscapeSegment(k)); r.Exists() {
			if err := writePair(k, r.Raw); err != nil {
				return Document{}, nil, errors.Wrap(err, "failed to rebuild document")
			}
			used[k] = true
		}
	}
	for _, k := range d.Keys() {
		if used[k] {
			continue
		}
		if err := writePair(k, d.Get(EscapeSegment(k)).Raw); err != nil {
			return Document{}, nil, errors.Wrap(err, "failed to rebuild document")
		}
		used[k] = true
	}
	buf.WriteByte('}')

	return Document{raw: buf.Bytes()}, nextOrder, nil
}

func containsKey(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}
