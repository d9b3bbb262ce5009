package doc

import (
	"encoding/json"

	"github.com/tidwall/gjson"

	"github.com/reforgerctl/reforgerctl/types"
)

// legacy lower-cased spellings of the VON properties, renamed to their
// canonical capitalisation on import. The canonical key wins when both
// are present.
var vonRenames = [][2]string{
	{"vonCanTransmitCrossFaction", "VONCanTransmitCrossFaction"},
	{"vonDisableUI", "VONDisableUI"},
	{"vonDisableDirectSpeechUI", "VONDisableDirectSpeechUI"},
}

var rconPermissions = map[string]bool{"admin": true, "monitor": true}

// Normalize back-fills missing defaults, renames legacy keys and repairs
// out-of-range values on a freshly parsed document, ahead of schema
// validation. It mirrors what a hand-maintained config is most likely to
// be missing rather than rejecting it outright.
func (d Document) Normalize() (Document, error) {
	var err error

	if !d.Has("operating") {
		if d, err = d.SetRaw("operating", json.RawMessage(Default().Get("operating").Raw)); err != nil {
			return Document{}, err
		}
	}

	if d.Get("game").IsObject() {
		if d, err = d.normalizeGame(); err != nil {
			return Document{}, err
		}
	}

	if rcon := d.Get("rcon"); rcon.IsObject() {
		if d, err = d.normalizeRcon(rcon); err != nil {
			return Document{}, err
		}
	}

	return d, nil
}

func (d Document) normalizeGame() (Document, error) {
	var err error

	defaults := Default()

	if !isBool(d.Get("game.modsRequiredByDefault")) {
		if d, err = d.SetValue("game.modsRequiredByDefault", defaults.Get("game.modsRequiredByDefault").Bool()); err != nil {
			return Document{}, err
		}
	}
	if !isBool(d.Get("game.crossPlatform")) {
		if d, err = d.SetValue("game.crossPlatform", defaults.Get("game.crossPlatform").Bool()); err != nil {
			return Document{}, err
		}
	}
	if !d.Has("game.supportedPlatforms") {
		if d, err = d.SetValue("game.supportedPlatforms", SupportedPlatforms(d.Get("game.crossPlatform").Bool())); err != nil {
			return Document{}, err
		}
	}

	if d, err = d.normalizeMods(); err != nil {
		return Document{}, err
	}

	if gp := d.Get("game.gameProperties"); gp.IsObject() {
		if d, err = d.normalizeGameProperties(); err != nil {
			return Document{}, err
		}
	}

	return d, nil
}

func (d Document) normalizeMods() (Document, error) {
	mods := d.Get("game.mods")
	if !mods.Exists() {
		return d.SetRaw("game.mods", json.RawMessage(`[]`))
	}
	if !mods.IsArray() {
		return d, nil
	}

	normalized := []types.Mod{}
	mods.ForEach(func(_, m gjson.Result) bool {
		entry := types.Mod{
			ModID: m.Get("modId").String(),
			Name:  m.Get("name").String(),
		}
		if v := m.Get("version"); v.Type == gjson.String {
			entry.Version = v.String()
		}
		if r := m.Get("required"); isBool(r) {
			entry.Required = r.Bool()
		}
		normalized = append(normalized, entry)
		return true
	})
	return d.SetValue("game.mods", normalized)
}

// normalizeGameProperties renames legacy VON keys and guarantees a
// mission header value.
func (d Document) normalizeGameProperties() (Document, error) {
	var err error

	for _, rename := range vonRenames {
		legacy := "game.gameProperties." + rename[0]
		canonical := "game.gameProperties." + rename[1]
		r := d.Get(legacy)
		if !r.Exists() {
			continue
		}
		if !d.Has(canonical) {
			if d, err = d.SetRaw(canonical, json.RawMessage(r.Raw)); err != nil {
				return Document{}, err
			}
		}
		if d, err = d.Delete(legacy); err != nil {
			return Document{}, err
		}
	}

	mh := d.Get(MissionHeaderPath)
	if !mh.Exists() || (mh.IsObject() && len(mh.Map()) == 0) {
		if d, err = d.SetRaw(MissionHeaderPath, missionHeaderBaseline); err != nil {
			return Document{}, err
		}
	}

	return d, nil
}

func (d Document) normalizeRcon(rcon gjson.Result) (Document, error) {
	var err error

	if rcon.Get("maxClients").Int() == 0 {
		if d, err = d.SetValue("rcon.maxClients", 10); err != nil {
			return Document{}, err
		}
	}
	if p := rcon.Get("permission"); p.Exists() && !rconPermissions[p.String()] {
		if d, err = d.SetValue("rcon.permission", "admin"); err != nil {
			return Document{}, err
		}
	}

	return d, nil
}

func isBool(r gjson.Result) bool {
	return r.Type == gjson.True || r.Type == gjson.False
}
