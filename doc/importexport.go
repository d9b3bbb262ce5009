package doc

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/reforgerctl/reforgerctl/types"
)

// Merger folds mod-contributed mission header defaults into the document.
// The mod config catalog implements it; Import accepts the interface so
// the document layer stays free of catalog knowledge.
type Merger interface {
	MergeMissionHeader(d Document, modIDs []string) (Document, error)
}

// ImportResult is a successfully imported configuration together with the
// bookkeeping needed to reproduce the original file's key order on export.
type ImportResult struct {
	Config               Document
	EnabledMods          []types.Mod
	KeyOrder             []string
	OriginalKeyPositions map[string]int
}

// Import parses raw JSON text into a validated configuration. Malformed
// input fails with ErrParse; a document that fails schema validation after
// normalisation fails with a ValidationError carrying the first issue, and
// nothing of the parse is kept. The key order snapshot is taken from the
// raw document before normalisation so it reflects the file as written.
func Import(raw []byte, merger Merger) (*ImportResult, error) {
	d, err := FromJSON(raw)
	if err != nil {
		return nil, err
	}

	keyOrder := d.Keys()
	positions := make(map[string]int, len(keyOrder))
	for i, k := range keyOrder {
		positions[k] = i
	}

	if d, err = d.Normalize(); err != nil {
		return nil, errors.Wrap(err, "failed to normalise imported config")
	}

	if merger != nil {
		var ids []string
		d.Get("game.mods").ForEach(func(_, m gjson.Result) bool {
			ids = append(ids, m.Get("modId").String())
			return true
		})
		if d, err = merger.MergeMissionHeader(d, ids); err != nil {
			return nil, errors.Wrap(err, "failed to merge mod mission header defaults")
		}
	}

	if err = d.Validate(); err != nil {
		return nil, err
	}

	var mods []types.Mod
	if r := d.Get("game.mods"); r.IsArray() {
		if err = json.Unmarshal([]byte(r.Raw), &mods); err != nil {
			return nil, errors.Wrap(err, "failed to decode mods list")
		}
	}

	return &ImportResult{
		Config:               d,
		EnabledMods:          mods,
		KeyOrder:             keyOrder,
		OriginalKeyPositions: positions,
	}, nil
}

// Export validates the document and renders it as pretty-printed JSON in
// its stored key order. A document that fails validation is refused.
func (d Document) Export() ([]byte, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	var out bytes.Buffer
	if err := json.Indent(&out, d.raw, "", "  "); err != nil {
		return nil, errors.Wrap(err, "failed to render config")
	}
	return out.Bytes(), nil
}
