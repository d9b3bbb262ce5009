package editor

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/reforgerctl/reforgerctl/doc"
	"github.com/reforgerctl/reforgerctl/types"
)

const editorFixture = `{
	"bindAddress": "0.0.0.0",
	"bindPort": 2001,
	"publicAddress": "0.0.0.0",
	"publicPort": 2001,
	"rcon": {"address": "0.0.0.0", "port": 19999, "password": "x", "maxClients": 10, "permission": "admin"},
	"a2s": {"address": "0.0.0.0", "port": 17777},
	"game": {
		"name": "Fixture",
		"password": "",
		"passwordAdmin": "secret",
		"scenarioId": "{ECC61978EDCC2B5A}Missions/23_Campaign.conf",
		"maxPlayers": 32,
		"gameProperties": {
			"serverMaxViewDistance": 1600,
			"serverMinGrassDistance": 50,
			"networkViewDistance": 1500
		}
	}
}`

// memStore keeps snapshots in memory and counts writes.
type memStore struct {
	snap  *types.Snapshot
	saves int
}

func (s *memStore) Load() (*types.Snapshot, error) { return s.snap, nil }

func (s *memStore) Save(snap types.Snapshot) error {
	s.snap = &snap
	s.saves++
	return nil
}

func TestNew_Defaults(t *testing.T) {
	e := New()
	assert.True(t, e.Document().Equal(doc.Default()))
	assert.Equal(t, doc.DefaultKeyOrder(), e.KeyOrder())
	assert.Empty(t, e.Mods())
}

func TestNew_RestoresSnapshot(t *testing.T) {
	first := New(WithStore(&memStore{}))
	assert.NoError(t, first.ImportJSON([]byte(editorFixture)))

	store := &memStore{}
	assert.NoError(t, store.Save(first.Snapshot()))

	second := New(WithStore(store))
	assert.True(t, second.Document().Equal(first.Document()))
	assert.Equal(t, first.KeyOrder(), second.KeyOrder())
}

func TestNew_FailsOpenOnBadSnapshot(t *testing.T) {
	store := &memStore{snap: &types.Snapshot{Config: json.RawMessage(`{"broken": true}`)}}
	e := New(WithStore(store))
	assert.True(t, e.Document().Equal(doc.Default()))
}

func TestEditor_UpdateNotifiesAndPersists(t *testing.T) {
	store := &memStore{}
	e := New(WithStore(store))
	sub := e.Subscribe()

	assert.NoError(t, e.Update("game.name", "renamed"))
	assert.Equal(t, "renamed", e.Document().Get("game.name").String())
	assert.Equal(t, 1, store.saves)

	select {
	case <-sub:
	default:
		t.Fatal("expected a change notification")
	}
}

func TestEditor_ToggleRconRestoresKeyOrder(t *testing.T) {
	e := New()
	assert.NoError(t, e.ImportJSON([]byte(editorFixture)))

	original := e.Document().Keys()
	assert.Equal(t, "rcon", original[4])

	assert.NoError(t, e.ToggleRcon(false))
	assert.False(t, e.Document().Has("rcon"))
	assert.NotContains(t, e.KeyOrder(), "rcon")

	assert.NoError(t, e.ToggleRcon(true))
	assert.Equal(t, original, e.Document().Keys())
}

func TestEditor_ImportJSONRejectsInvalid(t *testing.T) {
	e := New()
	before := e.Document().Raw()

	assert.Error(t, e.ImportJSON([]byte(`{"bindPort": "wat"`)))
	assert.Error(t, e.ImportJSON([]byte(`{"bindPort": 2001}`)))

	// nothing committed on failure
	assert.Equal(t, before, e.Document().Raw())
}

func TestEditor_ExportReset(t *testing.T) {
	e := New()
	assert.NoError(t, e.ImportJSON([]byte(editorFixture)))

	out, err := e.ExportJSON()
	assert.NoError(t, err)
	assert.True(t, doc.MustFromJSON(out).Equal(e.Document()))

	e.Reset()
	assert.True(t, e.Document().Equal(doc.Default()))
	assert.Empty(t, e.Mods())
	assert.Equal(t, doc.DefaultKeyOrder(), e.KeyOrder())
}

func TestEditor_RemoveModCleansCatalogDefaults(t *testing.T) {
	e := New()
	assert.NoError(t, e.ImportModsList([]types.Mod{types.NewMod("5965550F24A0C152", "Server Admin Tools")}))

	// the built-in catalog contributed its mission header defaults
	header := doc.MissionHeaderPath
	assert.Equal(t, int64(5), e.Document().Get(header+".SAT_AutoKickThreshold").Int())

	// a field the user changed must survive removal
	assert.NoError(t, e.Update(header+".SAT_ChatCommandPrefix", "/"))

	assert.NoError(t, e.RemoveMod("5965550F24A0C152"))
	assert.Empty(t, e.Mods())
	assert.False(t, e.Document().Has(header+".SAT_AutoKickThreshold"))
	assert.False(t, e.Document().Has(header+".SAT_VoteKick"))
	assert.Equal(t, "/", e.Document().Get(header+".SAT_ChatCommandPrefix").String())
}

func TestEditor_ReorderMods(t *testing.T) {
	e := New()
	mods := []types.Mod{
		types.NewMod("A", "Alpha"),
		types.NewMod("B", "Beta"),
		types.NewMod("C", "Gamma"),
	}
	assert.NoError(t, e.ImportModsList(mods))

	assert.NoError(t, e.ReorderMods(0, 2))
	ids := modIDs(e.Mods())
	assert.Equal(t, []string{"B", "C", "A"}, ids)

	assert.NoError(t, e.ReorderMods(2, 0))
	assert.Equal(t, []string{"A", "B", "C"}, modIDs(e.Mods()))

	assert.NoError(t, e.ReorderMods(1, 1))
	assert.Error(t, e.ReorderMods(0, 3))
	assert.Error(t, e.ReorderMods(-1, 0))

	// the document's mod list follows the load order
	raw := e.Document().Get("game.mods.#.modId")
	assert.Equal(t, `["A","B","C"]`, raw.Raw)
}

func TestFileStore_RoundTrip(t *testing.T) {
	store := &FileStore{Path: filepath.Join(t.TempDir(), "state.json")}

	// no snapshot yet
	snap, err := store.Load()
	assert.NoError(t, err)
	assert.Nil(t, snap)

	want := types.Snapshot{
		Config:               json.RawMessage(`{"bindPort":2001}`),
		EnabledMods:          []types.Mod{types.NewMod("A", "Alpha")},
		KeyOrder:             []string{"bindPort"},
		OriginalKeyPositions: map[string]int{"bindPort": 0},
	}
	assert.NoError(t, store.Save(want))

	got, err := store.Load()
	assert.NoError(t, err)
	assert.Equal(t, want.EnabledMods, got.EnabledMods)
	assert.Equal(t, want.KeyOrder, got.KeyOrder)
	assert.Equal(t, want.OriginalKeyPositions, got.OriginalKeyPositions)
}

func modIDs(mods []types.Mod) []string {
	out := make([]string, len(mods))
	for i, m := range mods {
		out[i] = m.ModID
	}
	return out
}
