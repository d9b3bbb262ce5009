package doc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocument_NormalizeBackfills(t *testing.T) {
	d := MustFromJSON([]byte(`{"game":{"name":"x","gameProperties":{}}}`))

	out, err := d.Normalize()
	assert.NoError(t, err)

	// whole operating section from the defaults
	assert.Equal(t, int64(120), out.Get("operating.playerSaveTime").Int())
	assert.Equal(t, int64(-1), out.Get("operating.aiLimit").Int())

	// game-level booleans and the derived platform list
	assert.True(t, out.Get("game.modsRequiredByDefault").Bool())
	assert.False(t, out.Get("game.crossPlatform").Bool())
	assert.Equal(t, []interface{}{"PLATFORM_PC"}, out.Get("game.supportedPlatforms").Value())

	// missing mods list becomes an empty array
	assert.True(t, out.Get("game.mods").IsArray())

	// empty gameProperties gains the mission header baseline
	assert.Equal(t, int64(40), out.Get(MissionHeaderPath+".m_iPlayerCount").Int())
}

func TestDocument_NormalizeKeepsExistingValues(t *testing.T) {
	d := MustFromJSON([]byte(`{
		"operating": {"playerSaveTime": 999},
		"game": {
			"crossPlatform": true,
			"supportedPlatforms": ["PLATFORM_PC"],
			"gameProperties": {"missionHeader": {"m_iPlayerCount": 8}}
		}
	}`))

	out, err := d.Normalize()
	assert.NoError(t, err)
	assert.Equal(t, int64(999), out.Get("operating.playerSaveTime").Int())
	assert.True(t, out.Get("game.crossPlatform").Bool())
	// an explicit platform list is not rederived
	assert.Equal(t, []interface{}{"PLATFORM_PC"}, out.Get("game.supportedPlatforms").Value())
	// a non-empty mission header is not reset
	assert.Equal(t, int64(8), out.Get(MissionHeaderPath+".m_iPlayerCount").Int())
	assert.False(t, out.Has(MissionHeaderPath+".m_eEditableGameFlags"))
}

func TestDocument_NormalizeVONRenames(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{
			"legacy key renamed",
			`{"game":{"gameProperties":{"vonDisableUI":true}}}`,
			true,
		},
		{
			"canonical wins over legacy",
			`{"game":{"gameProperties":{"VONDisableUI":false,"vonDisableUI":true}}}`,
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := MustFromJSON([]byte(tt.raw)).Normalize()
			assert.NoError(t, err)
			assert.Equal(t, tt.want, out.Get("game.gameProperties.VONDisableUI").Bool())
			assert.False(t, out.Has("game.gameProperties.vonDisableUI"))
		})
	}
}

func TestDocument_NormalizeMods(t *testing.T) {
	d := MustFromJSON([]byte(`{
		"game": {
			"gameProperties": {},
			"mods": [
				{"modId": "AAA", "name": "First"},
				{"modId": "BBB", "name": "Second", "version": "1.2.3", "required": true}
			]
		}
	}`))

	out, err := d.Normalize()
	assert.NoError(t, err)

	mods := out.Get("game.mods").Array()
	assert.Len(t, mods, 2)
	assert.Equal(t, "", mods[0].Get("version").String())
	assert.False(t, mods[0].Get("required").Bool())
	assert.Equal(t, "1.2.3", mods[1].Get("version").String())
	assert.True(t, mods[1].Get("required").Bool())
}

func TestDocument_NormalizeRcon(t *testing.T) {
	tests := []struct {
		name           string
		raw            string
		wantMaxClients int64
		wantPermission string
	}{
		{
			"missing maxClients repaired",
			`{"rcon":{"address":"0.0.0.0","port":19999,"password":"x","permission":"monitor"}}`,
			10, "monitor",
		},
		{
			"invalid permission repaired",
			`{"rcon":{"address":"0.0.0.0","port":19999,"password":"x","maxClients":4,"permission":"root"}}`,
			4, "admin",
		},
		{
			"valid values untouched",
			`{"rcon":{"address":"0.0.0.0","port":19999,"password":"x","maxClients":16,"permission":"admin"}}`,
			16, "admin",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := MustFromJSON([]byte(tt.raw)).Normalize()
			assert.NoError(t, err)
			assert.Equal(t, tt.wantMaxClients, out.Get("rcon.maxClients").Int())
			assert.Equal(t, tt.wantPermission, out.Get("rcon.permission").String())
		})
	}
}
