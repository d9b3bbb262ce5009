package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/reforgerctl/reforgerctl/doc"
)

const testCatalog = `{
	"mods": [
		{
			"modIdPrefix": "AAA",
			"displayName": "First Match",
			"missionHeaderFields": {
				"X_Threshold": {"type": "number", "default": 5},
				"X_Prefix": {"type": "string", "default": "!"},
				"X_NoDefault": {"type": "string", "label": "free text"},
				"X_Group": {
					"X_Enabled": {"type": "boolean", "default": true},
					"X_Ratio": {"type": "number", "default": 0.6}
				},
				"X_EmptyGroup": {
					"X_Unset": {"type": "string"}
				}
			}
		},
		{
			"modIdPrefix": "AAAB",
			"displayName": "Shadowed",
			"missionHeaderFields": {
				"Y_Value": {"type": "number", "default": 1}
			}
		}
	]
}`

func mustParse(t *testing.T) *Catalog {
	t.Helper()
	c, err := Parse([]byte(testCatalog))
	assert.NoError(t, err)
	return c
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte(`not json`))
	assert.Error(t, err)
	_, err = Parse([]byte(`{"mods": {}}`))
	assert.Error(t, err)
	_, err = Parse([]byte(`{"mods": [{"displayName": "no prefix"}]}`))
	assert.Error(t, err)
}

func TestCatalog_Find(t *testing.T) {
	c := mustParse(t)

	tests := []struct {
		name  string
		modID string
		want  string
	}{
		{"exact prefix", "AAA", "First Match"},
		{"prefix with suffix", "AAA123456", "First Match"},
		{"workshop path prefix", "workshop/AAA123456", "First Match"},
		{"first entry wins on overlap", "AAAB999", "First Match"},
		{"unknown", "ZZZ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := c.Find(tt.modID)
			if tt.want == "" {
				assert.Nil(t, m)
				assert.False(t, c.Has(tt.modID))
				return
			}
			assert.NotNil(t, m)
			assert.Equal(t, tt.want, m.DisplayName)
			assert.Equal(t, tt.want, c.DisplayName(tt.modID))
		})
	}
}

func TestModConfig_DefaultConfig(t *testing.T) {
	c := mustParse(t)
	defaults := c.Find("AAA").DefaultConfig()

	assert.Equal(t, map[string]interface{}{
		"X_Threshold": float64(5),
		"X_Prefix":    "!",
		"X_Group": map[string]interface{}{
			"X_Enabled": true,
			"X_Ratio":   0.6,
		},
	}, defaults)

	// leaves without defaults and branches that yield nothing are omitted
	assert.NotContains(t, defaults, "X_NoDefault")
	assert.NotContains(t, defaults, "X_EmptyGroup")
}

func TestModConfig_MergeInto(t *testing.T) {
	c := mustParse(t)
	m := c.Find("AAA")

	t.Run("fills absent keys only", func(t *testing.T) {
		d := doc.MustFromJSON([]byte(`{"header":{"X_Threshold":99,"X_Group":{"X_Ratio":0.9}}}`))
		out, err := m.MergeInto(d, "header")
		assert.NoError(t, err)

		// user values always win
		assert.Equal(t, int64(99), out.Get("header.X_Threshold").Int())
		assert.Equal(t, 0.9, out.Get("header.X_Group.X_Ratio").Float())

		// absent siblings are filled in
		assert.Equal(t, "!", out.Get("header.X_Prefix").String())
		assert.True(t, out.Get("header.X_Group.X_Enabled").Bool())
	})

	t.Run("never replaces a scalar with a group", func(t *testing.T) {
		d := doc.MustFromJSON([]byte(`{"header":{"X_Group":"user wrote a string"}}`))
		out, err := m.MergeInto(d, "header")
		assert.NoError(t, err)
		assert.Equal(t, "user wrote a string", out.Get("header.X_Group").String())
	})
}

func TestCatalog_MergeMissionHeader(t *testing.T) {
	c := mustParse(t)
	d := doc.MustFromJSON([]byte(`{"game":{"gameProperties":{"missionHeader":{}}}}`))

	out, err := c.MergeMissionHeader(d, []string{"unknown", "AAA123"})
	assert.NoError(t, err)
	assert.Equal(t, int64(5), out.Get(doc.MissionHeaderPath+".X_Threshold").Int())

	// no matching mod leaves the document unchanged
	same, err := c.MergeMissionHeader(d, []string{"unknown"})
	assert.NoError(t, err)
	assert.Equal(t, d.Raw(), same.Raw())
}

func TestModConfig_Clean(t *testing.T) {
	c := mustParse(t)
	m := c.Find("AAA")

	d := doc.MustFromJSON([]byte(`{"header":{
		"X_Threshold": 5,
		"X_Prefix": "/custom",
		"X_Group": {"X_Enabled": true, "X_Ratio": 0.6},
		"UserField": 1
	}}`))

	out, err := m.Clean(d, "header")
	assert.NoError(t, err)

	// default-exact values are removed, and the emptied group with them
	assert.False(t, out.Has("header.X_Threshold"))
	assert.False(t, out.Has("header.X_Group"))

	// changed values and foreign fields survive
	assert.Equal(t, "/custom", out.Get("header.X_Prefix").String())
	assert.Equal(t, int64(1), out.Get("header.UserField").Int())
}

func TestLoad_BuiltinCatalog(t *testing.T) {
	c := Load()
	assert.True(t, c.Has("5965550F24A0C152"))
	assert.True(t, c.Has("workshop/591AF5BDA9F7CE8B"))
	assert.Equal(t, "Advanced Casualty Care", c.DisplayName("59651E0DAFA687C8"))
}
