package doc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTemplates(t *testing.T) {
	templates := Templates()
	assert.Equal(t, []string{"conflict-everon", "combat-ops-arland"},
		[]string{templates[0].Name, templates[1].Name})

	// every bundled template must survive a full import
	for _, tpl := range templates {
		result, err := Import(tpl.Raw, nil)
		assert.NoError(t, err, tpl.Name)
		assert.NotEmpty(t, result.Config.Get("game.name").String(), tpl.Name)
	}
}

func TestTemplateByName(t *testing.T) {
	assert.NotNil(t, TemplateByName("conflict-everon"))
	assert.Nil(t, TemplateByName("nope"))
}
