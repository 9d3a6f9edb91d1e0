package effectv1

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAction_Opposes(t *testing.T) {
	assert.True(t, ActionBuy.Opposes(ActionSell))
	assert.True(t, ActionSell.Opposes(ActionBuy))
	assert.False(t, ActionBuy.Opposes(ActionBuy))
	assert.False(t, ActionBuy.Opposes(ActionWait))
	assert.False(t, ActionWait.Opposes(ActionSell))
}
