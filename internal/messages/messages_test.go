package messages_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/robalobadob/wordscramble/internal/game"
	"github.com/robalobadob/wordscramble/internal/messages"
)

func TestFor(t *testing.T) {
	rejections := []game.Kind{game.TooShort, game.SameAsRoot, game.AlreadyUsed, game.NotPossible, game.NotAWord}
	titles := map[string]bool{}
	for _, k := range rejections {
		a := messages.For(k, "silkworm")
		assert.NotEmpty(t, a.Title, k)
		assert.NotEmpty(t, a.Message, k)
		titles[a.Title] = true
	}
	assert.Len(t, titles, len(rejections), "each rejection has its own title")

	assert.True(t, messages.For(game.Accepted, "silkworm").Empty())
	assert.True(t, messages.For(game.NoOp, "silkworm").Empty())
}

func TestFor_Copy(t *testing.T) {
	assert.Equal(t, messages.Alert{Title: "Word too short", Message: "Words should be at least 3 letters long"},
		messages.For(game.TooShort, ""))
	assert.Contains(t, messages.For(game.NotPossible, "silkworm").Message, "silkworm")
	assert.Equal(t, "You can't just make them up, you know!", messages.For(game.NotPossible, "").Message)
	assert.Equal(t, "Word not recognized", messages.For(game.NotAWord, "").Title)
	assert.Equal(t, "Word not possible", messages.For(game.NotPossible, "silkworm").Title)
}
