// Package messages maps rule engine outcomes to the copy shown to players.
// The engine only returns kinds; wording lives here so front ends share it.
package messages

import (
	"fmt"

	"github.com/robalobadob/wordscramble/internal/game"
)

// Alert is a title/message pair for display.
type Alert struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Empty reports whether there is nothing to show.
func (a Alert) Empty() bool { return a.Title == "" && a.Message == "" }

// For returns the alert for kind. root is the session's root word and is
// only used where the copy mentions it. Accepted and NoOp yield an empty Alert.
//
// NotPossible and NotAWord carry their own titles ("not possible" vs "not
// recognized"); earlier versions of the game showed them the other way round.
func For(kind game.Kind, root string) Alert {
	if !kind.Rejected() {
		return Alert{}
	}
	switch kind {
	case game.TooShort:
		return Alert{"Word too short", fmt.Sprintf("Words should be at least %d letters long", game.MinLength)}
	case game.SameAsRoot:
		return Alert{"Same as root word!", "That is not allowed!"}
	case game.AlreadyUsed:
		return Alert{"Word used already", "Be more original"}
	case game.NotPossible:
		if root == "" {
			return Alert{"Word not possible", "You can't just make them up, you know!"}
		}
		return Alert{"Word not possible", fmt.Sprintf("You can't spell that word from '%s'!", root)}
	case game.NotAWord:
		return Alert{"Word not recognized", "That isn't a real word."}
	}
	return Alert{}
}
