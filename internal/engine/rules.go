// internal/engine/rules.go
package engine

import "github.com/mtran/switchstack/internal/models"

// CanPlay decides whether card is legal on top of the current discard given
// the pending attack stack. Turn ownership and hand membership are checked
// by the caller before legality is ever evaluated.
//
// While under attack, any attack card is legal, but so is a plain card that
// matches the top card's suit or rank. The matching card neither pays nor
// grows the penalty; the stack simply carries over to the next player. That
// relaxation is inherited from the original ruleset and kept as-is.
func CanPlay(card models.Card, top *models.Card, attackStack int) bool {
	if top == nil {
		return true
	}

	if attackStack > 0 {
		return card.Rank.IsAttack() || card.Suit == top.Suit || card.Rank == top.Rank
	}

	// Aces are wild.
	if card.Rank == models.RankAce {
		return true
	}

	return card.Suit == top.Suit || card.Rank == top.Rank
}
