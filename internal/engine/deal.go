// internal/engine/deal.go
package engine

import (
	"github.com/google/uuid"
	"github.com/mtran/switchstack/internal/models"
)

// HandSize is the number of cards dealt to each player at game start.
const HandSize = 7

// deal distributes HandSize cards to each player in order from the deck
// front, pops one more card as the discard seed, and returns the remainder
// as the draw pile. The card budget is checked up front so a short deck can
// never fail mid-deal.
func deal(deck []models.Card, playerOrder []uuid.UUID) (hands []models.PlayerHand, seed models.Card, drawPile []models.Card, err error) {
	need := len(playerOrder)*HandSize + 1
	if need > len(deck) {
		return nil, models.Card{}, nil, ErrInsufficientCards
	}

	hands = make([]models.PlayerHand, 0, len(playerOrder))
	for _, pid := range playerOrder {
		cards := make([]models.Card, HandSize)
		copy(cards, deck[:HandSize])
		deck = deck[HandSize:]
		hands = append(hands, models.PlayerHand{
			PlayerID:   pid,
			Cards:      cards,
			CardsCount: len(cards),
		})
	}

	seed = deck[0]
	drawPile = make([]models.Card, len(deck)-1)
	copy(drawPile, deck[1:])
	return hands, seed, drawPile, nil
}
