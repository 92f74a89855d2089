// internal/engine/deck.go
package engine

import (
	"fmt"
	"math/rand"

	"github.com/mtran/switchstack/internal/models"
)

// DeckSize is the full card count: 4 suits x 13 ranks plus 2 jokers.
const DeckSize = 54

var suits = []models.Suit{
	models.SuitHearts, models.SuitDiamonds, models.SuitSpades, models.SuitFlowers,
}

var ranks = []models.Rank{
	models.RankAce, models.RankTwo, models.RankThree, models.RankFour,
	models.RankFive, models.RankSix, models.RankSeven, models.RankEight,
	models.RankNine, models.RankTen, models.RankJack, models.RankQueen,
	models.RankKing,
}

// NewDeck builds the full 54-card set in a fixed deterministic order: all
// ranks of hearts, diamonds, spades, flowers, then the two jokers.
func NewDeck() []models.Card {
	deck := make([]models.Card, 0, DeckSize)
	for _, suit := range suits {
		for _, rank := range ranks {
			deck = append(deck, models.Card{
				ID:   fmt.Sprintf("%s-%s", suit, rank),
				Suit: suit,
				Rank: rank,
			})
		}
	}
	deck = append(deck,
		models.Card{ID: "joker-1", Suit: models.SuitHearts, Rank: models.RankJoker},
		models.Card{ID: "joker-2", Suit: models.SuitSpades, Rank: models.RankJoker},
	)
	return deck
}

// Shuffle permutes cards in place with a Fisher-Yates pass over the given
// source. The caller owns the source; tests inject a seeded one.
func Shuffle(cards []models.Card, r *rand.Rand) {
	r.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
}
