// internal/engine/effects.go
package engine

import "github.com/mtran/switchstack/internal/models"

// effects maps each effect rank to the state transformation it applies. The
// table runs exactly once per accepted play, after the card reaches the
// discard pile and before the normal turn advancement.
var effects = map[models.Rank]func(*GameState){
	models.RankTwo:   func(s *GameState) { s.AttackStack += 2 },
	models.RankThree: func(s *GameState) { s.AttackStack += 3 },
	models.RankJoker: func(s *GameState) { s.AttackStack += 5 },

	// Eight skips the next player: one extra advance here plus the normal
	// one at end of turn.
	models.RankEight: func(s *GameState) { s.advanceTurn() },

	models.RankKing: func(s *GameState) { s.Direction = -s.Direction },

	// Aces are wild on play; no further effect.
}

// applyEffects resolves the played card's side effect, if any.
func applyEffects(s *GameState, card models.Card) {
	if fn, ok := effects[card.Rank]; ok {
		fn(s)
	}
}
