// internal/engine/engine.go
package engine

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mtran/switchstack/internal/models"
)

// Roster supplies room membership for game creation. Room returns nil when
// the room does not exist.
type Roster interface {
	Room(ctx context.Context, roomID uuid.UUID) (*models.Room, error)
	SetStatus(ctx context.Context, roomID uuid.UUID, status models.RoomStatus) error
}

// Persister durably saves committed game snapshots. The engine is the
// in-memory authority; save failures are logged, never rolled back.
type Persister interface {
	SaveGameState(ctx context.Context, snap *GameState) error
}

// MoveSink receives the append-only move log. Writes are fire-and-forget
// relative to game-state correctness.
type MoveSink interface {
	RecordMove(ctx context.Context, rec models.MoveRecord) error
}

// Config wires the engine's collaborators. Store and Moves may be nil, in
// which case snapshots and move records are simply not emitted.
type Config struct {
	Logger *logrus.Logger
	Rooms  Roster
	Store  Persister
	Moves  MoveSink

	// Rand drives shuffles. Defaults to a time-seeded source; tests inject
	// a deterministic one.
	Rand *rand.Rand
}

// Engine runs every active game. Each game's mutex is the per-room
// serialization boundary: a move holds it for the full
// validate-mutate-persist span, so concurrent moves against one room are
// strictly ordered while rooms stay independent of each other.
type Engine struct {
	log    *logrus.Logger
	rooms  Roster
	store  Persister
	moves  MoveSink
	moveCh chan models.MoveRecord
	games  *GameStore

	rngMu sync.Mutex
	rng   *rand.Rand

	startMu sync.Mutex
}

func New(cfg Config) *Engine {
	log := cfg.Logger
	if log == nil {
		log = logrus.New()
	}
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	e := &Engine{
		log:   log,
		rooms: cfg.Rooms,
		store: cfg.Store,
		moves: cfg.Moves,
		games: NewGameStore(),
		rng:   rng,
	}
	if e.moves != nil {
		e.moveCh = make(chan models.MoveRecord, 256)
		go e.drainMoves()
	}
	return e
}

// shuffle permutes cards using the engine's random source. Draws from
// different rooms can reshuffle concurrently, so the source is guarded.
func (e *Engine) shuffle(cards []models.Card) {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	Shuffle(cards, e.rng)
}

// StartGame transitions a waiting room into play: build deck, shuffle, deal,
// seed the discard pile, and fix the player order. The transition is atomic;
// callers only ever observe the game already in the playing phase. Starting
// a room that already has an unfinished game returns that game's snapshot.
func (e *Engine) StartGame(ctx context.Context, roomID uuid.UUID) (*GameState, error) {
	room, err := e.rooms.Room(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("fetch room %s: %w", roomID, err)
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}

	minPlayers := room.MinPlayers
	if minPlayers < 2 {
		minPlayers = 2
	}
	if len(room.PlayerIDs) < minPlayers {
		return nil, ErrInsufficientPlayers
	}

	e.startMu.Lock()
	defer e.startMu.Unlock()

	if existing := e.games.GetGameByRoomID(roomID); existing != nil {
		snap := existing.Snapshot()
		if snap.Phase != PhaseFinished {
			e.log.Warnf("start requested for room %s with game %s already in progress", roomID, snap.ID)
			return snap, nil
		}
	}

	deck := NewDeck()
	e.shuffle(deck)

	g := &GameState{
		ID:          uuid.New(),
		RoomID:      roomID,
		Phase:       PhaseDealing,
		PlayerOrder: append([]uuid.UUID(nil), room.PlayerIDs...),
		Direction:   1,
		CreatedAt:   time.Now(),
	}

	hands, seed, drawPile, err := deal(deck, g.PlayerOrder)
	if err != nil {
		return nil, err
	}
	g.PlayerHands = hands
	g.DiscardPile = []models.Card{seed}
	g.DrawPile = drawPile
	g.CurrentPlayerID = g.PlayerOrder[0]
	g.AttackStack = 0
	g.TurnCount = 1
	g.Phase = PhasePlaying

	e.games.AddGame(g)

	if err := e.rooms.SetStatus(ctx, roomID, models.RoomStatusInProgress); err != nil {
		e.log.Warnf("failed to mark room %s in progress: %v", roomID, err)
	}

	snap := g.Snapshot()
	e.persist(ctx, snap)
	e.log.Infof("game %s started in room %s with %d players", g.ID, roomID, len(g.PlayerOrder))
	return snap, nil
}

// PlayCard validates and applies one card play, returning the committed
// snapshot. Validation failures leave the game untouched.
func (e *Engine) PlayCard(ctx context.Context, gameID, playerID uuid.UUID, cardID string) (*GameState, error) {
	g, ok := e.games.GetGame(gameID)
	if !ok {
		return nil, ErrGameNotFound
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.Phase == PhaseFinished {
		return nil, ErrGameAlreadyFinished
	}
	if g.CurrentPlayerID != playerID {
		return nil, ErrNotYourTurn
	}

	hand := g.handOf(playerID)
	if hand == nil {
		return nil, ErrCardNotInHand
	}
	idx := -1
	for i, c := range hand.Cards {
		if c.ID == cardID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrCardNotInHand
	}

	card := hand.Cards[idx]
	if !CanPlay(card, g.TopDiscard(), g.AttackStack) {
		return nil, ErrInvalidPlay
	}

	hand.Cards = append(hand.Cards[:idx], hand.Cards[idx+1:]...)
	hand.CardsCount = len(hand.Cards)
	g.DiscardPile = append(g.DiscardPile, card)

	applyEffects(g, card)

	turnPlayed := g.TurnCount
	if hand.CardsCount == 0 {
		winner := playerID
		g.WinnerID = &winner
		g.Phase = PhaseFinished
	} else {
		g.advanceTurn()
	}
	g.TurnCount++

	snap := g.snapshot()
	e.persist(ctx, snap)
	e.record(models.MoveRecord{
		RoomID:   g.RoomID,
		PlayerID: playerID,
		MoveType: models.MovePlayCard,
		Payload: map[string]interface{}{
			"cardId": card.ID,
			"suit":   string(card.Suit),
			"rank":   string(card.Rank),
		},
		TurnNumber: turnPlayed,
		CreatedAt:  time.Now(),
	})

	if g.Phase == PhaseFinished {
		e.log.Infof("game %s finished, winner %s", g.ID, playerID)
		if err := e.rooms.SetStatus(ctx, g.RoomID, models.RoomStatusFinished); err != nil {
			e.log.Warnf("failed to mark room %s finished: %v", g.RoomID, err)
		}
	}
	return snap, nil
}

// DrawCard resolves a voluntary or forced draw: max(1, attackStack) cards,
// reshuffling the discard pile under the retained top card whenever the draw
// pile runs out. Drawing always resets the attack stack and consumes the
// turn.
func (e *Engine) DrawCard(ctx context.Context, gameID, playerID uuid.UUID) (*GameState, error) {
	g, ok := e.games.GetGame(gameID)
	if !ok {
		return nil, ErrGameNotFound
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.Phase == PhaseFinished {
		return nil, ErrGameAlreadyFinished
	}
	if g.CurrentPlayerID != playerID {
		return nil, ErrNotYourTurn
	}
	hand := g.handOf(playerID)
	if hand == nil {
		return nil, ErrCardNotInHand
	}

	amount := g.AttackStack
	if amount < 1 {
		amount = 1
	}

	for i := 0; i < amount; i++ {
		if len(g.DrawPile) == 0 {
			if err := e.reshuffle(g); err != nil {
				e.log.Errorf("game %s: %v", g.ID, err)
				return nil, err
			}
		}
		card := g.DrawPile[0]
		g.DrawPile = g.DrawPile[1:]
		hand.Cards = append(hand.Cards, card)
		hand.CardsCount = len(hand.Cards)
	}

	g.AttackStack = 0
	turnPlayed := g.TurnCount
	g.advanceTurn()
	g.TurnCount++

	snap := g.snapshot()
	e.persist(ctx, snap)
	e.record(models.MoveRecord{
		RoomID:     g.RoomID,
		PlayerID:   playerID,
		MoveType:   models.MoveDrawCard,
		Payload:    map[string]interface{}{"cardsDrawn": amount},
		TurnNumber: turnPlayed,
		CreatedAt:  time.Now(),
	})
	return snap, nil
}

// reshuffle recycles the discard pile into a fresh draw pile, retaining only
// the current top discard. With one full 54-card set in circulation this can
// only fail if a card went missing, so failure is an integrity fault, not a
// retryable condition.
func (e *Engine) reshuffle(g *GameState) error {
	if len(g.DiscardPile) <= 1 {
		return fmt.Errorf("reshuffle with %d discard and 0 draw cards: %w",
			len(g.DiscardPile), ErrDeckExhausted)
	}
	top := g.DiscardPile[len(g.DiscardPile)-1]
	rest := append([]models.Card(nil), g.DiscardPile[:len(g.DiscardPile)-1]...)
	e.shuffle(rest)
	g.DrawPile = rest
	g.DiscardPile = []models.Card{top}
	e.log.Debugf("game %s: reshuffled %d discards into draw pile", g.ID, len(rest))
	return nil
}

// GetGameState returns the committed snapshot of a room's current game, or
// nil when the room has none.
func (e *Engine) GetGameState(roomID uuid.UUID) *GameState {
	g := e.games.GetGameByRoomID(roomID)
	if g == nil {
		return nil
	}
	return g.Snapshot()
}

// GetGame looks up a game snapshot by game id.
func (e *Engine) GetGame(gameID uuid.UUID) (*GameState, bool) {
	g, ok := e.games.GetGame(gameID)
	if !ok {
		return nil, false
	}
	return g.Snapshot(), true
}

// persist saves a committed snapshot. The engine stays authoritative in
// memory, so a failed save is logged and the move stands.
func (e *Engine) persist(ctx context.Context, snap *GameState) {
	if e.store == nil {
		return
	}
	if err := e.store.SaveGameState(ctx, snap); err != nil {
		e.log.Errorf("failed to persist game %s: %v", snap.ID, err)
	}
}

// record appends to the move log. The enqueue happens while the game lock is
// held, so records enter the channel in acceptance order; the single drainer
// preserves that order at the sink. The send never blocks a move: a full
// backlog drops the record with a warning.
func (e *Engine) record(rec models.MoveRecord) {
	if e.moves == nil {
		return
	}
	select {
	case e.moveCh <- rec:
	default:
		e.log.Warnf("move log backlog full, dropping %s record for room %s", rec.MoveType, rec.RoomID)
	}
}

// drainMoves is the sole consumer of the move-log channel. History is
// diagnostic, so a failed write is logged and never rolls back the move that
// produced it.
func (e *Engine) drainMoves() {
	for rec := range e.moveCh {
		if err := e.moves.RecordMove(context.Background(), rec); err != nil {
			e.log.Warnf("failed to record %s move for room %s: %v", rec.MoveType, rec.RoomID, err)
		}
	}
}
