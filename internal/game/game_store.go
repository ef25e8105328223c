// internal/game/game_store.go
package game

import (
	"sync"

	"github.com/google/uuid"
)

// GameStore keeps every live session in memory and maps player tokens to their game.
// Entries are never evicted on their own; callers delete games they no longer serve.
type GameStore struct {
	mu     sync.Mutex
	games  map[uuid.UUID]*Game
	tokens map[uuid.UUID]uuid.UUID
	order  []uuid.UUID
}

func NewGameStore() *GameStore {
	return &GameStore{
		games:  make(map[uuid.UUID]*Game),
		tokens: make(map[uuid.UUID]uuid.UUID),
	}
}

func (s *GameStore) AddGame(game *Game) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.games[game.ID]; !exists {
		s.order = append(s.order, game.ID)
	}
	s.games[game.ID] = game
}

func (s *GameStore) GetGame(id uuid.UUID) (*Game, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, exists := s.games[id]
	return g, exists
}

// DeleteGame removes the game and every token bound to it.
func (s *GameStore) DeleteGame(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, id)
	for token, gid := range s.tokens {
		if gid == id {
			delete(s.tokens, token)
		}
	}
	for i, gid := range s.order {
		if gid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// BindToken records that token belongs to a player of game id.
func (s *GameStore) BindToken(token, id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = id
}

func (s *GameStore) UnbindToken(token uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
}

// GameForToken returns the game a player token belongs to.
func (s *GameStore) GameForToken(token uuid.UUID) (*Game, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.tokens[token]
	if !ok {
		return nil, false
	}
	g, ok := s.games[id]
	return g, ok
}

// FirstPublic returns the oldest public game still waiting for players.
func (s *GameStore) FirstPublic() (*Game, bool) {
	s.mu.Lock()
	candidates := make([]*Game, 0, len(s.order))
	for _, id := range s.order {
		candidates = append(candidates, s.games[id])
	}
	s.mu.Unlock()

	for _, g := range candidates {
		if g.Visibility == VisibilityPublic && g.CurrentStatus() == StatusAwaiting && g.PlayerCount() < MaxPlayers {
			return g, true
		}
	}
	return nil, false
}

// Len is the number of stored games.
func (s *GameStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.games)
}
