package roles

import (
	"log/slog"

	"github.com/partydeck/mafia-server/internal/dependencies/random"
	"github.com/partydeck/mafia-server/internal/model"
)

// MinAssignablePlayers is the smallest roster the engine accepts. Below
// two players even the fully degraded deal (one mafia, one sheriff)
// exceeds the roster.
const MinAssignablePlayers = 2

// Engine computes role assignments for game starts. It holds no shared
// state; randomness is injected so placement is testable.
type Engine struct {
	random random.Random
	logger *slog.Logger
}

// NewEngine creates a role assignment Engine
func NewEngine(rnd random.Random, logger *slog.Logger) *Engine {
	return &Engine{
		random: rnd,
		logger: logger.With(slog.String("component", "roles")),
	}
}

// counts holds how many of each special role a deal contains
type counts struct {
	mafia  int
	doctor int
	maniac int
	lover  int
}

func (c counts) total() int {
	// Sheriff is always dealt exactly once
	return c.mafia + 1 + c.doctor + c.maniac + c.lover
}

// Assign deals roles to the roster. Every player receives exactly one
// role; special roles are placed uniformly at random and the rest of
// the roster becomes civilians. The returned map is a bijection onto
// the roster's nicknames.
//
// Rosters with fewer than MinAssignablePlayers are rejected with
// ErrNotEnoughPlayers.
func (e *Engine) Assign(players []model.Player, requested []model.RoleKind) (model.RoleAssignment, error) {
	n := len(players)
	if n < MinAssignablePlayers {
		return nil, model.ErrNotEnoughPlayers
	}

	req := make(map[model.RoleKind]bool, len(requested))
	for _, k := range requested {
		req[k] = true
	}

	c := counts{mafia: max(1, n/4)}
	if req[model.RoleDoctor] {
		c.doctor = 1
	}
	if req[model.RoleManiac] {
		c.maniac = 1
	}
	if req[model.RoleLover] {
		c.lover = 2
	}

	// Degrade in fixed priority order until the deal fits the roster:
	// lovers go first, then maniac, then doctor, then mafia is clamped
	// to one. Sheriff is never dropped.
	if c.total() > n {
		c.lover = 0
	}
	if c.total() > n {
		c.maniac = 0
	}
	if c.total() > n {
		c.doctor = 0
	}
	if c.total() > n {
		c.mafia = 1
	}

	deck := make([]model.RoleKind, 0, n)
	for i := 0; i < c.mafia; i++ {
		deck = append(deck, model.RoleMafia)
	}
	deck = append(deck, model.RoleSheriff)
	for i := 0; i < c.doctor; i++ {
		deck = append(deck, model.RoleDoctor)
	}
	for i := 0; i < c.maniac; i++ {
		deck = append(deck, model.RoleManiac)
	}
	for i := 0; i < c.lover; i++ {
		deck = append(deck, model.RoleLover)
	}
	for len(deck) < n {
		deck = append(deck, model.RoleCivilian)
	}

	e.random.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})

	assignment := make(model.RoleAssignment, n)
	for i, p := range players {
		assignment[p.Nickname] = deck[i]
	}

	e.logger.Debug("roles assigned",
		slog.Int("players", n),
		slog.Int("mafia", c.mafia),
		slog.Int("doctor", c.doctor),
		slog.Int("maniac", c.maniac),
		slog.Int("lover", c.lover))

	return assignment, nil
}
