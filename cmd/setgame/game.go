package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/luca-patrignani/set-game/board"
	"github.com/luca-patrignani/set-game/config"
	"github.com/luca-patrignani/set-game/dealer"
	"github.com/luca-patrignani/set-game/domain/deck"
	"github.com/luca-patrignani/set-game/domain/setrules"
	"github.com/luca-patrignani/set-game/input"
	"github.com/luca-patrignani/set-game/player"
	"github.com/luca-patrignani/set-game/ui"
)

// game is a fully wired game ready to run.
type game struct {
	names    []string
	board    *board.Board
	dealer   *dealer.Dealer
	keyboard *input.Keyboard
	terminal *ui.Terminal
	logger   *slog.Logger
}

func playerNames(cfg config.PlayersConfig) []string {
	var names []string
	for i := range cfg.Human {
		names = append(names, fmt.Sprintf("human %d", i+1))
	}
	for i := range cfg.Computer {
		names = append(names, fmt.Sprintf("computer %d", i+1))
	}
	return names
}

// newGame builds the board, deck, dealer and players described by cfg.
// Humans take the first ids so that they get the default key layouts.
func newGame(cfg *config.Config, logger *slog.Logger) (*game, error) {
	g := &game{names: playerNames(cfg.Players), logger: logger}

	var presenter ui.Presenter = ui.Nop{}
	if cfg.Display.Terminal {
		g.terminal = ui.NewTerminal(cfg.Game.TableSize, g.names, ui.WithCardFormat(setrules.String))
		presenter = g.terminal
	}

	oracle := setrules.Oracle{}
	b := board.New(cfg.Game.TableSize, cfg.Game.DeckSize, cfg.Players.Total(), oracle,
		board.WithPresenter(presenter),
		board.WithDelay(cfg.Game.TableDelay),
		board.WithLogger(logger),
	)
	g.board = b
	dk := deck.New(cfg.Game.DeckSize, deck.NewStreamPicker())
	g.dealer = dealer.New(dealer.Config{
		TurnTimeout:        cfg.Game.TurnTimeout,
		TurnTimeoutWarning: cfg.Game.TurnTimeoutWarning,
		DisplayTick:        cfg.Display.Tick,
		Hints:              cfg.Game.Hints,
	}, b, dk, oracle, dealer.WithPresenter(presenter), dealer.WithLogger(logger))

	keys, err := input.DefaultKeyMap(cfg.Players.Human, cfg.Game.TableSize)
	if err != nil {
		return nil, err
	}
	g.keyboard = input.NewKeyboard(keys,
		input.OnStop(g.dealer.Stop),
		input.WithKeyboardLogger(logger.With("component", "keyboard")),
	)

	players := make([]*player.Player, 0, cfg.Players.Total())
	for id := range cfg.Players.Total() {
		human := id < cfg.Players.Human
		var src player.InputSource
		if human {
			src = g.keyboard.Source(id)
		} else {
			src = input.NewSynthetic(cfg.Game.TableSize,
				input.WithInterval(cfg.Players.PressInterval),
				input.WithSyntheticLogger(logger.With("player", id)),
			)
		}
		players = append(players, player.New(id, human, b, g.dealer,
			player.WithInput(src),
			player.WithPresenter(presenter),
			player.WithLogger(logger.With("player", id)),
			player.WithFreeze(cfg.Game.PointFreeze, cfg.Game.PenaltyFreeze, cfg.Display.Tick),
		))
	}
	g.dealer.Seat(players...)
	return g, nil
}

// run plays the game with the terminal and keyboard attached, then detaches
// them once the dealer returned.
func (g *game) run(ctx context.Context) (dealer.Result, error) {
	auxCtx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup

	if g.terminal != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := g.terminal.Run(auxCtx); err != nil {
				g.logger.Error("terminal stopped", "err", err)
			}
		}()
	}
	if g.hasHumans() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := g.keyboard.Listen(auxCtx); err != nil {
				g.logger.Error("keyboard stopped", "err", err)
			}
		}()
	}

	res, err := g.dealer.Run(ctx)
	cancel()
	wg.Wait()
	return res, err
}

func (g *game) hasHumans() bool {
	for _, p := range g.dealer.Players() {
		if p.Human() {
			return true
		}
	}
	return false
}
