package config

import "time"

// Config holds all game configuration.
type Config struct {
	Game    GameConfig    `mapstructure:"game" validate:"required"`
	Players PlayersConfig `mapstructure:"players" validate:"required"`
	Display DisplayConfig `mapstructure:"display" validate:"required"`
	Log     LogConfig     `mapstructure:"log" validate:"required"`
}

// GameConfig contains the rules and timings of a game.
type GameConfig struct {
	DeckSize           int           `mapstructure:"deck_size" validate:"gte=3,lte=81"`
	TableSize          int           `mapstructure:"table_size" validate:"gte=3,ltefield=DeckSize"`
	TurnTimeout        time.Duration `mapstructure:"turn_timeout" validate:"gt=0"`
	TurnTimeoutWarning time.Duration `mapstructure:"turn_timeout_warning" validate:"gte=0,ltfield=TurnTimeout"`
	PointFreeze        time.Duration `mapstructure:"point_freeze" validate:"gte=0"`
	PenaltyFreeze      time.Duration `mapstructure:"penalty_freeze" validate:"gte=0"`
	// TableDelay slows down every card placement and removal.
	TableDelay time.Duration `mapstructure:"table_delay" validate:"gte=0"`
	Hints      bool          `mapstructure:"hints"`
}

// PlayersConfig describes who plays.
type PlayersConfig struct {
	Human    int `mapstructure:"human" validate:"gte=0,lte=2"`
	Computer int `mapstructure:"computer" validate:"gte=0,lte=8"`
	// PressInterval paces the computer players' presses.
	PressInterval time.Duration `mapstructure:"press_interval" validate:"gt=0"`
}

// Total is the number of seated players.
func (p PlayersConfig) Total() int {
	return p.Human + p.Computer
}

type DisplayConfig struct {
	Tick time.Duration `mapstructure:"tick" validate:"gt=0"`
	// Terminal enables the pterm board renderer.
	Terminal bool `mapstructure:"terminal"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	// File receives the log instead of stderr when set.
	File string `mapstructure:"file"`
}
