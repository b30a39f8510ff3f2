// Package config loads the game settings from defaults, an optional config
// file and SET_* environment variables, and validates them.
//
// Nested keys map to environment variables by upper-casing and replacing
// dots with underscores: game.turn_timeout is SET_GAME_TURN_TIMEOUT.
// Durations use Go duration syntax ("60s", "750ms").
package config
