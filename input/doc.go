// Package input provides the sources of key presses that drive players:
// Synthetic presses random slots on behalf of computer players, Keyboard
// reads the terminal and dispatches keys to human players.
package input
