//go:build !setdebug

package board

const checkInvariants = false
