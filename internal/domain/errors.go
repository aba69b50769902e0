package domain

import "errors"

var (
	ErrNotPlayersTurn               = errors.New("not player's turn")
	ErrGameNotInProgress            = errors.New("game not in progress")
	ErrCardNotHeld                  = errors.New("card not held")
	ErrIndexOutOfRange              = errors.New("card index out of range")
	ErrUnknownCard                  = errors.New("unknown card")
	ErrUnknownSuit                  = errors.New("unknown suit")
	ErrMissingDeclaredSuit          = errors.New("eight played without a declared suit")
	ErrInvalidPlayers               = errors.New("invalid players")
	ErrUnknownPlayer                = errors.New("player not in game")
	ErrIllegalPlay                  = errors.New("card does not match suit or rank")
	ErrNoLegalMoveAndNoDrawPossible = errors.New("no legal move and no card to draw")
	ErrCorruptSession               = errors.New("corrupt game session")
)
