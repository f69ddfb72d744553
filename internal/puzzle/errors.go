package puzzle

import "errors"

var (
	ErrIllegalMove   = errors.New("illegal move")
	ErrInvalidLayout = errors.New("invalid board layout")

	// Configuration errors, rejected before generation starts.
	ErrInvalidSize     = errors.New("board size must be at least 1")
	ErrInvalidFoxCount = errors.New("fox count must be between 0 and size*size-1")

	// ErrInconsistentTestimony means statement assignment did not leave every
	// tile valid. It indicates a generator defect; the board is discarded.
	ErrInconsistentTestimony = errors.New("testimony assignment left invalid statements")
)
