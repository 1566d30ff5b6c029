package game

import "context"

// MoveProvider supplies the computer's column for an encoded board.
type MoveProvider interface {
	GetComputerMove(ctx context.Context, encodedBoard string) (int, error)
}

// MoveProviderFunc adapts a function to MoveProvider.
type MoveProviderFunc func(ctx context.Context, encodedBoard string) (int, error)

func (f MoveProviderFunc) GetComputerMove(ctx context.Context, encodedBoard string) (int, error) {
	return f(ctx, encodedBoard)
}
