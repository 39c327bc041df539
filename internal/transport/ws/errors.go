package ws

import (
	"errors"

	"gardeners.ai/internal/protocol"
	"gardeners.ai/internal/sim/garden"
)

// errorCode maps simulation errors onto wire error codes.
func errorCode(err error) string {
	var (
		oob       *garden.OutOfBoundsError
		parse     *garden.ParseError
		dimension *garden.DimensionMismatchError
		space     *garden.InsufficientSpaceError
		illegal   *garden.IllegalActionError
	)
	switch {
	case errors.As(err, &oob):
		return protocol.ErrOutOfBounds
	case errors.As(err, &parse):
		return protocol.ErrParse
	case errors.As(err, &dimension):
		return protocol.ErrDimensionMismatch
	case errors.As(err, &space):
		return protocol.ErrInsufficientSpace
	case errors.As(err, &illegal):
		return protocol.ErrIllegalAction
	}
	return protocol.ErrBadRequest
}
