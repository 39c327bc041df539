package protocol

const (
	// Protocol/transport validation.
	ErrProtoBadRequest = "E_PROTO_BAD_REQUEST"

	// Request layer.
	ErrBadRequest = "E_BAD_REQUEST"
	ErrStale      = "E_STALE"

	// Simulation layer.
	ErrOutOfBounds       = "E_OUT_OF_BOUNDS"
	ErrParse             = "E_PARSE"
	ErrDimensionMismatch = "E_DIMENSION_MISMATCH"
	ErrInsufficientSpace = "E_INSUFFICIENT_SPACE"
	ErrIllegalAction     = "E_ILLEGAL_ACTION"

	ErrInternal = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrProtoBadRequest:   {},
	ErrBadRequest:        {},
	ErrStale:             {},
	ErrOutOfBounds:       {},
	ErrParse:             {},
	ErrDimensionMismatch: {},
	ErrInsufficientSpace: {},
	ErrIllegalAction:     {},
	ErrInternal:          {},
}

func IsKnownCode(code string) bool {
	_, ok := knownCodes[code]
	return ok
}
