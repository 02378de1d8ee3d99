package gateway

import (
	"errors"

	"github.com/mcoot/rpsgame-go/internal/model"
)

// Error codes carried in error frames
const (
	CodeInvalidMove    = "INVALID_MOVE"
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeNotJoined      = "NOT_JOINED"
	CodeEngineFailure  = "ENGINE_FAILURE"
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeInternalError  = "INTERNAL_ERROR"
)

var (
	ErrSessionClosed = errors.New("session closed")
	ErrUnknownAction = errors.New("unknown action")
	ErrMalformed     = errors.New("malformed message")
)

// toErrorPayload maps an action failure to the frame sent to the caller
func toErrorPayload(err error) model.ErrorPayload {
	switch {
	case errors.Is(err, model.ErrInvalidMove):
		return model.ErrorPayload{Code: CodeInvalidMove, Message: model.ErrInvalidMove.Error()}
	case errors.Is(err, model.ErrUnauthenticated):
		return model.ErrorPayload{Code: CodeUnauthorized, Message: model.ErrUnauthenticated.Error()}
	case errors.Is(err, model.ErrNotJoined):
		return model.ErrorPayload{Code: CodeNotJoined, Message: "join before playing"}
	case errors.Is(err, model.ErrEngineFailure):
		return model.ErrorPayload{Code: CodeEngineFailure, Message: "failed to register move"}
	case errors.Is(err, ErrUnknownAction), errors.Is(err, ErrMalformed), errors.Is(err, ErrSessionClosed):
		return model.ErrorPayload{Code: CodeInvalidRequest, Message: err.Error()}
	default:
		return model.ErrorPayload{Code: CodeInternalError, Message: "an internal error occurred"}
	}
}
