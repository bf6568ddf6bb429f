package router

import (
	"errors"
	"fmt"

	"github.com/partydeck/mafia-server/internal/model"
)

// Stable error codes carried on the wire alongside the human-readable
// reason
const (
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeForbidden      = "FORBIDDEN"
	CodeNotFound       = "NOT_FOUND"
	CodeConflict       = "CONFLICT"
	CodeBanned         = "BANNED"
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeInternalError  = "INTERNAL_ERROR"
)

// wireError pairs an error with its wire code
type wireError struct {
	code    string
	message string
}

func (e *wireError) Error() string {
	return e.message
}

func errMalformed(cause error) error {
	return &wireError{CodeInvalidRequest, "malformed payload: " + cause.Error()}
}

func errMissingField(field string) error {
	return &wireError{CodeInvalidRequest, fmt.Sprintf("missing required field %q", field)}
}

func errUnknownType(t model.MessageType) error {
	return &wireError{CodeInvalidRequest, fmt.Sprintf("unknown message type %q", t)}
}

// toWirePayload maps a handler error to the error frame sent to the
// client
func toWirePayload(err error) model.ErrorPayload {
	var we *wireError
	if errors.As(err, &we) {
		return model.ErrorPayload{Code: we.code, Message: we.message}
	}

	code := CodeInternalError
	switch {
	case errors.Is(err, model.ErrUnauthorized):
		code = CodeUnauthorized
	case errors.Is(err, model.ErrForbidden):
		code = CodeForbidden
	case errors.Is(err, model.ErrBanned):
		code = CodeBanned
	case errors.Is(err, model.ErrRoomNotFound),
		errors.Is(err, model.ErrPlayerNotFound),
		errors.Is(err, model.ErrNotInRoom):
		code = CodeNotFound
	case errors.Is(err, model.ErrRoomFull),
		errors.Is(err, model.ErrAlreadyInRoom),
		errors.Is(err, model.ErrGameAlreadyStarted),
		errors.Is(err, model.ErrGameNotStarted),
		errors.Is(err, model.ErrNotEnoughPlayers),
		errors.Is(err, model.ErrInvalidRoomConfig):
		code = CodeConflict
	}

	return model.ErrorPayload{Code: code, Message: err.Error()}
}
