package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/talentmatrix/internal/fetch"
	"github.com/jonathan/talentmatrix/internal/gateway"
	"github.com/jonathan/talentmatrix/internal/store"
	"github.com/jonathan/talentmatrix/internal/types"
)

// NotLoggedInMessage is returned by every dashboard route while no session is stored.
const NotLoggedInMessage = "not logged in; run `talentmatrix login`"

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validation *types.ValidationError
		conflict   *gateway.ConflictError
		auth       *store.AuthError
		gwErr      *gateway.Error
		fetchErr   *fetch.Error
	)
	switch {
	case errors.Is(err, store.ErrNotLoggedIn):
		return http.StatusUnauthorized
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &conflict):
		return http.StatusConflict
	case errors.As(err, &auth):
		return http.StatusUnauthorized
	case errors.As(err, &gwErr):
		if gwErr.StatusCode == http.StatusNotFound {
			return http.StatusNotFound
		}
		return http.StatusBadGateway
	case errors.As(err, &fetchErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ErrorMessage returns the text placed in the "error" field for err.
func ErrorMessage(err error) string {
	var auth *store.AuthError
	switch {
	case errors.Is(err, store.ErrNotLoggedIn):
		return NotLoggedInMessage
	case errors.As(err, &auth):
		return auth.Message
	}
	return gateway.Message(err)
}
