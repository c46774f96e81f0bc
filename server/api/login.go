package api

import (
	"errors"
	"net/http"

	"github.com/sscalderod/ProyectoFinalLenguajesSM/server/dao"
	"github.com/sscalderod/ProyectoFinalLenguajesSM/server/middle"
	"github.com/sscalderod/ProyectoFinalLenguajesSM/server/result"
	"github.com/sscalderod/ProyectoFinalLenguajesSM/server/serr"
	"github.com/sscalderod/ProyectoFinalLenguajesSM/server/token"
)

// HTTPCreateLogin returns a HandlerFunc that uses the API to log in a user with
// a username and password and return the auth token for that user.
func (api API) HTTPCreateLogin() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epCreateLogin)
}

func (api API) epCreateLogin(req *http.Request) result.Result {
	var loginData LoginRequest
	if err := decodeRequest(req, &loginData); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	user, err := api.Backend.Login(req.Context(), loginData.Username, loginData.Password)
	if err != nil {
		if errors.Is(err, serr.ErrBadCredentials) {
			return result.Unauthorized(serr.ErrBadCredentials.Error(), "user '%s': %s", loginData.Username, err.Error())
		}
		return result.InternalServerError(err.Error())
	}

	tok, err := token.Generate(api.Secret, user)
	if err != nil {
		return result.InternalServerError("could not generate JWT: " + err.Error())
	}

	resp := LoginResponse{
		Token:  tok,
		UserID: user.ID.String(),
	}
	return result.Created(resp, "user '%s' successfully logged in", user.Username)
}

// HTTPDeleteLogin returns a HandlerFunc that deletes active login for some
// user. Only admin users can delete logins for users other themselves.
//
// The context of the request must contain the logged-in user of the client,
// and the URL must have the ID of the user to log out.
func (api API) HTTPDeleteLogin() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epDeleteLogin)
}

func (api API) epDeleteLogin(req *http.Request) result.Result {
	id := requireIDParam(req)
	user := req.Context().Value(middle.AuthUser).(dao.User)

	if id != user.ID && user.Role != dao.Admin {
		return result.Forbidden("user '%s' (role %s) logout of user %s: forbidden", user.Username, user.Role, id)
	}

	loggedOutUser, err := api.Backend.Logout(req.Context(), id)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError("could not log out user: " + err.Error())
	}

	otherStr := "self"
	if id != user.ID {
		otherStr = "user '" + loggedOutUser.Username + "'"
	}

	return result.NoContent("user '%s' successfully logged out %s", user.Username, otherStr)
}
