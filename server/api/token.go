package api

import (
	"net/http"

	"github.com/sscalderod/ProyectoFinalLenguajesSM/server/dao"
	"github.com/sscalderod/ProyectoFinalLenguajesSM/server/middle"
	"github.com/sscalderod/ProyectoFinalLenguajesSM/server/result"
	"github.com/sscalderod/ProyectoFinalLenguajesSM/server/token"
)

// HTTPCreateToken returns a HandlerFunc that creates a new token for the user
// the client is logged in as.
func (api API) HTTPCreateToken() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epCreateToken)
}

func (api API) epCreateToken(req *http.Request) result.Result {
	user := req.Context().Value(middle.AuthUser).(dao.User)

	tok, err := token.Generate(api.Secret, user)
	if err != nil {
		return result.InternalServerError("could not generate JWT: " + err.Error())
	}

	resp := LoginResponse{
		Token:  tok,
		UserID: user.ID.String(),
	}
	return result.Created(resp, "user '%s' successfully created new token", user.Username)
}
