package api

import (
	"net/http"

	"github.com/sscalderod/ProyectoFinalLenguajesSM/internal/version"
	"github.com/sscalderod/ProyectoFinalLenguajesSM/server/dao"
	"github.com/sscalderod/ProyectoFinalLenguajesSM/server/middle"
	"github.com/sscalderod/ProyectoFinalLenguajesSM/server/result"
)

// HTTPGetInfo returns a HandlerFunc that retrieves information on the API and
// server. It needs AuthLoggedIn in the request context, so it must be behind
// optional auth.
func (api API) HTTPGetInfo() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetInfo)
}

func (api API) epGetInfo(req *http.Request) result.Result {
	loggedIn := req.Context().Value(middle.AuthLoggedIn).(bool)

	var resp InfoModel
	resp.Version.Server = version.ServerCurrent
	resp.Version.GramLab = version.Current

	userStr := "unauthed client"
	if loggedIn {
		user := req.Context().Value(middle.AuthUser).(dao.User)
		userStr = "user '" + user.Username + "'"
	}
	return result.OK(resp, "%s got API info", userStr)
}
