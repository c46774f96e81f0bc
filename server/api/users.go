package api

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/sscalderod/ProyectoFinalLenguajesSM/server/dao"
	"github.com/sscalderod/ProyectoFinalLenguajesSM/server/middle"
	"github.com/sscalderod/ProyectoFinalLenguajesSM/server/result"
	"github.com/sscalderod/ProyectoFinalLenguajesSM/server/serr"
)

// HTTPGetAllUsers returns a HandlerFunc that retrieves all existing users. Only
// an admin user can call this endpoint.
func (api API) HTTPGetAllUsers() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetAllUsers)
}

func (api API) epGetAllUsers(req *http.Request) result.Result {
	user := req.Context().Value(middle.AuthUser).(dao.User)

	if user.Role != dao.Admin {
		return result.Forbidden("user '%s' (role %s): forbidden", user.Username, user.Role)
	}

	users, err := api.Backend.GetAllUsers(req.Context())
	if err != nil {
		return result.InternalServerError(err.Error())
	}

	resp := make([]UserModel, len(users))
	for i := range users {
		resp[i] = userModel(users[i])
	}

	return result.OK(resp, "user '%s' got all users", user.Username)
}

// HTTPCreateUser returns a HandlerFunc that creates a new user entity. Only an
// admin user can directly create new users.
func (api API) HTTPCreateUser() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epCreateUser)
}

func (api API) epCreateUser(req *http.Request) result.Result {
	user := req.Context().Value(middle.AuthUser).(dao.User)

	if user.Role != dao.Admin {
		return result.Forbidden("user '%s' (role %s) creation of new user: forbidden", user.Username, user.Role)
	}

	var createUser UserCreateRequest
	if err := decodeRequest(req, &createUser); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	role := dao.Unverified
	if createUser.Role != "" {
		var err error
		role, err = dao.ParseRole(createUser.Role)
		if err != nil {
			return result.BadRequest("role: "+err.Error(), "role: %s", err.Error())
		}
	}

	newUser, err := api.Backend.CreateUser(req.Context(), createUser.Username, createUser.Password, createUser.Email, role)
	if err != nil {
		if errors.Is(err, serr.ErrAlreadyExists) {
			return result.Conflict("User with that username already exists", "user '%s' already exists", createUser.Username)
		} else if errors.Is(err, serr.ErrBadArgument) {
			return result.BadRequest(err.Error(), err.Error())
		}
		return result.InternalServerError(err.Error())
	}

	resp := userModel(newUser)
	return result.Created(resp, "user '%s' (%s) created", resp.Username, resp.ID)
}

// HTTPGetUser returns a HandlerFunc that gets an existing user. All users may
// retrieve themselves, but only an admin user can retrieve details on other
// users.
func (api API) HTTPGetUser() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetUser)
}

func (api API) epGetUser(req *http.Request) result.Result {
	id := requireIDParam(req)
	user := req.Context().Value(middle.AuthUser).(dao.User)

	if r, ok := api.requireSelfOrAdmin(user, id, "get"); !ok {
		return r
	}

	userInfo, err := api.Backend.GetUser(req.Context(), id.String())
	if err != nil {
		if errors.Is(err, serr.ErrBadArgument) {
			return result.BadRequest(err.Error(), err.Error())
		} else if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError("could not get user: " + err.Error())
	}

	return result.OK(userModel(userInfo), "user '%s' successfully got %s", user.Username, describeTarget(user, userInfo))
}

// HTTPUpdatePassword returns a HandlerFunc that sets the password of an
// existing user. All users may change their own password, but only an admin
// may change that of another user.
func (api API) HTTPUpdatePassword() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epUpdatePassword)
}

func (api API) epUpdatePassword(req *http.Request) result.Result {
	id := requireIDParam(req)
	user := req.Context().Value(middle.AuthUser).(dao.User)

	if r, ok := api.requireSelfOrAdmin(user, id, "update password of"); !ok {
		return r
	}

	var update PasswordUpdateRequest
	if err := decodeRequest(req, &update); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	updated, err := api.Backend.UpdatePassword(req.Context(), id.String(), update.Password)
	if err != nil {
		if errors.Is(err, serr.ErrBadArgument) {
			return result.BadRequest(err.Error(), err.Error())
		} else if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError("could not update password: " + err.Error())
	}

	return result.OK(userModel(updated), "user '%s' updated password of %s", user.Username, describeTarget(user, updated))
}

// HTTPDeleteUser returns a HandlerFunc that deletes a user entity and every
// grammar it owns. All users may delete themselves, but only an admin user may
// delete another user.
func (api API) HTTPDeleteUser() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epDeleteUser)
}

func (api API) epDeleteUser(req *http.Request) result.Result {
	id := requireIDParam(req)
	user := req.Context().Value(middle.AuthUser).(dao.User)

	if r, ok := api.requireSelfOrAdmin(user, id, "delete"); !ok {
		return r
	}

	deleted, err := api.Backend.DeleteUser(req.Context(), id.String())
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError("could not delete user: " + err.Error())
	}

	return result.NoContent("user '%s' successfully deleted %s", user.Username, describeTarget(user, deleted))
}

// requireSelfOrAdmin gives a Forbidden result and false if user is neither the
// user with the given ID nor an admin.
func (api API) requireSelfOrAdmin(user dao.User, id uuid.UUID, action string) (result.Result, bool) {
	if id == user.ID || user.Role == dao.Admin {
		return result.Result{}, true
	}
	return result.Forbidden("user '%s' (role %s) %s user %s: forbidden", user.Username, user.Role, action, id), false
}

func describeTarget(user, target dao.User) string {
	if target.ID == user.ID {
		return "self"
	}
	return "user '" + target.Username + "'"
}
