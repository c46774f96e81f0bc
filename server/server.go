// Package server provides the GramLab REST server. Clients store grammars on
// it and then ask for their analysis or have input strings parsed with them.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sscalderod/ProyectoFinalLenguajesSM/server/api"
	"github.com/sscalderod/ProyectoFinalLenguajesSM/server/backend"
	"github.com/sscalderod/ProyectoFinalLenguajesSM/server/dao"
	"github.com/sscalderod/ProyectoFinalLenguajesSM/server/serr"
)

// server:
//   POST   /login                   - accepts user and password and returns a jwt.
//   DELETE /login/{id}              - ends user authentication session and destroys the jwt.
//   POST   /tokens                  - refreshes the token without requiring credentials (requires auth)
//   GET    /users                   - get all users (admin)
//   POST   /users                   - create a new user account (admin)
//   GET    /users/{id}              - get info on a user (self or admin)
//   PUT    /users/{id}/password     - set the password of a user (self or admin)
//   DELETE /users/{id}              - delete a user and their grammars (self or admin)
//   GET    /info                    - get version info on the server and engine.
//   POST   /grammars                - store a new grammar (auth required)
//   GET    /grammars                - list own grammars, or all of them for admins
//   GET    /grammars/{id}           - get a grammar (owner or admin)
//   DELETE /grammars/{id}           - delete a grammar (owner or admin)
//   GET    /grammars/{id}/analysis  - FIRST/FOLLOW, tables, and conflicts (owner or admin)
//   POST   /grammars/{id}/parse     - parse a batch of inputs (owner or admin)

// InitialAdminUsername and InitialAdminPassword are the credentials of the user
// created by CreateInitialAdmin.
const (
	InitialAdminUsername = "admin"
	InitialAdminPassword = "password"
)

// GramLabServer is an HTTP REST server that stores grammars and analyzes and
// parses with them. The zero-value of a GramLabServer should not be used
// directly; call New() to get one ready for use.
type GramLabServer struct {
	router chi.Router
	db     dao.Store
	api    api.API
}

// New creates a new GramLabServer from cfg. Unset values of cfg are given
// their defaults before it is validated.
func New(cfg Config) (*GramLabServer, error) {
	cfg = cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	db, err := cfg.DB.Connect()
	if err != nil {
		return nil, fmt.Errorf("connect DB: %w", err)
	}

	gls := &GramLabServer{
		db: db,
		api: api.API{
			Backend:     backend.Service{DB: db},
			UnauthDelay: cfg.UnauthDelay(),
			Secret:      cfg.TokenSecret,
		},
	}
	gls.router = newRouter(gls.api)

	return gls, nil
}

// Handler returns the root handler of the server, with every API route mounted
// under api.PathPrefix.
func (gls *GramLabServer) Handler() http.Handler {
	return gls.router
}

// Close releases the persistence store of the server.
func (gls *GramLabServer) Close() error {
	return gls.db.Close()
}

// CreateInitialAdmin creates the admin user so there is someone to log in as.
// It returns false without error if the user already exists.
func (gls *GramLabServer) CreateInitialAdmin(ctx context.Context) (bool, error) {
	_, err := gls.api.Backend.CreateUser(ctx, InitialAdminUsername, InitialAdminPassword, "", dao.Admin)
	if err != nil {
		if errors.Is(err, serr.ErrAlreadyExists) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ServeForever begins listening on the given address and port for HTTP REST
// client requests. If address is kept as "", it will default to "localhost". If
// port is less than 1, it will default to 8080.
func (gls *GramLabServer) ServeForever(address string, port int) {
	if address == "" {
		address = "localhost"
	}
	if port < 1 {
		port = 8080
	}

	listenAddress := fmt.Sprintf("%s:%d", address, port)
	log.Printf("INFO  Listening on %s", listenAddress)
	log.Fatalf("FATAL %v", http.ListenAndServe(listenAddress, gls.router))
}
