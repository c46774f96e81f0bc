// Package api provides HTTP API endpoints for the GramLab server.
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"reflect"
	"runtime/debug"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sscalderod/ProyectoFinalLenguajesSM/server/backend"
	"github.com/sscalderod/ProyectoFinalLenguajesSM/server/result"
	"github.com/sscalderod/ProyectoFinalLenguajesSM/server/serr"
)

const (
	// PathPrefix is the prefix of all paths in the API. Routers should mount
	// a sub-router that routes all requests to the API at this path.
	PathPrefix = "/api/v1"
)

// validate checks request models against their validate tags. Field names in
// its errors are the JSON names of the fields.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// API holds parameters for endpoints needed to run and a service layer that
// will perform most of the actual logic. To use API, create one and then
// assign the result of its HTTP* methods as handlers to a router or some other
// kind of server mux.
//
// This is exclusively an API for serving external requests. For direct
// programmatic access into the backend of a GramLab server via Go code, see
// [backend.Service].
type API struct {
	// Backend is the service that the API calls to perform the requested
	// actions.
	Backend backend.Service

	// UnauthDelay is the amount of time that a request will pause before
	// responding with an HTTP-403, HTTP-401, or HTTP-500 to deprioritize such
	// requests from processing and I/O.
	UnauthDelay time.Duration

	// Secret is the secret used to sign JWT tokens.
	Secret []byte
}

// requireIDParam gets the ID of the main entity being referenced in the URI and
// returns it. It panics if the key is not there or is not parsable.
func requireIDParam(r *http.Request) uuid.UUID {
	id, err := getURLParam(r, "id", uuid.Parse)
	if err != nil {
		panic(err.Error())
	}
	return id
}

func getURLParam[E any](r *http.Request, key string, parse func(string) (E, error)) (val E, err error) {
	valStr := chi.URLParam(r, key)
	if valStr == "" {
		return val, fmt.Errorf("parameter does not exist")
	}

	val, err = parse(valStr)
	if err != nil {
		return val, serr.New("", serr.ErrBadArgument)
	}
	return val, nil
}

// parseJSON decodes the JSON body of req into v, which must be a pointer. The
// returned error will match serr.ErrBodyUnmarshal if the JSON itself could not
// be decoded.
func parseJSON(req *http.Request, v interface{}) error {
	contentType := req.Header.Get("Content-Type")
	mediaType := strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])

	if strings.ToLower(mediaType) != "application/json" {
		return fmt.Errorf("request content-type is not application/json")
	}

	bodyData, err := io.ReadAll(req.Body)
	if err != nil {
		return fmt.Errorf("could not read request body: %w", err)
	}
	defer func() {
		req.Body.Close()
		req.Body = io.NopCloser(bytes.NewBuffer(bodyData))
	}()

	err = json.Unmarshal(bodyData, v)
	if err != nil {
		return serr.New("malformed JSON in request", err, serr.ErrBodyUnmarshal)
	}

	return nil
}

// decodeRequest is parseJSON followed by validation of the decoded model. A
// model that fails validation gives an error matching serr.ErrBadArgument whose
// message names each offending field.
func decodeRequest(req *http.Request, v interface{}) error {
	if err := parseJSON(req, v); err != nil {
		return err
	}

	if err := validate.Struct(v); err != nil {
		var valErrs validator.ValidationErrors
		if !errors.As(err, &valErrs) {
			return serr.New("could not validate request", err)
		}

		msgs := make([]string, len(valErrs))
		for i, fe := range valErrs {
			msgs[i] = fieldErrorMessage(fe)
		}
		return serr.New(strings.Join(msgs, "; "), serr.ErrBadArgument)
	}

	return nil
}

func fieldErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + ": property is empty or missing from request"
	case "min":
		return fmt.Sprintf("%s: must have a length of at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s: must have a length of at most %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s: must be one of %s", fe.Field(), strings.Join(strings.Fields(fe.Param()), ", "))
	case "email":
		return fe.Field() + ": not a valid email address"
	default:
		return fmt.Sprintf("%s: failed %q check", fe.Field(), fe.Tag())
	}
}

type EndpointFunc func(req *http.Request) result.Result

func httpEndpoint(unauthDelay time.Duration, ep EndpointFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		defer panicTo500(w, req)
		r := ep(req)

		// if this hasn't been properly created, output error directly and do not
		// try to read properties
		if r.Status == 0 {
			logHttpResponse("ERROR", req, http.StatusInternalServerError, "endpoint result was never populated")
			http.Error(w, "An internal server error occurred", http.StatusInternalServerError)
			return
		}

		// pre-call PrepareMarshaledResponse bc if it fails in call to
		// WriteResponse, it will panic.
		if err := r.PrepareMarshaledResponse(); err != nil {
			r = result.InternalServerError("could not marshal JSON response: " + err.Error())
		}

		if r.IsErr {
			logHttpResponse("ERROR", req, r.Status, r.InternalMsg)
		} else {
			logHttpResponse("INFO", req, r.Status, r.InternalMsg)
		}

		if r.Status == http.StatusUnauthorized || r.Status == http.StatusForbidden || r.Status == http.StatusInternalServerError {
			// either the user is improperly logging in or tried to access a
			// forbidden resource; both force the wait before responding.
			time.Sleep(unauthDelay)
		}

		r.WriteResponse(w)
	}
}

func panicTo500(w http.ResponseWriter, req *http.Request) (panicRecovered bool) {
	if panicErr := recover(); panicErr != nil {
		r := result.TextErr(
			http.StatusInternalServerError,
			"An internal server error occurred",
			"panic: %v\nSTACK TRACE: %s", panicErr, string(debug.Stack()),
		)
		logHttpResponse("ERROR", req, r.Status, r.InternalMsg)
		r.WriteResponse(w)
		return true
	}
	return false
}

func logHttpResponse(level string, req *http.Request, respStatus int, msg string) {
	if len(level) > 5 {
		level = level[0:5]
	}

	for len(level) < 5 {
		level += " "
	}

	// we don't really care about the ephemeral port from the client end
	remoteAddrParts := strings.SplitN(req.RemoteAddr, ":", 2)
	remoteIP := remoteAddrParts[0]

	log.Printf("%s %s %s %s: HTTP-%d %s", level, remoteIP, req.Method, req.URL.Path, respStatus, msg)
}

// RedirectNoTrailingSlash is an http.HandlerFunc that redirects to the same
// URL as the request but with no trailing slash.
func RedirectNoTrailingSlash(w http.ResponseWriter, req *http.Request) {
	redirPath := strings.TrimRight(req.URL.Path, "/")
	result.Redirection(redirPath).WriteResponse(w)
}

// HTTPNotFound gives the JSON HTTP-404 used for unrouted paths.
func (api API) HTTPNotFound() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, func(req *http.Request) result.Result {
		return result.NotFound("no route for %s", req.URL.Path)
	})
}

// HTTPMethodNotAllowed gives the JSON HTTP-405 used for routed paths that do
// not accept the request method.
func (api API) HTTPMethodNotAllowed() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, func(req *http.Request) result.Result {
		time.Sleep(api.UnauthDelay)
		return result.MethodNotAllowed(req)
	})
}
