package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sscalderod/ProyectoFinalLenguajesSM/server/api"
	"github.com/stretchr/testify/assert"
)

type testClient struct {
	t *testing.T
	h http.Handler
}

func (tc testClient) do(method, path, tok string, body interface{}) *httptest.ResponseRecorder {
	var bodyReader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			tc.t.Fatalf("marshal request body: %v", err)
		}
		bodyReader = bytes.NewReader(data)
	} else {
		bodyReader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, api.PathPrefix+path, bodyReader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	w := httptest.NewRecorder()
	tc.h.ServeHTTP(w, req)
	return w
}

func (tc testClient) login(username, password string) api.LoginResponse {
	w := tc.do("POST", "/login", "", api.LoginRequest{Username: username, Password: password})
	if w.Code != http.StatusCreated {
		tc.t.Fatalf("login as %q: got HTTP-%d: %s", username, w.Code, w.Body.String())
	}
	var resp api.LoginResponse
	decodeBody(tc.t, w, &resp)
	return resp
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

func newTestServer(t *testing.T) (*GramLabServer, testClient) {
	gls, err := New(Config{UnauthDelayMillis: -1})
	if err != nil {
		t.Fatalf("create server: %v", err)
	}
	t.Cleanup(func() { gls.Close() })

	created, err := gls.CreateInitialAdmin(context.Background())
	if err != nil || !created {
		t.Fatalf("create admin: created=%v, err=%v", created, err)
	}

	return gls, testClient{t: t, h: gls.Handler()}
}

func Test_CreateInitialAdmin_idempotent(t *testing.T) {
	assert := assert.New(t)
	gls, _ := newTestServer(t)

	created, err := gls.CreateInitialAdmin(context.Background())
	assert.NoError(err)
	assert.False(created)
}

func Test_Info(t *testing.T) {
	assert := assert.New(t)
	_, c := newTestServer(t)

	w := c.do("GET", "/info", "", nil)
	assert.Equal(http.StatusOK, w.Code)

	var info api.InfoModel
	decodeBody(t, w, &info)
	assert.NotEmpty(info.Version.Server)
	assert.NotEmpty(info.Version.GramLab)

	// a logged-in client gets the same answer
	tok := c.login(InitialAdminUsername, InitialAdminPassword).Token
	w = c.do("GET", "/info", tok, nil)
	assert.Equal(http.StatusOK, w.Code)
}

func Test_Login(t *testing.T) {
	assert := assert.New(t)
	_, c := newTestServer(t)

	w := c.do("POST", "/login", "", api.LoginRequest{Username: "admin", Password: "wrong"})
	assert.Equal(http.StatusUnauthorized, w.Code)
	assert.Contains(w.Header().Get("WWW-Authenticate"), "Bearer")

	w = c.do("POST", "/login", "", map[string]string{"username": "admin"})
	assert.Equal(http.StatusBadRequest, w.Code)
	assert.Contains(w.Body.String(), "password: property is empty or missing from request")

	login := c.login(InitialAdminUsername, InitialAdminPassword)
	assert.NotEmpty(login.Token)

	// refresh
	w = c.do("POST", "/tokens", login.Token, nil)
	assert.Equal(http.StatusCreated, w.Code)

	// logout invalidates the old token
	w = c.do("DELETE", "/login/"+login.UserID, login.Token, nil)
	assert.Equal(http.StatusNoContent, w.Code)

	w = c.do("POST", "/tokens", login.Token, nil)
	assert.Equal(http.StatusUnauthorized, w.Code)
}

func Test_Users(t *testing.T) {
	assert := assert.New(t)
	_, c := newTestServer(t)

	admin := c.login(InitialAdminUsername, InitialAdminPassword)

	w := c.do("POST", "/users", admin.Token, api.UserCreateRequest{Username: "ana", Password: "secret12", Role: "normal"})
	if !assert.Equal(http.StatusCreated, w.Code, w.Body.String()) {
		return
	}
	var ana api.UserModel
	decodeBody(t, w, &ana)
	assert.Equal("ana", ana.Username)
	assert.Equal("normal", ana.Role)

	// duplicate
	w = c.do("POST", "/users", admin.Token, api.UserCreateRequest{Username: "ana", Password: "secret12"})
	assert.Equal(http.StatusConflict, w.Code)

	// validation
	w = c.do("POST", "/users", admin.Token, api.UserCreateRequest{Username: "bo", Password: "short"})
	assert.Equal(http.StatusBadRequest, w.Code)
	assert.Contains(w.Body.String(), "password: must have a length of at least 8")

	anaLogin := c.login("ana", "secret12")

	// non-admins cannot create or list users
	w = c.do("POST", "/users", anaLogin.Token, api.UserCreateRequest{Username: "bo", Password: "secret12"})
	assert.Equal(http.StatusForbidden, w.Code)
	w = c.do("GET", "/users", anaLogin.Token, nil)
	assert.Equal(http.StatusForbidden, w.Code)

	// but can see themselves and not the admin
	w = c.do("GET", "/users/"+ana.ID, anaLogin.Token, nil)
	assert.Equal(http.StatusOK, w.Code)
	w = c.do("GET", "/users/"+admin.UserID, anaLogin.Token, nil)
	assert.Equal(http.StatusForbidden, w.Code)

	w = c.do("GET", "/users", admin.Token, nil)
	assert.Equal(http.StatusOK, w.Code)
	var all []api.UserModel
	decodeBody(t, w, &all)
	assert.Len(all, 2)

	// password change
	w = c.do("PUT", "/users/"+ana.ID+"/password", anaLogin.Token, api.PasswordUpdateRequest{Password: "new secret"})
	assert.Equal(http.StatusOK, w.Code)
	c.login("ana", "new secret")

	// delete self
	anaLogin = c.login("ana", "new secret")
	w = c.do("DELETE", "/users/"+ana.ID, anaLogin.Token, nil)
	assert.Equal(http.StatusNoContent, w.Code)
	w = c.do("GET", "/users/"+ana.ID, admin.Token, nil)
	assert.Equal(http.StatusNotFound, w.Code)
}

func Test_Grammars(t *testing.T) {
	assert := assert.New(t)
	_, c := newTestServer(t)

	admin := c.login(InitialAdminUsername, InitialAdminPassword)
	w := c.do("POST", "/users", admin.Token, api.UserCreateRequest{Username: "ana", Password: "secret12", Role: "normal"})
	if !assert.Equal(http.StatusCreated, w.Code) {
		return
	}
	ana := c.login("ana", "secret12")

	// auth required
	w = c.do("GET", "/grammars", "", nil)
	assert.Equal(http.StatusUnauthorized, w.Code)

	// create
	w = c.do("POST", "/grammars", ana.Token, api.GrammarCreateRequest{
		Name: "expr",
		Text: "E -> E + T | T\nT -> id",
	})
	if !assert.Equal(http.StatusCreated, w.Code, w.Body.String()) {
		return
	}
	var expr api.GrammarModel
	decodeBody(t, w, &expr)
	assert.Equal("expr", expr.Name)
	assert.Equal("extended", expr.Notation)
	assert.Equal("E", expr.Start)
	assert.Equal("E -> E + T | T\nT -> id\n", expr.Rules)
	assert.Equal("Grammar is SLR(1).", expr.Verdict)
	assert.Equal(ana.UserID, expr.Owner)

	// classic notation
	w = c.do("POST", "/grammars", ana.Token, api.GrammarCreateRequest{
		Name:     "nullable",
		Notation: "classic",
		Text:     "2\nS -> A\nA -> aA e\n",
	})
	assert.Equal(http.StatusCreated, w.Code, w.Body.String())

	// malformed grammar
	w = c.do("POST", "/grammars", ana.Token, api.GrammarCreateRequest{Name: "bad", Text: "S -> -> a"})
	assert.Equal(http.StatusUnprocessableEntity, w.Code)

	// failed validation
	w = c.do("POST", "/grammars", ana.Token, api.GrammarCreateRequest{Name: "bad", Notation: "bnf", Text: "S -> a"})
	assert.Equal(http.StatusBadRequest, w.Code)
	assert.Contains(w.Body.String(), "notation: must be one of classic, extended")

	// listing
	w = c.do("GET", "/grammars", ana.Token, nil)
	assert.Equal(http.StatusOK, w.Code)
	var list []api.GrammarModel
	decodeBody(t, w, &list)
	assert.Len(list, 2)

	// analysis
	w = c.do("GET", "/grammars/"+expr.ID+"/analysis", ana.Token, nil)
	if !assert.Equal(http.StatusOK, w.Code, w.Body.String()) {
		return
	}
	var analysis api.AnalysisModel
	decodeBody(t, w, &analysis)
	assert.False(analysis.LL1)
	assert.True(analysis.SLR1)
	assert.Equal([]string{"id"}, analysis.First["E"])
	assert.Equal([]string{"+", "$"}, analysis.Follow["T"])
	assert.NotEmpty(analysis.Conflicts)
	for _, conf := range analysis.Conflicts {
		assert.Equal("M", conf.Table)
	}
	assert.Greater(analysis.StateCount, 1)
	assert.NotEmpty(analysis.Tables.SLR1)

	// parse
	w = c.do("POST", "/grammars/"+expr.ID+"/parse", ana.Token, api.ParseRequest{Inputs: []string{"id+id", "id+", "id + id + id"}})
	if !assert.Equal(http.StatusOK, w.Code, w.Body.String()) {
		return
	}
	var results []api.ParseResultModel
	decodeBody(t, w, &results)
	assert.Equal([]api.ParseResultModel{
		{Input: "id+id", Accepted: true},
		{Input: "id+", Accepted: false},
		{Input: "id + id + id", Accepted: true},
	}, results)

	w = c.do("POST", "/grammars/"+expr.ID+"/parse", ana.Token, api.ParseRequest{Parser: "lalr", Inputs: []string{"id"}})
	assert.Equal(http.StatusBadRequest, w.Code)
	w = c.do("POST", "/grammars/"+expr.ID+"/parse", ana.Token, api.ParseRequest{})
	assert.Equal(http.StatusBadRequest, w.Code)

	// another user cannot see it, but the admin can
	w = c.do("POST", "/users", admin.Token, api.UserCreateRequest{Username: "bo", Password: "secret12", Role: "normal"})
	assert.Equal(http.StatusCreated, w.Code)
	bo := c.login("bo", "secret12")

	w = c.do("GET", "/grammars/"+expr.ID, bo.Token, nil)
	assert.Equal(http.StatusForbidden, w.Code)
	w = c.do("GET", "/grammars", bo.Token, nil)
	assert.Equal(http.StatusOK, w.Code)
	assert.JSONEq("[]", w.Body.String())
	w = c.do("GET", "/grammars/"+expr.ID, admin.Token, nil)
	assert.Equal(http.StatusOK, w.Code)

	// delete
	w = c.do("DELETE", "/grammars/"+expr.ID, ana.Token, nil)
	assert.Equal(http.StatusNoContent, w.Code)
	w = c.do("GET", "/grammars/"+expr.ID, ana.Token, nil)
	assert.Equal(http.StatusNotFound, w.Code)
}

func Test_Routing(t *testing.T) {
	assert := assert.New(t)
	_, c := newTestServer(t)

	w := c.do("GET", "/nothing-here", "", nil)
	assert.Equal(http.StatusNotFound, w.Code)
	assert.Equal("application/json", w.Header().Get("Content-Type"))

	w = c.do("PUT", "/info", "", nil)
	assert.Equal(http.StatusMethodNotAllowed, w.Code)
}
