package api

import (
	"errors"
	"net/http"

	"github.com/sscalderod/ProyectoFinalLenguajesSM/server/dao"
	"github.com/sscalderod/ProyectoFinalLenguajesSM/server/middle"
	"github.com/sscalderod/ProyectoFinalLenguajesSM/server/result"
	"github.com/sscalderod/ProyectoFinalLenguajesSM/server/serr"
)

// HTTPCreateGrammar returns a HandlerFunc that reads, validates, and stores a
// new grammar owned by the logged-in user. The response includes the verdict
// of the grammar's analysis.
func (api API) HTTPCreateGrammar() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epCreateGrammar)
}

func (api API) epCreateGrammar(req *http.Request) result.Result {
	user := req.Context().Value(middle.AuthUser).(dao.User)

	var create GrammarCreateRequest
	if err := decodeRequest(req, &create); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	g, err := api.Backend.CreateGrammar(req.Context(), user.ID, create.Name, create.Notation, create.Text, create.Start)
	if err != nil {
		if errors.Is(err, serr.ErrBadArgument) {
			return result.BadRequest(err.Error(), err.Error())
		} else if errors.Is(err, serr.ErrBadGrammar) {
			return result.UnprocessableEntity(err.Error(), "user '%s' grammar %q: %s", user.Username, create.Name, err.Error())
		}
		return result.InternalServerError(err.Error())
	}

	resp := grammarModel(g)
	resp.Verdict = api.Backend.Analyze(g).Verdict()

	return result.Created(resp, "user '%s' created grammar %q (%s)", user.Username, g.Name, g.ID)
}

// HTTPGetAllGrammars returns a HandlerFunc that lists the grammars of the
// logged-in user. Admins get every grammar.
func (api API) HTTPGetAllGrammars() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetAllGrammars)
}

func (api API) epGetAllGrammars(req *http.Request) result.Result {
	user := req.Context().Value(middle.AuthUser).(dao.User)

	var gs []dao.Grammar
	var err error
	if user.Role == dao.Admin {
		gs, err = api.Backend.GetAllGrammars(req.Context())
	} else {
		gs, err = api.Backend.GetUserGrammars(req.Context(), user.ID)
	}
	if err != nil {
		return result.InternalServerError(err.Error())
	}

	resp := make([]GrammarModel, len(gs))
	for i := range gs {
		resp[i] = grammarModel(gs[i])
	}

	return result.OK(resp, "user '%s' got %d grammar(s)", user.Username, len(resp))
}

// HTTPGetGrammar returns a HandlerFunc that gets a single grammar. Only its
// owner or an admin may get it.
func (api API) HTTPGetGrammar() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetGrammar)
}

func (api API) epGetGrammar(req *http.Request) result.Result {
	user := req.Context().Value(middle.AuthUser).(dao.User)

	g, r, ok := api.ownedGrammar(req, user, "get")
	if !ok {
		return r
	}

	return result.OK(grammarModel(g), "user '%s' got grammar %q", user.Username, g.Name)
}

// HTTPDeleteGrammar returns a HandlerFunc that deletes a grammar. Only its
// owner or an admin may delete it.
func (api API) HTTPDeleteGrammar() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epDeleteGrammar)
}

func (api API) epDeleteGrammar(req *http.Request) result.Result {
	user := req.Context().Value(middle.AuthUser).(dao.User)

	g, r, ok := api.ownedGrammar(req, user, "delete")
	if !ok {
		return r
	}

	if _, err := api.Backend.DeleteGrammar(req.Context(), g.ID.String()); err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError("could not delete grammar: " + err.Error())
	}

	return result.NoContent("user '%s' deleted grammar %q", user.Username, g.Name)
}

// HTTPGetAnalysis returns a HandlerFunc that gives the full analysis of a
// grammar: FIRST and FOLLOW, whether it is LL(1) and SLR(1), every conflict,
// and the rendered tables.
func (api API) HTTPGetAnalysis() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetAnalysis)
}

func (api API) epGetAnalysis(req *http.Request) result.Result {
	user := req.Context().Value(middle.AuthUser).(dao.User)

	g, r, ok := api.ownedGrammar(req, user, "analyze")
	if !ok {
		return r
	}

	resp := analysisModel(g, api.Backend.Analyze(g))
	return result.OK(resp, "user '%s' analyzed grammar %q", user.Username, g.Name)
}

// HTTPParse returns a HandlerFunc that runs a batch of input strings through a
// parser for a grammar.
func (api API) HTTPParse() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epParse)
}

func (api API) epParse(req *http.Request) result.Result {
	user := req.Context().Value(middle.AuthUser).(dao.User)

	g, r, ok := api.ownedGrammar(req, user, "parse with")
	if !ok {
		return r
	}

	var parseReq ParseRequest
	if err := decodeRequest(req, &parseReq); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	results, alg, err := api.Backend.Parse(g, parseReq.Parser, parseReq.Inputs)
	if err != nil {
		if errors.Is(err, serr.ErrBadArgument) {
			return result.BadRequest(err.Error(), err.Error())
		}
		return result.InternalServerError(err.Error())
	}

	return result.OK(parseResultModels(results), "user '%s' parsed %d input(s) with %s on grammar %q", user.Username, len(results), alg, g.Name)
}

// ownedGrammar gets the grammar named by the URL of req, checking that user
// owns it or is an admin. If ok is false, r is the result to return.
func (api API) ownedGrammar(req *http.Request, user dao.User, action string) (g dao.Grammar, r result.Result, ok bool) {
	id := requireIDParam(req)

	g, err := api.Backend.GetGrammar(req.Context(), id.String())
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return g, result.NotFound(), false
		} else if errors.Is(err, serr.ErrBadArgument) {
			return g, result.BadRequest(err.Error(), err.Error()), false
		}
		return g, result.InternalServerError("could not get grammar: " + err.Error()), false
	}

	if g.UserID != user.ID && user.Role != dao.Admin {
		return g, result.Forbidden("user '%s' (role %s) %s grammar %s: forbidden", user.Username, user.Role, action, id), false
	}

	return g, r, true
}
