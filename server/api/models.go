package api

import (
	"time"

	gramlab "github.com/sscalderod/ProyectoFinalLenguajesSM"
	"github.com/sscalderod/ProyectoFinalLenguajesSM/internal/grammar"
	"github.com/sscalderod/ProyectoFinalLenguajesSM/server/backend"
	"github.com/sscalderod/ProyectoFinalLenguajesSM/server/dao"
)

// note that these are *not* the DAO models; those are distinct and closer to
// the DB format they are in. Rather these are the models that are received from
// and sent to the client.

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}

type InfoModel struct {
	Version struct {
		Server  string `json:"server"`
		GramLab string `json:"gramlab"`
	} `json:"version"`
}

type UserCreateRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,min=8"`
	Email    string `json:"email" validate:"omitempty,email"`
	Role     string `json:"role" validate:"omitempty,oneof=guest unverified normal admin"`
}

type PasswordUpdateRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}

type UserModel struct {
	URI            string `json:"uri"`
	ID             string `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email,omitempty"`
	Role           string `json:"role"`
	Created        string `json:"created"`
	Modified       string `json:"modified"`
	LastLogoutTime string `json:"last_logout"`
	LastLoginTime  string `json:"last_login"`
}

type GrammarCreateRequest struct {
	Name     string `json:"name" validate:"required,max=128"`
	Notation string `json:"notation" validate:"omitempty,oneof=classic extended"`
	Text     string `json:"text" validate:"required"`
	Start    string `json:"start"`
}

type GrammarModel struct {
	URI          string   `json:"uri"`
	ID           string   `json:"id"`
	Owner        string   `json:"owner"`
	Name         string   `json:"name"`
	Notation     string   `json:"notation"`
	Source       string   `json:"source"`
	Rules        string   `json:"rules"`
	Start        string   `json:"start"`
	NonTerminals []string `json:"nonterminals"`
	Terminals    []string `json:"terminals"`
	Created      string   `json:"created"`
	Modified     string   `json:"modified"`

	// Verdict is only included when the grammar is created.
	Verdict string `json:"verdict,omitempty"`
}

type ConflictModel struct {
	Table      string   `json:"table"`
	Row        string   `json:"row"`
	Symbol     string   `json:"symbol"`
	Candidates []string `json:"candidates"`
}

type AnalysisModel struct {
	Grammar    string              `json:"grammar"`
	First      map[string][]string `json:"first"`
	Follow     map[string][]string `json:"follow"`
	LL1        bool                `json:"ll1"`
	SLR1       bool                `json:"slr1"`
	Verdict    string              `json:"verdict"`
	Conflicts  []ConflictModel     `json:"conflicts"`
	StateCount int                 `json:"state_count"`
	Tables     struct {
		LL1    string `json:"ll1"`
		States string `json:"lr0_states"`
		SLR1   string `json:"slr1"`
	} `json:"tables"`
}

type ParseRequest struct {
	Parser string   `json:"parser"`
	Inputs []string `json:"inputs" validate:"required,min=1"`
}

type ParseResultModel struct {
	Input    string `json:"input"`
	Accepted bool   `json:"accepted"`
}

func userModel(u dao.User) UserModel {
	m := UserModel{
		URI:            PathPrefix + "/users/" + u.ID.String(),
		ID:             u.ID.String(),
		Username:       u.Username,
		Role:           u.Role.String(),
		Created:        u.Created.Format(time.RFC3339),
		Modified:       u.Modified.Format(time.RFC3339),
		LastLogoutTime: u.LastLogoutTime.Format(time.RFC3339),
		LastLoginTime:  u.LastLoginTime.Format(time.RFC3339),
	}
	if u.Email != nil {
		m.Email = u.Email.Address
	}
	return m
}

func grammarModel(g dao.Grammar) GrammarModel {
	return GrammarModel{
		URI:          PathPrefix + "/grammars/" + g.ID.String(),
		ID:           g.ID.String(),
		Owner:        g.UserID.String(),
		Name:         g.Name,
		Notation:     g.Notation,
		Source:       g.Source,
		Rules:        g.Grammar.String(),
		Start:        g.Grammar.StartSymbol(),
		NonTerminals: g.Grammar.NonTerminals(),
		Terminals:    g.Grammar.Terminals(),
		Created:      g.Created.Format(time.RFC3339),
		Modified:     g.Modified.Format(time.RFC3339),
	}
}

func symbolNames(s grammar.SymbolSet) []string {
	sorted := s.Sorted(func(l, r grammar.Symbol) bool { return l.Less(r) })
	names := make([]string, len(sorted))
	for i := range sorted {
		names[i] = sorted[i].Name
	}
	return names
}

func analysisModel(g dao.Grammar, a gramlab.Analysis) AnalysisModel {
	m := AnalysisModel{
		Grammar:    PathPrefix + "/grammars/" + g.ID.String(),
		First:      map[string][]string{},
		Follow:     map[string][]string{},
		LL1:        a.IsLL1(),
		SLR1:       a.IsSLR1(),
		Verdict:    a.Verdict(),
		Conflicts:  []ConflictModel{},
		StateCount: len(a.SLR.SLRTable().Automaton().States),
	}

	for _, nt := range a.Grammar.NonTerminals() {
		m.First[nt] = symbolNames(a.First.Of(grammar.NT(nt)))
		m.Follow[nt] = symbolNames(a.Follow.Of(nt))
	}

	for _, c := range a.Conflicts() {
		m.Conflicts = append(m.Conflicts, ConflictModel{
			Table:      c.Table,
			Row:        c.Row,
			Symbol:     c.Symbol.Name,
			Candidates: c.Candidates,
		})
	}

	m.Tables.LL1 = a.LL1.Table().String()
	m.Tables.States = a.SLR.SLRTable().Automaton().String()
	m.Tables.SLR1 = a.SLR.Table().String()

	return m
}

func parseResultModels(results []backend.ParseResult) []ParseResultModel {
	models := make([]ParseResultModel, len(results))
	for i := range results {
		models[i] = ParseResultModel{
			Input:    results[i].Input,
			Accepted: results[i].Accepted,
		}
	}
	return models
}
