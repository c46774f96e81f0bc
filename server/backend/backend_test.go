package backend

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/sscalderod/ProyectoFinalLenguajesSM/internal/parse"
	"github.com/sscalderod/ProyectoFinalLenguajesSM/server/dao"
	"github.com/sscalderod/ProyectoFinalLenguajesSM/server/dao/inmem"
	"github.com/sscalderod/ProyectoFinalLenguajesSM/server/serr"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func newTestService() Service {
	return Service{DB: inmem.NewDatastore(), HashCost: bcrypt.MinCost}
}

func Test_Service_Login(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	created, err := svc.CreateUser(ctx, "ana", "correct horse", "", dao.Normal)
	if !assert.NoError(t, err) {
		return
	}

	testCases := []struct {
		name      string
		username  string
		password  string
		expectErr error
	}{
		{name: "valid", username: "ana", password: "correct horse"},
		{name: "wrong password", username: "ana", password: "battery staple", expectErr: serr.ErrBadCredentials},
		{name: "unknown user", username: "bo", password: "correct horse", expectErr: serr.ErrBadCredentials},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := svc.Login(ctx, tc.username, tc.password)
			if tc.expectErr != nil {
				assert.ErrorIs(err, tc.expectErr)
				return
			}
			assert.NoError(err)
			assert.Equal(created.ID, actual.ID)
			assert.False(actual.LastLoginTime.IsZero())
		})
	}
}

func Test_Service_Logout(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	svc := newTestService()

	user, err := svc.CreateUser(ctx, "ana", "correct horse", "", dao.Normal)
	if !assert.NoError(err) {
		return
	}

	loggedOut, err := svc.Logout(ctx, user.ID)
	assert.NoError(err)
	assert.False(loggedOut.LastLogoutTime.Before(user.LastLogoutTime))

	_, err = svc.Logout(ctx, uuid.New())
	assert.ErrorIs(err, serr.ErrNotFound)
}

func Test_Service_CreateUser(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name      string
		username  string
		password  string
		email     string
		expectErr error
	}{
		{name: "valid", username: "ana", password: "secret12"},
		{name: "valid with email", username: "ana", password: "secret12", email: "ana@example.com"},
		{name: "blank username", username: "", password: "secret12", expectErr: serr.ErrBadArgument},
		{name: "blank password", username: "ana", password: "", expectErr: serr.ErrBadArgument},
		{name: "bad email", username: "ana", password: "secret12", email: "not an email", expectErr: serr.ErrBadArgument},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			svc := newTestService()

			actual, err := svc.CreateUser(ctx, tc.username, tc.password, tc.email, dao.Normal)
			if tc.expectErr != nil {
				assert.ErrorIs(err, tc.expectErr)
				return
			}
			if !assert.NoError(err) {
				return
			}
			assert.Equal(tc.username, actual.Username)
			assert.NotEqual(tc.password, actual.Password)
			assert.NotEqual(uuid.Nil, actual.ID)

			_, err = svc.CreateUser(ctx, tc.username, "other pass", "", dao.Normal)
			assert.ErrorIs(err, serr.ErrAlreadyExists)
		})
	}
}

func Test_Service_UpdatePassword(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	svc := newTestService()

	user, err := svc.CreateUser(ctx, "ana", "first pass", "", dao.Normal)
	if !assert.NoError(err) {
		return
	}

	_, err = svc.UpdatePassword(ctx, user.ID.String(), "second pass")
	if !assert.NoError(err) {
		return
	}

	_, err = svc.Login(ctx, "ana", "first pass")
	assert.ErrorIs(err, serr.ErrBadCredentials)
	_, err = svc.Login(ctx, "ana", "second pass")
	assert.NoError(err)

	_, err = svc.UpdatePassword(ctx, user.ID.String(), "")
	assert.ErrorIs(err, serr.ErrBadArgument)
	_, err = svc.UpdatePassword(ctx, "nope", "x")
	assert.ErrorIs(err, serr.ErrBadArgument)
}

func Test_Service_DeleteUser_removesGrammars(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	svc := newTestService()

	user, err := svc.CreateUser(ctx, "ana", "secret12", "", dao.Normal)
	if !assert.NoError(err) {
		return
	}
	g, err := svc.CreateGrammar(ctx, user.ID, "parens", "extended", "S -> ( S ) | ε", "")
	if !assert.NoError(err) {
		return
	}

	_, err = svc.DeleteUser(ctx, user.ID.String())
	assert.NoError(err)

	_, err = svc.GetUser(ctx, user.ID.String())
	assert.ErrorIs(err, serr.ErrNotFound)
	_, err = svc.GetGrammar(ctx, g.ID.String())
	assert.ErrorIs(err, serr.ErrNotFound)

	_, err = svc.DeleteUser(ctx, user.ID.String())
	assert.ErrorIs(err, serr.ErrNotFound)
}

func Test_Service_CreateGrammar(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()

	testCases := []struct {
		name          string
		gName         string
		notation      string
		text          string
		start         string
		expectGrammar string
		expectStart   string
		expectErr     error
	}{
		{
			name:          "extended",
			gName:         "expr",
			notation:      "extended",
			text:          "E -> E + T | T\nT -> id",
			expectGrammar: "E -> E + T | T\nT -> id\n",
			expectStart:   "E",
		},
		{
			name:          "notation defaults to extended",
			gName:         "expr",
			text:          "E -> T\nT -> id",
			expectGrammar: "E -> T\nT -> id\n",
			expectStart:   "E",
		},
		{
			name:          "classic",
			gName:         "nullable",
			notation:      "classic",
			text:          "2\nS -> A\nA -> aA e\n",
			expectGrammar: "S -> A\nA -> a A | ε\n",
			expectStart:   "S",
		},
		{
			name:          "explicit start",
			gName:         "expr",
			text:          "E -> T\nT -> id | ( E )",
			start:         "T",
			expectGrammar: "E -> T\nT -> id | ( E )\n",
			expectStart:   "T",
		},
		{
			name:      "blank name",
			gName:     "  ",
			text:      "S -> a",
			expectErr: serr.ErrBadArgument,
		},
		{
			name:      "unknown notation",
			gName:     "g",
			notation:  "bnf",
			text:      "S -> a",
			expectErr: serr.ErrBadArgument,
		},
		{
			name:      "syntax error",
			gName:     "g",
			text:      "S -> -> a",
			expectErr: serr.ErrBadGrammar,
		},
		{
			name:      "start is not a nonterminal",
			gName:     "g",
			text:      "S -> a",
			start:     "a",
			expectErr: serr.ErrBadGrammar,
		},
		{
			name:      "undefined nonterminal",
			gName:     "g",
			text:      "S -> A b",
			expectErr: serr.ErrBadGrammar,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			svc := newTestService()

			actual, err := svc.CreateGrammar(ctx, owner, tc.gName, tc.notation, tc.text, tc.start)
			if tc.expectErr != nil {
				assert.ErrorIs(err, tc.expectErr)
				return
			}
			if !assert.NoError(err) {
				return
			}

			assert.Equal(owner, actual.UserID)
			assert.Equal(tc.text, actual.Source)
			assert.Equal(tc.expectGrammar, actual.Grammar.String())
			assert.Equal(tc.expectStart, actual.Grammar.StartSymbol())

			fetched, err := svc.GetGrammar(ctx, actual.ID.String())
			assert.NoError(err)
			assert.Equal(tc.expectGrammar, fetched.Grammar.String())
		})
	}
}

func Test_Service_GrammarListing(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	svc := newTestService()

	ana, bo := uuid.New(), uuid.New()
	_, err := svc.CreateGrammar(ctx, ana, "one", "", "S -> a", "")
	assert.NoError(err)
	_, err = svc.CreateGrammar(ctx, ana, "two", "", "S -> b", "")
	assert.NoError(err)
	boG, err := svc.CreateGrammar(ctx, bo, "three", "", "S -> c", "")
	assert.NoError(err)

	all, err := svc.GetAllGrammars(ctx)
	assert.NoError(err)
	assert.Len(all, 3)

	anas, err := svc.GetUserGrammars(ctx, ana)
	assert.NoError(err)
	if assert.Len(anas, 2) {
		assert.Equal("one", anas[0].Name)
		assert.Equal("two", anas[1].Name)
	}

	nobody, err := svc.GetUserGrammars(ctx, uuid.New())
	assert.NoError(err)
	assert.Empty(nobody)

	_, err = svc.DeleteGrammar(ctx, boG.ID.String())
	assert.NoError(err)
	_, err = svc.DeleteGrammar(ctx, boG.ID.String())
	assert.ErrorIs(err, serr.ErrNotFound)
	_, err = svc.GetGrammar(ctx, "not-a-uuid")
	assert.ErrorIs(err, serr.ErrBadArgument)
}

func Test_Service_Parse(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	parens, err := svc.CreateGrammar(ctx, uuid.New(), "parens", "", "S -> ( S ) | ε", "")
	if !assert.NoError(t, err) {
		return
	}
	leftRec, err := svc.CreateGrammar(ctx, uuid.New(), "expr", "", "E -> E + T | T\nT -> id", "")
	if !assert.NoError(t, err) {
		return
	}

	testCases := []struct {
		name      string
		g         dao.Grammar
		parser    string
		inputs    []string
		expectAlg parse.Algorithm
		expect    []bool
		expectErr error
	}{
		{
			name:      "auto picks LL(1) when conflict-free",
			g:         parens,
			inputs:    []string{"(())", "(()", ""},
			expectAlg: parse.LL1,
			expect:    []bool{true, false, true},
		},
		{
			name:      "auto falls back to SLR(1)",
			g:         leftRec,
			parser:    "auto",
			inputs:    []string{"id+id", "id+"},
			expectAlg: parse.SLR1,
			expect:    []bool{true, false},
		},
		{
			name:      "explicit LL(1) on conflicted table rejects",
			g:         leftRec,
			parser:    "ll1",
			inputs:    []string{"id"},
			expectAlg: parse.LL1,
			expect:    []bool{false},
		},
		{
			name:      "explicit SLR(1)",
			g:         parens,
			parser:    "slr1",
			inputs:    []string{"()"},
			expectAlg: parse.SLR1,
			expect:    []bool{true},
		},
		{
			name:      "unknown parser",
			g:         parens,
			parser:    "lalr",
			inputs:    []string{"()"},
			expectErr: serr.ErrBadArgument,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			results, alg, err := svc.Parse(tc.g, tc.parser, tc.inputs)
			if tc.expectErr != nil {
				assert.ErrorIs(err, tc.expectErr)
				return
			}
			if !assert.NoError(err) {
				return
			}
			assert.Equal(tc.expectAlg, alg)
			if assert.Len(results, len(tc.expect)) {
				for i := range results {
					assert.Equal(tc.inputs[i], results[i].Input)
					assert.Equal(tc.expect[i], results[i].Accepted, "input %q", tc.inputs[i])
				}
			}
		})
	}
}
