package backend

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	gramlab "github.com/sscalderod/ProyectoFinalLenguajesSM"
	"github.com/sscalderod/ProyectoFinalLenguajesSM/internal/gramerr"
	"github.com/sscalderod/ProyectoFinalLenguajesSM/internal/gramfile"
	"github.com/sscalderod/ProyectoFinalLenguajesSM/internal/parse"
	"github.com/sscalderod/ProyectoFinalLenguajesSM/server/dao"
	"github.com/sscalderod/ProyectoFinalLenguajesSM/server/serr"
)

// ParseResult is the outcome of parsing one input string.
type ParseResult struct {
	Input    string
	Accepted bool
}

// CreateGrammar reads text in the given notation ("classic" or "extended",
// with "" meaning extended) and stores the resulting grammar on behalf of
// owner. If start is not empty it is used as the start symbol and must be a
// nonterminal of the grammar.
//
// The returned error, if non-nil, will match serr.ErrBadArgument if the name
// or notation is invalid, serr.ErrBadGrammar if the text cannot be read as a
// well-formed grammar, and serr.ErrDB if the store failed.
func (svc Service) CreateGrammar(ctx context.Context, owner uuid.UUID, name, notation, text, start string) (dao.Grammar, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return dao.Grammar{}, serr.New("name cannot be blank", serr.ErrBadArgument)
	}

	n, err := gramfile.ParseNotation(notation)
	if err != nil {
		return dao.Grammar{}, serr.New("notation must be 'classic' or 'extended'", serr.ErrBadArgument)
	}

	g, err := gramfile.ReadText(text, n)
	if err != nil {
		return dao.Grammar{}, serr.New(gramerr.UserMessage(err), serr.ErrBadGrammar)
	}

	if start != "" {
		if !g.IsNonTerminal(start) {
			return dao.Grammar{}, serr.New("start symbol "+start+" is not a nonterminal of the grammar", serr.ErrBadGrammar)
		}
		g.Start = start
	}

	if err := g.Validate(); err != nil {
		return dao.Grammar{}, serr.New(err.Error(), serr.ErrBadGrammar)
	}

	stored, err := svc.DB.Grammars().Create(ctx, dao.Grammar{
		UserID:   owner,
		Name:     name,
		Notation: string(n),
		Source:   text,
		Grammar:  g,
	})
	if err != nil {
		return dao.Grammar{}, serr.WrapDB("could not create grammar", err)
	}

	return stored, nil
}

// GetGrammar returns the grammar with the given ID.
//
// The returned error, if non-nil, will match serr.ErrNotFound if no grammar
// with that ID exists, serr.ErrBadArgument if the ID is malformed, and
// serr.ErrDB if the store failed.
func (svc Service) GetGrammar(ctx context.Context, id string) (dao.Grammar, error) {
	uuidID, err := parseID(id)
	if err != nil {
		return dao.Grammar{}, err
	}

	g, err := svc.DB.Grammars().GetByID(ctx, uuidID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Grammar{}, serr.ErrNotFound
		}
		return dao.Grammar{}, serr.WrapDB("could not get grammar", err)
	}

	return g, nil
}

// GetAllGrammars returns every stored grammar regardless of owner.
func (svc Service) GetAllGrammars(ctx context.Context) ([]dao.Grammar, error) {
	gs, err := svc.DB.Grammars().GetAll(ctx)
	if err != nil {
		return nil, serr.WrapDB("", err)
	}
	return gs, nil
}

// GetUserGrammars returns the grammars owned by the given user.
func (svc Service) GetUserGrammars(ctx context.Context, owner uuid.UUID) ([]dao.Grammar, error) {
	gs, err := svc.DB.Grammars().GetAllByUser(ctx, owner)
	if err != nil {
		return nil, serr.WrapDB("", err)
	}
	return gs, nil
}

// DeleteGrammar deletes the grammar with the given ID and returns it as it was
// just before deletion.
func (svc Service) DeleteGrammar(ctx context.Context, id string) (dao.Grammar, error) {
	uuidID, err := parseID(id)
	if err != nil {
		return dao.Grammar{}, err
	}

	g, err := svc.DB.Grammars().Delete(ctx, uuidID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Grammar{}, serr.ErrNotFound
		}
		return dao.Grammar{}, serr.WrapDB("could not delete grammar", err)
	}

	return g, nil
}

// Analyze builds the full analysis of a stored grammar. Nothing is cached; the
// tables are built again on each call.
func (svc Service) Analyze(g dao.Grammar) gramlab.Analysis {
	return gramlab.Analyze(g.Grammar)
}

// Parse runs each of inputs through a parser for g and reports whether it was
// accepted. The parser is named by algorithm ("ll1" or "slr1"); if algorithm
// is empty or "auto", the LL(1) parser is used when its table is
// conflict-free and the SLR(1) parser otherwise.
//
// The returned error, if non-nil, will match serr.ErrBadArgument if the
// algorithm is not recognized.
func (svc Service) Parse(g dao.Grammar, algorithm string, inputs []string) ([]ParseResult, parse.Algorithm, error) {
	a := svc.Analyze(g)

	var p parse.Parser
	if algorithm == "" || strings.EqualFold(algorithm, "auto") {
		p = a.Preferred()
	} else {
		alg, err := parse.ParseAlgorithm(algorithm)
		if err != nil {
			return nil, 0, serr.New("parser must be 'll1', 'slr1', or 'auto'", serr.ErrBadArgument)
		}
		p = a.Parser(alg)
	}

	results := make([]ParseResult, len(inputs))
	for i := range inputs {
		results[i] = ParseResult{
			Input:    inputs[i],
			Accepted: p.ParseString(inputs[i]),
		}
	}

	return results, p.Algorithm(), nil
}
