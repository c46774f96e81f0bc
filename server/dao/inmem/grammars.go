package inmem

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sscalderod/ProyectoFinalLenguajesSM/internal/util"
	"github.com/sscalderod/ProyectoFinalLenguajesSM/server/dao"
	"golang.org/x/exp/slices"
)

func NewGrammarsRepository() *InMemoryGrammarsRepository {
	return &InMemoryGrammarsRepository{
		grammars:      make(map[uuid.UUID]dao.Grammar),
		byUserIDIndex: make(map[uuid.UUID][]uuid.UUID),
	}
}

type InMemoryGrammarsRepository struct {
	mtx           sync.RWMutex
	grammars      map[uuid.UUID]dao.Grammar
	byUserIDIndex map[uuid.UUID][]uuid.UUID
}

func (imgr *InMemoryGrammarsRepository) Close() error {
	return nil
}

func (imgr *InMemoryGrammarsRepository) Create(ctx context.Context, g dao.Grammar) (dao.Grammar, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Grammar{}, fmt.Errorf("could not generate ID: %w", err)
	}

	imgr.mtx.Lock()
	defer imgr.mtx.Unlock()

	now := time.Now()

	g.ID = newUUID
	g.Grammar = g.Grammar.Copy()
	g.Created = now
	g.Modified = now

	imgr.grammars[g.ID] = g
	imgr.byUserIDIndex[g.UserID] = append(imgr.byUserIDIndex[g.UserID], g.ID)

	return g, nil
}

func (imgr *InMemoryGrammarsRepository) GetAll(ctx context.Context) ([]dao.Grammar, error) {
	imgr.mtx.RLock()
	defer imgr.mtx.RUnlock()

	all := make([]dao.Grammar, 0, len(imgr.grammars))
	for k := range imgr.grammars {
		all = append(all, imgr.grammars[k])
	}

	return sortGrammars(all), nil
}

func (imgr *InMemoryGrammarsRepository) GetAllByUser(ctx context.Context, userID uuid.UUID) ([]dao.Grammar, error) {
	imgr.mtx.RLock()
	defer imgr.mtx.RUnlock()

	byUser := imgr.byUserIDIndex[userID]
	all := make([]dao.Grammar, len(byUser))
	for i := range byUser {
		all[i] = imgr.grammars[byUser[i]]
	}

	return sortGrammars(all), nil
}

func (imgr *InMemoryGrammarsRepository) GetByID(ctx context.Context, id uuid.UUID) (dao.Grammar, error) {
	imgr.mtx.RLock()
	defer imgr.mtx.RUnlock()

	g, ok := imgr.grammars[id]
	if !ok {
		return dao.Grammar{}, dao.ErrNotFound
	}

	return g, nil
}

func (imgr *InMemoryGrammarsRepository) Delete(ctx context.Context, id uuid.UUID) (dao.Grammar, error) {
	imgr.mtx.Lock()
	defer imgr.mtx.Unlock()

	g, ok := imgr.grammars[id]
	if !ok {
		return dao.Grammar{}, dao.ErrNotFound
	}

	imgr.removeFromIndex(g)
	delete(imgr.grammars, g.ID)

	return g, nil
}

func (imgr *InMemoryGrammarsRepository) DeleteAllByUser(ctx context.Context, userID uuid.UUID) ([]dao.Grammar, error) {
	imgr.mtx.Lock()
	defer imgr.mtx.Unlock()

	byUser := imgr.byUserIDIndex[userID]
	removed := make([]dao.Grammar, len(byUser))
	for i := range byUser {
		removed[i] = imgr.grammars[byUser[i]]
		delete(imgr.grammars, byUser[i])
	}
	delete(imgr.byUserIDIndex, userID)

	return sortGrammars(removed), nil
}

// removeFromIndex must be called with the write lock held.
func (imgr *InMemoryGrammarsRepository) removeFromIndex(g dao.Grammar) {
	byUser := imgr.byUserIDIndex[g.UserID]
	if pos := slices.Index(byUser, g.ID); pos >= 0 {
		byUser = slices.Delete(byUser, pos, pos+1)
	}

	if len(byUser) < 1 {
		delete(imgr.byUserIDIndex, g.UserID)
	} else {
		imgr.byUserIDIndex[g.UserID] = byUser
	}
}

func sortGrammars(gs []dao.Grammar) []dao.Grammar {
	return util.SortBy(gs, func(l, r dao.Grammar) bool {
		if !l.Created.Equal(r.Created) {
			return l.Created.Before(r.Created)
		}
		return l.ID.String() < r.ID.String()
	})
}
