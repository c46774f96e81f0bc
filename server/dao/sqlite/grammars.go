package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sscalderod/ProyectoFinalLenguajesSM/server/dao"
)

const grammarColumns = `id, user_id, name, notation, source, data, created, modified`

type GrammarsDB struct {
	db *sql.DB
}

func (repo *GrammarsDB) init() error {
	_, err := repo.db.Exec(`CREATE TABLE IF NOT EXISTS grammars (
		id TEXT NOT NULL PRIMARY KEY,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		notation TEXT NOT NULL,
		source TEXT NOT NULL,
		data BLOB NOT NULL,
		created INTEGER NOT NULL,
		modified INTEGER NOT NULL
	);`)
	if err != nil {
		return wrapDBError(err)
	}

	_, err = repo.db.Exec(`CREATE INDEX IF NOT EXISTS grammars_user_id ON grammars (user_id);`)
	if err != nil {
		return wrapDBError(err)
	}

	return nil
}

func (repo *GrammarsDB) Create(ctx context.Context, g dao.Grammar) (dao.Grammar, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Grammar{}, fmt.Errorf("could not generate ID: %w", err)
	}

	now := time.Now()
	_, err = repo.db.ExecContext(ctx, `INSERT INTO grammars (`+grammarColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		convertToDB_UUID(newUUID),
		convertToDB_UUID(g.UserID),
		g.Name,
		g.Notation,
		g.Source,
		convertToDB_Grammar(g.Grammar),
		convertToDB_Time(now),
		convertToDB_Time(now),
	)
	if err != nil {
		return dao.Grammar{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, newUUID)
}

func (repo *GrammarsDB) GetAll(ctx context.Context) ([]dao.Grammar, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT `+grammarColumns+` FROM grammars ORDER BY created, id;`)
	if err != nil {
		return nil, wrapDBError(err)
	}
	return collectGrammars(rows)
}

func (repo *GrammarsDB) GetAllByUser(ctx context.Context, userID uuid.UUID) ([]dao.Grammar, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT `+grammarColumns+` FROM grammars WHERE user_id = ? ORDER BY created, id;`,
		convertToDB_UUID(userID),
	)
	if err != nil {
		return nil, wrapDBError(err)
	}
	return collectGrammars(rows)
}

func (repo *GrammarsDB) GetByID(ctx context.Context, id uuid.UUID) (dao.Grammar, error) {
	row := repo.db.QueryRowContext(ctx, `SELECT `+grammarColumns+` FROM grammars WHERE id = ?;`, convertToDB_UUID(id))
	return scanGrammar(row)
}

func (repo *GrammarsDB) Delete(ctx context.Context, id uuid.UUID) (dao.Grammar, error) {
	curVal, err := repo.GetByID(ctx, id)
	if err != nil {
		return curVal, err
	}

	res, err := repo.db.ExecContext(ctx, `DELETE FROM grammars WHERE id = ?`, convertToDB_UUID(id))
	if err != nil {
		return curVal, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return curVal, wrapDBError(err)
	}
	if rowsAff < 1 {
		return curVal, dao.ErrNotFound
	}

	return curVal, nil
}

func (repo *GrammarsDB) DeleteAllByUser(ctx context.Context, userID uuid.UUID) ([]dao.Grammar, error) {
	curVals, err := repo.GetAllByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	_, err = repo.db.ExecContext(ctx, `DELETE FROM grammars WHERE user_id = ?`, convertToDB_UUID(userID))
	if err != nil {
		return nil, wrapDBError(err)
	}

	return curVals, nil
}

// Close is a no-op; the connection is shared and closed by the store.
func (repo *GrammarsDB) Close() error {
	return nil
}

func collectGrammars(rows *sql.Rows) ([]dao.Grammar, error) {
	defer rows.Close()

	all := []dao.Grammar{}
	for rows.Next() {
		g, err := scanGrammar(rows)
		if err != nil {
			return all, err
		}
		all = append(all, g)
	}

	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}

	return all, nil
}

// scanGrammar reads a row selected with grammarColumns.
func scanGrammar(s scanner) (dao.Grammar, error) {
	var g dao.Grammar
	var id, userID string
	var data []byte
	var created, modified int64

	err := s.Scan(
		&id,
		&userID,
		&g.Name,
		&g.Notation,
		&g.Source,
		&data,
		&created,
		&modified,
	)
	if err != nil {
		return g, wrapDBError(err)
	}

	if err := convertFromDB_UUID(id, &g.ID); err != nil {
		return g, fmt.Errorf("stored UUID %q is invalid: %w", id, err)
	}
	if err := convertFromDB_UUID(userID, &g.UserID); err != nil {
		return g, fmt.Errorf("stored user UUID %q is invalid: %w", userID, err)
	}
	if err := convertFromDB_Grammar(data, &g.Grammar); err != nil {
		return g, fmt.Errorf("stored grammar data is invalid: %w", err)
	}

	g.Created = convertFromDB_Time(created)
	g.Modified = convertFromDB_Time(modified)

	return g, nil
}
