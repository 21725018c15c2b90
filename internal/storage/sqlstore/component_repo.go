package sqlstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/chronograph-db/chronograph/internal/entity"
	"github.com/chronograph-db/chronograph/internal/ids"
	"github.com/chronograph-db/chronograph/internal/storage"
)

type componentRepo struct {
	store *Store
	exec  executor
}

func (r *componentRepo) decodeRow(op string, loc ids.Locator, typ, dataClass, data, created string, expired *string) (entity.Component, error) {
	createdAt, err := parseTime(created)
	if err != nil {
		return entity.Component{}, storage.StorageErr(op, err)
	}
	expiredAt, err := parseNullableTime(expired)
	if err != nil {
		return entity.Component{}, storage.StorageErr(op, err)
	}
	d, err := r.store.codec.Deserialize([]byte(data), dataClass)
	if err != nil {
		return entity.Component{}, storage.StorageErr(op, err)
	}
	return entity.Component{Locator: loc, Type: typ, Data: d,
		Temporal: entity.Temporal{Created: createdAt, Expired: expiredAt}}, nil
}

func (r *componentRepo) Save(ctx context.Context, c entity.Component) error {
	const op = "sqlstore.ComponentRepository.Save"
	var typ, dataClass, data, created string
	var expired *string
	row := r.exec.QueryRowContext(ctx,
		`SELECT type, data_class, data, created, expired FROM chronograph_components WHERE id = ? AND version = ?`,
		string(c.Locator.ID), c.Locator.Version)
	err := row.Scan(&typ, &dataClass, &data, &created, &expired)
	switch {
	case err == sql.ErrNoRows:
		raw, serr := r.store.codec.Serialize(c.Data)
		if serr != nil {
			return storage.StorageErr(op, serr)
		}
		_, ierr := r.exec.ExecContext(ctx,
			`INSERT INTO chronograph_components (id, version, type, created, expired, data_class, data) VALUES (?,?,?,?,?,?,?)`,
			string(c.Locator.ID), c.Locator.Version, c.Type, formatTime(c.Created), formatNullableTime(c.Expired), c.Data.Class, string(raw))
		if ierr != nil {
			return storage.StorageErr(op, ierr)
		}
		return nil
	case err != nil:
		return storage.StorageErr(op, err)
	default:
		existing, derr := r.decodeRow(op, c.Locator, typ, dataClass, data, created, expired)
		if derr != nil {
			return derr
		}
		if existing.Type == c.Type && existing.Data.Equal(c.Data) {
			return nil
		}
		return storage.Conflict(op)
	}
}

func (r *componentRepo) Expire(ctx context.Context, id ids.Id, at time.Time) (bool, error) {
	const op = "sqlstore.ComponentRepository.Expire"
	res, err := r.exec.ExecContext(ctx,
		`UPDATE chronograph_components SET expired = ? WHERE id = ? AND expired IS NULL`,
		formatTime(at), string(id))
	if err != nil {
		return false, storage.StorageErr(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, storage.StorageErr(op, err)
	}
	return n > 0, nil
}

const componentSelectCols = `id, version, type, data_class, data, created, expired`

func (r *componentRepo) queryOne(ctx context.Context, op, query string, args ...any) (entity.Component, bool, error) {
	row := r.exec.QueryRowContext(ctx, query, args...)
	var id string
	var version int64
	var typ, dataClass, data, created string
	var expired *string
	err := row.Scan(&id, &version, &typ, &dataClass, &data, &created, &expired)
	if err == sql.ErrNoRows {
		return entity.Component{}, false, nil
	}
	if err != nil {
		return entity.Component{}, false, storage.StorageErr(op, err)
	}
	c, derr := r.decodeRow(op, ids.Locator{ID: ids.Id(id), Version: version}, typ, dataClass, data, created, expired)
	if derr != nil {
		return entity.Component{}, false, derr
	}
	return c, true, nil
}

func (r *componentRepo) Find(ctx context.Context, loc ids.Locator) (entity.Component, bool, error) {
	return r.queryOne(ctx, "sqlstore.ComponentRepository.Find",
		`SELECT `+componentSelectCols+` FROM chronograph_components WHERE id = ? AND version = ?`,
		string(loc.ID), loc.Version)
}

func (r *componentRepo) FindActive(ctx context.Context, id ids.Id) (entity.Component, bool, error) {
	return r.queryOne(ctx, "sqlstore.ComponentRepository.FindActive",
		`SELECT `+componentSelectCols+` FROM chronograph_components WHERE id = ? AND expired IS NULL LIMIT 1`,
		string(id))
}

func (r *componentRepo) FindAt(ctx context.Context, id ids.Id, at time.Time) (entity.Component, bool, error) {
	t := formatTime(at)
	return r.queryOne(ctx, "sqlstore.ComponentRepository.FindAt",
		`SELECT `+componentSelectCols+` FROM chronograph_components
		 WHERE id = ? AND created <= ? AND (expired IS NULL OR expired > ?) ORDER BY version DESC LIMIT 1`,
		string(id), t, t)
}

func (r *componentRepo) FindAll(ctx context.Context, id ids.Id) ([]entity.Component, error) {
	const op = "sqlstore.ComponentRepository.FindAll"
	rows, err := r.exec.QueryContext(ctx,
		`SELECT `+componentSelectCols+` FROM chronograph_components WHERE id = ? ORDER BY version ASC`, string(id))
	if err != nil {
		return nil, storage.StorageErr(op, err)
	}
	defer rows.Close()

	var out []entity.Component
	for rows.Next() {
		var rid string
		var version int64
		var typ, dataClass, data, created string
		var expired *string
		if err := rows.Scan(&rid, &version, &typ, &dataClass, &data, &created, &expired); err != nil {
			return nil, storage.StorageErr(op, err)
		}
		c, derr := r.decodeRow(op, ids.Locator{ID: ids.Id(rid), Version: version}, typ, dataClass, data, created, expired)
		if derr != nil {
			return nil, derr
		}
		out = append(out, c)
	}
	return out, storage.StorageErr(op, rows.Err())
}

func (r *componentRepo) idList(ctx context.Context, op, query string) ([]ids.Id, error) {
	rows, err := r.exec.QueryContext(ctx, query)
	if err != nil {
		return nil, storage.StorageErr(op, err)
	}
	defer rows.Close()
	var out []ids.Id
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, storage.StorageErr(op, err)
		}
		out = append(out, ids.Id(id))
	}
	return out, storage.StorageErr(op, rows.Err())
}

func (r *componentRepo) AllIDs(ctx context.Context) ([]ids.Id, error) {
	return r.idList(ctx, "sqlstore.ComponentRepository.AllIDs", `SELECT DISTINCT id FROM chronograph_components`)
}

func (r *componentRepo) AllActiveIDs(ctx context.Context) ([]ids.Id, error) {
	return r.idList(ctx, "sqlstore.ComponentRepository.AllActiveIDs", `SELECT DISTINCT id FROM chronograph_components WHERE expired IS NULL`)
}

func (r *componentRepo) Delete(ctx context.Context, id ids.Id) (bool, error) {
	const op = "sqlstore.ComponentRepository.Delete"
	res, err := r.exec.ExecContext(ctx, `DELETE FROM chronograph_components WHERE id = ?`, string(id))
	if err != nil {
		return false, storage.StorageErr(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, storage.StorageErr(op, err)
	}
	return n > 0, nil
}
