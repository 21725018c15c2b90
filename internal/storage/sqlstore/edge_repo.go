package sqlstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/chronograph-db/chronograph/internal/entity"
	"github.com/chronograph-db/chronograph/internal/ids"
	"github.com/chronograph-db/chronograph/internal/storage"
)

type edgeRepo struct {
	store *Store
	exec  executor
}

func (r *edgeRepo) decodeRow(op string, loc ids.Locator, typ string, source, target ids.Locator, dataClass, data, created string, expired *string, components string) (entity.Edge, error) {
	createdAt, err := parseTime(created)
	if err != nil {
		return entity.Edge{}, storage.StorageErr(op, err)
	}
	expiredAt, err := parseNullableTime(expired)
	if err != nil {
		return entity.Edge{}, storage.StorageErr(op, err)
	}
	comps, err := decodeComponents(components)
	if err != nil {
		return entity.Edge{}, storage.StorageErr(op, err)
	}
	d, err := r.store.codec.Deserialize([]byte(data), dataClass)
	if err != nil {
		return entity.Edge{}, storage.StorageErr(op, err)
	}
	return entity.Edge{Locator: loc, Type: typ, Source: source, Target: target, Data: d, Components: comps,
		Temporal: entity.Temporal{Created: createdAt, Expired: expiredAt}}, nil
}

func (r *edgeRepo) Save(ctx context.Context, e entity.Edge) error {
	const op = "sqlstore.EdgeRepository.Save"
	var typ, sourceID, targetID, dataClass, data, created, components string
	var sourceVersion, targetVersion int64
	var expired *string
	row := r.exec.QueryRowContext(ctx,
		`SELECT type, source_id, source_version, target_id, target_version, data_class, data, created, expired, components
		 FROM chronograph_edges WHERE id = ? AND version = ?`,
		string(e.Locator.ID), e.Locator.Version)
	err := row.Scan(&typ, &sourceID, &sourceVersion, &targetID, &targetVersion, &dataClass, &data, &created, &expired, &components)
	switch {
	case err == sql.ErrNoRows:
		raw, serr := r.store.codec.Serialize(e.Data)
		if serr != nil {
			return storage.StorageErr(op, serr)
		}
		_, ierr := r.exec.ExecContext(ctx,
			`INSERT INTO chronograph_edges (id, version, type, source_id, source_version, target_id, target_version, created, expired, data_class, data, components)
			 VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
			string(e.Locator.ID), e.Locator.Version, e.Type,
			string(e.Source.ID), e.Source.Version, string(e.Target.ID), e.Target.Version,
			formatTime(e.Created), formatNullableTime(e.Expired), e.Data.Class, string(raw), encodeComponents(e.Components))
		if ierr != nil {
			return storage.StorageErr(op, ierr)
		}
		return nil
	case err != nil:
		return storage.StorageErr(op, err)
	default:
		existing, derr := r.decodeRow(op, e.Locator, typ,
			ids.Locator{ID: ids.Id(sourceID), Version: sourceVersion}, ids.Locator{ID: ids.Id(targetID), Version: targetVersion},
			dataClass, data, created, expired, components)
		if derr != nil {
			return derr
		}
		if existing.Type == e.Type && existing.Data.Equal(e.Data) && existing.Source == e.Source && existing.Target == e.Target {
			return nil
		}
		return storage.Conflict(op)
	}
}

func (r *edgeRepo) Expire(ctx context.Context, id ids.Id, at time.Time) (bool, error) {
	const op = "sqlstore.EdgeRepository.Expire"
	res, err := r.exec.ExecContext(ctx,
		`UPDATE chronograph_edges SET expired = ? WHERE id = ? AND expired IS NULL`,
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

func (r *edgeRepo) queryOne(ctx context.Context, op, query string, args ...any) (entity.Edge, bool, error) {
	row := r.exec.QueryRowContext(ctx, query, args...)
	var id, sourceID, targetID string
	var version, sourceVersion, targetVersion int64
	var typ, dataClass, data, created, components string
	var expired *string
	err := row.Scan(&id, &version, &typ, &sourceID, &sourceVersion, &targetID, &targetVersion, &dataClass, &data, &created, &expired, &components)
	if err == sql.ErrNoRows {
		return entity.Edge{}, false, nil
	}
	if err != nil {
		return entity.Edge{}, false, storage.StorageErr(op, err)
	}
	e, derr := r.decodeRow(op, ids.Locator{ID: ids.Id(id), Version: version}, typ,
		ids.Locator{ID: ids.Id(sourceID), Version: sourceVersion}, ids.Locator{ID: ids.Id(targetID), Version: targetVersion},
		dataClass, data, created, expired, components)
	if derr != nil {
		return entity.Edge{}, false, derr
	}
	return e, true, nil
}

const edgeSelectCols = `id, version, type, source_id, source_version, target_id, target_version, data_class, data, created, expired, components`

func (r *edgeRepo) Find(ctx context.Context, loc ids.Locator) (entity.Edge, bool, error) {
	return r.queryOne(ctx, "sqlstore.EdgeRepository.Find",
		`SELECT `+edgeSelectCols+` FROM chronograph_edges WHERE id = ? AND version = ?`,
		string(loc.ID), loc.Version)
}

func (r *edgeRepo) FindActive(ctx context.Context, id ids.Id) (entity.Edge, bool, error) {
	return r.queryOne(ctx, "sqlstore.EdgeRepository.FindActive",
		`SELECT `+edgeSelectCols+` FROM chronograph_edges WHERE id = ? AND expired IS NULL LIMIT 1`,
		string(id))
}

func (r *edgeRepo) FindAt(ctx context.Context, id ids.Id, at time.Time) (entity.Edge, bool, error) {
	t := formatTime(at)
	return r.queryOne(ctx, "sqlstore.EdgeRepository.FindAt",
		`SELECT `+edgeSelectCols+` FROM chronograph_edges
		 WHERE id = ? AND created <= ? AND (expired IS NULL OR expired > ?) ORDER BY version DESC LIMIT 1`,
		string(id), t, t)
}

func (r *edgeRepo) FindAll(ctx context.Context, id ids.Id) ([]entity.Edge, error) {
	const op = "sqlstore.EdgeRepository.FindAll"
	rows, err := r.exec.QueryContext(ctx,
		`SELECT `+edgeSelectCols+` FROM chronograph_edges WHERE id = ? ORDER BY version ASC`, string(id))
	if err != nil {
		return nil, storage.StorageErr(op, err)
	}
	defer rows.Close()

	var out []entity.Edge
	for rows.Next() {
		var rid, sourceID, targetID string
		var version, sourceVersion, targetVersion int64
		var typ, dataClass, data, created, components string
		var expired *string
		if err := rows.Scan(&rid, &version, &typ, &sourceID, &sourceVersion, &targetID, &targetVersion, &dataClass, &data, &created, &expired, &components); err != nil {
			return nil, storage.StorageErr(op, err)
		}
		e, derr := r.decodeRow(op, ids.Locator{ID: ids.Id(rid), Version: version}, typ,
			ids.Locator{ID: ids.Id(sourceID), Version: sourceVersion}, ids.Locator{ID: ids.Id(targetID), Version: targetVersion},
			dataClass, data, created, expired, components)
		if derr != nil {
			return nil, derr
		}
		out = append(out, e)
	}
	return out, storage.StorageErr(op, rows.Err())
}

func (r *edgeRepo) idList(ctx context.Context, op, query string) ([]ids.Id, error) {
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

func (r *edgeRepo) AllIDs(ctx context.Context) ([]ids.Id, error) {
	return r.idList(ctx, "sqlstore.EdgeRepository.AllIDs", `SELECT DISTINCT id FROM chronograph_edges`)
}

func (r *edgeRepo) AllActiveIDs(ctx context.Context) ([]ids.Id, error) {
	return r.idList(ctx, "sqlstore.EdgeRepository.AllActiveIDs", `SELECT DISTINCT id FROM chronograph_edges WHERE expired IS NULL`)
}

func (r *edgeRepo) Delete(ctx context.Context, id ids.Id) (bool, error) {
	const op = "sqlstore.EdgeRepository.Delete"
	res, err := r.exec.ExecContext(ctx, `DELETE FROM chronograph_edges WHERE id = ?`, string(id))
	if err != nil {
		return false, storage.StorageErr(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, storage.StorageErr(op, err)
	}
	return n > 0, nil
}
