package sqlstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/chronograph-db/chronograph/internal/entity"
	"github.com/chronograph-db/chronograph/internal/ids"
	"github.com/chronograph-db/chronograph/internal/storage"
)

type nodeRepo struct {
	store *Store
	exec  executor
}

func (r *nodeRepo) decodeRow(op string, loc ids.Locator, typ, dataClass, data, created string, expired *string, components string) (entity.Node, error) {
	createdAt, err := parseTime(created)
	if err != nil {
		return entity.Node{}, storage.StorageErr(op, err)
	}
	expiredAt, err := parseNullableTime(expired)
	if err != nil {
		return entity.Node{}, storage.StorageErr(op, err)
	}
	comps, err := decodeComponents(components)
	if err != nil {
		return entity.Node{}, storage.StorageErr(op, err)
	}
	d, err := r.store.codec.Deserialize([]byte(data), dataClass)
	if err != nil {
		return entity.Node{}, storage.StorageErr(op, err)
	}
	return entity.Node{Locator: loc, Type: typ, Data: d, Components: comps,
		Temporal: entity.Temporal{Created: createdAt, Expired: expiredAt}}, nil
}

func (r *nodeRepo) Save(ctx context.Context, n entity.Node) error {
	const op = "sqlstore.NodeRepository.Save"
	var typ, dataClass, data, created, components string
	var expired *string
	row := r.exec.QueryRowContext(ctx,
		`SELECT type, data_class, data, created, expired, components FROM chronograph_nodes WHERE id = ? AND version = ?`,
		string(n.Locator.ID), n.Locator.Version)
	err := row.Scan(&typ, &dataClass, &data, &created, &expired, &components)
	switch {
	case err == sql.ErrNoRows:
		raw, serr := r.store.codec.Serialize(n.Data)
		if serr != nil {
			return storage.StorageErr(op, serr)
		}
		_, ierr := r.exec.ExecContext(ctx,
			`INSERT INTO chronograph_nodes (id, version, type, created, expired, data_class, data, components) VALUES (?,?,?,?,?,?,?,?)`,
			string(n.Locator.ID), n.Locator.Version, n.Type, formatTime(n.Created), formatNullableTime(n.Expired),
			n.Data.Class, string(raw), encodeComponents(n.Components))
		if ierr != nil {
			return storage.StorageErr(op, ierr)
		}
		return nil
	case err != nil:
		return storage.StorageErr(op, err)
	default:
		existing, derr := r.decodeRow(op, n.Locator, typ, dataClass, data, created, expired, components)
		if derr != nil {
			return derr
		}
		if existing.Type == n.Type && existing.Data.Equal(n.Data) {
			return nil
		}
		return storage.Conflict(op)
	}
}

func (r *nodeRepo) Expire(ctx context.Context, id ids.Id, at time.Time) (bool, error) {
	const op = "sqlstore.NodeRepository.Expire"
	res, err := r.exec.ExecContext(ctx,
		`UPDATE chronograph_nodes SET expired = ? WHERE id = ? AND expired IS NULL`,
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

func (r *nodeRepo) queryOne(ctx context.Context, op, query string, args ...any) (entity.Node, bool, error) {
	row := r.exec.QueryRowContext(ctx, query, args...)
	var id string
	var version int64
	var typ, dataClass, data, created, components string
	var expired *string
	err := row.Scan(&id, &version, &typ, &dataClass, &data, &created, &expired, &components)
	if err == sql.ErrNoRows {
		return entity.Node{}, false, nil
	}
	if err != nil {
		return entity.Node{}, false, storage.StorageErr(op, err)
	}
	n, derr := r.decodeRow(op, ids.Locator{ID: ids.Id(id), Version: version}, typ, dataClass, data, created, expired, components)
	if derr != nil {
		return entity.Node{}, false, derr
	}
	return n, true, nil
}

func (r *nodeRepo) Find(ctx context.Context, loc ids.Locator) (entity.Node, bool, error) {
	return r.queryOne(ctx, "sqlstore.NodeRepository.Find",
		`SELECT id, version, type, data_class, data, created, expired, components FROM chronograph_nodes WHERE id = ? AND version = ?`,
		string(loc.ID), loc.Version)
}

func (r *nodeRepo) FindActive(ctx context.Context, id ids.Id) (entity.Node, bool, error) {
	return r.queryOne(ctx, "sqlstore.NodeRepository.FindActive",
		`SELECT id, version, type, data_class, data, created, expired, components FROM chronograph_nodes WHERE id = ? AND expired IS NULL LIMIT 1`,
		string(id))
}

func (r *nodeRepo) FindAt(ctx context.Context, id ids.Id, at time.Time) (entity.Node, bool, error) {
	t := formatTime(at)
	return r.queryOne(ctx, "sqlstore.NodeRepository.FindAt",
		`SELECT id, version, type, data_class, data, created, expired, components FROM chronograph_nodes
		 WHERE id = ? AND created <= ? AND (expired IS NULL OR expired > ?) ORDER BY version DESC LIMIT 1`,
		string(id), t, t)
}

func (r *nodeRepo) FindAll(ctx context.Context, id ids.Id) ([]entity.Node, error) {
	const op = "sqlstore.NodeRepository.FindAll"
	rows, err := r.exec.QueryContext(ctx,
		`SELECT id, version, type, data_class, data, created, expired, components FROM chronograph_nodes WHERE id = ? ORDER BY version ASC`,
		string(id))
	if err != nil {
		return nil, storage.StorageErr(op, err)
	}
	defer rows.Close()

	var out []entity.Node
	for rows.Next() {
		var rid string
		var version int64
		var typ, dataClass, data, created, components string
		var expired *string
		if err := rows.Scan(&rid, &version, &typ, &dataClass, &data, &created, &expired, &components); err != nil {
			return nil, storage.StorageErr(op, err)
		}
		n, derr := r.decodeRow(op, ids.Locator{ID: ids.Id(rid), Version: version}, typ, dataClass, data, created, expired, components)
		if derr != nil {
			return nil, derr
		}
		out = append(out, n)
	}
	return out, storage.StorageErr(op, rows.Err())
}

func (r *nodeRepo) idList(ctx context.Context, op, query string) ([]ids.Id, error) {
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

func (r *nodeRepo) AllIDs(ctx context.Context) ([]ids.Id, error) {
	return r.idList(ctx, "sqlstore.NodeRepository.AllIDs", `SELECT DISTINCT id FROM chronograph_nodes`)
}

func (r *nodeRepo) AllActiveIDs(ctx context.Context) ([]ids.Id, error) {
	return r.idList(ctx, "sqlstore.NodeRepository.AllActiveIDs", `SELECT DISTINCT id FROM chronograph_nodes WHERE expired IS NULL`)
}

func (r *nodeRepo) Delete(ctx context.Context, id ids.Id) (bool, error) {
	const op = "sqlstore.NodeRepository.Delete"
	res, err := r.exec.ExecContext(ctx, `DELETE FROM chronograph_nodes WHERE id = ?`, string(id))
	if err != nil {
		return false, storage.StorageErr(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, storage.StorageErr(op, err)
	}
	return n > 0, nil
}
