package facade

import (
	"context"
	"time"

	"github.com/chronograph-db/chronograph/internal/engine"
	"github.com/chronograph-db/chronograph/internal/entity"
	"github.com/chronograph-db/chronograph/internal/ids"
	"github.com/chronograph-db/chronograph/internal/payload"
	"github.com/chronograph-db/chronograph/internal/storage"
)

// ComponentService is the Component facade (spec §4.6).
type ComponentService struct {
	factory storage.SessionFactory
	run     Runner
}

// Add creates a component at version 1.
func (s *ComponentService) Add(ctx context.Context, typ string, data payload.Data, at time.Time) (entity.Component, error) {
	var out entity.Component
	err := s.run(ctx, s.factory, func(sess storage.Session) error {
		c, err := engine.New(sess.Graph()).AddComponent(ctx, typ, data, at)
		if err != nil {
			return err
		}
		out = c
		return nil
	})
	return out, err
}

// Update is the deepest cascade in the system (spec §4.4): every edge
// and node that references this component is remapped to the new
// version in the deterministic order spec §5 mandates.
func (s *ComponentService) Update(ctx context.Context, id ids.Id, upd engine.ComponentUpdate, at time.Time) (entity.Component, error) {
	var out entity.Component
	err := s.run(ctx, s.factory, func(sess storage.Session) error {
		c, err := engine.New(sess.Graph()).UpdateComponent(ctx, id, upd, at)
		if err != nil {
			return err
		}
		out = c
		return nil
	})
	return out, err
}

// Expire expires id; no cascade (spec §4.4 — deliberate).
func (s *ComponentService) Expire(ctx context.Context, id ids.Id, at time.Time) (entity.Component, error) {
	var out entity.Component
	err := s.run(ctx, s.factory, func(sess storage.Session) error {
		c, err := engine.New(sess.Graph()).ExpireComponent(ctx, id, at)
		if err != nil {
			return err
		}
		out = c
		return nil
	})
	return out, err
}

// Find returns the exact version named by loc.
func (s *ComponentService) Find(ctx context.Context, loc ids.Locator) (entity.Component, bool, error) {
	var out entity.Component
	var found bool
	err := s.run(ctx, s.factory, func(sess storage.Session) error {
		c, f, err := sess.Graph().Components.Find(ctx, loc)
		if err != nil {
			return err
		}
		out, found = c, f
		return nil
	})
	return out, found, err
}

// FindActive returns the unexpired version of id, if any.
func (s *ComponentService) FindActive(ctx context.Context, id ids.Id) (entity.Component, bool, error) {
	var out entity.Component
	var found bool
	err := s.run(ctx, s.factory, func(sess storage.Session) error {
		c, f, err := sess.Graph().Components.FindActive(ctx, id)
		if err != nil {
			return err
		}
		out, found = c, f
		return nil
	})
	return out, found, err
}

// FindAt returns the version of id active at instant at.
func (s *ComponentService) FindAt(ctx context.Context, id ids.Id, at time.Time) (entity.Component, bool, error) {
	var out entity.Component
	var found bool
	err := s.run(ctx, s.factory, func(sess storage.Session) error {
		c, f, err := sess.Graph().Components.FindAt(ctx, id, at)
		if err != nil {
			return err
		}
		out, found = c, f
		return nil
	})
	return out, found, err
}

// FindAllVersions returns every version of id, ascending by version.
func (s *ComponentService) FindAllVersions(ctx context.Context, id ids.Id) ([]entity.Component, error) {
	var out []entity.Component
	err := s.run(ctx, s.factory, func(sess storage.Session) error {
		v, err := sess.Graph().Components.FindAll(ctx, id)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}

// AllActiveIDs returns every id with an unexpired version.
func (s *ComponentService) AllActiveIDs(ctx context.Context) ([]ids.Id, error) {
	var out []ids.Id
	err := s.run(ctx, s.factory, func(sess storage.Session) error {
		v, err := sess.Graph().Components.AllActiveIDs(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}

// AllIDs returns every id that has at least one version.
func (s *ComponentService) AllIDs(ctx context.Context) ([]ids.Id, error) {
	var out []ids.Id
	err := s.run(ctx, s.factory, func(sess storage.Session) error {
		v, err := sess.Graph().Components.AllIDs(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}

// Delete hard-removes every version of id. Administrative purge only.
func (s *ComponentService) Delete(ctx context.Context, id ids.Id) (bool, error) {
	var out bool
	err := s.run(ctx, s.factory, func(sess storage.Session) error {
		v, err := sess.Graph().Components.Delete(ctx, id)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}
