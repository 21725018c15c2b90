// Package sqlstore is the shared MySQL-dialect storage layer behind both
// the dolt and mysql backends (dolt is MySQL wire-compatible, so one
// schema and one query layer serve both — the two backends differ only
// in driver name and DSN). This is the textual-structured storage shape
// (spec §4.2): Data is serialized through the JSON codec
// (internal/payload/jsoncodec) into a single TEXT column, distinct from
// the memory backend's flat property-map shape.
package sqlstore

// schemaStatements creates the three versioned-entity tables plus the
// indexes required by spec §6: (id), (id, expired is null), and the
// edge endpoint indexes. CREATE TABLE IF NOT EXISTS / CREATE INDEX are
// used so schema application is idempotent across repeated startups.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS chronograph_nodes (
		id VARCHAR(32) NOT NULL,
		version BIGINT NOT NULL,
		type VARCHAR(255) NOT NULL,
		created VARCHAR(32) NOT NULL,
		expired VARCHAR(32) NULL,
		data_class VARCHAR(255) NOT NULL,
		data TEXT NOT NULL,
		components TEXT NOT NULL,
		PRIMARY KEY (id, version)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_chronograph_nodes_id ON chronograph_nodes (id)`,
	`CREATE INDEX IF NOT EXISTS idx_chronograph_nodes_active ON chronograph_nodes (id, expired)`,

	`CREATE TABLE IF NOT EXISTS chronograph_edges (
		id VARCHAR(32) NOT NULL,
		version BIGINT NOT NULL,
		type VARCHAR(255) NOT NULL,
		source_id VARCHAR(32) NOT NULL,
		source_version BIGINT NOT NULL,
		target_id VARCHAR(32) NOT NULL,
		target_version BIGINT NOT NULL,
		created VARCHAR(32) NOT NULL,
		expired VARCHAR(32) NULL,
		data_class VARCHAR(255) NOT NULL,
		data TEXT NOT NULL,
		components TEXT NOT NULL,
		PRIMARY KEY (id, version)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_chronograph_edges_id ON chronograph_edges (id)`,
	`CREATE INDEX IF NOT EXISTS idx_chronograph_edges_active ON chronograph_edges (id, expired)`,
	`CREATE INDEX IF NOT EXISTS idx_chronograph_edges_source ON chronograph_edges (source_id, source_version)`,
	`CREATE INDEX IF NOT EXISTS idx_chronograph_edges_target ON chronograph_edges (target_id, target_version)`,

	`CREATE TABLE IF NOT EXISTS chronograph_components (
		id VARCHAR(32) NOT NULL,
		version BIGINT NOT NULL,
		type VARCHAR(255) NOT NULL,
		created VARCHAR(32) NOT NULL,
		expired VARCHAR(32) NULL,
		data_class VARCHAR(255) NOT NULL,
		data TEXT NOT NULL,
		PRIMARY KEY (id, version)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_chronograph_components_id ON chronograph_components (id)`,
	`CREATE INDEX IF NOT EXISTS idx_chronograph_components_active ON chronograph_components (id, expired)`,
}
