package sqlite

import "database/sql"

// schema sets up the database. It runs on startup to ensure tables exist.
//
// Groups are stored as JSON documents: members, announcements and candidates
// are embedded in doc and only code, owner and ordering columns are broken out.
// version is the optimistic lock checked by UpdateGroup.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS groups (
    id TEXT PRIMARY KEY,
    code TEXT NOT NULL UNIQUE,
    owner_id TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    version INTEGER NOT NULL DEFAULT 0,
    doc TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS exclusions (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    poi_type TEXT NOT NULL,
    poi_id INTEGER NOT NULL,
    name TEXT NOT NULL,
    address TEXT NOT NULL DEFAULT '',
    lat REAL,
    lon REAL,
    created_at INTEGER NOT NULL,
    UNIQUE (user_id, poi_type, poi_id)
);

CREATE INDEX IF NOT EXISTS idx_groups_owner_id ON groups(owner_id);
CREATE INDEX IF NOT EXISTS idx_groups_created_at ON groups(created_at);
CREATE INDEX IF NOT EXISTS idx_exclusions_user_id ON exclusions(user_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
