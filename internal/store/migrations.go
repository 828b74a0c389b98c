package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS announcement_texts (
	scope    TEXT NOT NULL,
	position INTEGER NOT NULL CHECK(position >= 0),
	id       TEXT NOT NULL DEFAULT '',
	text     TEXT NOT NULL,
	PRIMARY KEY (scope, position)
);

CREATE TABLE IF NOT EXISTS announcement_dates (
	scope        TEXT NOT NULL,
	position     INTEGER NOT NULL CHECK(position >= 0),
	created_date TEXT NOT NULL,
	PRIMARY KEY (scope, position)
);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE TABLE IF NOT EXISTS scopes (
	name         TEXT PRIMARY KEY,
	record_count INTEGER NOT NULL DEFAULT 0,
	saved_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

INSERT OR IGNORE INTO scopes (name, record_count)
	SELECT scope, COUNT(*) FROM announcement_texts GROUP BY scope;

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
