package update

// SchemaVersion is the current history schema version.
const SchemaVersion = 1

// Schema creates the history tables.
const Schema = `
CREATE TABLE IF NOT EXISTS updates (
    id TEXT PRIMARY KEY,
    source TEXT NOT NULL,
    started_at INTEGER NOT NULL,
    duration_ms INTEGER NOT NULL,
    result TEXT NOT NULL,

    -- Document timestamps as epoch seconds, 0 when unknown
    local_timestamp INTEGER NOT NULL DEFAULT 0,
    remote_timestamp INTEGER NOT NULL DEFAULT 0,
    domains INTEGER NOT NULL DEFAULT 0,

    error TEXT
);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_updates_started_at ON updates(started_at);
CREATE INDEX IF NOT EXISTS idx_updates_result ON updates(result);
`

const insertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

const getSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`

const insertUpdate = `
INSERT INTO updates (
    id, source, started_at, duration_ms, result,
    local_timestamp, remote_timestamp, domains, error
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);
`

const selectRecent = `
SELECT id, source, started_at, duration_ms, result,
       local_timestamp, remote_timestamp, domains, error
FROM updates
ORDER BY started_at DESC
LIMIT ?;
`

const selectLastSuccess = `
SELECT started_at FROM updates
WHERE result != ?
ORDER BY started_at DESC
LIMIT 1;
`
