package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS usage_events (
    id                   INTEGER PRIMARY KEY AUTOINCREMENT,
    kind                 TEXT NOT NULL,
    prompt               TEXT,
    spending_pct         REAL NOT NULL,
    hiring_count         INTEGER NOT NULL,
    pricing_pct          REAL NOT NULL,
    net_income           REAL NOT NULL,
    created_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS reports (
    report_id            TEXT PRIMARY KEY,
    format               TEXT NOT NULL,
    body                 BLOB NOT NULL,
    created_at           TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_usage_kind ON usage_events(kind);
`
