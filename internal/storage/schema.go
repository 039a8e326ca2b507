package storage

// Schema is the SQL schema for opsdesk.db. List-valued fields are stored as
// JSON text.
const Schema = `
CREATE TABLE IF NOT EXISTS tasks (
    id              TEXT PRIMARY KEY,
    project_id      TEXT NOT NULL DEFAULT '',
    title           TEXT NOT NULL,
    status          TEXT NOT NULL DEFAULT 'backlog'
                    CHECK(status IN ('backlog', 'in-progress', 'review', 'done')),
    priority        TEXT NOT NULL DEFAULT 'medium',
    area            TEXT NOT NULL DEFAULT 'general',
    assignee        TEXT NOT NULL DEFAULT '',
    description     TEXT NOT NULL DEFAULT '',
    due_date        TEXT NOT NULL DEFAULT '',
    estimated_hours REAL NOT NULL DEFAULT 0,
    created_at      TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at      TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS meetings (
    id          TEXT PRIMARY KEY,
    project_id  TEXT NOT NULL DEFAULT '',
    title       TEXT NOT NULL,
    time        TEXT NOT NULL,
    date        TEXT NOT NULL,
    type        TEXT NOT NULL DEFAULT 'internal'
                CHECK(type IN ('client', 'internal', 'review')),
    attendees   TEXT NOT NULL DEFAULT '[]',
    created_at  TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS projects (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL,
    client      TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    status      TEXT NOT NULL DEFAULT 'planning'
                CHECK(status IN ('planning', 'development', 'production', 'maintenance', 'completed')),
    category    TEXT NOT NULL DEFAULT 'development',
    start_date  TEXT NOT NULL DEFAULT '',
    deadline    TEXT NOT NULL DEFAULT '',
    progress    INTEGER NOT NULL DEFAULT 0,
    team_ids    TEXT NOT NULL DEFAULT '[]',
    tech_stack  TEXT NOT NULL DEFAULT '[]',
    roadmap     TEXT NOT NULL DEFAULT '[]',
    created_at  TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at  TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS team_members (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL,
    role        TEXT NOT NULL DEFAULT '',
    avatar      TEXT NOT NULL DEFAULT '',
    status      TEXT NOT NULL DEFAULT 'offline'
                CHECK(status IN ('online', 'busy', 'offline')),
    skills      TEXT NOT NULL DEFAULT '[]',
    experience  TEXT NOT NULL DEFAULT '',
    bio         TEXT NOT NULL DEFAULT '',
    schedule    TEXT NOT NULL DEFAULT '',
    workload    INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS market_tools (
    position    INTEGER NOT NULL,
    id          TEXT PRIMARY KEY,
    data        TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS budgets (
    id            TEXT PRIMARY KEY,
    client_name   TEXT NOT NULL,
    total_monthly REAL NOT NULL DEFAULT 0,
    setup_fee     REAL NOT NULL DEFAULT 0,
    items         TEXT NOT NULL DEFAULT '[]',
    status        TEXT NOT NULL DEFAULT 'draft'
                  CHECK(status IN ('draft', 'generated')),
    created_at    TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id);
CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);
CREATE INDEX IF NOT EXISTS idx_meetings_slot ON meetings(date, time);
`

// dsn holds the pragmas applied to every connection.
const dsn = "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)"
