// ABOUTME: SQLite schema for the wiki corpus
// ABOUTME: Pages own segments; segment insertion order is the ranking tie-break order
package sqlite

// Schema contains all SQL statements for database initialization.
const Schema = `
-- Wiki pages, immutable between ingestion runs
CREATE TABLE IF NOT EXISTS pages (
    title TEXT PRIMARY KEY,
    content TEXT NOT NULL
);

-- Token-bounded page segments with their embedding vectors.
-- ordinal is 0 for a page that fit in a single segment.
CREATE TABLE IF NOT EXISTS segments (
    page_title TEXT NOT NULL REFERENCES pages(title) ON DELETE CASCADE,
    ordinal INTEGER NOT NULL DEFAULT 0,
    content TEXT NOT NULL,
    token_count INTEGER NOT NULL,
    embedding BLOB,
    PRIMARY KEY (page_title, ordinal)
);

CREATE INDEX IF NOT EXISTS idx_segments_page ON segments(page_title);
`
