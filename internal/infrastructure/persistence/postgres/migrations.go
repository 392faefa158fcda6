// Package postgres implements the PostgreSQL persistence layer.
package postgres

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: CREATE ROSTER
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Migration: Create roster table
-- Version: 001

-- One row per tracked student: the roster handle, the usernames on each
-- competitive programming platform, and the verified-existence flags the
-- username verifier maintains. Handle columns hold the raw sheet value;
-- an empty string means no account on that platform.
CREATE TABLE IF NOT EXISTS roster (
    handle VARCHAR(50) PRIMARY KEY,

    gfg_handle VARCHAR(100) NOT NULL DEFAULT '',
    codeforces_handle VARCHAR(100) NOT NULL DEFAULT '',
    leetcode_handle VARCHAR(100) NOT NULL DEFAULT '',
    codechef_handle VARCHAR(100) NOT NULL DEFAULT '',
    hackerrank_handle VARCHAR(100) NOT NULL DEFAULT '',

    gfg_exists BOOLEAN NOT NULL DEFAULT FALSE,
    codeforces_exists BOOLEAN NOT NULL DEFAULT FALSE,
    leetcode_exists BOOLEAN NOT NULL DEFAULT FALSE,
    codechef_exists BOOLEAN NOT NULL DEFAULT FALSE,
    hackerrank_exists BOOLEAN NOT NULL DEFAULT FALSE,

    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

-- Partial indexes for the per-platform roster slices the collectors read.
CREATE INDEX IF NOT EXISTS idx_roster_gfg ON roster(gfg_handle) WHERE gfg_handle <> '' AND gfg_exists;
CREATE INDEX IF NOT EXISTS idx_roster_codeforces ON roster(codeforces_handle) WHERE codeforces_handle <> '' AND codeforces_exists;
CREATE INDEX IF NOT EXISTS idx_roster_leetcode ON roster(leetcode_handle) WHERE leetcode_handle <> '' AND leetcode_exists;
CREATE INDEX IF NOT EXISTS idx_roster_codechef ON roster(codechef_handle) WHERE codechef_handle <> '' AND codechef_exists;
CREATE INDEX IF NOT EXISTS idx_roster_hackerrank ON roster(hackerrank_handle) WHERE hackerrank_handle <> '' AND hackerrank_exists;

-- Updated_at trigger function for automatic timestamp updates
CREATE OR REPLACE FUNCTION update_updated_at_column()
RETURNS TRIGGER AS $$
BEGIN
    NEW.updated_at = NOW();
    RETURN NEW;
END;
$$ language 'plpgsql';

DROP TRIGGER IF EXISTS update_roster_updated_at ON roster;
CREATE TRIGGER update_roster_updated_at
    BEFORE UPDATE ON roster
    FOR EACH ROW
    EXECUTE FUNCTION update_updated_at_column();
`
