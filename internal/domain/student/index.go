package student

import "strings"

// ══════════════════════════════════════════════════════════════════════════════
// REVERSE LOOKUP INDEX
// ══════════════════════════════════════════════════════════════════════════════

// Index maps platform handles back to the run's records. Leaderboard scans
// (GeeksforGeeks contests, HackerRank) return rows keyed by platform handle;
// the index resolves those rows to records without a linear search per row.
//
// Keys are normalized to lower case with surrounding whitespace removed, so
// lookups are case-insensitive. If two records normalize to the same key,
// the one added last wins; platform usernames are case-insensitive on every
// supported platform, so a collision means a duplicate roster row anyway.
type Index struct {
	byHandle map[string]*Record
}

// NewIndex builds an index over the given records.
func NewIndex(records []*Record) *Index {
	idx := &Index{
		byHandle: make(map[string]*Record, len(records)),
	}
	for _, rec := range records {
		idx.Add(rec)
	}
	return idx
}

// Add inserts a record, replacing any record with the same normalized handle.
func (idx *Index) Add(rec *Record) {
	if rec == nil || rec.PlatformHandle == "" {
		return
	}
	idx.byHandle[normalizeHandle(rec.PlatformHandle)] = rec
}

// Lookup resolves a platform handle to its record.
func (idx *Index) Lookup(platformHandle string) (*Record, bool) {
	rec, ok := idx.byHandle[normalizeHandle(platformHandle)]
	return rec, ok
}

// Len returns the number of distinct normalized handles in the index.
func (idx *Index) Len() int {
	return len(idx.byHandle)
}

// normalizeHandle lower-cases a handle and strips spaces. Codeforces
// responses occasionally echo handles with different casing than the
// roster, and roster spreadsheets grow stray spaces.
func normalizeHandle(h string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(h), " ", ""))
}
