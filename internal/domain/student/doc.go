// Package student contains the domain model of the rating aggregation
// pipeline. This is the core of the system and has no external dependencies.
//
// The package defines:
//
//   - Entities: Record (one per student and platform per run)
//   - Value Objects: Handle, Platform
//   - Index: reverse lookup from platform handle to Record
//   - Repository interfaces: RosterRepository (implemented in infrastructure)
//
// # Main entity
//
// Record represents a single student on a single platform during one
// aggregation run. Its rating is optional: an unrated student is not the
// same as a student rated zero.
//
//	rec := NewRecord("22r01a0501", PlatformCodeforces, "tourist_fan")
//	rec.SetRating(1500)
//	if rating, ok := rec.Rating(); ok {
//	    // rating was observed during this run
//	}
//
// # Reverse lookup
//
// Leaderboard-style platforms (GeeksforGeeks contests, HackerRank) return
// rows keyed by platform handle. Index resolves those rows back to the
// run's records, case-insensitively:
//
//	idx := NewIndex(records)
//	if rec, ok := idx.Lookup("SomeHandle"); ok {
//	    rec.AddRating(score)
//	}
package student
