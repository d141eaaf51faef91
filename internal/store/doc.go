// Package store persists channel round state, user sessions, and score
// boards in SQLite. Multi-field state transitions are applied in single
// UPDATE statements so concurrent readers never observe a half-applied
// transition.
package store
