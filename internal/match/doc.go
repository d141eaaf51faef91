// Package match implements approximate string matching for answer checking.
// Guesses and answers are normalized (case folded, diacritics stripped,
// hyphens and apostrophes neutralized) and then compared by Levenshtein
// distance against a configurable tolerance.
package match
