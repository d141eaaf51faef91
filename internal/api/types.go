package api

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// RoundView describes a presented round in a transport-friendly format.
type RoundView struct {
	Channel  string `json:"channel"`
	Domain   string `json:"domain"`
	FilePath string `json:"filePath"`
	Prompt   string `json:"prompt"`
	Repeat   bool   `json:"repeat"`
}

// GuessOutcome reports the result of a guess, including the revealed subject.
type GuessOutcome struct {
	Correct     bool   `json:"correct"`
	Subject     string `json:"subject"`
	GlobalScore int64  `json:"globalScore,omitempty"`
	Message     string `json:"message"`
}

// SkipResult reveals the skipped round's subject.
type SkipResult struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// HintResult carries a masked form of the open round's subject.
type HintResult struct {
	Hint string `json:"hint"`
}

// LookupResult resolves a possibly misspelled name to a catalog entry, with a
// media file for it when one is available.
type LookupResult struct {
	Name     string `json:"name"`
	FilePath string `json:"filePath,omitempty"`
}

// SessionView summarizes a user's session with derived accuracy.
type SessionView struct {
	User      string  `json:"user"`
	StartedAt string  `json:"startedAt"`
	StoppedAt string  `json:"stoppedAt,omitempty"`
	Correct   int64   `json:"correct"`
	Incorrect int64   `json:"incorrect"`
	Total     int64   `json:"total"`
	Accuracy  float64 `json:"accuracy"`
	Duration  string  `json:"duration"`
}

// BoardEntryView is one ranked member of a score board.
type BoardEntryView struct {
	Rank   int    `json:"rank"`
	Member string `json:"member"`
	Score  int64  `json:"score"`
}

// BoardView wraps a ranked score board.
type BoardView struct {
	Board   string           `json:"board"`
	Entries []BoardEntryView `json:"entries"`
}

// PrecacheResult reports how many subjects a warm-up run populated.
type PrecacheResult struct {
	Domain string `json:"domain"`
	Warmed int    `json:"warmed"`
}

// CacheView summarizes on-disk media cache usage.
type CacheView struct {
	Root       string  `json:"root"`
	Subjects   int     `json:"subjects"`
	Files      int     `json:"files"`
	TotalBytes int64   `json:"totalBytes"`
	FreeBytes  uint64  `json:"freeBytes"`
	FreeRatio  float64 `json:"freeRatio"`
}

// DaemonStatus aggregates daemon runtime information for API consumers.
type DaemonStatus struct {
	Running      bool      `json:"running"`
	PID          int       `json:"pid"`
	DBPath       string    `json:"dbPath"`
	LockFilePath string    `json:"lockFilePath"`
	Domains      []string  `json:"domains"`
	Cache        CacheView `json:"cache"`
}
