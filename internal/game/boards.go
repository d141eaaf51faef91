package game

import "fmt"

// Score board keys. Boards are independent counters; the only coupling is
// the guild seed rule applied in recordCorrect.
const (
	BoardGlobalUsers    = "users:global"
	BoardGlobalChannels = "channels:global"
	BoardGlobalMissed   = "missed:global"
)

// GuildUserBoard names the per-guild user score board.
func GuildUserBoard(guildID string) string {
	return fmt.Sprintf("users:guild:%s", guildID)
}

// GuildMissedBoard names the per-guild most-missed subject board.
func GuildMissedBoard(guildID string) string {
	return fmt.Sprintf("missed:guild:%s", guildID)
}

// UserMissedBoard names the per-user most-missed subject board.
func UserMissedBoard(userID string) string {
	return fmt.Sprintf("missed:user:%s", userID)
}
