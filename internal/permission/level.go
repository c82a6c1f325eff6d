// Package permission defines the ordered permission levels used by the
// command dispatch core and resolves the level of a user within a guild
// or across all known guilds.
package permission

import "strings"

// Level is an ordered permission tier. Higher values carry more authority;
// comparisons between levels use the numeric rank.
type Level int

const (
	// None is the level of users that are banned from using commands.
	None Level = iota
	// User is the level of normal users without any special rights.
	User
	// Master is the level of users authorized as masters on a guild.
	Master
	// Owner is the level of guild owners and bot admins.
	Owner
	// AppOwner is the level of the owner of the bot account.
	AppOwner
	// Creator is the level of users that develop the bot.
	Creator
)

var levelNames = map[Level]string{
	None:     "NONE",
	User:     "USER",
	Master:   "MASTER",
	Owner:    "OWNER",
	AppOwner: "APP_OWNER",
	Creator:  "CREATOR",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "UNKNOWN_PERMISSION_LEVEL"
}

// Parse returns the level named by s, case-insensitive.
func Parse(s string) (Level, bool) {
	switch strings.ToLower(s) {
	case "none":
		return None, true
	case "user":
		return User, true
	case "master":
		return Master, true
	case "owner":
		return Owner, true
	case "app_owner":
		return AppOwner, true
	case "creator":
		return Creator, true
	}
	return None, false
}
