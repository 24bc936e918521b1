package auth

import "strings"

// Messages returned by the auth service. Clients match on these, and
// FriendlyMessage turns them into text fit for an end user.
const (
	MsgInvalidCredentials = "Invalid login credentials"
	MsgUserExists         = "User already registered"
	MsgPasswordTooShort   = "Password should be at least 6 characters"
	MsgDatabaseError      = "Database error"
)

var friendly = []struct {
	contains string
	text     string
}{
	{MsgInvalidCredentials, "Invalid email or password. Please check your credentials."},
	{MsgUserExists, "An account with this email already exists. Please try logging in."},
	{"Password should be at least", "Password must be at least 6 characters long."},
	{MsgDatabaseError, "Database connection error. Please try again later."},
}

// FriendlyMessage maps a raw auth error message to user-facing text.
// Unknown messages are returned unchanged.
func FriendlyMessage(msg string) string {
	for _, f := range friendly {
		if strings.Contains(msg, f.contains) {
			return f.text
		}
	}
	return msg
}
