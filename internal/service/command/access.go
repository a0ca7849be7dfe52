package command

import "strings"

// Access reports whether username may change process-wide settings.
type Access func(username string) bool

// AllowAll is for the local terminal, where the operator owns the process.
func AllowAll(string) bool { return true }

// Admins allows only the listed usernames. An empty list allows nobody.
func Admins(usernames []string) Access {
	set := make(map[string]struct{}, len(usernames))
	for _, u := range usernames {
		if u = strings.TrimSpace(u); u != "" {
			set[u] = struct{}{}
		}
	}
	return func(username string) bool {
		_, ok := set[username]
		return ok
	}
}
