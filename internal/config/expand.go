package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandTilde resolves a leading ~ to the current user's home directory.
// ~username is left alone.
func ExpandTilde(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
}

// Expand substitutes ${USER} and ${HOME} in paths such as serve.db. Other
// ${...} references are kept verbatim so a database literally named
// "${X}.db" survives.
func Expand(s string) string {
	if !strings.Contains(s, "${") {
		return s
	}
	return os.Expand(s, func(name string) string {
		switch name {
		case "USER":
			return currentUser()
		case "HOME":
			if home, err := os.UserHomeDir(); err == nil {
				return home
			}
			return "~"
		default:
			return "${" + name + "}"
		}
	})
}

func currentUser() string {
	for _, key := range []string{"USER", "LOGNAME", "USERNAME"} {
		if u := os.Getenv(key); u != "" {
			return u
		}
	}
	return "user"
}
