package constants

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	ConfigDir       = "~/.stale-clean"
	ConfigFile      = ConfigDir + "/config.yaml"
	ExcludeListFile = ConfigDir + "/exclude.conf"
	LogFile         = ConfigDir + "/stale-clean.log"
	JournalFile     = ConfigDir + "/journal.db"
)

// ExpandHome expands a leading ~ to the user's home directory.
func ExpandHome(p string) string {
	if p == "" {
		return p
	}
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	if p == "~" {
		return home
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~/"))
}
