package workload

import "strings"

// Mode selects the persistence behaviour of the benchmarked server.
type Mode string

const (
	ModeNoBackup        Mode = "NoBackup"
	ModeSerializeBackup Mode = "SerializeBackup"
)

// ModeEnvVar is the environment variable the workload reads its initial mode from.
const ModeEnvVar = "TEST_MODE"

func DefaultModes() []Mode {
	return []Mode{ModeNoBackup, ModeSerializeBackup}
}

// ParseMode maps unknown values onto NoBackup, which is what the server does.
func ParseMode(s string) Mode {
	switch strings.TrimSpace(s) {
	case string(ModeSerializeBackup):
		return ModeSerializeBackup
	default:
		return ModeNoBackup
	}
}

// ParseModes parses a comma separated list, dropping empty entries.
func ParseModes(s string) []Mode {
	var modes []Mode
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		modes = append(modes, ParseMode(part))
	}
	return modes
}

func (m Mode) String() string {
	return string(m)
}
