package envs

import (
	"sort"
	"strings"
)

// Infer guesses the environment a task file belongs to by matching known
// environment names against its path. Longer names win so that an
// environment like "fundops_eu" is never shadowed by "fundops".
// Returns "" when no known name appears in the path.
func Infer(taskPath string) string {
	names := Known()
	sort.Slice(names, func(i, j int) bool {
		return len(names[i]) > len(names[j])
	})
	for _, name := range names {
		if strings.Contains(taskPath, name) {
			return name
		}
	}
	return ""
}
