package deps

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Requirement defines an external tool harmonize invokes.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		resolved, err := exec.LookPath(cmd)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		if resolved != cmd {
			status.Detail = resolved
		}
		results = append(results, status)
	}
	return results
}

// Missing returns an error naming every unavailable required dependency, or
// nil when all of them resolved.
func Missing(statuses []Status) error {
	var problems []string
	for _, status := range statuses {
		if status.Available || status.Optional {
			continue
		}
		problems = append(problems, fmt.Sprintf("%s (%s)", status.Name, status.Detail))
	}
	if len(problems) == 0 {
		return nil
	}
	return errors.New("missing required tools: " + strings.Join(problems, ", "))
}
