// Package hrops is the HR back-office environment: employees, departments
// and leave requests, plus combined user/employee discovery.
package hrops

import (
	"github.com/roach88/toolbench/internal/rules"
	"github.com/roach88/toolbench/internal/tool"
)

// Name is the environment directory name under envs/.
const Name = "hrops"

// leaveLifecycle: pending -> approved | rejected, both terminal.
var leaveLifecycle = rules.Lifecycle{
	Field: "status",
	Transitions: map[string][]string{
		"pending": {"approved", "rejected"},
	},
	Terminal: []string{"approved", "rejected"},
}

// Catalogue returns the hrops tool set with the logical now injected.
// The discover_user_entities / discover_employee_entities names are
// aliases declared in env.yaml, not catalogue entries.
func Catalogue(now string) []*tool.Tool {
	return []*tool.Tool{
		manageEmployees(now),
		manageDepartments(now),
		manageLeaveRequests(now),
		discoverUserEmployeeEntities(),
	}
}

func requester(args map[string]any) string {
	if id := rules.Str(args, "requester_id"); id != "" {
		return id
	}
	return "system"
}
