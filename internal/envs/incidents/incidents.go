// Package incidents is the incident-management back-office environment:
// clients, support users, incidents and work orders.
package incidents

import (
	"github.com/roach88/toolbench/internal/rules"
	"github.com/roach88/toolbench/internal/tool"
)

// Name is the environment directory name under envs/.
const Name = "incidents"

// incidentLifecycle: open -> in_progress -> resolved -> closed, with
// reopening from resolved. closed is terminal.
var incidentLifecycle = rules.Lifecycle{
	Field: "status",
	Transitions: map[string][]string{
		"open":        {"in_progress", "resolved"},
		"in_progress": {"resolved"},
		"resolved":    {"closed", "in_progress"},
	},
	Terminal: []string{"closed"},
}

// workOrderLifecycle: pending -> in_progress -> completed; completed is
// terminal.
var workOrderLifecycle = rules.Lifecycle{
	Field: "status",
	Transitions: map[string][]string{
		"pending":     {"in_progress", "completed"},
		"in_progress": {"completed"},
	},
	Terminal: []string{"completed"},
}

// Catalogue returns the incidents tool set with the logical now injected.
func Catalogue(now string) []*tool.Tool {
	return []*tool.Tool{
		manageClients(now),
		manageUsers(now),
		manageIncidents(now),
		manageWorkOrders(now),
		discoverClientEntities(),
		discoverIncidentEntities(),
	}
}

func requester(args map[string]any) string {
	if id := rules.Str(args, "requester_id"); id != "" {
		return id
	}
	return "system"
}
