package hrops

import (
	"fmt"

	"github.com/roach88/toolbench/internal/audit"
	"github.com/roach88/toolbench/internal/rules"
	"github.com/roach88/toolbench/internal/store"
	"github.com/roach88/toolbench/internal/tool"
)

func manageLeaveRequests(now string) *tool.Tool {
	return &tool.Tool{
		Descriptor: tool.Descriptor{
			Name:        "manage_leave_requests",
			Description: "Create, approve or reject employee leave requests. Approving or rejecting requires the hr_manager_approval flag; approved and rejected requests are immutable.",
			Parameters: tool.Params{
				"action":              {Type: "string", Description: "Operation to perform", Enum: []any{"create", "approve", "reject"}},
				"leave_request_id":    {Type: "string", Description: "Leave request id (required for approve and reject)"},
				"employee_id":         {Type: "string", Description: "Employee id (required for create)"},
				"leave_type":          {Type: "string", Description: "Type of leave (required for create)", Enum: []any{"vacation", "sick", "parental"}},
				"start_date":          {Type: "string", Description: "First day of leave, YYYY-MM-DD (required for create)"},
				"end_date":            {Type: "string", Description: "Last day of leave, YYYY-MM-DD (required for create)"},
				"hr_manager_approval": {Type: "boolean", Description: "HR manager approval claim (required for approve and reject)"},
				"requester_id":        {Type: "string", Description: "User id performing the operation"},
			},
			Required: []string{"action"},
		},
		Handler: func(ds store.Dataset, args map[string]any) string {
			if ds == nil {
				return tool.Fail("Store is not initialized")
			}
			if err := (rules.Pipeline{
				rules.AllowOnly("action", "leave_request_id", "employee_id", "leave_type", "start_date", "end_date", "hr_manager_approval", "requester_id"),
				rules.Require("action"),
			}).Run(ds, args); err != nil {
				return tool.Fail("%s", err)
			}

			switch rules.Str(args, "action") {
			case "create":
				return createLeaveRequest(ds, now, args)
			case "approve":
				return transitionLeaveRequest(ds, now, args, "approved")
			case "reject":
				return transitionLeaveRequest(ds, now, args, "rejected")
			default:
				return tool.Fail("Invalid action '%s'. Must be one of: create, approve, reject", rules.Str(args, "action"))
			}
		},
	}
}

func createLeaveRequest(ds store.Dataset, now string, args map[string]any) string {
	if err := (rules.Pipeline{
		rules.Require("employee_id", "leave_type", "start_date", "end_date"),
		rules.Enum("leave_type", "vacation", "sick", "parental"),
		rules.Date("start_date"),
		rules.Date("end_date"),
		rules.Ordered("start_date", "end_date"),
		rules.Ref("employee_id", "employees", "Employee"),
	}).Run(ds, args); err != nil {
		return tool.Fail("%s", err)
	}

	rec := store.Record{
		"employee_id": args["employee_id"],
		"leave_type":  args["leave_type"],
		"start_date":  args["start_date"],
		"end_date":    args["end_date"],
		"status":      "pending",
	}
	tool.StampCreate(rec, now)

	id := ds.FreshID("leave_requests")
	ds.Insert("leave_requests", id, rec)
	audit.MustAppend(ds, now, audit.Entry{
		Who:        requester(args),
		EntityType: "leave_request",
		EntityID:   id,
		ActionType: "create",
		Summary:    fmt.Sprintf("Created %v leave request for employee '%v'", args["leave_type"], args["employee_id"]),
	})

	return tool.OK(map[string]any{"leave_request_id": id, "leave_request": rec})
}

func transitionLeaveRequest(ds store.Dataset, now string, args map[string]any, to string) string {
	id := rules.Str(args, "leave_request_id")
	if id == "" {
		return tool.Fail("Missing required field: leave_request_id")
	}
	rec, ok := ds.Lookup("leave_requests", id)
	if !ok {
		return tool.Fail("Leave request with id '%s' not found", id)
	}

	if !rules.Bool(args, "hr_manager_approval") {
		return tool.Fail("%s a leave request requires hr_manager_approval", titleAction(to))
	}
	if err := leaveLifecycle.GuardMutation(rec, "leave request"); err != nil {
		return tool.Fail("%s", err)
	}
	if err := leaveLifecycle.GuardTransition(rec, to, "leave request"); err != nil {
		return tool.Fail("%s", err)
	}

	rec["status"] = to
	tool.StampUpdate(rec, now)
	audit.MustAppend(ds, now, audit.Entry{
		Who:        requester(args),
		EntityType: "leave_request",
		EntityID:   id,
		ActionType: to,
		Summary:    fmt.Sprintf("Leave request '%s' %s", id, to),
	})

	return tool.OK(map[string]any{"leave_request_id": id, "leave_request": rec})
}

func titleAction(to string) string {
	if to == "approved" {
		return "Approving"
	}
	return "Rejecting"
}
