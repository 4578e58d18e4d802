package task

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/roach88/toolbench/internal/envs"
	"github.com/roach88/toolbench/internal/jsonval"
	"github.com/roach88/toolbench/internal/tool"
)

// ActionResult records the outcome of one scripted action.
type ActionResult struct {
	Name     string `json:"name"`
	Success  bool   `json:"success"`
	Expected any    `json:"expected,omitempty"`
	Actual   any    `json:"actual,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Result aggregates a whole task run.
type Result struct {
	TaskFile    string         `json:"task_file"`
	Environment string         `json:"environment"`
	RunID       string         `json:"run_id"`
	Total       int            `json:"total"`
	Passed      int            `json:"passed"`
	Failed      int            `json:"failed"`
	Actions     []ActionResult `json:"actions"`
	Err         string         `json:"error,omitempty"`
}

// Runner validates task scripts against freshly loaded environments.
type Runner struct {
	Root   string
	Logger *zap.Logger
}

// RunFile loads, checks and executes a single task file. Environment-load
// and script-shape failures abort the run and come back as a top-level
// error; per-action failures are recorded and execution continues.
func (r *Runner) RunFile(path string) (*Result, error) {
	res := &Result{TaskFile: path, RunID: uuid.NewString()}

	script, err := LoadScript(path)
	if err != nil {
		res.Err = err.Error()
		return res, err
	}

	name := script.Environment
	if name == "" {
		name = envs.Infer(path)
	}
	if name == "" {
		err := fmt.Errorf("cannot determine environment for %s: no environment field and no known name in path", path)
		res.Err = err.Error()
		return res, err
	}
	res.Environment = name

	env, err := envs.Load(r.Root, name, r.Logger)
	if err != nil {
		res.Err = err.Error()
		return res, err
	}

	// One shared store for the whole task: actions observe every mutation
	// made by earlier actions.
	for _, act := range script.Actions {
		ar := runAction(env, act)
		res.Actions = append(res.Actions, ar)
		res.Total++
		if ar.Success {
			res.Passed++
		} else {
			res.Failed++
		}
	}
	return res, nil
}

func runAction(env *envs.Environment, act Action) ActionResult {
	ar := ActionResult{Name: act.Name}

	t := env.Tools.Get(act.Name)
	if t == nil {
		ar.Error = fmt.Sprintf("tool %q not found in environment %q", act.Name, env.Name)
		return ar
	}

	raw, err := invokeSafe(t, env, normalizeArgs(act.Arguments))
	if err != nil {
		ar.Error = err.Error()
		return ar
	}
	actual := jsonval.Parse(raw)
	ar.Actual = actual

	if !act.HasOutput {
		ar.Success = true
		return ar
	}

	expected := act.Output
	if s, ok := expected.(string); ok {
		expected = jsonval.Parse(s)
	}
	ar.Expected = expected

	if jsonval.Equal(expected, actual) {
		ar.Success = true
		return ar
	}
	ar.Error = "output mismatch:\n" + jsonval.Diff(expected, actual)
	return ar
}

// invokeSafe runs the tool, converting a handler panic into a recorded
// runner error so subsequent actions still execute.
func invokeSafe(t *tool.Tool, env *envs.Environment, args map[string]any) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tool %q panicked: %v", t.Name(), r)
		}
	}()
	return t.Invoke(env.Data, args), nil
}

// normalizeArgs replaces any string argument that parses as a JSON object
// with the parsed object. Some scripts encode nested dicts as JSON strings.
func normalizeArgs(args map[string]any) map[string]any {
	out := make(map[string]any, len(args))
	for k, v := range args {
		if s, ok := v.(string); ok {
			var obj map[string]any
			if err := json.Unmarshal([]byte(s), &obj); err == nil {
				out[k] = obj
				continue
			}
		}
		out[k] = v
	}
	return out
}
