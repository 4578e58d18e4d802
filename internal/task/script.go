package task

import (
	"encoding/json"
	"fmt"
	"os"
)

// Action is one scripted tool call: the tool name, its arguments, and an
// optional expected output. HasOutput distinguishes "no expectation" from
// an expectation of JSON null.
type Action struct {
	Name      string
	Arguments map[string]any
	Output    any
	HasOutput bool
}

// Script is a parsed task file.
type Script struct {
	Environment string
	Actions     []Action
}

// LoadScript reads, schema-checks and parses a task file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read task file: %w", err)
	}
	if err := Check(data); err != nil {
		return nil, err
	}
	return ParseScript(data)
}

// ParseScript decodes task-script bytes. The script body may sit at the
// top level or nested under "task"; each action names its tool under
// either "name" or "action".
func ParseScript(data []byte) (*Script, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse task file: %w", err)
	}
	if nested, ok := raw["task"].(map[string]any); ok {
		raw = nested
	}

	script := &Script{}
	if env, ok := raw["environment"].(string); ok {
		script.Environment = env
	}

	actionsRaw, ok := raw["actions"].([]any)
	if !ok {
		return nil, fmt.Errorf("task file has no actions list")
	}
	for i, entry := range actionsRaw {
		m, ok := entry.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("action %d is not an object", i)
		}
		act, err := parseAction(m)
		if err != nil {
			return nil, fmt.Errorf("action %d: %w", i, err)
		}
		script.Actions = append(script.Actions, act)
	}
	return script, nil
}

func parseAction(m map[string]any) (Action, error) {
	act := Action{Arguments: map[string]any{}}

	name, _ := m["name"].(string)
	if name == "" {
		name, _ = m["action"].(string)
	}
	if name == "" {
		return act, fmt.Errorf("missing tool name (expected \"name\" or \"action\")")
	}
	act.Name = name

	if argsRaw, present := m["arguments"]; present {
		args, ok := argsRaw.(map[string]any)
		if !ok {
			return act, fmt.Errorf("arguments is not an object")
		}
		act.Arguments = args
	}

	if out, present := m["output"]; present {
		act.Output = out
		act.HasOutput = true
	}
	return act, nil
}
