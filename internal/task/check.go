package task

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cuejson "cuelang.org/go/encoding/json"
)

//go:embed schema.cue
var schemaCUE string

// Check validates raw task-script bytes against the embedded CUE schema
// before any parsing happens. Schema violations (actions not a list,
// arguments not an object, environment not a string) surface here with
// CUE's field-level messages instead of as opaque decode errors later.
func Check(data []byte) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("task_schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("task schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Script"))
	if err := def.Err(); err != nil {
		return fmt.Errorf("task schema: %w", err)
	}

	expr, err := cuejson.Extract("task.json", data)
	if err != nil {
		return fmt.Errorf("task script is not valid JSON: %w", err)
	}
	val := ctx.BuildExpr(expr)
	if err := val.Err(); err != nil {
		return fmt.Errorf("task script: %w", err)
	}

	if err := def.Unify(val).Validate(cue.Final()); err != nil {
		return fmt.Errorf("task script does not match schema: %w", err)
	}
	return nil
}
