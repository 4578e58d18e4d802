package rules

// Kind categorizes a violated rule, mirroring the tool-level error
// taxonomy: input validation, referential, uniqueness, lifecycle,
// authorization.
type Kind string

const (
	KindValidation    Kind = "validation"
	KindReference     Kind = "reference"
	KindUniqueness    Kind = "uniqueness"
	KindLifecycle     Kind = "lifecycle"
	KindAuthorization Kind = "authorization"
)

// Violation is a failed rule. Its message is user-facing: it names the
// specific field, enum value or missing reference, suitable for display to
// an operator running tasks by hand.
type Violation struct {
	Kind    Kind
	Message string
}

// Error implements the error interface.
func (v *Violation) Error() string {
	return v.Message
}

func violation(kind Kind, msg string) *Violation {
	return &Violation{Kind: kind, Message: msg}
}
