package engine

import "fmt"

// Kind classifies a failure along the error taxonomy.
type Kind string

const (
	// KindCompilation means the supplied code text was not a valid unit.
	KindCompilation Kind = "compilation"
	// KindCapability means an external lookup failed.
	KindCapability Kind = "capability"
	// KindExecution means the executed code raised for any other reason.
	KindExecution Kind = "execution"
)

// Failure is the structured record returned instead of throwing past the
// engine boundary.
type Failure struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (f *Failure) Error() string {
	if f.Cause != nil {
		return fmt.Sprintf("%s failure: %s: %v", f.Kind, f.Message, f.Cause)
	}
	return fmt.Sprintf("%s failure: %s", f.Kind, f.Message)
}

func (f *Failure) Unwrap() error { return f.Cause }
