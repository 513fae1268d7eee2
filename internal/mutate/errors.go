package mutate

import (
	"errors"
	"fmt"
)

// ErrStructural is the kind of every *StructuralError.
var ErrStructural = errors.New("template structure not recognized")

// StructuralError reports a template file, or a marker inside one, that is
// not where the mutator expects it.
type StructuralError struct {
	File string
	Msg  string
}

func (e *StructuralError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s: %s", ErrStructural, e.File, e.Msg)
}

func (e *StructuralError) Unwrap() error { return ErrStructural }
