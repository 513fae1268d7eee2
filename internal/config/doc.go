// Package config defines the format-agnostic configuration model for a
// scaffolded firmware project, the validation rules applied while it is
// constructed, and the Loader interface implemented by concrete document
// formats.
//
// A *Project is only ever obtained through New (or a Loader, which calls
// New), so holding one means every invariant has already been checked.
// Concrete loaders live in separate packages; see internal/hcl.
package config
