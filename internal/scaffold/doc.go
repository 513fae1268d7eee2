// Package scaffold creates a multi-core firmware project tree from a
// validated configuration.
//
// A Creator runs each core through a fixed pipeline: generate the skeleton,
// rewrite its templates, install the compilation target, remove boilerplate
// and write a per-core Makefile. A top-level Makefile delegating to every
// core is assembled as the cores complete.
package scaffold
