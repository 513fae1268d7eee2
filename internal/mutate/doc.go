// Package mutate rewrites the template files produced by the project
// generator: the linker memory map, the OpenOCD configuration and the cargo
// toolchain manifest.
//
// Every mutator is line-oriented. The transformation itself is a pure
// function over a slice of lines so it can be tested without a file system;
// the file-level wrapper reads the file, applies it, and replaces the file
// atomically. Markers are fixed strings supplied through option structs with
// Default constructors, never package globals.
package mutate
