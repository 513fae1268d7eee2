// Package toolchain runs the external programs the scaffolder depends on:
// cargo-generate to materialize a project skeleton and rustup to install a
// compilation target.
package toolchain
