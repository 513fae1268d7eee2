// Package app contains the core application logic. It wires the
// configuration loader, the project creator and the external toolchain
// together, decoupled from any specific entrypoint like a CLI.
package app
