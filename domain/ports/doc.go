// Package ports defines the interface to the untrusted host.
// The port enables dependency inversion - guest logic depends on the
// abstraction, and the WASM adapter or a test double implements it.
package ports
