// Package render drives the compositing engine that burns captions into
// video.
//
// The engine is an external CLI that bundles a compositing project once
// per process and then renders compositions from that bundle, reporting
// progress as JSON lines on stdout. The orchestrator wires caption data
// into the engine's input properties, selects the environment render
// profile, and samples progress into the log.
package render
