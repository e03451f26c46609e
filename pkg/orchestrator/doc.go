// Package orchestrator wires the schema loader, an optional form transformer
// and the renderer registry behind a single Generate call.
package orchestrator
