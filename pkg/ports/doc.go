// Package ports defines the interfaces between the orchestration core and
// its external collaborators: catalog and signal storage on the driven
// side, and language-model capabilities (classification, advisory text)
// that the conversation controller and planner consume.
//
// The core never imports an adapter; adapters implement these interfaces
// (see pkg/adapters).
package ports
