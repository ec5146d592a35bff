// Package core defines the shared domain types of the agenthub orchestration
// layer: conversation messages, agent records, handoff transfers, routing
// decisions and the error taxonomy used across components. It has no
// dependencies on the orchestration packages so every component can import it
// without cycles.
package core
