// Package events provides a small in-process audit event stream. The
// generation service and the review state machine emit structured events
// through an injected Emitter so tests can assert on what happened without
// capturing process-wide log output.
package events
