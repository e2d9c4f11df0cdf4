// Package generation defines the boundary between the application core and
// external LLM services: the Generator interface, the raw candidate shape it
// yields, and the typed errors gateways map their failures onto.
package generation
