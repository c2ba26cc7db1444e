// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Document bytes are only ever read through driven ports, so services
// run unchanged against in-memory fakes.
package services
