// Package memory provides in-memory store implementations.
// They back the "memory" storage backend and serve as test doubles;
// nothing survives process exit.
package memory
