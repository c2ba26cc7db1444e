// Package connectors provides access to the places documents live.
// The filesystem connector enumerates a directory tree and removes files
// on request; it is the only source a scan reads from.
package connectors
