// Package file persists docdupe settings as a TOML file.
//
// The file lives at <dir>/config.toml, where dir is DOCDUPE_HOME or
// ~/.docdupe. Dot-notation keys map to tables:
//
//	[scan]
//	threshold = 0.9
//	workers = 4
package file
