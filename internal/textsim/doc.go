// Package textsim provides the text side of duplicate detection:
// normalising extracted document text and scoring two normalised texts.
//
// Both functions are pure and safe for concurrent use.
package textsim
