// Package filesystem walks local directory trees for office documents and
// deletes files on behalf of the document service.
package filesystem
