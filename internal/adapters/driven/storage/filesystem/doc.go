// Package filesystem provides the directory-backed DocumentStore.
//
// Every received document becomes two files sharing one identifier stem:
//
//   - <id>.pdf: the payload, written while the connection is open
//   - <id>.metadata: the JSON sidecar, written on commit
//
// A .pdf only survives once its .metadata is complete. Until then a
// released or failed sink removes it again.
package filesystem
