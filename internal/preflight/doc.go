// Package preflight provides readiness checks for the storage backend,
// the LLM endpoint, and the filesystem paths vibeline depends on.
//
// These checks run in two contexts:
//   - The daemon calls RunAll at startup and logs every failure.
//   - The CLI "vibeline check" and "vibeline status" commands render the
//     results for the operator.
//
// Checks never return errors; a failed check is a Result with Passed unset.
package preflight
