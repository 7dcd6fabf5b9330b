// Package errors provides structured error types for better observability
// and programmatic error handling across the selector.
//
// The selection engine itself never returns errors for "no solution": an empty
// catalog or an unmatched problem is reported as a nil Solution or an empty
// collection. Structured errors appear at the boundaries (input validation,
// the heuristic API, the HTTP server) where callers need a machine-readable code.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeInvalidRequest,
//	    "invalid problem",
//	    cause,
//	    map[string]any{
//	        "m": p.M,
//	        "n": p.N,
//	    },
//	)
package errors
