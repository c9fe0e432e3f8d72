// Package errors provides structured error types for better observability
// and programmatic error handling across suggestd.
//
// Data sources and the refresher return *StructuredError so callers can
// branch on the failure class without matching on message text:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeNotFound,
//	    "suggestion data not found",
//	    err,
//	    map[string]any{
//	        "source": src.String(),
//	    },
//	)
//
//	if errors.CodeOf(err) == errors.ErrCodeInvalidRequest {
//	    // the document was reachable but malformed
//	}
package errors
