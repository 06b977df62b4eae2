// Package errors provides structured error handling for event registration and dispatch.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Definition configuration errors
	CodeMissingName           Code = "MISSING_NAME"
	CodeMissingType           Code = "MISSING_TYPE"
	CodeUnrecognizedType      Code = "UNRECOGNIZED_TYPE"
	CodeUninitializedCategory Code = "UNINITIALIZED_CATEGORY"
	CodeNotLoaded             Code = "NOT_LOADED"

	// Registry errors
	CodeDuplicateName Code = "DUPLICATE_NAME"

	// Script loading errors
	CodeScriptLoadFailed  Code = "SCRIPT_LOAD_FAILED"
	CodeMissingEntryPoint Code = "MISSING_ENTRY_POINT"

	// Dispatch errors
	CodeCallStackOverflow  Code = "CALL_STACK_OVERFLOW"
	CodeScriptRuntimeError Code = "SCRIPT_RUNTIME_ERROR"
)

// Severity classifies how a code is reported.
type Severity string

const (
	SeverityWarn  Severity = "WARN"
	SeverityError Severity = "ERROR"
)

// Severity maps domain codes to the level they are reported at.
func (c Code) Severity() Severity {
	switch c {
	case CodeDuplicateName:
		return SeverityWarn
	default:
		return SeverityError
	}
}

// ConfigTime reports whether the code is raised while admitting a definition,
// as opposed to while dispatching one.
func (c Code) ConfigTime() bool {
	switch c {
	case CodeMissingName,
		CodeMissingType,
		CodeUnrecognizedType,
		CodeUninitializedCategory,
		CodeNotLoaded,
		CodeDuplicateName,
		CodeScriptLoadFailed,
		CodeMissingEntryPoint:
		return true
	default:
		return false
	}
}
