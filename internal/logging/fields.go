package logging

// Field names for structured log entries.
const (
	FieldError   = "error"
	FieldPath    = "path"
	FieldPaths   = "paths"
	FieldFiles   = "files"
	FieldRoot    = "root"
	FieldVersion = "version"
	FieldDialect = "dialect"

	// Engine fields.
	FieldResource   = "resource"
	FieldClass      = "class"
	FieldScopes     = "scopes"
	FieldRegions    = "regions"
	FieldConflicts  = "conflicts"
	FieldGeneration = "generation"
	FieldDocVersion = "doc_version"

	// Bulk operation fields.
	FieldJobs           = "jobs"
	FieldFilesProcessed = "files_processed"
	FieldFilesChanged   = "files_changed"
	FieldFilesSkipped   = "files_skipped"
	FieldElapsed        = "elapsed"
)
