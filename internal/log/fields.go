package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldOperation = "operation"
	FieldError     = "error"
	FieldPath      = "path"
	FieldMonth     = "month"
	FieldCount     = "count"
	FieldFields    = "fields"
	FieldAction    = "action"
)

const (
	ComponentApp    = "app"
	ComponentCLI    = "cli"
	ComponentStore  = "store"
	ComponentTUI    = "tui"
	ComponentBackup = "backup"
)

const (
	OpLoad    = "load"
	OpSave    = "save"
	OpMigrate = "migrate"
	OpExport  = "export"
	OpImport  = "import"
	OpReset   = "reset"
)
