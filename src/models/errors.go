package models

import (
	"fmt"
	"strings"
)

// SchemaError reports an import file whose header is missing required columns.
// It is returned as a structured result so the frontend can display exactly
// which columns were expected and which were found.
type SchemaError struct {
	MissingColumns []string `json:"missing_columns"`
	FoundColumns   []string `json:"found_columns"`
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns: %s (found: %s)",
		strings.Join(e.MissingColumns, ", "), strings.Join(e.FoundColumns, ", "))
}
