package storage

import (
	"fmt"
	"math"
	"strings"

	"mms-curvature/src/models"
)

// quoteIdent quotes a column header so names like "Rc(km)" survive as-is.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// -----------------------------------------------------------------------------

func createTableSQL(qualified string, table *models.MResultTable, realType string) string {
	defs := make([]string, 0, len(table.Columns)+1)
	defs = append(defs, fmt.Sprintf("%s %s PRIMARY KEY", quoteIdent(indexName(table)), realType))
	for _, c := range table.Columns {
		defs = append(defs, fmt.Sprintf("%s %s", quoteIdent(c.Name), realType))
	}
	return fmt.Sprintf("CREATE TABLE %s (\n\t%s\n)", qualified, strings.Join(defs, ",\n\t"))
}

// -----------------------------------------------------------------------------

// insertSQL builds a single-row insert. placeholder renders the i-th (0 based)
// bind parameter in the driver's syntax.
func insertSQL(qualified string, table *models.MResultTable, placeholder func(i int) string) string {
	names := make([]string, 0, len(table.Columns)+1)
	marks := make([]string, 0, len(table.Columns)+1)
	names = append(names, quoteIdent(indexName(table)))
	marks = append(marks, placeholder(0))
	for i, c := range table.Columns {
		names = append(names, quoteIdent(c.Name))
		marks = append(marks, placeholder(i+1))
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		qualified, strings.Join(names, ", "), strings.Join(marks, ", "))
}

// -----------------------------------------------------------------------------

// rowArgs returns the bind values of row i. Missing values become NULL.
func rowArgs(table *models.MResultTable, i int) []any {
	args := make([]any, 0, len(table.Columns)+1)
	args = append(args, table.Index[i])
	for _, c := range table.Columns {
		v := c.Values[i]
		if math.IsNaN(v) {
			args = append(args, nil)
		} else {
			args = append(args, v)
		}
	}
	return args
}

// -----------------------------------------------------------------------------

func indexName(table *models.MResultTable) string {
	if table.IndexName == "" {
		return models.ColTime
	}
	return table.IndexName
}
