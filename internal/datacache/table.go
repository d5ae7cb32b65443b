package datacache

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

const (
	raggedRowTemplateConstant          = "row %d has %d fields; expected %d"
	unknownColumnTemplateConstant      = "unknown column %q"
	rowOutOfRangeTemplateConstant      = "row %d out of range for table with %d rows"
	cellConversionTemplateConstant     = "row %d column %q: %w"
	tableWithoutColumnsMessageConstant = "table must define at least one column"
)

// ErrTableWithoutColumns indicates a table has no header.
var ErrTableWithoutColumns = errors.New(tableWithoutColumnsMessageConstant)

// Table is a header of column names followed by rows of cells.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Validate reports tables that cannot be written as a rectangular flat file.
func (table Table) Validate() error {
	if len(table.Columns) == 0 {
		return ErrTableWithoutColumns
	}
	for rowIndex, row := range table.Rows {
		if len(row) != len(table.Columns) {
			return fmt.Errorf(raggedRowTemplateConstant, rowIndex, len(row), len(table.Columns))
		}
	}
	return nil
}

// Equal reports whether both tables have the same columns and cells in the same order.
func (table Table) Equal(other Table) bool {
	if !slices.Equal(table.Columns, other.Columns) || len(table.Rows) != len(other.Rows) {
		return false
	}
	for rowIndex := range table.Rows {
		if !slices.Equal(table.Rows[rowIndex], other.Rows[rowIndex]) {
			return false
		}
	}
	return true
}

// ColumnIndex returns the position of the named column.
func (table Table) ColumnIndex(column string) (int, bool) {
	columnIndex := slices.Index(table.Columns, column)
	return columnIndex, columnIndex >= 0
}

// String returns the raw cell at the given row and column.
func (table Table) String(rowIndex int, column string) (string, error) {
	columnIndex, found := table.ColumnIndex(column)
	if !found {
		return "", fmt.Errorf(unknownColumnTemplateConstant, column)
	}
	if rowIndex < 0 || rowIndex >= len(table.Rows) {
		return "", fmt.Errorf(rowOutOfRangeTemplateConstant, rowIndex, len(table.Rows))
	}
	return table.Rows[rowIndex][columnIndex], nil
}

// Int returns the cell parsed as a base-10 integer. Prefixes such as 0x or a leading zero do not change the base.
func (table Table) Int(rowIndex int, column string) (int, error) {
	return convertCell(table, rowIndex, column, parseDecimalCell)
}

// Float returns the cell converted to a float64.
func (table Table) Float(rowIndex int, column string) (float64, error) {
	return convertCell(table, rowIndex, column, cast.ToFloat64E)
}

// Bool returns the cell converted to a boolean.
func (table Table) Bool(rowIndex int, column string) (bool, error) {
	return convertCell(table, rowIndex, column, cast.ToBoolE)
}

func convertCell[T any](table Table, rowIndex int, column string, convert func(any) (T, error)) (T, error) {
	var zero T
	cell, lookupError := table.String(rowIndex, column)
	if lookupError != nil {
		return zero, lookupError
	}
	converted, conversionError := convert(cell)
	if conversionError != nil {
		return zero, fmt.Errorf(cellConversionTemplateConstant, rowIndex, column, conversionError)
	}
	return converted, nil
}

func parseDecimalCell(cell any) (int, error) {
	return strconv.Atoi(strings.TrimSpace(cast.ToString(cell)))
}
