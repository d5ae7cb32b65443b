package datacache

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

const (
	emptyTableMessageConstant         = "table source is empty"
	headerReadErrorTemplateConstant   = "read table header: %w"
	rowsReadErrorTemplateConstant     = "read table rows: %w"
	headerWriteErrorTemplateConstant  = "write table header: %w"
	rowWriteErrorTemplateConstant     = "write table row %d: %w"
	flushErrorTemplateConstant        = "flush table: %w"
	encoderCloseErrorTemplateConstant = "finish table encoding: %w"
	quotedEmptyRecordConstant         = "\"\"\n"
)

// ErrEmptyTable indicates a table source without a header line.
var ErrEmptyTable = errors.New(emptyTableMessageConstant)

var tableFileEncoding = charmap.ISO8859_1

// ReadTable decodes an ISO-8859-1 CSV stream whose first record is the header.
func ReadTable(reader io.Reader) (Table, error) {
	return DecodeCSV(tableFileEncoding.NewDecoder().Reader(reader))
}

// WriteTable encodes the table as ISO-8859-1 CSV. Runes outside the charset fail the write.
func WriteTable(writer io.Writer, table Table) error {
	encodingWriter := transform.NewWriter(writer, tableFileEncoding.NewEncoder())
	if encodeError := EncodeCSV(encodingWriter, table); encodeError != nil {
		return encodeError
	}
	if closeError := encodingWriter.Close(); closeError != nil {
		return fmt.Errorf(encoderCloseErrorTemplateConstant, closeError)
	}
	return nil
}

// DecodeCSV reads a UTF-8 CSV stream whose first record is the header.
func DecodeCSV(reader io.Reader) (Table, error) {
	csvReader := csv.NewReader(reader)
	header, headerError := csvReader.Read()
	if errors.Is(headerError, io.EOF) {
		return Table{}, ErrEmptyTable
	}
	if headerError != nil {
		return Table{}, fmt.Errorf(headerReadErrorTemplateConstant, headerError)
	}
	records, recordsError := csvReader.ReadAll()
	if recordsError != nil {
		return Table{}, fmt.Errorf(rowsReadErrorTemplateConstant, recordsError)
	}
	if records == nil {
		records = [][]string{}
	}
	return Table{Columns: header, Rows: records}, nil
}

// EncodeCSV writes the header followed by every row, without an index column.
func EncodeCSV(writer io.Writer, table Table) error {
	if validationError := table.Validate(); validationError != nil {
		return validationError
	}
	csvWriter := csv.NewWriter(writer)
	if headerError := writeRecord(writer, csvWriter, table.Columns); headerError != nil {
		return fmt.Errorf(headerWriteErrorTemplateConstant, headerError)
	}
	for rowIndex, row := range table.Rows {
		if rowError := writeRecord(writer, csvWriter, row); rowError != nil {
			return fmt.Errorf(rowWriteErrorTemplateConstant, rowIndex, rowError)
		}
	}
	csvWriter.Flush()
	if flushError := csvWriter.Error(); flushError != nil {
		return fmt.Errorf(flushErrorTemplateConstant, flushError)
	}
	return nil
}

// writeRecord quotes a lone empty field, which csv.Writer would emit as a blank line the reader skips.
func writeRecord(writer io.Writer, csvWriter *csv.Writer, record []string) error {
	if len(record) != 1 || len(record[0]) > 0 {
		return csvWriter.Write(record)
	}
	csvWriter.Flush()
	if flushError := csvWriter.Error(); flushError != nil {
		return flushError
	}
	_, writeError := io.WriteString(writer, quotedEmptyRecordConstant)
	return writeError
}
