package readfiles

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/notargets/ingest/types"
)

// WriteCSV emits t in the dialect ReadCSV understands: fields holding a
// comma are wrapped in quotes, every row ends with "\n". The dialect has no
// escape for quote characters or line breaks, so such fields are rejected
// with a *MalformedDataError before anything is written.
func WriteCSV(w io.Writer, t types.Table) error {
	for i, row := range t {
		if err := checkRow(row); err != nil {
			return &MalformedDataError{Msg: fmt.Sprintf("row %d: %s", i+1, err)}
		}
	}
	bw := bufio.NewWriter(w)
	for _, row := range t {
		for j, field := range row {
			if j > 0 {
				bw.WriteByte(',')
			}
			if strings.IndexByte(field, ',') >= 0 {
				bw.WriteByte('"')
				bw.WriteString(field)
				bw.WriteByte('"')
			} else {
				bw.WriteString(field)
			}
		}
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		return &IOError{Op: "write", Err: err}
	}
	return nil
}

// FormatCSV renders t as a string, see WriteCSV
func FormatCSV(t types.Table) (string, error) {
	var sb strings.Builder
	if err := WriteCSV(&sb, t); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func checkRow(row types.Row) error {
	if len(row) == 0 {
		return fmt.Errorf("no fields")
	}
	for j, field := range row {
		if strings.ContainsAny(field, "\"\r\n") {
			return fmt.Errorf("field %d holds a quote or line break", j+1)
		}
	}
	return nil
}
