package readfiles

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/notargets/ingest/types"
)

// quoteState is the only state carried while scanning a line
type quoteState uint8

const (
	unquoted quoteState = iota
	quoted
)

func (s quoteState) toggle() quoteState {
	if s == quoted {
		return unquoted
	}
	return quoted
}

// ReadCSV reads a comma delimited file into memory. Quoted fields may hold
// commas; the quote characters themselves are dropped. The only error is an
// *IOError when the file cannot be opened or read.
func ReadCSV(filename string) (types.Table, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, &IOError{Path: filename, Op: "open", Err: err}
	}
	defer file.Close()

	tbl, err := ParseCSV(file)
	if err != nil {
		return nil, withPath(err, filename)
	}
	return tbl, nil
}

// ParseCSV is ReadCSV over an arbitrary reader
func ParseCSV(r io.Reader) (tbl types.Table, err error) {
	reader := bufio.NewReader(r)
	tbl = types.Table{}
	for {
		line, rerr := reader.ReadString('\n')
		if rerr != nil && rerr != io.EOF {
			return nil, &IOError{Op: "read", Err: rerr}
		}
		if len(line) == 0 && rerr == io.EOF {
			break
		}
		tbl = append(tbl, splitLine(trimLineEnding(line)))
		if rerr == io.EOF {
			break
		}
	}
	return tbl, nil
}

// trimLineEnding drops a trailing "\n" or "\r\n", the same endings
// bufio.ScanLines removes.
func trimLineEnding(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}

// splitLine folds the quote state machine over one line. Quotes toggle the
// state and are not kept, a comma outside quotes ends the field, and the
// final accumulator is always emitted so the row is never empty.
// The scan is bytewise: '"' and ',' never occur inside a multibyte UTF-8
// sequence, and other bytes are copied through untouched.
func splitLine(line string) types.Row {
	var (
		row   types.Row
		cell  strings.Builder
		state = unquoted
	)
	for i := 0; i < len(line); i++ {
		state = scanByte(state, line[i], &row, &cell)
	}
	return append(row, cell.String())
}

func scanByte(state quoteState, c byte, row *types.Row, cell *strings.Builder) quoteState {
	switch {
	case c == '"':
		return state.toggle()
	case c == ',' && state == unquoted:
		*row = append(*row, cell.String())
		cell.Reset()
	default:
		cell.WriteByte(c)
	}
	return state
}
