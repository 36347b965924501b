package readfiles

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/notargets/ingest/types"
)

// STLFormat is the encoding found at the head of an STL stream
type STLFormat uint8

const (
	STLASCII STLFormat = iota
	STLBinary
)

func (f STLFormat) String() string {
	return [...]string{"ASCII STL", "binary STL"}[f]
}

const stlASCIIMagic = "solid"

// ReadSTL reads an ASCII STL file into a Mesh. A binary STL file fails with
// *UnsupportedFormatError, an unreadable file with *IOError and a broken
// vertex list with *MalformedDataError.
func ReadSTL(filename string) (types.Mesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return types.Mesh{}, &IOError{Path: filename, Op: "open", Err: err}
	}
	defer file.Close()

	msh, err := ParseSTL(file)
	if err != nil {
		return types.Mesh{}, withPath(err, filename)
	}
	return msh, nil
}

// ParseSTL is ReadSTL over an arbitrary reader
func ParseSTL(r io.Reader) (types.Mesh, error) {
	reader := bufio.NewReader(r)
	format, err := DetectSTLFormat(reader)
	if err != nil {
		return types.Mesh{}, err
	}
	if format == STLBinary {
		return types.Mesh{}, &UnsupportedFormatError{Format: format.String()}
	}
	// The peeked header is still unread, tokenizing starts at byte 0
	return parseASCIISTL(newTokenStream(reader))
}

// DetectSTLFormat classifies the stream by its first five bytes without
// consuming them. Anything other than exactly "solid" is taken as binary,
// including streams shorter than five bytes.
func DetectSTLFormat(reader *bufio.Reader) (STLFormat, error) {
	header, err := reader.Peek(len(stlASCIIMagic))
	if err != nil && err != io.EOF {
		return STLBinary, &IOError{Op: "read", Err: err}
	}
	if string(header) == stlASCIIMagic {
		return STLASCII, nil
	}
	return STLBinary, nil
}

// parseASCIISTL only reacts to the "vertex" keyword. Every other token,
// solid/facet/normal/outer/loop and their end markers, names and normal
// components alike, is skipped.
func parseASCIISTL(ts *tokenStream) (types.Mesh, error) {
	var vertices []types.Vec3
	for {
		tok, ok := ts.next()
		if !ok {
			break
		}
		switch tok {
		case "vertex":
			v, err := ts.vertex()
			if err != nil {
				return types.Mesh{}, err
			}
			vertices = append(vertices, v)
		}
	}
	if err := ts.err(); err != nil {
		return types.Mesh{}, err
	}
	if len(vertices)%3 != 0 {
		return types.Mesh{}, &MalformedDataError{
			Token: ts.count,
			Msg: fmt.Sprintf("%d vertices do not form whole triangles, %d left over",
				len(vertices), len(vertices)%3),
		}
	}
	msh := types.Mesh{Triangles: make([]types.Triangle, len(vertices)/3)}
	for i := range msh.Triangles {
		copy(msh.Triangles[i][:], vertices[3*i:3*i+3])
	}
	return msh, nil
}

// tokenStream yields tokens separated by ASCII whitespace once, front to
// back. Tokens have no length limit.
type tokenStream struct {
	reader *bufio.Reader
	token  []byte
	count  int   // tokens consumed so far
	rerr   error // first read failure other than io.EOF
}

func newTokenStream(reader *bufio.Reader) *tokenStream {
	return &tokenStream{reader: reader}
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func (ts *tokenStream) next() (tok string, ok bool) {
	if ts.rerr != nil {
		return "", false
	}
	ts.token = ts.token[:0]
	for {
		c, err := ts.reader.ReadByte()
		if err != nil {
			if err != io.EOF {
				ts.rerr = err
				return "", false
			}
			break
		}
		if isSpace(c) {
			if len(ts.token) > 0 {
				break
			}
			continue
		}
		ts.token = append(ts.token, c)
	}
	if len(ts.token) == 0 {
		return "", false
	}
	ts.count++
	return string(ts.token), true
}

// err converts a read failure into the package taxonomy
func (ts *tokenStream) err() error {
	if ts.rerr == nil {
		return nil
	}
	return &IOError{Op: "read", Err: ts.rerr}
}

// vertex reads the three coordinates following a "vertex" keyword
func (ts *tokenStream) vertex() (v types.Vec3, err error) {
	keyword := ts.count
	coords := [3]*float64{&v.X, &v.Y, &v.Z}
	for i, c := range coords {
		tok, ok := ts.next()
		if !ok {
			if err = ts.err(); err != nil {
				return
			}
			err = &MalformedDataError{Token: keyword,
				Msg: fmt.Sprintf("vertex has %d of 3 coordinates before end of input", i)}
			return
		}
		if *c, err = parseCoordinate(tok); err != nil {
			err = &MalformedDataError{Token: ts.count,
				Msg: fmt.Sprintf("invalid vertex coordinate %q", tok), Err: err}
			return
		}
	}
	return
}

// parseCoordinate accepts plain decimal numbers only. strconv.ParseFloat also
// takes hex floats and the spellings of NaN and infinity, which are refused.
func parseCoordinate(tok string) (float64, error) {
	syntaxErr := &strconv.NumError{Func: "ParseFloat", Num: tok, Err: strconv.ErrSyntax}
	digits := tok
	if len(digits) > 0 && (digits[0] == '+' || digits[0] == '-') {
		digits = digits[1:]
	}
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		return 0, syntaxErr
	}
	f, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, syntaxErr
	}
	return f, nil
}
