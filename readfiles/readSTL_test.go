package readfiles

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/ingest/types"
)

var minimalSTL = `solid tri
  facet normal 0 0 1
    outer loop
      vertex 0 0 0
      vertex 1 0 0
      vertex 0 1 0
    endloop
  endfacet
endsolid tri
`

var twoFacetSTL = "solid wedge\n" +
	"facet normal 0.0e+00 0.0e+00 -1.0e+00\n" +
	"\touter loop\n" +
	"\t\tvertex 1.5e+00 -2.0 3\n" +
	"\t\tvertex   -0.25 0.0 1e-3\n" +
	"\t\tvertex 4 5 6\n" +
	"\tendloop\r\n" +
	"endfacet\n" +
	"facet normal 1 0 0 outer loop vertex 7 8 9 vertex 10 11 12 vertex 13 14 15 endloop endfacet\n" +
	"endsolid wedge"

func binarySTL(nTris int) []byte {
	var buf bytes.Buffer
	header := make([]byte, 80)
	copy(header, "binary exported mesh")
	buf.Write(header)
	buf.Write([]byte{byte(nTris), 0, 0, 0})
	buf.Write(make([]byte, 50*nTris))
	return buf.Bytes()
}

func TestParseSTL(t *testing.T) {
	{ // Test the single triangle case
		msh, err := ParseSTL(strings.NewReader(minimalSTL))
		require.NoError(t, err)
		require.Equal(t, 1, msh.NumTriangles())
		assert.Equal(t, types.Triangle{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}}, msh.Triangles[0])
	}
	{ // Test mixed whitespace, exponents and facets sharing a line
		msh, err := ParseSTL(strings.NewReader(twoFacetSTL))
		require.NoError(t, err)
		want := types.Mesh{Triangles: []types.Triangle{
			{{X: 1.5, Y: -2, Z: 3}, {X: -0.25, Y: 0, Z: 1e-3}, {X: 4, Y: 5, Z: 6}},
			{{X: 7, Y: 8, Z: 9}, {X: 10, Y: 11, Z: 12}, {X: 13, Y: 14, Z: 15}},
		}}
		if diff := cmp.Diff(want, msh); diff != "" {
			t.Errorf("mesh mismatch (-want +got):\n%s", diff)
		}
	}
	{ // Test a solid with no facets is an empty mesh, not an error
		for _, src := range []string{"solid", "solid empty\nendsolid empty\n"} {
			msh, err := ParseSTL(strings.NewReader(src))
			require.NoError(t, err)
			assert.True(t, msh.IsEmpty())
		}
	}
	{ // Test every ASCII whitespace character separates tokens
		src := "solid\vx\fvertex 0\v0\f0\r\nvertex\t1 0 0 vertex 0 1 0\fendsolid"
		msh, err := ParseSTL(strings.NewReader(src))
		require.NoError(t, err)
		assert.Equal(t, []types.Triangle{{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}}}, msh.Triangles)
	}
	{ // Test signed and exponent forms still parse
		msh, err := ParseSTL(strings.NewReader("solid vertex +1 -2 .5 vertex 1. 2E2 -0 vertex 0 0 1e-300"))
		require.NoError(t, err)
		assert.Equal(t, types.Triangle{{X: 1, Y: -2, Z: 0.5}, {X: 1, Y: 200, Z: 0}, {X: 0, Y: 0, Z: 1e-300}}, msh.Triangles[0])
	}
	{ // Test a very long solid name is skipped like any other token
		src := "solid " + strings.Repeat("n", 2<<20) + "\n" + minimalSTL[len("solid tri\n"):]
		msh, err := ParseSTL(strings.NewReader(src))
		require.NoError(t, err)
		assert.Equal(t, types.Triangle{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}}, msh.Triangles[0])
	}
	{ // Test vertices are grouped in threes across facet boundaries
		src := "solid s vertex 1 1 1 vertex 2 2 2 endloop endfacet facet vertex 3 3 3 endsolid"
		msh, err := ParseSTL(strings.NewReader(src))
		require.NoError(t, err)
		assert.Equal(t, []types.Triangle{{{X: 1, Y: 1, Z: 1}, {X: 2, Y: 2, Z: 2}, {X: 3, Y: 3, Z: 3}}}, msh.Triangles)
	}
}

func TestParseSTLUnsupported(t *testing.T) {
	inputs := map[string][]byte{
		"binary body":        binarySTL(2),
		"capitalised header": []byte("SOLID x\nvertex 0 0 0\n"),
		"leading whitespace": []byte(" solid x\n"),
		"short input":        []byte("sol"),
		"empty input":        {},
		"non text bytes":     {0x00, 0xff, 0x10, 0x80, 0x7f, 0x01},
	}
	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			msh, err := ParseSTL(bytes.NewReader(input))
			assert.True(t, msh.IsEmpty())
			var fmtErr *UnsupportedFormatError
			require.ErrorAs(t, err, &fmtErr)
			assert.Equal(t, STLBinary.String(), fmtErr.Format)
			assert.ErrorIs(t, err, ErrUnsupportedFormat)
			assert.NotErrorIs(t, err, ErrIO)
			assert.Contains(t, err.Error(), "convert the file to ASCII STL")
		})
	}
}

func TestParseSTLMalformed(t *testing.T) {
	cases := []struct {
		name, input string
		token       int
		contains    string
	}{
		{"input ends mid vertex", "solid\nvertex 1 2", 2, "2 of 3 coordinates"},
		{"vertex is last token", "solid x vertex", 3, "0 of 3 coordinates"},
		{"non numeric coordinate", "solid x\n vertex 1 a 3", 5, `invalid vertex coordinate "a"`},
		{"keyword in place of coordinate", "solid vertex 0 0 vertex", 5, `"vertex"`},
		{"nan coordinate", "solid x vertex nan 0 0", 4, `invalid vertex coordinate "nan"`},
		{"infinite coordinate", "solid x vertex 0 -Inf 0", 5, `"-Inf"`},
		{"infinity spelled out", "solid x vertex 0 0 infinity", 6, `"infinity"`},
		{"hex float", "solid x vertex 0x1p1 0 0", 4, `"0x1p1"`},
		{"signed hex float", "solid x vertex 0 +0X10 0", 5, `"+0X10"`},
		{"out of range coordinate", "solid x vertex 1e999 0 0", 4, `"1e999"`},
		{"no break space inside a token", "solid x vertex 1\u00a02 3 4", 4, "invalid vertex coordinate"},
		{"next line inside a token", "solid x vertex 1 2\u00853 4", 5, "invalid vertex coordinate"},
		{"incomplete last triangle", "solid vertex 0 0 0 vertex 1 1 1 vertex 2 2 2 vertex 3 3 3 endsolid", 18,
			"4 vertices do not form whole triangles, 1 left over"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msh, err := ParseSTL(strings.NewReader(tc.input))
			assert.Nil(t, msh.Triangles)
			var badErr *MalformedDataError
			require.ErrorAs(t, err, &badErr)
			assert.Equal(t, tc.token, badErr.Token)
			assert.Contains(t, err.Error(), tc.contains)
			assert.ErrorIs(t, err, ErrMalformedData)
		})
	}
	{ // Test the number parse failure stays reachable
		for _, src := range []string{"solid vertex 1 2 z", "solid vertex 1 NaN 3", "solid vertex 0x10 2 3"} {
			_, err := ParseSTL(strings.NewReader(src))
			assert.ErrorIs(t, err, strconv.ErrSyntax, src)
		}
		_, err := ParseSTL(strings.NewReader("solid vertex 1 2 -1e999"))
		assert.ErrorIs(t, err, strconv.ErrRange)
	}
}

func TestParseSTLReadError(t *testing.T) {
	boom := errors.New("boom")
	{ // Test a failure while peeking the header
		_, err := ParseSTL(iotest.ErrReader(boom))
		assert.ErrorIs(t, err, ErrIO)
		assert.ErrorIs(t, err, boom)
	}
	{ // Test a failure part way through the body
		r := io.MultiReader(strings.NewReader("solid x vertex 1 2 3 "), iotest.ErrReader(boom))
		_, err := ParseSTL(r)
		var ioErr *IOError
		require.ErrorAs(t, err, &ioErr)
		assert.Equal(t, "read", ioErr.Op)
		assert.ErrorIs(t, err, boom)
	}
}

func TestDetectSTLFormat(t *testing.T) {
	src := "solid name\nendsolid name\n"
	reader := bufio.NewReader(strings.NewReader(src))
	format, err := DetectSTLFormat(reader)
	require.NoError(t, err)
	assert.Equal(t, STLASCII, format)
	assert.Equal(t, "ASCII STL", format.String())

	// The header must still be there for the parser
	rest, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, src, string(rest))

	format, err = DetectSTLFormat(bufio.NewReader(bytes.NewReader(binarySTL(1))))
	require.NoError(t, err)
	assert.Equal(t, STLBinary, format)
}

func TestReadSTL(t *testing.T) {
	path := createTempFile(t, "tri.stl", minimalSTL)
	{ // Test reading from disk and idempotence
		first, err := ReadSTL(path)
		require.NoError(t, err)
		second, err := ReadSTL(path)
		require.NoError(t, err)
		assert.Equal(t, 1, first.NumTriangles())
		assert.True(t, cmp.Equal(first, second))
	}
	{ // Test errors carry the file name
		bin := createTempFile(t, "part.stl", string(binarySTL(3)))
		_, err := ReadSTL(bin)
		var fmtErr *UnsupportedFormatError
		require.ErrorAs(t, err, &fmtErr)
		assert.Equal(t, bin, fmtErr.Path)

		bad := createTempFile(t, "bad.stl", "solid vertex 1 2")
		_, err = ReadSTL(bad)
		var badErr *MalformedDataError
		require.ErrorAs(t, err, &badErr)
		assert.Equal(t, bad, badErr.Path)
		assert.True(t, strings.HasPrefix(err.Error(), bad+": token 2:"))
	}
	{ // Test a missing file
		missing := filepath.Join(t.TempDir(), "missing.stl")
		msh, err := ReadSTL(missing)
		assert.Nil(t, msh.Triangles)
		assert.ErrorIs(t, err, ErrIO)
		assert.ErrorIs(t, err, fs.ErrNotExist)
		assert.NotErrorIs(t, err, ErrUnsupportedFormat)
	}
}

func TestReadMeshFile(t *testing.T) {
	path := createTempFile(t, "TRI.STL", minimalSTL)
	msh, err := ReadMeshFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, msh.NumTriangles())

	_, err = ReadMeshFile("model.obj")
	var fmtErr *UnsupportedFormatError
	require.ErrorAs(t, err, &fmtErr)
	assert.Equal(t, `mesh format ".obj"`, fmtErr.Format)
	assert.NotContains(t, err.Error(), "ASCII STL")
}
