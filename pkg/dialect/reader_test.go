package dialect

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/statimport/pkg/columnar"
	"github.com/ajitpratap0/statimport/pkg/errors"
)

func TestReaderRead(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		dialect Dialect
		want    [][]string
	}{
		{
			name:    "simple",
			input:   "a,b,c\n1,2,3\n",
			dialect: Default,
			want:    [][]string{{"a", "b", "c"}, {"1", "2", "3"}},
		},
		{
			name:    "no trailing newline",
			input:   "a,b\n1,2",
			dialect: Default,
			want:    [][]string{{"a", "b"}, {"1", "2"}},
		},
		{
			name:    "quoted delimiter and doubled quote",
			input:   `"x,y","say ""hi"""` + "\n",
			dialect: Default,
			want:    [][]string{{"x,y", `say "hi"`}},
		},
		{
			name:    "quoted line break",
			input:   "\"two\nlines\",b\n",
			dialect: Default,
			want:    [][]string{{"two\nlines", "b"}},
		},
		{
			name:    "single quote dialect",
			input:   "'Oslo, NO';'it''s'\n",
			dialect: Dialect{Delimiter: Semicolon, QuoteChar: SingleQuote},
			want:    [][]string{{"Oslo, NO", "it's"}},
		},
		{
			name:    "quote inside unquoted field is literal",
			input:   `5'11",tall` + "\n",
			dialect: Default,
			want:    [][]string{{`5'11"`, "tall"}},
		},
		{
			name:    "crlf and blank lines",
			input:   "a\tb\r\n\r\n\n1\t2\r\n",
			dialect: Dialect{Delimiter: Tab, QuoteChar: DoubleQuote},
			want:    [][]string{{"a", "b"}, {"1", "2"}},
		},
		{
			name:    "empty fields",
			input:   ",,\n",
			dialect: Default,
			want:    [][]string{{"", "", ""}},
		},
		{
			name:    "quoted empty field",
			input:   "\"\"\n",
			dialect: Default,
			want:    [][]string{{""}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewReader(strings.NewReader(tt.input), tt.dialect).ReadAll()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReaderEmptyInput(t *testing.T) {
	r := NewReader(strings.NewReader(""), Default)
	_, err := r.Read()
	assert.Equal(t, io.EOF, err)
}

func TestReaderUnterminatedQuote(t *testing.T) {
	r := NewReader(strings.NewReader("a,b\n\"open,c\n"), Default)

	record, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, record)

	_, err = r.Read()
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeMalformedInput))

	var e *errors.Error
	require.ErrorAs(t, err, &e)
	line, ok := e.Detail("line")
	require.True(t, ok)
	assert.Equal(t, 2, line)
}

func TestReaderLine(t *testing.T) {
	r := NewReader(strings.NewReader("a\n\n\"b\nc\"\nd\n"), Default)

	var starts []int
	for {
		_, err := r.Read()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		starts = append(starts, r.Line())
	}
	assert.Equal(t, []int{1, 3, 5}, starts)
}

func TestHeaderSplitFeedsColumnStore(t *testing.T) {
	input := "name,age\nal,20\nbo,30\n"

	d, err := Sniff(strings.NewReader(input))
	require.NoError(t, err)
	require.True(t, d.HasHeader)

	rows, err := NewReader(strings.NewReader(input), d).ReadAll()
	require.NoError(t, err)

	headers, body, ok := SplitHeader(rows)
	require.True(t, ok)

	store := columnar.NewStore()
	for _, row := range body {
		require.NoError(t, store.AddRow(row))
	}
	table := store.Table()
	require.NoError(t, table.SetHeaders(headers))

	cols := table.Columns(columnar.Native)
	require.Len(t, cols, 2)
	assert.Equal(t, "al", cols[0][0].String())
	assert.Equal(t, "bo", cols[0][1].String())
	assert.Equal(t, []float64{20, 30}, cols[1].Floats())
	assert.Equal(t, []string{"name", "age"}, table.Headers())
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"a,b,c\n1,2,3\n",
		"'Oslo, NO'\t'it''s'\n'x'\t2\n",
		"kind;note\nred;\"semi;colon\"\nblue;\"two\nlines\"\n",
	}

	for _, input := range inputs {
		d, err := Sniff(strings.NewReader(input))
		require.NoError(t, err)

		rows, err := NewReader(strings.NewReader(input), d).ReadAll()
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, NewWriter(&buf, d).WriteAll(rows))

		again, err := NewReader(&buf, d).ReadAll()
		require.NoError(t, err)
		assert.Equal(t, rows, again, input)
	}
}
