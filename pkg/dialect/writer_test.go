package dialect

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterQuoting(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		records [][]string
		want    string
	}{
		{
			name:    "plain",
			dialect: Default,
			records: [][]string{{"a", "b"}, {"1", "2"}},
			want:    "a,b\n1,2\n",
		},
		{
			name:    "delimiter and quote",
			dialect: Default,
			records: [][]string{{"x,y", `say "hi"`}},
			want:    `"x,y","say ""hi"""` + "\n",
		},
		{
			name:    "comma left bare under semicolons",
			dialect: Dialect{Delimiter: Semicolon, QuoteChar: DoubleQuote},
			records: [][]string{{"1,5", "a;b"}},
			want:    "1,5;\"a;b\"\n",
		},
		{
			name:    "single quote",
			dialect: Dialect{Delimiter: Comma, QuoteChar: SingleQuote},
			records: [][]string{{"it's", `5"`}},
			want:    "'it''s',5\"\n",
		},
		{
			name:    "line break",
			dialect: Default,
			records: [][]string{{"two\nlines"}},
			want:    "\"two\nlines\"\n",
		},
		{
			name:    "lone empty field",
			dialect: Default,
			records: [][]string{{""}},
			want:    "\"\"\n",
		},
		{
			name:    "empty fields among others",
			dialect: Default,
			records: [][]string{{"", "x", ""}},
			want:    ",x,\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, NewWriter(&buf, tt.dialect).WriteAll(tt.records))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestWriterCRLF(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, Default)
	w.UseCRLF = true
	require.NoError(t, w.WriteAll([][]string{{"a"}, {"b"}}))
	assert.Equal(t, "a\r\nb\r\n", buf.String())
}

func TestWriterRejectsInvalidDialect(t *testing.T) {
	var buf bytes.Buffer
	err := NewWriter(&buf, Dialect{Delimiter: '"', QuoteChar: '"'}).Write([]string{"a"})
	assert.Error(t, err)
	assert.Empty(t, buf.String())
}
