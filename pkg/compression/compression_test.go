package compression

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/statimport/pkg/errors"
)

const sample = "name,age,score\nalice,31,88.5\nbob,27,91\ncarol,45,77.25\n"

func compress(t *testing.T, alg Algorithm, level Level, data string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := NewWriter(&buf, alg, level)
	require.NoError(t, err)
	_, err = io.WriteString(w, data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestRoundTrip(t *testing.T) {
	data := strings.Repeat(sample, 50)

	for _, alg := range Algorithms() {
		for _, level := range []Level{Fastest, Default, Better, Best} {
			t.Run(string(alg), func(t *testing.T) {
				compressed := compress(t, alg, level, data)
				if alg != None {
					assert.Less(t, len(compressed), len(data), "repetitive input should shrink")
				}

				r, err := NewReader(bytes.NewReader(compressed), alg)
				require.NoError(t, err)
				defer r.Close()

				out, err := io.ReadAll(r)
				require.NoError(t, err)
				assert.Equal(t, data, string(out))
			})
		}
	}
}

func TestEmptyGzipStream(t *testing.T) {
	compressed := compress(t, Gzip, Default, "")
	r, err := NewReader(bytes.NewReader(compressed), Gzip)
	require.NoError(t, err)
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Empty(t, out)
	require.NoError(t, r.Close())
}

func TestCorruptGzip(t *testing.T) {
	_, err := NewReader(strings.NewReader("not gzip at all"), Gzip)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeFile))
}

func TestDetect(t *testing.T) {
	tests := []struct {
		path string
		want Algorithm
	}{
		{"data.csv", None},
		{"data.csv.gz", Gzip},
		{"/tmp/DATA.CSV.GZ", Gzip},
		{"data.tsv.zst", Zstd},
		{"data.csv.zstd", Zstd},
		{"data.csv.lz4", LZ4},
		{"data.csv.sz", Snappy},
		{"data.csv.s2", S2},
		{"archive.tar", None},
		{"", None},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.path))
		})
	}
}

func TestTrimExtension(t *testing.T) {
	assert.Equal(t, "data.csv", TrimExtension("data.csv.gz"))
	assert.Equal(t, "data.csv", TrimExtension("data.csv.zst"))
	assert.Equal(t, "data.csv", TrimExtension("data.csv"))
}

func TestParseAlgorithm(t *testing.T) {
	for _, alg := range Algorithms() {
		got, err := ParseAlgorithm(string(alg))
		require.NoError(t, err)
		assert.Equal(t, alg, got)
	}

	got, err := ParseAlgorithm("")
	require.NoError(t, err)
	assert.Equal(t, None, got)

	got, err = ParseAlgorithm(" GZ ")
	require.NoError(t, err)
	assert.Equal(t, Gzip, got)

	_, err = ParseAlgorithm("bzip2")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidParameter))
}

func TestUnsupportedAlgorithm(t *testing.T) {
	_, err := NewReader(strings.NewReader(""), Algorithm("brotli"))
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidParameter))

	_, err = NewWriter(io.Discard, Algorithm("brotli"), Default)
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidParameter))
}

func TestReaderDoesNotCloseSource(t *testing.T) {
	src := &closeTracker{Reader: bytes.NewReader(compress(t, Zstd, Default, sample))}
	r, err := NewReader(src, Zstd)
	require.NoError(t, err)
	_, err = io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	assert.False(t, src.closed)
}

type closeTracker struct {
	io.Reader
	closed bool
}

func (c *closeTracker) Close() error {
	c.closed = true
	return nil
}
