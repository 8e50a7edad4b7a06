// Package compression provides streaming decompression of input files and
// compression of exported tables.
//
// # Overview
//
// The package wraps the klauspost/compress and pierrec/lz4 codecs behind two
// constructors:
//   - NewReader decompresses an input stream
//   - NewWriter compresses an output stream at a configurable level
//
// Detect picks the algorithm from a file extension so that data.csv.gz and
// data.csv.zst import like data.csv.
//
// # Basic Usage
//
//	f, err := os.Open("survey.csv.zst")
//	...
//	r, err := compression.NewReader(f, compression.Detect(f.Name()))
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//
// # Algorithm Selection
//
// Speed (fastest to slowest): LZ4 > Snappy/S2 > Zstd > Gzip
// Compression ratio (best to worst): Zstd > Gzip > Snappy/S2 > LZ4
package compression

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/ajitpratap0/statimport/pkg/errors"
)

// Algorithm represents a compression algorithm.
type Algorithm string

const (
	// None represents no compression
	None Algorithm = "none"
	// Gzip represents gzip compression
	Gzip Algorithm = "gzip"
	// Snappy represents framed snappy compression
	Snappy Algorithm = "snappy"
	// LZ4 represents lz4 frame compression
	LZ4 Algorithm = "lz4"
	// Zstd represents zstandard compression
	Zstd Algorithm = "zstd"
	// S2 represents s2 compression (Snappy compatible)
	S2 Algorithm = "s2"
)

// Algorithms lists every supported algorithm
func Algorithms() []Algorithm {
	return []Algorithm{None, Gzip, Snappy, LZ4, Zstd, S2}
}

// Level represents compression level, controlling the trade-off between
// compression speed and compression ratio.
type Level int

const (
	// Fastest prioritizes speed over compression ratio.
	Fastest Level = 1
	// Default balances speed and compression.
	Default Level = 5
	// Better improves compression at cost of speed.
	Better Level = 7
	// Best maximizes compression ratio.
	Best Level = 9
)

var extensions = map[string]Algorithm{
	".gz":   Gzip,
	".gzip": Gzip,
	".zst":  Zstd,
	".zstd": Zstd,
	".lz4":  LZ4,
	".sz":   Snappy,
	".s2":   S2,
}

// Detect returns the algorithm implied by the file extension, None when the
// extension is not a compression suffix
func Detect(path string) Algorithm {
	if alg, ok := extensions[strings.ToLower(filepath.Ext(path))]; ok {
		return alg
	}
	return None
}

// TrimExtension strips a compression suffix, so data.csv.gz becomes data.csv
func TrimExtension(path string) string {
	ext := filepath.Ext(path)
	if _, ok := extensions[strings.ToLower(ext)]; ok {
		return strings.TrimSuffix(path, ext)
	}
	return path
}

// ParseAlgorithm parses an algorithm name. The empty string means None.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return None, nil
	case "gzip", "gz":
		return Gzip, nil
	case "snappy":
		return Snappy, nil
	case "lz4":
		return LZ4, nil
	case "zstd", "zst":
		return Zstd, nil
	case "s2":
		return S2, nil
	default:
		return "", errors.Newf(errors.ErrorTypeInvalidParameter, "unsupported compression algorithm: %s", s).
			WithDetail("algorithm", s)
	}
}

// NewReader returns a reader that decompresses r. Closing it releases the
// decoder but never closes r.
func NewReader(r io.Reader, alg Algorithm) (io.ReadCloser, error) {
	switch alg {
	case None, "":
		return io.NopCloser(r), nil
	case Gzip:
		gr, err := gzip.NewReader(r)
		if err != nil {
			return nil, streamError(err, alg, "failed to open gzip stream")
		}
		return gr, nil
	case Snappy:
		return io.NopCloser(snappy.NewReader(r)), nil
	case LZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	case Zstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, streamError(err, alg, "failed to open zstd stream")
		}
		return zstdReader{dec}, nil
	case S2:
		return io.NopCloser(s2.NewReader(r)), nil
	default:
		return nil, errors.Newf(errors.ErrorTypeInvalidParameter, "unsupported compression algorithm: %s", alg)
	}
}

type zstdReader struct {
	*zstd.Decoder
}

func (z zstdReader) Close() error {
	z.Decoder.Close()
	return nil
}

// NewWriter returns a writer that compresses into w. Close flushes the
// trailing frame but never closes w.
func NewWriter(w io.Writer, alg Algorithm, level Level) (io.WriteCloser, error) {
	switch alg {
	case None, "":
		return nopWriteCloser{w}, nil
	case Gzip:
		gw, err := gzip.NewWriterLevel(w, mapGzipLevel(level))
		if err != nil {
			return nil, streamError(err, alg, "failed to create gzip writer")
		}
		return gw, nil
	case Snappy:
		return snappy.NewBufferedWriter(w), nil
	case LZ4:
		lw := lz4.NewWriter(w)
		if err := lw.Apply(lz4.CompressionLevelOption(mapLZ4Level(level))); err != nil {
			return nil, streamError(err, alg, "failed to set lz4 level")
		}
		return lw, nil
	case Zstd:
		enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(mapZstdLevel(level)))
		if err != nil {
			return nil, streamError(err, alg, "failed to create zstd writer")
		}
		return enc, nil
	case S2:
		return s2.NewWriter(w, mapS2Level(level)...), nil
	default:
		return nil, errors.Newf(errors.ErrorTypeInvalidParameter, "unsupported compression algorithm: %s", alg)
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

func streamError(err error, alg Algorithm, msg string) error {
	return errors.Wrap(err, errors.ErrorTypeFile, msg).WithDetail("algorithm", string(alg))
}

// Helper functions to map compression levels

func mapGzipLevel(level Level) int {
	switch level {
	case Fastest:
		return gzip.BestSpeed
	case Best:
		return gzip.BestCompression
	default:
		return gzip.DefaultCompression
	}
}

func mapLZ4Level(level Level) lz4.CompressionLevel {
	switch level {
	case Fastest:
		return lz4.Fast
	case Best:
		return lz4.Level9
	default:
		return lz4.Level5
	}
}

func mapZstdLevel(level Level) zstd.EncoderLevel {
	switch level {
	case Fastest:
		return zstd.SpeedFastest
	case Better:
		return zstd.SpeedBetterCompression
	case Best:
		return zstd.SpeedBestCompression
	default:
		return zstd.SpeedDefault
	}
}

func mapS2Level(level Level) []s2.WriterOption {
	switch level {
	case Better:
		return []s2.WriterOption{s2.WriterBetterCompression()}
	case Best:
		return []s2.WriterOption{s2.WriterBestCompression()}
	default:
		return nil
	}
}
