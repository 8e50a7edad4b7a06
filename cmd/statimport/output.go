package main

import (
	"io"

	"github.com/goccy/go-json"

	"github.com/ajitpratap0/statimport/internal/pipeline"
	"github.com/ajitpratap0/statimport/pkg/compression"
	"github.com/ajitpratap0/statimport/pkg/dialect"
	"github.com/ajitpratap0/statimport/pkg/errors"
	"github.com/ajitpratap0/statimport/pkg/frequency"
	"github.com/ajitpratap0/statimport/pkg/timeline"
)

// writeJSON writes v as indented JSON followed by a newline
func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to write output")
	}
	return nil
}

type versionView struct {
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

type dialectView struct {
	Delimiter     string `json:"delimiter"`
	DelimiterName string `json:"delimiter_name"`
	QuoteChar     string `json:"quote_char"`
	HasHeader     bool   `json:"has_header"`
}

func newDialectView(d dialect.Dialect) dialectView {
	return dialectView{
		Delimiter:     string(d.Delimiter),
		DelimiterName: dialect.DelimiterName(d.Delimiter),
		QuoteChar:     string(d.QuoteChar),
		HasHeader:     d.HasHeader,
	}
}

type sniffView struct {
	Path     string      `json:"path"`
	Detected dialectView `json:"detected"`
	Dialect  dialectView `json:"dialect"`
}

type columnView struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	// Kind is numeric (every cell a number), mixed (numeric first cell) or text
	Kind     string `json:"kind"`
	Distinct int    `json:"distinct"`
}

type importView struct {
	ImportID    string                `json:"import_id"`
	Path        string                `json:"path"`
	Compression compression.Algorithm `json:"compression"`
	Bytes       int64                 `json:"bytes"`
	Dialect     dialectView           `json:"dialect"`
	Rows        int                   `json:"rows"`
	Columns     []columnView          `json:"columns"`
}

func newImportView(r *pipeline.Result) importView {
	view := importView{
		ImportID:    r.ImportID,
		Path:        r.Path,
		Compression: r.Compression,
		Bytes:       r.Bytes,
		Dialect:     newDialectView(r.Dialect),
		Rows:        r.Table.RowCount(),
		Columns:     make([]columnView, 0, r.Table.Width()),
	}
	for i := 0; i < r.Table.Width(); i++ {
		col, err := r.Table.Column(i)
		if err != nil {
			continue
		}
		kind := "text"
		switch {
		case col.AllNumeric():
			kind = "numeric"
		case col.IsNumeric():
			kind = "mixed"
		}
		view.Columns = append(view.Columns, columnView{
			Index:    i,
			Name:     r.Table.ColumnName(i),
			Kind:     kind,
			Distinct: len(r.Table.Vocabulary(i)),
		})
	}
	return view
}

type freqView struct {
	Column string         `json:"column"`
	Kind   string         `json:"kind"`
	Unit   frequency.Unit `json:"unit"`
	Labels []string       `json:"labels"`
	Values []float64      `json:"values"`
	Total  int            `json:"total"`
}

type scheduleView struct {
	Strategy string            `json:"strategy"`
	Duration int               `json:"duration"`
	Items    int               `json:"items"`
	Start    int               `json:"start"`
	Windows  []timeline.Window `json:"windows"`
}
