package columnar

import (
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/ajitpratap0/statimport/pkg/errors"
)

// ArrowSchema derives an Arrow schema from the table. Columns whose cells
// are all numbers become float64; everything else is utf8 with the raw text.
func ArrowSchema(t *Table) *arrow.Schema {
	fields := make([]arrow.Field, len(t.columns))
	for i, col := range t.columns {
		var dt arrow.DataType = arrow.BinaryTypes.String
		if col.AllNumeric() {
			dt = arrow.PrimitiveTypes.Float64
		}
		fields[i] = arrow.Field{Name: t.ColumnName(i), Type: dt}
	}
	return arrow.NewSchema(fields, nil)
}

// ToArrow converts the table into a single Arrow record.
// The caller must Release the returned record.
func ToArrow(t *Table, mem memory.Allocator) (arrow.Record, error) {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}

	schema := ArrowSchema(t)
	builder := array.NewRecordBuilder(mem, schema)
	defer builder.Release()

	for i, col := range t.columns {
		switch b := builder.Field(i).(type) {
		case *array.Float64Builder:
			b.Reserve(len(col))
			for _, cell := range col {
				v, _ := cell.Float()
				b.Append(v)
			}
		case *array.StringBuilder:
			b.Reserve(len(col))
			for _, cell := range col {
				b.Append(cell.String())
			}
		default:
			return nil, errors.Newf(errors.ErrorTypeInternal, "unsupported builder type: %T", b).
				WithDetail("column", i)
		}
	}

	return builder.NewRecord(), nil
}

// WriteArrowIPC writes the table as an Arrow IPC file
func WriteArrowIPC(w io.Writer, t *Table) error {
	mem := memory.NewGoAllocator()

	record, err := ToArrow(t, mem)
	if err != nil {
		return err
	}
	defer record.Release()

	fw, err := ipc.NewFileWriter(w, ipc.WithSchema(record.Schema()), ipc.WithAllocator(mem))
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to create Arrow writer")
	}

	if err := fw.Write(record); err != nil {
		_ = fw.Close()
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to write record batch").
			WithDetail("rows", record.NumRows())
	}

	if err := fw.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to close Arrow writer")
	}
	return nil
}
