// Package columnar implements the typed, column-oriented store that every
// import produces.
//
// # Overview
//
// Rows arrive as ordered string fields and are stored column-wise:
//   - Each field is coerced to a Cell, either Number(float64) or Text(string)
//   - Coercion is total: anything that is not a finite float literal is Text
//   - The first row fixes the column count
//   - Text columns can be projected onto categorical indices
//
// # Usage Example
//
//	store := columnar.NewStore(columnar.WithRaggedPolicy(columnar.RaggedReject))
//	for _, row := range rows {
//		if err := store.AddRow(row); err != nil {
//			return err
//		}
//	}
//	table := store.Table()
//	_ = table.SetHeaders(headers)
//
//	native := table.Columns(columnar.Native)
//	numeric := table.Columns(columnar.AsNumeric)
//
// # Categorical Encoding
//
// Columns(AsNumeric) replaces every column whose first cell is Text with the
// 0-based position of each value in the column vocabulary. The vocabulary is
// built once per table in first-seen order, so repeated projections of the
// same table agree. Numeric columns pass through unchanged.
//
// # Ragged Rows
//
// A row whose width differs from the first row is rejected with a
// malformed_input error naming the row. With RaggedPad, short rows are padded
// with empty Text cells instead; long rows are always rejected.
//
// # Arrow Export
//
// ToArrow and WriteArrowIPC hand a table to consumers that read Apache Arrow:
// all-numeric columns become float64 fields and the rest utf8 fields holding
// the raw text.
package columnar
