// Package errors provides examples of structured error handling in statimport.
package errors_test

import (
	stderrors "errors"
	"fmt"
	"io"

	"github.com/ajitpratap0/statimport/pkg/errors"
)

// Example demonstrates basic error creation with details.
func Example() {
	err := errors.New(errors.ErrorTypeMalformedInput, "row width differs from first row").
		WithDetail("row", 4).
		WithDetail("width", 2)

	fmt.Println(err.Error())

	// Output:
	// malformed_input: row width differs from first row
}

// ExampleWrap shows how to wrap an I/O failure.
func ExampleWrap() {
	err := errors.Wrap(io.ErrUnexpectedEOF, errors.ErrorTypeFile, "failed to read stats.csv").
		WithDetail("file", "stats.csv")

	if errors.IsType(err, errors.ErrorTypeFile) {
		fmt.Println("This is a file error")
	}

	if stderrors.Is(err, io.ErrUnexpectedEOF) {
		fmt.Println("Cause is preserved")
	}

	// Output:
	// This is a file error
	// Cause is preserved
}

// ExampleIsType demonstrates checking error types through wrapping.
func ExampleIsType() {
	empty := errors.New(errors.ErrorTypeEmptyDataset, "column has no values")
	wrapped := errors.Wrap(empty, errors.ErrorTypeInternal, "histogram failed")

	fmt.Printf("Is empty dataset: %v\n", errors.IsType(empty, errors.ErrorTypeEmptyDataset))
	fmt.Printf("Wrapped is internal: %v\n", errors.IsType(wrapped, errors.ErrorTypeInternal))
	fmt.Printf("Wrapped is empty dataset: %v\n", errors.IsType(wrapped, errors.ErrorTypeEmptyDataset))
	fmt.Println(wrapped)

	// Output:
	// Is empty dataset: true
	// Wrapped is internal: true
	// Wrapped is empty dataset: false
	// internal: histogram failed: empty_dataset: column has no values
}

// ExampleTypeOf demonstrates mapping foreign errors to the internal type.
func ExampleTypeOf() {
	fmt.Println(errors.TypeOf(errors.Newf(errors.ErrorTypeInvalidParameter, "split must be >= 2, got %d", 1)))
	fmt.Println(errors.TypeOf(io.EOF))

	// Output:
	// invalid_parameter
	// internal
}

// ExampleAllDetails shows details collected across a wrap.
func ExampleAllDetails() {
	inner := errors.New(errors.ErrorTypeMalformedInput, "row width differs from first row").
		WithDetail("row", 2).
		WithDetail("width", 4)
	outer := errors.Wrap(inner, errors.ErrorTypeMalformedInput, "failed to parse input").
		WithDetail("line", 3)

	details := errors.AllDetails(outer)
	fmt.Println(details["row"], details["width"], details["line"])

	// Output:
	// 2 4 3
}
