// Package domain defines domain-level errors for the stocks feature.
package domain

import "errors"

// Domain errors for stock valuation records.
// Adapters translate storage and provider failures into these; handlers map them to HTTP status codes.
var (
	// ErrNotFound indicates that no stock record matched the given id or symbol.
	ErrNotFound = errors.New("stock not found")

	// ErrDuplicateSymbol indicates that another record already uses the symbol (compared case-insensitively).
	ErrDuplicateSymbol = errors.New("stock symbol already exists")

	// ErrDataUnavailable indicates that the market data provider returned no usable quote or profile.
	ErrDataUnavailable = errors.New("market data unavailable")

	// ErrInvalidInput indicates that the caller supplied a value the operation cannot work with,
	// such as an empty symbol or a non-positive current price.
	ErrInvalidInput = errors.New("invalid input")
)
