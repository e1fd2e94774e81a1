// Package api defines the JSON contract of the HTTP API (see openapi.yaml).
package api

// ErrorResponse is returned with every non-2xx status.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// Error codes carried in ErrorResponse.Code.
const (
	CodeNotFound        = "not_found"
	CodeDuplicateSymbol = "duplicate_symbol"
	CodeDataUnavailable = "data_unavailable"
	CodeInvalidInput    = "invalid_input"
	CodeUnauthorized    = "unauthorized"
	CodeInternal        = "internal"
)

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// StockResponse is one stock record. Unknown values are serialized as null.
type StockResponse struct {
	ID               int64    `json:"id"`
	Symbol           string   `json:"symbol"`
	Name             *string  `json:"name"`
	CurrentPrice     *float64 `json:"current_price"`
	EPS              *float64 `json:"eps"`
	PERatio          *float64 `json:"pe_ratio"`
	Growth5yPercent  *float64 `json:"growth_5y_percent"`
	EPSIn5y          *float64 `json:"eps_in_5y"`
	TargetPERatio    *float64 `json:"target_pe_ratio"`
	PriceIn5y        *float64 `json:"price_in_5y"`
	FairValue        *float64 `json:"fair_value"`
	PriceDiff        *float64 `json:"price_diff"`
	PotentialPercent *float64 `json:"potential_percent"`
	Comment          *string  `json:"comment"`
	LastUpdated      string   `json:"last_updated"` // RFC 3339, UTC
}

// StockCreateRequest is the body of POST /api/stocks.
type StockCreateRequest struct {
	Symbol           string   `json:"symbol" binding:"required"`
	Name             *string  `json:"name"`
	CurrentPrice     *float64 `json:"current_price"`
	EPS              *float64 `json:"eps"`
	PERatio          *float64 `json:"pe_ratio"`
	Growth5yPercent  *float64 `json:"growth_5y_percent"`
	EPSIn5y          *float64 `json:"eps_in_5y"`
	TargetPERatio    *float64 `json:"target_pe_ratio"`
	PriceIn5y        *float64 `json:"price_in_5y"`
	FairValue        *float64 `json:"fair_value"`
	PriceDiff        *float64 `json:"price_diff"`
	PotentialPercent *float64 `json:"potential_percent"`
	Comment          *string  `json:"comment"`
}

// StockUpdateRequest is the body of PUT/PATCH /api/stocks/{id}.
// Absent keys and null values both leave the stored value unchanged.
type StockUpdateRequest struct {
	Symbol           *string  `json:"symbol"`
	Name             *string  `json:"name"`
	CurrentPrice     *float64 `json:"current_price"`
	EPS              *float64 `json:"eps"`
	PERatio          *float64 `json:"pe_ratio"`
	Growth5yPercent  *float64 `json:"growth_5y_percent"`
	EPSIn5y          *float64 `json:"eps_in_5y"`
	TargetPERatio    *float64 `json:"target_pe_ratio"`
	PriceIn5y        *float64 `json:"price_in_5y"`
	FairValue        *float64 `json:"fair_value"`
	PriceDiff        *float64 `json:"price_diff"`
	PotentialPercent *float64 `json:"potential_percent"`
	Comment          *string  `json:"comment"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
}
