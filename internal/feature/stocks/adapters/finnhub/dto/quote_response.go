package dto

// QuoteResponse は /quote エンドポイントのレスポンスです。
// 存在しないシンボルの場合、すべての値が0で返されます。
type QuoteResponse struct {
	Current       float64 `json:"c"`
	Change        float64 `json:"d"`
	PercentChange float64 `json:"dp"`
	High          float64 `json:"h"`
	Low           float64 `json:"l"`
	Open          float64 `json:"o"`
	PreviousClose float64 `json:"pc"`
	Timestamp     int64   `json:"t"`
}
