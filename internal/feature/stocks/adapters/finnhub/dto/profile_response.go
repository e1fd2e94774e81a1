package dto

// ProfileResponse は /stock/profile2 エンドポイントのレスポンスです。
// 存在しないシンボルの場合は空のオブジェクトが返されます。
type ProfileResponse struct {
	Name     string `json:"name"`
	Ticker   string `json:"ticker"`
	Exchange string `json:"exchange"`
	Currency string `json:"currency"`
	Country  string `json:"country"`
	Industry string `json:"finnhubIndustry"`
}
