package dto

// MetricResponse は /stock/metric?metric=all エンドポイントのレスポンスのうち、使用する項目のみを表します。
type MetricResponse struct {
	Symbol string  `json:"symbol"`
	Metric Metrics `json:"metric"`
}

// Metrics はnullになりうるためポインタで受け取ります。
type Metrics struct {
	EPSTTM                    *float64 `json:"epsTTM"`
	EPSBasicExclExtraItemsTTM *float64 `json:"epsBasicExclExtraItemsTTM"`
}

// EPS はTTMのEPSを返します。epsTTMがない場合は特別損益除外の基本EPSを使い、どちらもなければ0を返します。
func (m Metrics) EPS() float64 {
	if m.EPSTTM != nil {
		return *m.EPSTTM
	}
	if m.EPSBasicExclExtraItemsTTM != nil {
		return *m.EPSBasicExclExtraItemsTTM
	}
	return 0
}
