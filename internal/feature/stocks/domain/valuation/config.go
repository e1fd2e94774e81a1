package valuation

import (
	"fmt"
	"os"
	"strconv"
)

// LoadParams は環境変数から評価パラメータを読み込みます。
// 未設定の項目は DefaultParams の値を使用します。
func LoadParams() (Params, error) {
	p := DefaultParams()

	fields := []struct {
		env string
		dst *float64
	}{
		{"VALUATION_GROWTH_RATE", &p.GrowthRate},
		{"VALUATION_TARGET_PE", &p.TargetPE},
		{"VALUATION_DISCOUNT_RATE", &p.DiscountRate},
		{"VALUATION_SAFETY_MARGIN", &p.SafetyMargin},
	}
	for _, f := range fields {
		raw := os.Getenv(f.env)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Params{}, fmt.Errorf("parse %s %q: %w", f.env, raw, err)
		}
		*f.dst = v
	}

	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}
