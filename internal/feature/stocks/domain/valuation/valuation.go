// Package valuation implements the fair value formula used to rate a stock:
// project earnings five years ahead, apply a target P/E, discount the resulting
// price back to today and take a safety margin off.
package valuation

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"stock_valuation/internal/feature/stocks/domain"
)

// ProjectionYears は利益成長と割引に用いる年数です。
const ProjectionYears = 5

// Params holds the assumptions of the formula.
type Params struct {
	GrowthRate   float64 // yearly EPS growth, 0.08 = 8%
	TargetPE     float64 // P/E expected in five years
	DiscountRate float64 // required yearly return, 0.10 = 10%
	SafetyMargin float64 // haircut on the discounted value, 0.30 = 30%
}

// DefaultParams returns 8% growth, a target P/E of 25, a 10% discount rate and a 30% safety margin.
func DefaultParams() Params {
	return Params{
		GrowthRate:   0.08,
		TargetPE:     25,
		DiscountRate: 0.10,
		SafetyMargin: 0.30,
	}
}

// Validate はパラメータが計算可能な範囲にあるかを検証します。
// 割引率が -1 以下だと割引係数が 0 以下になり、計算が成立しません。
func (p Params) Validate() error {
	if p.DiscountRate <= -1 {
		return fmt.Errorf("%w: discount rate must be greater than -1, got %v", domain.ErrInvalidInput, p.DiscountRate)
	}
	if p.SafetyMargin < 0 || p.SafetyMargin >= 1 {
		return fmt.Errorf("%w: safety margin must be in [0, 1), got %v", domain.ErrInvalidInput, p.SafetyMargin)
	}
	return nil
}

// compound returns (1 + rate)^ProjectionYears.
func compound(rate float64) decimal.Decimal {
	base := decimal.NewFromFloat(rate).Add(decimal.NewFromInt(1))
	// PowInt32 only fails for 0 raised to a negative exponent.
	f, _ := base.PowInt32(ProjectionYears)
	return f
}

// ProjectedEPS は現在のEPSを年率growthRateで5年間複利成長させた値を返します。
// 入力値の妥当性はチェックしません（負のEPSはそのまま計算されます）。
func ProjectedEPS(currentEPS, growthRate float64) float64 {
	return decimal.NewFromFloat(currentEPS).Mul(compound(growthRate)).InexactFloat64()
}

// ProjectedPrice は5年後のEPSに目標PERを掛けた想定株価を返します。
func ProjectedPrice(epsIn5y, targetPE float64) float64 {
	return decimal.NewFromFloat(epsIn5y).Mul(decimal.NewFromFloat(targetPE)).InexactFloat64()
}

// FairValue は5年後の想定株価を現在価値に割り引き、安全マージンを差し引いた適正株価を返します。
// discountRate が -1 の場合は割引係数が 0 になるため NaN を返します。
func FairValue(priceIn5y, discountRate, safetyMargin float64) float64 {
	factor := compound(discountRate)
	if factor.IsZero() {
		return math.NaN()
	}
	discounted := decimal.NewFromFloat(priceIn5y).Div(factor)
	keep := decimal.NewFromInt(1).Sub(decimal.NewFromFloat(safetyMargin))
	return discounted.Mul(keep).InexactFloat64()
}

// Deviation describes how far the fair value is from the current price.
// UnderOverPercent and PotentialPercent are algebraically identical.
type Deviation struct {
	PriceDiff        float64
	UnderOverPercent float64
	PotentialPercent float64
}

// ComputeDeviation は適正株価と現在株価の差額と乖離率を計算します。
// currentPrice が 0 以下の場合は domain.ErrInvalidInput を返します。
func ComputeDeviation(currentPrice, fairValue float64) (Deviation, error) {
	if currentPrice <= 0 || math.IsNaN(currentPrice) {
		return Deviation{}, fmt.Errorf("%w: current price must be positive, got %v", domain.ErrInvalidInput, currentPrice)
	}
	if math.IsNaN(fairValue) || math.IsInf(fairValue, 0) || math.IsInf(currentPrice, 0) {
		return Deviation{}, fmt.Errorf("%w: fair value %v and price %v must be finite", domain.ErrInvalidInput, fairValue, currentPrice)
	}
	price := decimal.NewFromFloat(currentPrice)
	fair := decimal.NewFromFloat(fairValue)
	hundred := decimal.NewFromInt(100)

	diff := fair.Sub(price)
	return Deviation{
		PriceDiff:        diff.InexactFloat64(),
		UnderOverPercent: diff.Div(price).Mul(hundred).InexactFloat64(),
		PotentialPercent: fair.Div(price).Sub(decimal.NewFromInt(1)).Mul(hundred).InexactFloat64(),
	}, nil
}

// Result is a complete valuation of one stock.
type Result struct {
	CurrentPrice    float64
	EPS             float64
	PERatio         *float64 // nil when EPS is zero
	Growth5yPercent float64
	EPSIn5y         float64
	TargetPE        float64
	PriceIn5y       float64
	FairValue       float64
	Deviation
}

// Evaluate は現在株価とEPSからパラメータに従って評価指標を一括で計算します。
func (p Params) Evaluate(currentPrice, eps float64) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{}, err
	}

	epsIn5y := ProjectedEPS(eps, p.GrowthRate)
	priceIn5y := ProjectedPrice(epsIn5y, p.TargetPE)
	fair := FairValue(priceIn5y, p.DiscountRate, p.SafetyMargin)

	dev, err := ComputeDeviation(currentPrice, fair)
	if err != nil {
		return Result{}, err
	}

	var pe *float64
	if eps != 0 {
		v := decimal.NewFromFloat(currentPrice).Div(decimal.NewFromFloat(eps)).InexactFloat64()
		pe = &v
	}

	return Result{
		CurrentPrice:    currentPrice,
		EPS:             eps,
		PERatio:         pe,
		Growth5yPercent: decimal.NewFromFloat(p.GrowthRate).Mul(decimal.NewFromInt(100)).InexactFloat64(),
		EPSIn5y:         epsIn5y,
		TargetPE:        p.TargetPE,
		PriceIn5y:       priceIn5y,
		FairValue:       fair,
		Deviation:       dev,
	}, nil
}
