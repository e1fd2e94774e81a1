// Package dto converts between the stocks domain model and the HTTP contract in package api.
package dto

import (
	"time"

	"stock_valuation/internal/api"
	"stock_valuation/internal/feature/stocks/domain/entity"
)

// FromEntity はエンティティをレスポンスDTOに変換します。
func FromEntity(s *entity.Stock) api.StockResponse {
	return api.StockResponse{
		ID:               s.ID,
		Symbol:           s.Symbol,
		Name:             s.Name,
		CurrentPrice:     s.CurrentPrice,
		EPS:              s.EPS,
		PERatio:          s.PERatio,
		Growth5yPercent:  s.Growth5yPercent,
		EPSIn5y:          s.EPSIn5y,
		TargetPERatio:    s.TargetPERatio,
		PriceIn5y:        s.PriceIn5y,
		FairValue:        s.FairValue,
		PriceDiff:        s.PriceDiff,
		PotentialPercent: s.PotentialPercent,
		Comment:          s.Comment,
		LastUpdated:      s.LastUpdated.UTC().Format(time.RFC3339),
	}
}

// FromEntities は一覧をレスポンスDTOに変換します。空の場合も空配列を返します。
func FromEntities(stocks []entity.Stock) []api.StockResponse {
	out := make([]api.StockResponse, 0, len(stocks))
	for i := range stocks {
		out = append(out, FromEntity(&stocks[i]))
	}
	return out
}

// ToEntity は作成リクエストをエンティティに変換します。
func ToEntity(req api.StockCreateRequest) *entity.Stock {
	return &entity.Stock{
		Symbol:           req.Symbol,
		Name:             req.Name,
		CurrentPrice:     req.CurrentPrice,
		EPS:              req.EPS,
		PERatio:          req.PERatio,
		Growth5yPercent:  req.Growth5yPercent,
		EPSIn5y:          req.EPSIn5y,
		TargetPERatio:    req.TargetPERatio,
		PriceIn5y:        req.PriceIn5y,
		FairValue:        req.FairValue,
		PriceDiff:        req.PriceDiff,
		PotentialPercent: req.PotentialPercent,
		Comment:          req.Comment,
	}
}

// ToPatch は更新リクエストをパッチに変換します。
func ToPatch(req api.StockUpdateRequest) entity.StockPatch {
	return entity.StockPatch{
		Symbol:           req.Symbol,
		Name:             req.Name,
		CurrentPrice:     req.CurrentPrice,
		EPS:              req.EPS,
		PERatio:          req.PERatio,
		Growth5yPercent:  req.Growth5yPercent,
		EPSIn5y:          req.EPSIn5y,
		TargetPERatio:    req.TargetPERatio,
		PriceIn5y:        req.PriceIn5y,
		FairValue:        req.FairValue,
		PriceDiff:        req.PriceDiff,
		PotentialPercent: req.PotentialPercent,
		Comment:          req.Comment,
	}
}
