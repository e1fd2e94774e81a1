package adapters

import (
	"time"

	"stock_valuation/internal/feature/stocks/domain/entity"
)

// StockModel is the GORM model for the stocks table.
type StockModel struct {
	ID               int64     `gorm:"primaryKey;autoIncrement"`
	Symbol           string    `gorm:"size:32;not null;uniqueIndex:idx_stocks_symbol"`
	Name             *string   `gorm:"size:255"`
	CurrentPrice     *float64  `gorm:"column:current_price"`
	EPS              *float64  `gorm:"column:eps"`
	PERatio          *float64  `gorm:"column:pe_ratio"`
	Growth5yPercent  *float64  `gorm:"column:growth_5y_percent"`
	EPSIn5y          *float64  `gorm:"column:eps_in_5y"`
	TargetPERatio    *float64  `gorm:"column:target_pe_ratio"`
	PriceIn5y        *float64  `gorm:"column:price_in_5y"`
	FairValue        *float64  `gorm:"column:fair_value"`
	PriceDiff        *float64  `gorm:"column:price_diff"`
	PotentialPercent *float64  `gorm:"column:potential_percent"`
	Comment          *string   `gorm:"type:text"`
	LastUpdated      time.Time `gorm:"column:last_updated;not null"`
}

// TableName returns the table name for GORM.
func (StockModel) TableName() string {
	return "stocks"
}

// ToEntity converts the GORM model to a domain entity.
func (m *StockModel) ToEntity() *entity.Stock {
	return &entity.Stock{
		ID:               m.ID,
		Symbol:           m.Symbol,
		Name:             m.Name,
		CurrentPrice:     m.CurrentPrice,
		EPS:              m.EPS,
		PERatio:          m.PERatio,
		Growth5yPercent:  m.Growth5yPercent,
		EPSIn5y:          m.EPSIn5y,
		TargetPERatio:    m.TargetPERatio,
		PriceIn5y:        m.PriceIn5y,
		FairValue:        m.FairValue,
		PriceDiff:        m.PriceDiff,
		PotentialPercent: m.PotentialPercent,
		Comment:          m.Comment,
		LastUpdated:      m.LastUpdated,
	}
}

// StockModelFromEntity converts a domain entity to a GORM model.
// ID and LastUpdated are assigned by the repository and are not copied.
func StockModelFromEntity(s *entity.Stock) *StockModel {
	return &StockModel{
		Symbol:           entity.NormalizeSymbol(s.Symbol),
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
	}
}

// patchColumns はパッチの非nilフィールドをカラム名をキーとするmapに変換します。
func patchColumns(p entity.StockPatch) map[string]any {
	cols := make(map[string]any)
	if p.Symbol != nil {
		cols["symbol"] = entity.NormalizeSymbol(*p.Symbol)
	}
	if p.Name != nil {
		cols["name"] = *p.Name
	}
	if p.Comment != nil {
		cols["comment"] = *p.Comment
	}

	floats := []struct {
		col string
		v   *float64
	}{
		{"current_price", p.CurrentPrice},
		{"eps", p.EPS},
		{"pe_ratio", p.PERatio},
		{"growth_5y_percent", p.Growth5yPercent},
		{"eps_in_5y", p.EPSIn5y},
		{"target_pe_ratio", p.TargetPERatio},
		{"price_in_5y", p.PriceIn5y},
		{"fair_value", p.FairValue},
		{"price_diff", p.PriceDiff},
		{"potential_percent", p.PotentialPercent},
	}
	for _, f := range floats {
		if f.v != nil {
			cols[f.col] = *f.v
		}
	}
	if p.PERatio == nil && p.ClearPERatio {
		cols["pe_ratio"] = nil
	}
	return cols
}
