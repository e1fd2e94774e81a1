// Package usecase はstocksフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"stock_valuation/internal/feature/stocks/domain"
	"stock_valuation/internal/feature/stocks/domain/entity"
	"stock_valuation/internal/feature/stocks/domain/valuation"
	"stock_valuation/internal/shared/ratelimiter"
)

// StockRepository は銘柄評価レコードの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type StockRepository interface {
	// Create は新しいレコードを追加し、IDと更新日時を採番して返します。
	// 同じシンボルのレコードが既に存在する場合、domain.ErrDuplicateSymbolを返します。
	Create(ctx context.Context, s *entity.Stock) (*entity.Stock, error)

	// FindByID はIDでレコードを取得します。存在しない場合、domain.ErrNotFoundを返します。
	FindByID(ctx context.Context, id int64) (*entity.Stock, error)

	// FindBySymbol はシンボルでレコードを取得します（大文字小文字を区別しません）。
	FindBySymbol(ctx context.Context, symbol string) (*entity.Stock, error)

	// List はすべてのレコードをシンボルの昇順で返します。
	List(ctx context.Context) ([]entity.Stock, error)

	// Update はパッチで指定されたフィールドのみを1トランザクションで更新します。
	Update(ctx context.Context, id int64, patch entity.StockPatch) (*entity.Stock, error)

	// Delete はレコードを完全に削除します。存在しない場合、domain.ErrNotFoundを返します。
	Delete(ctx context.Context, id int64) error
}

// MarketDataGateway は外部の株価APIから銘柄情報を取得するインターフェースです。
// 取得できなかった場合は原因にかかわらず domain.ErrDataUnavailable を返します。
type MarketDataGateway interface {
	Lookup(ctx context.Context, symbol string) (*entity.MarketData, error)
}

// MarketDataInvalidator はキャッシュを持つゲートウェイが実装する任意のインターフェースです。
// Refresh は再取得の前にキャッシュを破棄し、常に最新の株価で再評価します。
type MarketDataInvalidator interface {
	Invalidate(ctx context.Context, symbol string) error
}

// StockUsecase は銘柄評価レコードのユースケースを提供します。
type StockUsecase struct {
	repo    StockRepository
	market  MarketDataGateway
	params  valuation.Params
	limiter ratelimiter.RateLimiterInterface
}

// NewStockUsecase は新しい StockUsecase を作成します。
// limiter は RefreshAll でのみ使用され、nil の場合は待機しません。
func NewStockUsecase(repo StockRepository, market MarketDataGateway, params valuation.Params, limiter ratelimiter.RateLimiterInterface) *StockUsecase {
	return &StockUsecase{repo: repo, market: market, params: params, limiter: limiter}
}

// CreateFromSymbol は外部APIから株価とEPSを取得し、評価を計算してレコードを作成します。
// データが取得できない場合は何も保存せずに domain.ErrDataUnavailable を返します。
func (u *StockUsecase) CreateFromSymbol(ctx context.Context, symbol string) (*entity.Stock, error) {
	symbol = entity.NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, fmt.Errorf("%w: symbol is required", domain.ErrInvalidInput)
	}

	patch, err := u.valuate(ctx, symbol)
	if err != nil {
		return nil, err
	}

	s := &entity.Stock{Symbol: symbol}
	applyPatch(s, patch)
	return u.repo.Create(ctx, s)
}

// CreateManual は利用者が指定した値のままレコードを作成します。
func (u *StockUsecase) CreateManual(ctx context.Context, s *entity.Stock) (*entity.Stock, error) {
	s.Symbol = entity.NormalizeSymbol(s.Symbol)
	if s.Symbol == "" {
		return nil, fmt.Errorf("%w: symbol is required", domain.ErrInvalidInput)
	}
	return u.repo.Create(ctx, s)
}

// List はすべてのレコードをシンボル順で返します。
func (u *StockUsecase) List(ctx context.Context) ([]entity.Stock, error) {
	return u.repo.List(ctx)
}

// Get はIDでレコードを取得します。
func (u *StockUsecase) Get(ctx context.Context, id int64) (*entity.Stock, error) {
	return u.repo.FindByID(ctx, id)
}

// GetBySymbol はシンボルでレコードを取得します。
func (u *StockUsecase) GetBySymbol(ctx context.Context, symbol string) (*entity.Stock, error) {
	return u.repo.FindBySymbol(ctx, entity.NormalizeSymbol(symbol))
}

// Update は指定されたフィールドのみを更新します。シンボルは正規化してから適用します。
func (u *StockUsecase) Update(ctx context.Context, id int64, patch entity.StockPatch) (*entity.Stock, error) {
	if patch.Symbol != nil {
		normalized := entity.NormalizeSymbol(*patch.Symbol)
		if normalized == "" {
			return nil, fmt.Errorf("%w: symbol must not be empty", domain.ErrInvalidInput)
		}
		patch.Symbol = &normalized
	}
	return u.repo.Update(ctx, id, patch)
}

// Delete はIDでレコードを削除します。
func (u *StockUsecase) Delete(ctx context.Context, id int64) error {
	return u.repo.Delete(ctx, id)
}

// Refresh は既存レコードの株価を取得し直し、評価を再計算して更新します。
// 名前とコメント以外の評価項目が上書きされます。
func (u *StockUsecase) Refresh(ctx context.Context, id int64) (*entity.Stock, error) {
	current, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv, ok := u.market.(MarketDataInvalidator); ok {
		if err := inv.Invalidate(ctx, current.Symbol); err != nil {
			slog.Warn("failed to invalidate market data cache", "symbol", current.Symbol, "error", err)
		}
	}
	patch, err := u.valuate(ctx, current.Symbol)
	if err != nil {
		return nil, err
	}
	return u.repo.Update(ctx, id, patch)
}

// RefreshSummary は RefreshAll の結果件数です。
type RefreshSummary struct {
	Total   int
	Updated int
	Failed  int
}

// RefreshAll は全レコードを順番に再評価します。
// 1銘柄の失敗で処理を止めず、ログに出力して次の銘柄へ進みます。
// APIのレートリミットを考慮して、銘柄ごとに必要な待機を行います。
func (u *StockUsecase) RefreshAll(ctx context.Context) (RefreshSummary, error) {
	stocks, err := u.repo.List(ctx)
	if err != nil {
		return RefreshSummary{}, err
	}

	sum := RefreshSummary{Total: len(stocks)}
	for _, s := range stocks {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		if u.limiter != nil {
			if err := u.limiter.WaitIfNeeded(ctx); err != nil {
				return sum, err
			}
		}
		if _, err := u.Refresh(ctx, s.ID); err != nil {
			sum.Failed++
			slog.Error("failed to refresh stock", "symbol", s.Symbol, "id", s.ID, "error", err)
			continue
		}
		sum.Updated++
	}
	return sum, nil
}

// valuate は外部APIのデータから評価項目をパッチとして組み立てます。
func (u *StockUsecase) valuate(ctx context.Context, symbol string) (entity.StockPatch, error) {
	md, err := u.market.Lookup(ctx, symbol)
	if err != nil {
		if errors.Is(err, domain.ErrDataUnavailable) {
			return entity.StockPatch{}, err
		}
		return entity.StockPatch{}, fmt.Errorf("%w: %s: %v", domain.ErrDataUnavailable, symbol, err)
	}

	r, err := u.params.Evaluate(md.CurrentPrice, md.EPS)
	if err != nil {
		return entity.StockPatch{}, fmt.Errorf("valuate %s: %w", symbol, err)
	}

	patch := entity.StockPatch{
		CurrentPrice:     &r.CurrentPrice,
		EPS:              &r.EPS,
		PERatio:          r.PERatio,
		Growth5yPercent:  &r.Growth5yPercent,
		EPSIn5y:          &r.EPSIn5y,
		TargetPERatio:    &r.TargetPE,
		PriceIn5y:        &r.PriceIn5y,
		FairValue:        &r.FairValue,
		PriceDiff:        &r.PriceDiff,
		PotentialPercent: &r.PotentialPercent,
	}
	// EPSが0になった場合、以前のPERを残さない
	patch.ClearPERatio = r.PERatio == nil
	if md.Name != "" {
		patch.Name = &md.Name
	}
	return patch, nil
}

// applyPatch はパッチの非nilフィールドをエンティティに反映します。
func applyPatch(s *entity.Stock, p entity.StockPatch) {
	if p.Symbol != nil {
		s.Symbol = *p.Symbol
	}
	if p.Name != nil {
		s.Name = p.Name
	}
	if p.CurrentPrice != nil {
		s.CurrentPrice = p.CurrentPrice
	}
	if p.EPS != nil {
		s.EPS = p.EPS
	}
	if p.PERatio != nil {
		s.PERatio = p.PERatio
	} else if p.ClearPERatio {
		s.PERatio = nil
	}
	if p.Growth5yPercent != nil {
		s.Growth5yPercent = p.Growth5yPercent
	}
	if p.EPSIn5y != nil {
		s.EPSIn5y = p.EPSIn5y
	}
	if p.TargetPERatio != nil {
		s.TargetPERatio = p.TargetPERatio
	}
	if p.PriceIn5y != nil {
		s.PriceIn5y = p.PriceIn5y
	}
	if p.FairValue != nil {
		s.FairValue = p.FairValue
	}
	if p.PriceDiff != nil {
		s.PriceDiff = p.PriceDiff
	}
	if p.PotentialPercent != nil {
		s.PotentialPercent = p.PotentialPercent
	}
	if p.Comment != nil {
		s.Comment = p.Comment
	}
}
