package finnhub

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"stock_valuation/internal/feature/stocks/adapters/finnhub/dto"
	"stock_valuation/internal/feature/stocks/domain"
	"stock_valuation/internal/feature/stocks/domain/entity"
	"stock_valuation/internal/feature/stocks/usecase"
)

// Market はFinnhub外部APIから株価・企業名・EPSを取得するMarketDataGateway実装です。
type Market struct {
	cfg    Config
	client *http.Client
}

// MarketがMarketDataGatewayを実装していることをコンパイル時に検証します。
var _ usecase.MarketDataGateway = (*Market)(nil)

// NewMarket は指定された設定とHTTPクライアントでMarketの新しいインスタンスを生成します。
func NewMarket(cfg Config, client *http.Client) *Market {
	return &Market{cfg: cfg, client: client}
}

// Lookup は1銘柄分の企業プロフィール・株価・EPSを取得します。
// 通信エラー、HTTPエラー、不正なJSON、空のプロフィール、株価0のいずれの場合も
// 原因をログに出力し、domain.ErrDataUnavailable を返します。
func (m *Market) Lookup(ctx context.Context, symbol string) (*entity.MarketData, error) {
	symbol = entity.NormalizeSymbol(symbol)

	md, err := m.lookup(ctx, symbol)
	if err != nil {
		slog.Warn("market data unavailable", "symbol", symbol, "error", err)
		return nil, fmt.Errorf("%w: %s", domain.ErrDataUnavailable, symbol)
	}
	return md, nil
}

func (m *Market) lookup(ctx context.Context, symbol string) (*entity.MarketData, error) {
	var profile dto.ProfileResponse
	if err := m.get(ctx, "/stock/profile2", url.Values{"symbol": {symbol}}, &profile); err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}
	if profile.Name == "" && profile.Ticker == "" {
		return nil, fmt.Errorf("profile: empty response")
	}

	var quote dto.QuoteResponse
	if err := m.get(ctx, "/quote", url.Values{"symbol": {symbol}}, &quote); err != nil {
		return nil, fmt.Errorf("quote: %w", err)
	}
	if quote.Current <= 0 {
		return nil, fmt.Errorf("quote: no current price")
	}

	var metric dto.MetricResponse
	if err := m.get(ctx, "/stock/metric", url.Values{"symbol": {symbol}, "metric": {"all"}}, &metric); err != nil {
		return nil, fmt.Errorf("metric: %w", err)
	}

	return &entity.MarketData{
		Symbol:       symbol,
		Name:         profile.Name,
		CurrentPrice: quote.Current,
		EPS:          metric.Metric.EPS(),
	}, nil
}

// get はGETリクエストを送信し、JSONレスポンスをoutにデコードします。
func (m *Market) get(ctx context.Context, path string, q url.Values, out any) error {
	q.Set("token", m.cfg.APIKey)
	u := fmt.Sprintf("%s%s?%s", m.cfg.BaseURL, path, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	res, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return fmt.Errorf("finnhub http %d", res.StatusCode)
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
