// Package http provides the outbound HTTP client used by market data gateways.
package http

import (
	"net"
	"net/http"
	"time"
)

const (
	// maxIdleConnsPerHost はFinnhubのように単一ホストへ連続して呼び出す用途に合わせた値です。
	// 1銘柄の評価でprofile・quote・metricの3リクエストを送ります。
	maxIdleConnsPerHost = 8
	maxIdleConns        = 16
)

// NewHTTPClient は株価APIの呼び出し用に設定されたHTTPクライアントを作成します。
//
// 設定:
//   - Proxy: 環境変数（HTTP_PROXYなど）が設定されている場合に使用
//   - Dialer: TCP接続5秒、KeepAlive 30秒
//   - MaxIdleConnsPerHost: 同一ホストへの接続を使い回す（既定値の2では銘柄ごとに張り直しが起きる）
//   - ResponseHeaderTimeout: timeout 以下に制限し、応答しないAPIで待ち続けない
//   - Client.Timeout: リクエスト全体のタイムアウト（FINNHUB_TIMEOUT）
//
// http.DefaultClientにはタイムアウトがないため使用しないこと。
func NewHTTPClient(timeout time.Duration) *http.Client {
	headerTimeout := 5 * time.Second
	if timeout > 0 && timeout < headerTimeout {
		headerTimeout = timeout
	}

	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          maxIdleConns,
		MaxIdleConnsPerHost:   maxIdleConnsPerHost,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ResponseHeaderTimeout: headerTimeout,
	}
	return &http.Client{Timeout: timeout, Transport: t}
}
