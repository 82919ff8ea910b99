// Package exa はExaセマンティック検索APIの連携機能を提供する。
// 検索クライアントと、検索結果を求人・スタートアップ候補へ変換するアダプタを含む。
package exa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

const (
	// defaultBaseURL はExa APIのベースURL。
	defaultBaseURL = "https://api.exa.ai"
	// maxNumResults は1リクエストあたりの最大取得件数。APIの上限に合わせる。
	maxNumResults = 100
)

// SearchRequest はExa検索APIへのリクエストを表す。
type SearchRequest struct {
	Query              string             `json:"query"`
	NumResults         int                `json:"numResults"`
	Type               string             `json:"type,omitempty"`
	StartPublishedDate string             `json:"startPublishedDate,omitempty"`
	Contents           *ContentsRequest   `json:"contents,omitempty"`
}

// ContentsRequest は検索結果に含めるコンテンツの指定。
type ContentsRequest struct {
	Text       bool               `json:"text,omitempty"`
	Highlights *HighlightsRequest `json:"highlights,omitempty"`
}

// HighlightsRequest はハイライト抽出の指定。
type HighlightsRequest struct {
	NumSentences     int `json:"numSentences,omitempty"`
	HighlightsPerURL int `json:"highlightsPerUrl,omitempty"`
}

// SearchResult はExa検索結果の1件を表す。
type SearchResult struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	URL           string   `json:"url"`
	PublishedDate string   `json:"publishedDate"`
	Author        string   `json:"author"`
	Text          string   `json:"text"`
	Highlights    []string `json:"highlights"`
}

// SearchResponse はExa検索APIのレスポンスを表す。
type SearchResponse struct {
	Results []SearchResult `json:"results"`
}

// Client はExa検索APIのクライアント。
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	apiKey     string
	baseURL    string // テスト用にエンドポイントを差し替え可能
}

// NewClient はClientの新しいインスタンスを生成する。
// baseURLが空文字列の場合はデフォルトのエンドポイントを使用する。
func NewClient(httpClient *http.Client, logger *slog.Logger, apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: httpClient,
		logger:     logger,
		apiKey:     apiKey,
		baseURL:    baseURL,
	}
}

// Search はExa検索APIを呼び出し検索結果を返す。
// NumResultsがAPI上限を超える場合は上限に切り詰める。
func (c *Client) Search(ctx context.Context, searchReq *SearchRequest) (*SearchResponse, error) {
	if searchReq.NumResults > maxNumResults {
		searchReq.NumResults = maxNumResults
	}

	payload, err := json.Marshal(searchReq)
	if err != nil {
		return nil, fmt.Errorf("リクエストJSONの生成に失敗しました: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("HTTPリクエストの作成に失敗しました: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Exa APIの呼び出しに失敗しました",
			slog.String("error", err.Error()),
			slog.String("query", searchReq.Query),
		)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("Exa APIがエラーステータスを返しました",
			slog.Int("http_status", resp.StatusCode),
			slog.String("query", searchReq.Query),
		)
		return nil, fmt.Errorf("Exa APIがステータス %d を返しました", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("レスポンスボディの読み取りに失敗しました: %w", err)
	}

	var result SearchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		c.logger.Error("Exa APIのレスポンスのパースに失敗しました",
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("レスポンスJSONのパースに失敗しました: %w", err)
	}

	return &result, nil
}
