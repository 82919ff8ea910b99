package exa

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/hitoshi/vcscout/internal/model"
	"github.com/hitoshi/vcscout/internal/scrape"
)

// jobLookbackDays は求人検索で遡る公開日の日数。
const jobLookbackDays = 30

// locationPattern はハイライト中の勤務地らしき表現を拾う。
// "in San Francisco" "based in New York" "located in London" の形式を想定する。
var locationPattern = regexp.MustCompile(`(?:based in|located in|\bin)\s+([A-Z][A-Za-z]+(?:[ ,]+[A-Z][A-Za-z]+){0,2})`)

// remotePattern はリモート勤務の表現を拾う。
var remotePattern = regexp.MustCompile(`(?i)\b(fully remote|remote-first|remote)\b`)

// JobSearchAdapter はExa検索結果をVC求人候補へ変換するSearchAdapter実装。
type JobSearchAdapter struct {
	client *Client
}

// NewJobSearchAdapter はJobSearchAdapterの新しいインスタンスを生成する。
func NewJobSearchAdapter(client *Client) *JobSearchAdapter {
	return &JobSearchAdapter{client: client}
}

// Source はこのアダプタのsourceタグを返す。
func (a *JobSearchAdapter) Source() string {
	return model.ScrapeSourceJobs
}

// Search は求人検索を実行し候補のリストを返す。
// 公開日が直近30日の結果のみを対象とする。
func (a *JobSearchAdapter) Search(ctx context.Context, query string, numResults int) ([]scrape.Candidate, error) {
	startDate := time.Now().AddDate(0, 0, -jobLookbackDays).Format("2006-01-02")

	resp, err := a.client.Search(ctx, &SearchRequest{
		Query:              query,
		NumResults:         numResults,
		Type:               "auto",
		StartPublishedDate: startDate,
		Contents: &ContentsRequest{
			Highlights: &HighlightsRequest{
				NumSentences:     3,
				HighlightsPerURL: 5,
			},
		},
	})
	if err != nil {
		return nil, err
	}

	var candidates []scrape.Candidate
	for _, result := range resp.Results {
		candidates = append(candidates, a.toCandidate(result))
	}
	return candidates, nil
}

// toCandidate は検索結果1件を求人候補へ変換する。
// タイトルやハイライトからのフィールド抽出はヒューリスティックであり、欠落は許容される。
func (a *JobSearchAdapter) toCandidate(result SearchResult) *model.JobCandidate {
	title := strings.TrimSpace(result.Title)
	if title == "" {
		title = "VC Job Opening"
	}

	company := companyFromTitle(title)
	if company == "" {
		company = companyFromDomain(domainFromURL(result.URL))
	}
	if company == "" {
		company = "Unknown"
	}

	return &model.JobCandidate{
		Title:       title,
		Company:     company,
		Location:    extractLocation(result),
		Description: descriptionFromHighlights(result),
		Source:      model.JobSourceExa,
		SourceURL:   result.URL,
		SourceJobID: result.ID,
		PostedDate:  parsePublishedDate(result.PublishedDate),
		Tags:        "venture-capital",
	}
}

// extractLocation はハイライトと本文から勤務地を推定する。
// リモート表現が見つかればRemoteを返し、それ以外は都市名らしき表現を探す。
func extractLocation(result SearchResult) string {
	text := strings.Join(result.Highlights, " ")
	if text == "" {
		text = result.Text
	}

	if remotePattern.MatchString(text) {
		return "Remote"
	}
	if m := locationPattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// BuildFirmQuery は指定ファームの求人を横断するOR結合クエリを組み立てる。
func BuildFirmQuery(firms []string) string {
	parts := make([]string, 0, len(firms))
	for _, firm := range firms {
		parts = append(parts, fmt.Sprintf("jobs at %s", firm))
	}
	return strings.Join(parts, " OR ")
}

// BuildRoleQuery は指定ロールのVC求人検索クエリを組み立てる。
func BuildRoleQuery(role string) string {
	return fmt.Sprintf("%s venture capital jobs hiring", role)
}

// BuildJobQueries は基本クエリとセクターごとのバリエーションを組み立てる。
// バッチ実行で使用する。
func BuildJobQueries(baseQuery string, sectors []string) []string {
	queries := []string{baseQuery}
	for _, sector := range sectors {
		queries = append(queries, fmt.Sprintf("%s %s", baseQuery, sector))
	}
	return queries
}

// compile-time interface check
var _ scrape.SearchAdapter = (*JobSearchAdapter)(nil)
