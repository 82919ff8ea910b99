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

// dealLookbackDays はスタートアップ検索で遡る公開日の日数。
// 資金調達ニュースは求人より鮮度の劣化が緩やかなため長めに取る。
const dealLookbackDays = 90

// fundingStagePattern は資金調達ステージの表現を拾う。
var fundingStagePattern = regexp.MustCompile(`(?i)\b(pre-seed|seed|series [a-e]|growth|bridge)\b`)

// fundingAmountPattern は調達額の表現を拾う（"$5M" "$12.5 million" など）。
var fundingAmountPattern = regexp.MustCompile(`\$\d+(?:\.\d+)?\s*(?:[MBK]\b|million|billion)`)

// industryPattern は業種推定に使うキーワード。単語境界で一致させ、最初の一致を採用する
// （"raises"の中の"ai"のような部分一致を拾わないため）。
var industryPattern = regexp.MustCompile(`(?i)\b(fintech|healthtech|biotech|edtech|proptech|insurtech|climate|cybersecurity|logistics|robotics|gaming|e-commerce|saas|ai|crypto|web3)\b`)

// DealSearchAdapter はExa検索結果をスタートアップ候補へ変換するSearchAdapter実装。
type DealSearchAdapter struct {
	client *Client
}

// NewDealSearchAdapter はDealSearchAdapterの新しいインスタンスを生成する。
func NewDealSearchAdapter(client *Client) *DealSearchAdapter {
	return &DealSearchAdapter{client: client}
}

// Source はこのアダプタのsourceタグを返す。
func (a *DealSearchAdapter) Source() string {
	return model.ScrapeSourceDealflow
}

// Search はスタートアップ検索を実行し候補のリストを返す。
// 公開日が直近90日の結果のみを対象とする。
func (a *DealSearchAdapter) Search(ctx context.Context, query string, numResults int) ([]scrape.Candidate, error) {
	startDate := time.Now().AddDate(0, 0, -dealLookbackDays).Format("2006-01-02")

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

// toCandidate は検索結果1件をスタートアップ候補へ変換する。
// 企業名はタイトル先頭部分、websiteは記事URLのドメインから推定する。
// 抽出はヒューリスティックであり、欠落は許容される。
func (a *DealSearchAdapter) toCandidate(result SearchResult) *model.StartupCandidate {
	name := titleBeforeSeparator(result.Title)
	domain := domainFromURL(result.URL)
	if name == "" {
		name = companyFromDomain(domain)
	}
	if name == "" {
		name = "Unknown"
	}

	text := strings.Join(result.Highlights, " ")
	if text == "" {
		text = result.Text
	}
	searchable := result.Title + " " + text

	return &model.StartupCandidate{
		Name:            name,
		Website:         domain,
		Description:     descriptionFromHighlights(result),
		FundingStage:    extractFundingStage(searchable),
		FundingAmount:   extractFundingAmount(searchable),
		Industry:        extractIndustry(searchable),
		Source:          model.ScrapeSourceDealflow,
		SourceURL:       result.URL,
		SourceID:        result.ID,
		LastFundingDate: parsePublishedDate(result.PublishedDate),
		Tags:            "dealflow",
	}
}

// extractFundingStage はテキストから資金調達ステージを推定する。小文字に正規化して返す。
func extractFundingStage(text string) string {
	if m := fundingStagePattern.FindString(text); m != "" {
		return strings.ToLower(m)
	}
	return ""
}

// extractFundingAmount はテキストから調達額を推定する。
func extractFundingAmount(text string) string {
	return fundingAmountPattern.FindString(text)
}

// extractIndustry はテキストから業種を推定する。小文字に正規化して返す。
func extractIndustry(text string) string {
	if m := industryPattern.FindString(text); m != "" {
		return strings.ToLower(m)
	}
	return ""
}

// BuildAcceleratorQuery はアクセラレーターのバッチ出身スタートアップ検索クエリを組み立てる。
// batchNameは "W24" のようなバッチ識別子で、空でもよい。
func BuildAcceleratorQuery(accelerator, batchName string) string {
	if batchName == "" {
		return fmt.Sprintf("%s batch startups companies", accelerator)
	}
	return fmt.Sprintf("%s %s batch startups companies", accelerator, batchName)
}

// BuildDealQueries はセクターごとの資金調達ニュース検索クエリを組み立てる。
// バッチ実行で使用する。
func BuildDealQueries(sectors []string) []string {
	var queries []string
	for _, sector := range sectors {
		queries = append(queries, fmt.Sprintf("%s startup raises funding round announcement", sector))
	}
	return queries
}

// compile-time interface check
var _ scrape.SearchAdapter = (*DealSearchAdapter)(nil)
