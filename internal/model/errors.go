package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: validation, conflict, not_found, scrape, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeJobNotFound          = "JOB_NOT_FOUND"
	ErrCodeStartupNotFound      = "STARTUP_NOT_FOUND"
	ErrCodeApplicationNotFound  = "APPLICATION_NOT_FOUND"
	ErrCodeDealflowNotFound     = "DEALFLOW_NOT_FOUND"
	ErrCodeDuplicateApplication = "DUPLICATE_APPLICATION"
	ErrCodeDuplicateDealflow    = "DUPLICATE_DEALFLOW"
	ErrCodeInvalidStatus        = "INVALID_STATUS"
	ErrCodeInvalidContactType   = "INVALID_CONTACT_TYPE"
	ErrCodeInvalidPagination    = "INVALID_PAGINATION"
	ErrCodeInvalidRequest       = "INVALID_REQUEST"
	ErrCodeSearchFailed         = "SEARCH_FAILED"
	ErrCodeScrapeNotConfigured  = "SCRAPE_NOT_CONFIGURED"
)

// NewJobNotFoundError は求人未検出エラーを生成する。
func NewJobNotFoundError(jobID string) *APIError {
	return &APIError{
		Code:     ErrCodeJobNotFound,
		Message:  fmt.Sprintf("指定された求人が見つかりません: %s", jobID),
		Category: "not_found",
		Action:   "求人IDを確認してください。",
	}
}

// NewStartupNotFoundError はスタートアップ未検出エラーを生成する。
func NewStartupNotFoundError(startupID string) *APIError {
	return &APIError{
		Code:     ErrCodeStartupNotFound,
		Message:  fmt.Sprintf("指定されたスタートアップが見つかりません: %s", startupID),
		Category: "not_found",
		Action:   "スタートアップIDを確認してください。",
	}
}

// NewApplicationNotFoundError は応募未検出エラーを生成する。
func NewApplicationNotFoundError(applicationID string) *APIError {
	return &APIError{
		Code:     ErrCodeApplicationNotFound,
		Message:  fmt.Sprintf("指定された応募が見つかりません: %s", applicationID),
		Category: "not_found",
		Action:   "応募IDを確認してください。",
	}
}

// NewDealflowNotFoundError はディールフローレコード未検出エラーを生成する。
func NewDealflowNotFoundError(applicationID string) *APIError {
	return &APIError{
		Code:     ErrCodeDealflowNotFound,
		Message:  fmt.Sprintf("指定されたディールフローレコードが見つかりません: %s", applicationID),
		Category: "not_found",
		Action:   "ディールフローIDを確認してください。",
	}
}

// NewDuplicateApplicationError は同一求人への応募が既に存在する場合のエラーを生成する。
func NewDuplicateApplicationError(jobID, existingID string) *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateApplication,
		Message:  fmt.Sprintf("この求人への応募は既に存在します（既存ID: %s）", existingID),
		Category: "conflict",
		Action:   "既存の応募レコードを更新してください。",
	}
}

// NewDuplicateDealflowError は同一スタートアップのレコードが既に存在する場合のエラーを生成する。
func NewDuplicateDealflowError(startupID, existingID string) *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateDealflow,
		Message:  fmt.Sprintf("このスタートアップのディールフローレコードは既に存在します（既存ID: %s）", existingID),
		Category: "conflict",
		Action:   "既存のレコードを更新してください。",
	}
}

// NewInvalidStatusError は無効なステータス値エラーを生成する。
func NewInvalidStatusError(status string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidStatus,
		Message:  fmt.Sprintf("無効なステータスです: %s", status),
		Category: "validation",
		Action:   "定義済みのステータス値を指定してください。",
	}
}

// NewInvalidContactTypeError は無効なコンタクト種別エラーを生成する。
func NewInvalidContactTypeError(contactType string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidContactType,
		Message:  fmt.Sprintf("無効なコンタクト種別です: %s", contactType),
		Category: "validation",
		Action:   "email または meeting を指定してください。",
	}
}

// NewInvalidPaginationError は無効なページネーションパラメータエラーを生成する。
func NewInvalidPaginationError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidPagination,
		Message:  fmt.Sprintf("無効なページネーションパラメータです: %s", reason),
		Category: "validation",
		Action:   "skipは0以上、limitは1〜500の範囲で指定してください。",
	}
}

// NewInvalidRequestError はリクエスト形式エラーを生成する。
func NewInvalidRequestError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  fmt.Sprintf("リクエストが不正です: %s", reason),
		Category: "validation",
		Action:   "リクエスト内容を確認してください。",
	}
}

// NewSearchFailedError は検索コラボレーター呼び出し失敗エラーを生成する。
// スクレイプ実行全体の失敗として呼び出し元へ伝播される。
// 原因はScrapingLog.error_messageと同じ表現でMessageに文字列化して埋め込む。
func NewSearchFailedError(cause error) *APIError {
	return &APIError{
		Code:     ErrCodeSearchFailed,
		Message:  fmt.Sprintf("検索APIの呼び出しに失敗しました: %s", cause.Error()),
		Category: "scrape",
		Action:   "しばらく待ってから再度お試しください。",
	}
}

// NewScrapeNotConfiguredError はAPIキー未設定エラーを生成する。
func NewScrapeNotConfiguredError() *APIError {
	return &APIError{
		Code:     ErrCodeScrapeNotConfigured,
		Message:  "Exa APIキーが設定されていません。",
		Category: "validation",
		Action:   "環境変数 EXA_API_KEY を設定してください。",
	}
}
