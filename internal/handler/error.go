// Package handler はHTTP APIのハンドラーとルーティングを提供する。
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/hitoshi/vcscout/internal/model"
)

// apiErrorResponse はエラーレスポンスの統一フォーマット。
type apiErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// writeJSON はJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// writeAPIErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	writeJSON(w, statusCode, apiErrorResponse{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		statusCode := mapAPIErrorToHTTPStatus(apiErr)
		writeAPIErrorResponse(w, statusCode, apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     "INTERNAL_ERROR",
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	})
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeJobNotFound,
		model.ErrCodeStartupNotFound,
		model.ErrCodeApplicationNotFound,
		model.ErrCodeDealflowNotFound:
		return http.StatusNotFound
	case model.ErrCodeDuplicateApplication, model.ErrCodeDuplicateDealflow:
		return http.StatusConflict
	case model.ErrCodeInvalidStatus,
		model.ErrCodeInvalidContactType,
		model.ErrCodeInvalidPagination,
		model.ErrCodeInvalidRequest,
		model.ErrCodeScrapeNotConfigured:
		return http.StatusBadRequest
	case model.ErrCodeSearchFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSONBody はリクエストボディをJSONデコードする。
// 空のボディはゼロ値のまま許容し、不正なJSONの場合はINVALID_REQUESTエラーを返す。
func decodeJSONBody(r *http.Request, dst any) *model.APIError {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && err != io.EOF {
		return model.NewInvalidRequestError("リクエストボディのJSONが不正です")
	}
	return nil
}
