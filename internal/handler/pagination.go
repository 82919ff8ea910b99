package handler

import (
	"net/http"
	"strconv"

	"github.com/hitoshi/vcscout/internal/model"
)

// ページネーションのデフォルト値と上限。
const (
	defaultPageLimit = 100
	maxPageLimit     = 500
)

// parsePagination はクエリパラメータからskip/limitを解析する。
// skipは0以上、limitは1〜500の範囲で、範囲外はINVALID_PAGINATIONエラーを返す。
func parsePagination(r *http.Request) (skip, limit int, apiErr *model.APIError) {
	skip = 0
	limit = defaultPageLimit

	if v := r.URL.Query().Get("skip"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return 0, 0, model.NewInvalidPaginationError("skipは0以上の整数で指定してください")
		}
		skip = n
	}

	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxPageLimit {
			return 0, 0, model.NewInvalidPaginationError("limitは1〜500の整数で指定してください")
		}
		limit = n
	}

	return skip, limit, nil
}

// pageNumber は1始まりのページ番号を算出する。
func pageNumber(skip, limit int) int {
	return skip/limit + 1
}

// parseBoolParam はクエリパラメータからbool値を解析する。
// パラメータ未指定の場合はnilを返す。
func parseBoolParam(r *http.Request, name string) *bool {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil
	}
	return &b
}
