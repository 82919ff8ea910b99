package repository

import (
	"database/sql"
	"time"
)

// nullString は空文字列をNULLに変換する。
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// nullStringValue はsql.NullStringを文字列に変換する。NULLは空文字列になる。
func nullStringValue(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// nullTime は*time.TimeをNULL許容値に変換する。
func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// nullTimeValue はsql.NullTimeを*time.Timeに変換する。NULLはnilになる。
func nullTimeValue(nt sql.NullTime) *time.Time {
	if nt.Valid {
		t := nt.Time
		return &t
	}
	return nil
}

// nullFloat は*float64をNULL許容値に変換する。
func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

// nullFloatValue はsql.NullFloat64を*float64に変換する。NULLはnilになる。
func nullFloatValue(nf sql.NullFloat64) *float64 {
	if nf.Valid {
		f := nf.Float64
		return &f
	}
	return nil
}
