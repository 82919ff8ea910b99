package exa

import "testing"

func TestBuildFirmQuery(t *testing.T) {
	got := BuildFirmQuery([]string{"Benchmark", "Index Ventures"})
	want := "jobs at Benchmark OR jobs at Index Ventures"
	if got != want {
		t.Errorf("BuildFirmQuery() = %q, want %q", got, want)
	}
}

func TestBuildFirmQuery_SingleFirm(t *testing.T) {
	got := BuildFirmQuery([]string{"Sequoia Capital"})
	if got != "jobs at Sequoia Capital" {
		t.Errorf("BuildFirmQuery() = %q, want %q", got, "jobs at Sequoia Capital")
	}
}

func TestBuildRoleQuery(t *testing.T) {
	got := BuildRoleQuery("principal")
	want := "principal venture capital jobs hiring"
	if got != want {
		t.Errorf("BuildRoleQuery() = %q, want %q", got, want)
	}
}

func TestBuildJobQueries_NoSectors(t *testing.T) {
	got := BuildJobQueries("venture capital analyst jobs", nil)
	if len(got) != 1 || got[0] != "venture capital analyst jobs" {
		t.Errorf("BuildJobQueries() = %v, want base query only", got)
	}
}

func TestBuildAcceleratorQuery(t *testing.T) {
	got := BuildAcceleratorQuery("Y Combinator", "W26")
	want := "Y Combinator W26 batch startups companies"
	if got != want {
		t.Errorf("BuildAcceleratorQuery() = %q, want %q", got, want)
	}
}

// バッチ名が空の場合はアクセラレーター名のみのクエリになることを検証する
func TestBuildAcceleratorQuery_EmptyBatch(t *testing.T) {
	got := BuildAcceleratorQuery("Techstars", "")
	want := "Techstars batch startups companies"
	if got != want {
		t.Errorf("BuildAcceleratorQuery() = %q, want %q", got, want)
	}
}
