package tier

import (
	"strings"
	"testing"
)

func TestProfilesMonotonic(t *testing.T) {
	order := []Name{Free, Pro, Business, Enterprise}
	prev := Resolve(order[0], nil)
	for _, name := range order[1:] {
		cur := Resolve(name, nil)
		if cur.MaxInputChars < prev.MaxInputChars {
			t.Errorf("%s: MaxInputChars %d < %s's %d", name, cur.MaxInputChars, prev.Tier, prev.MaxInputChars)
		}
		if cur.SummaryDepth.Rank() < prev.SummaryDepth.Rank() {
			t.Errorf("%s: SummaryDepth %s below %s's %s", name, cur.SummaryDepth, prev.Tier, prev.SummaryDepth)
		}
		if cur.RiskDetail.Rank() < prev.RiskDetail.Rank() {
			t.Errorf("%s: RiskDetail %s below %s's %s", name, cur.RiskDetail, prev.Tier, prev.RiskDetail)
		}
		if cur.ClauseDetail.Rank() < prev.ClauseDetail.Rank() {
			t.Errorf("%s: ClauseDetail %s below %s's %s", name, cur.ClauseDetail, prev.Tier, prev.ClauseDetail)
		}
		prev = cur
	}
}

func TestBusinessAndEnterpriseShareDeepProfile(t *testing.T) {
	b := Resolve(Business, nil)
	e := Resolve(Enterprise, nil)
	if b.MaxInputChars != e.MaxInputChars || b.SummaryDepth != e.SummaryDepth ||
		b.RiskDetail != e.RiskDetail || b.ClauseDetail != e.ClauseDetail {
		t.Errorf("business %+v and enterprise %+v should share the deep profile", b, e)
	}
	if b.SummaryDepth != DepthDeep {
		t.Errorf("business SummaryDepth = %s, want %s", b.SummaryDepth, DepthDeep)
	}
}

func TestUnknownTierFallsBackToFree(t *testing.T) {
	p := Resolve(Name("platinum"), nil)
	free := Resolve(Free, nil)
	if p.MaxInputChars != free.MaxInputChars || p.SummaryDepth != free.SummaryDepth {
		t.Errorf("unknown tier resolved to %+v, want free profile %+v", p, free)
	}
	if Known("platinum") {
		t.Error("Known(platinum) = true, want false")
	}
	if !Known(Enterprise) {
		t.Error("Known(enterprise) = false, want true")
	}
}

func TestTruncate(t *testing.T) {
	src := strings.Repeat("a", 100) + strings.Repeat("b", 100)

	got := Truncate(src, 150)
	if len(got) != 150 {
		t.Fatalf("len = %d, want 150", len(got))
	}
	if !strings.HasPrefix(src, got) {
		t.Error("truncated text is not a prefix of the source")
	}

	if got := Truncate(src, 1000); got != src {
		t.Error("limit above length should return the source unchanged")
	}
	if got := Truncate(src, 0); got != src {
		t.Error("non-positive limit should return the source unchanged")
	}
	if got := Truncate("", 10); got != "" {
		t.Errorf("empty source should stay empty, got %q", got)
	}
}
