package sessiondata

import "testing"

func TestSummary_DisplayFallbacks(t *testing.T) {
	s := Summary{ID: "12"}
	if s.DisplayName() != "Session #12" {
		t.Errorf("DisplayName() = %q", s.DisplayName())
	}
	if s.DisplayType() != "General" {
		t.Errorf("DisplayType() = %q", s.DisplayType())
	}
	s.Name, s.Type = "Sprint work", "Conditioning"
	if s.DisplayName() != "Sprint work" || s.DisplayType() != "Conditioning" {
		t.Errorf("got %q / %q", s.DisplayName(), s.DisplayType())
	}
}

func TestRecent(t *testing.T) {
	in := []Summary{
		{ID: "1", Date: "2026-01-01"},
		{ID: "2", Date: "2026-01-20"},
		{ID: "3", Date: "2026-01-10"},
	}
	got := Recent(in, 2)
	if len(got) != 2 || got[0].ID != "2" || got[1].ID != "3" {
		t.Errorf("Recent = %+v", got)
	}
	if in[0].ID != "1" {
		t.Error("input slice was mutated")
	}
	if len(Recent(nil, 5)) != 0 {
		t.Error("Recent(nil) should be empty")
	}
}
