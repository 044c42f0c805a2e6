package domain_test

import (
	"testing"
	"time"

	"davomat/internal/modules/session/domain"
)

func TestTotalExpenseSumsAllCategories(t *testing.T) {
	t.Parallel()
	cases := []domain.WorkSession{
		{},
		{Advance: 50000, Taxi: 10000},
		{Advance: 1.5, Taxi: 2.25, Food: 3, OtherExpenses: []domain.Expense{{Amount: 4}, {Amount: 0.25}}},
		{OtherExpenses: []domain.Expense{{Name: "a", Amount: 7}, {Name: "b", Amount: 8}}},
	}
	for _, s := range cases {
		want := s.Advance + s.Taxi + s.Food
		for _, e := range s.OtherExpenses {
			want += e.Amount
		}
		if got := s.TotalExpense(); got != want {
			t.Fatalf("total for %+v: expected %v, got %v", s, want, got)
		}
	}
}

func TestParseAmount(t *testing.T) {
	t.Parallel()
	for _, ok := range []string{"50000", " 12.5 ", "0"} {
		if _, err := domain.ParseAmount(ok); err != nil {
			t.Fatalf("%q should parse: %v", ok, err)
		}
	}
	for _, bad := range []string{"", "  ", "abc", "12so'm", "-5", "NaN", "Inf"} {
		if _, err := domain.ParseAmount(bad); err == nil {
			t.Fatalf("%q should be rejected", bad)
		}
	}
}

func TestApplyDefaultsAndClone(t *testing.T) {
	t.Parallel()
	s := domain.WorkSession{}
	s.ApplyDefaults()
	if s.OtherExpenses == nil || s.Comments == nil {
		t.Fatalf("defaults not applied")
	}
	ended := time.Date(2024, 5, 1, 17, 30, 0, 0, time.UTC)
	s.EndedAt = &ended
	s.Comments = append(s.Comments, "a")
	c := s.Clone()
	c.Comments[0] = "b"
	*c.EndedAt = ended.Add(time.Hour)
	if s.Comments[0] != "a" || !s.EndedAt.Equal(ended) {
		t.Fatalf("clone shares state with original")
	}
}

func TestCategoryAndFormatting(t *testing.T) {
	t.Parallel()
	if c, ok := domain.ParseCategory(" Taxi "); !ok || c != domain.CategoryTaxi {
		t.Fatalf("taxi should parse")
	}
	if _, ok := domain.ParseCategory("fuel"); ok {
		t.Fatalf("unknown category must fail")
	}
	if got := domain.LocationURL(41.3, 69.25); got != "https://www.google.com/maps?q=41.3,69.25" {
		t.Fatalf("unexpected url %s", got)
	}
	if domain.FormatAmount(50000) != "50000" || domain.FormatAmount(12.5) != "12.5" {
		t.Fatalf("unexpected amount formatting")
	}
	s := domain.WorkSession{OtherExpenses: []domain.Expense{{Name: "Gvozd"}, {Name: "Shuruf"}}}
	if s.OtherNames() != "Gvozd, Shuruf" {
		t.Fatalf("unexpected names %q", s.OtherNames())
	}
}
