package folio

import (
	"errors"
	"testing"
	"time"
)

func TestParseWindow(t *testing.T) {
	end := NewDate(2025, time.August, 15)

	tests := []struct {
		token string
		from  Date
	}{
		{"1m", NewDate(2025, time.July, 15)},
		{"3m", NewDate(2025, time.May, 15)},
		{"6m", NewDate(2025, time.February, 15)},
		{"ytd", NewDate(2025, time.January, 1)},
		{"1y", NewDate(2024, time.August, 15)},
		{"2y", NewDate(2023, time.August, 15)},
		{"3y", NewDate(2022, time.August, 15)},
		{"5y", NewDate(2020, time.August, 15)},
	}
	for _, tc := range tests {
		t.Run(tc.token, func(t *testing.T) {
			w, err := ParseWindow(tc.token, end)
			if err != nil {
				t.Fatalf("ParseWindow(%q): %v", tc.token, err)
			}
			if w.From != tc.from {
				t.Errorf("From = %s, want %s", w.From, tc.from)
			}
			if w.To != end {
				t.Errorf("To = %s, want %s", w.To, end)
			}
		})
	}
}

func TestParseWindowDeterministic(t *testing.T) {
	end := NewDate(2025, time.May, 31)
	a, _ := ParseWindow("3m", end)
	b, _ := ParseWindow("3m", end)
	if a != b {
		t.Errorf("same token and end gave different windows: %v vs %v", a, b)
	}
	if want := NewDate(2025, time.February, 28); a.From != want {
		t.Errorf("3m before May 31 = %s, want %s", a.From, want)
	}
}

func TestParseWindowInception(t *testing.T) {
	for _, token := range []string{"inception", "max", "all"} {
		w, err := ParseWindow(token, NewDate(2025, time.August, 15))
		if err != nil {
			t.Fatalf("ParseWindow(%q): %v", token, err)
		}
		if !w.Open() {
			t.Errorf("ParseWindow(%q) should be open-ended", token)
		}
	}
}

func TestParseWindowUnknownToken(t *testing.T) {
	_, err := ParseWindow("7q", Today())
	if !errors.Is(err, ErrUnknownPeriod) {
		t.Fatalf("want ErrUnknownPeriod, got %v", err)
	}
}

func TestWindowResolve(t *testing.T) {
	end := NewDate(2025, time.August, 15)
	inception := NewDate(2025, time.March, 1)

	t.Run("clamped to inception", func(t *testing.T) {
		w, _ := ParseWindow("1y", end)
		span, adjusted := w.Resolve(inception)
		if !adjusted {
			t.Error("expected the window to be adjusted")
		}
		if span.From != inception {
			t.Errorf("From = %s, want inception %s", span.From, inception)
		}
	})
	t.Run("inside history", func(t *testing.T) {
		w, _ := ParseWindow("3m", end)
		span, adjusted := w.Resolve(inception)
		if adjusted {
			t.Error("window fits, no adjustment expected")
		}
		if span.From != NewDate(2025, time.May, 15) {
			t.Errorf("From = %s", span.From)
		}
	})
	t.Run("open resolves to inception", func(t *testing.T) {
		w, _ := ParseWindow("inception", end)
		span, adjusted := w.Resolve(inception)
		if adjusted {
			t.Error("open windows are never adjusted")
		}
		if span.From != inception {
			t.Errorf("From = %s, want %s", span.From, inception)
		}
	})
}
