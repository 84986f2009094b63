package models

import "testing"

func TestQuoteFinalizable(t *testing.T) {
	cases := []struct {
		status string
		want   bool
	}{
		{QuoteStatusDraft, false},
		{QuoteStatusPriced, true},
		{QuoteStatusFinalized, false},
		{QuoteStatusExported, false},
	}
	for _, tc := range cases {
		q := Quote{Status: tc.status}
		if got := q.Finalizable(); got != tc.want {
			t.Fatalf("Finalizable() for %q = %v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestQuoteEditable(t *testing.T) {
	cases := []struct {
		status string
		want   bool
	}{
		{QuoteStatusDraft, true},
		{QuoteStatusPriced, true},
		{QuoteStatusFinalized, false},
		// export does not lock a quote; the PDF may go stale
		{QuoteStatusExported, true},
	}
	for _, tc := range cases {
		q := Quote{Status: tc.status}
		if got := q.Editable(); got != tc.want {
			t.Fatalf("Editable() for %q = %v, want %v", tc.status, got, tc.want)
		}
	}
}
