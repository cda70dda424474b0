package handler

import (
	"net/url"
	"testing"
)

func TestParseListQuery(t *testing.T) {
	tests := []struct {
		name          string
		rawQuery      string
		wantCompleted *bool
		wantSortBy    string
		wantPageSize  int
		wantPage      int
	}{
		{
			name:     "empty query",
			rawQuery: "",
		},
		{
			name:          "completed true",
			rawQuery:      "completed=true",
			wantCompleted: boolPtr(true),
		},
		{
			name:          "completed false",
			rawQuery:      "completed=false",
			wantCompleted: boolPtr(false),
		},
		{
			name:          "completed anything else means false",
			rawQuery:      "completed=yes",
			wantCompleted: boolPtr(false),
		},
		{
			name:         "limit and page",
			rawQuery:     "limit=3&page=2",
			wantPageSize: 3,
			wantPage:     2,
		},
		{
			name:     "non-numeric limit ignored",
			rawQuery: "limit=ten",
		},
		{
			name:       "sortBy passthrough",
			rawQuery:   "sortBy=createdAt:desc",
			wantSortBy: "createdAt:desc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, err := url.ParseQuery(tt.rawQuery)
			if err != nil {
				t.Fatalf("parse query: %v", err)
			}

			input := parseListQuery(query)

			if (input.Completed == nil) != (tt.wantCompleted == nil) {
				t.Fatalf("Completed = %v, want %v", input.Completed, tt.wantCompleted)
			}
			if input.Completed != nil && *input.Completed != *tt.wantCompleted {
				t.Errorf("*Completed = %v, want %v", *input.Completed, *tt.wantCompleted)
			}
			if input.SortBy != tt.wantSortBy {
				t.Errorf("SortBy = %q, want %q", input.SortBy, tt.wantSortBy)
			}
			if input.PageSize != tt.wantPageSize {
				t.Errorf("PageSize = %d, want %d", input.PageSize, tt.wantPageSize)
			}
			if input.Page != tt.wantPage {
				t.Errorf("Page = %d, want %d", input.Page, tt.wantPage)
			}
		})
	}
}

func boolPtr(b bool) *bool { return &b }
