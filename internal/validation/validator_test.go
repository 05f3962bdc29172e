// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

package validation

import (
	"strings"
	"testing"
)

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 == nil {
		t.Fatal("GetValidator() should not return nil")
	}
	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
}

func TestTrackBehaviorRequest(t *testing.T) {
	tests := []struct {
		name      string
		input     TrackBehaviorRequest
		wantField string
	}{
		{"valid view", TrackBehaviorRequest{ProductID: 1, Type: "VIEW"}, ""},
		{"valid click", TrackBehaviorRequest{ProductID: 9, Type: "NOTIFICATION_CLICK"}, ""},
		{"missing product", TrackBehaviorRequest{Type: "VIEW"}, "product_id"},
		{"negative product", TrackBehaviorRequest{ProductID: -4, Type: "VIEW"}, "product_id"},
		{"missing type", TrackBehaviorRequest{ProductID: 1}, "type"},
		{"unknown type", TrackBehaviorRequest{ProductID: 1, Type: "LIKE"}, "type"},
		{"lower-case type", TrackBehaviorRequest{ProductID: 1, Type: "view"}, "type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.input)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("ValidateStruct() error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("ValidateStruct() error = nil")
			}
			if got := err.Errors()[0].Field(); got != tt.wantField {
				t.Errorf("field = %q, want %q", got, tt.wantField)
			}
		})
	}
}

func TestRecommendationsQuery(t *testing.T) {
	tests := []struct {
		name    string
		input   RecommendationsQuery
		wantErr bool
	}{
		{"defaults", RecommendationsQuery{UserID: 1}, false},
		{"algorithm filter", RecommendationsQuery{UserID: 1, Algorithm: "HYBRID"}, false},
		{"category filter", RecommendationsQuery{UserID: 1, Categories: []string{"books", "home"}}, false},
		{"zero user", RecommendationsQuery{}, true},
		{"limit above max", RecommendationsQuery{UserID: 1, Limit: 101}, true},
		{"negative limit", RecommendationsQuery{UserID: 1, Limit: -1}, true},
		{"unknown algorithm", RecommendationsQuery{UserID: 1, Algorithm: "MAGIC"}, true},
		{"empty category", RecommendationsQuery{UserID: 1, Categories: []string{""}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateStruct() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestToAPIError_SingleError(t *testing.T) {
	err := ValidateStruct(&TrackBehaviorRequest{ProductID: 1, Type: "LIKE"})
	if err == nil {
		t.Fatal("Expected validation error")
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %s, want VALIDATION_ERROR", apiErr.Code)
	}
	if !strings.Contains(apiErr.Message, "type must be one of") {
		t.Errorf("Message = %q", apiErr.Message)
	}
	if apiErr.Details["field"] != "type" || apiErr.Details["tag"] != "behavior_type" {
		t.Errorf("Details = %v", apiErr.Details)
	}
}

func TestToAPIError_MultipleErrors(t *testing.T) {
	err := ValidateStruct(&RecommendationsQuery{Limit: 500, Algorithm: "MAGIC"})
	if err == nil {
		t.Fatal("Expected validation error")
	}
	if len(err.Errors()) != 3 {
		t.Errorf("Errors() = %d, want 3", len(err.Errors()))
	}

	apiErr := err.ToAPIError()
	if _, ok := apiErr.Details["fields"]; !ok {
		t.Error("Expected details to contain 'fields' key")
	}
	for _, field := range []string{"user_id", "limit", "algorithm"} {
		if !strings.Contains(apiErr.Message, field) {
			t.Errorf("Message %q does not mention %s", apiErr.Message, field)
		}
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  string
	}{
		{"required", &TrackBehaviorRequest{Type: "VIEW"}, "product_id is required"},
		{"max", &GenerateRequest{UserID: 1, Limit: 1000}, "limit must be at most 100"},
		{"gt", &RecommendationIDParams{}, "id must be greater than 0"},
		{"algorithm", &RecommendationsQuery{UserID: 1, Algorithm: "X"}, "algorithm must be a known algorithm name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.input)
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if got := err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}
