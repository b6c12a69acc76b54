package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderExpr(t *testing.T) {
	tests := []struct {
		name      string
		sortBy    string
		sortOrder string
		expect    string
	}{
		{"empty falls back to newest first", "", "", "created_at DESC"},
		{"known column ascending", "title", "asc", "title"},
		{"known column descending", "title", "desc", "title DESC"},
		{"created_at descending", "created_at", "desc", "created_at DESC"},
		{"unknown column falls back", "total_points", "asc", "created_at DESC"},
		{"sql expression falls back", "(CASE WHEN created_by=1 THEN title END)", "asc", "created_at DESC"},
		{"stacked statement falls back", "title; DROP TABLE exams--", "desc", "created_at DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, orderExpr(tt.sortBy, tt.sortOrder))
		})
	}
}
