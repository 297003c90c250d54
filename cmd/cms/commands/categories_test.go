package commands

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mytheresa/content-portal/models"
)

func ptr(id uint) *uint { return &id }

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func TestPrintTree(t *testing.T) {
	tests := []struct {
		name       string
		categories []models.Category
		want       []string
	}{
		{
			name: "nested",
			categories: []models.Category{
				{ID: 1, Name: "All"},
				{ID: 2, Name: "Saleable", ParentID: ptr(1)},
				{ID: 3, Name: "Office", ParentID: ptr(2)},
				{ID: 4, Name: "Internal", ParentID: ptr(1)},
			},
			want: []string{"All #1", "├─ Saleable #2", "│  └─ Office #3", "└─ Internal #4"},
		},
		{
			name: "missing parent is a root",
			categories: []models.Category{
				{ID: 5, Name: "Lost", ParentID: ptr(99)},
			},
			want: []string{"Lost #5"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			printTree(&buf, tt.categories)

			lines := strings.Split(strings.TrimRight(ansi.ReplaceAllString(buf.String(), ""), "\n"), "\n")
			require.Len(t, lines, len(tt.want))
			for i, want := range tt.want {
				assert.Contains(t, lines[i], want)
			}
		})
	}
}
