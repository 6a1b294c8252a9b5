package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leadlens/leadlens/models"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name string
		rec  models.ExtractionRecord
		want int
	}{
		{"empty", models.ExtractionRecord{}, 0},
		{"title only", models.ExtractionRecord{Title: "Acme"}, 20},
		{"emails weigh most", models.ExtractionRecord{Emails: []string{"a@acme.io"}}, 30},
		{
			"full record",
			models.ExtractionRecord{
				Title:       "Acme",
				Description: "desc",
				Emails:      []string{"a@acme.io"},
				TechStack:   []string{"React"},
				Image:       "https://acme.io/i.png",
				Favicon:     "https://acme.io/favicon.ico",
			},
			100,
		},
		{
			"no contacts",
			models.ExtractionRecord{
				Title:       "Acme",
				Description: "desc",
				Image:       "https://acme.io/i.png",
				Favicon:     "https://acme.io/favicon.ico",
			},
			60,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(&tt.rec)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, 0)
			assert.LessOrEqual(t, got, 100)
		})
	}
}
