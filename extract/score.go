package extract

import "github.com/leadlens/leadlens/models"

// Score computes the 0-100 completeness confidence for a record. It is a
// pure function of already-extracted fields: no network, no parsing.
//
// Weights: title 20, description 20, any email 30, any tech 10, image 10,
// favicon 10.
func Score(rec *models.ExtractionRecord) int {
	score := 0
	if rec.Title != "" {
		score += 20
	}
	if rec.Description != "" {
		score += 20
	}
	if len(rec.Emails) > 0 {
		score += 30
	}
	if len(rec.TechStack) > 0 {
		score += 10
	}
	if rec.Image != "" {
		score += 10
	}
	if rec.Favicon != "" {
		score += 10
	}
	if score > 100 {
		score = 100
	}
	return score
}
