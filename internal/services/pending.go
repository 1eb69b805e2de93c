package services

import (
	"math"

	"github.com/doeshing/alfred-sf/internal/domain"
)

// PendingResponse is a non-actionable row plus a rerun directive, asking the
// host to invoke the process again after rerunSeconds.
func PendingResponse(title, subtitle string, rerunSeconds float64) domain.Response {
	if title == "" {
		title = domain.DefaultPendingTitle
	}
	if subtitle == "" {
		subtitle = domain.DefaultPendingSubtitle
	}
	rerun := clampRerun(rerunSeconds)
	resp := domain.InfoResponse(title, subtitle)
	resp.Rerun = &rerun
	return resp
}

// clampRerun keeps the interval inside the range the host accepts.
func clampRerun(seconds float64) float64 {
	if math.IsNaN(seconds) {
		return domain.DefaultRerunSeconds
	}
	return math.Min(math.Max(seconds, domain.MinRerunSeconds), domain.MaxRerunSeconds)
}
