package handlers

import (
	"math"
	"net/http"
	"sort"
	"time"

	"github.com/conectahn/wifi-portal-backend/internal/store"
)

const topDepartmentsLimit = 10

type departmentCount struct {
	Department string `json:"department"`
	Count      int64  `json:"count"`
}

// Stats aggregates registration and outreach counters for the admin
// dashboard. Read-only; two calls with no writes in between return the same
// numbers.
func Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	total, err := visitorStore.Count(ctx, store.Filter{})
	if err != nil {
		writeInternalError(w, err)
		return
	}

	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	registeredToday, err := visitorStore.Count(ctx, store.Filter{CreatedAfter: midnight})
	if err != nil {
		writeInternalError(w, err)
		return
	}

	withSocial, err := visitorStore.Count(ctx, store.Filter{WithSocial: true})
	if err != nil {
		writeInternalError(w, err)
		return
	}

	byMigrationStatus, err := visitorStore.CountBy(ctx, store.FieldMigrationStatus, store.Filter{})
	if err != nil {
		writeInternalError(w, err)
		return
	}

	byDepartment, err := visitorStore.CountBy(ctx, store.FieldDepartment, store.Filter{})
	if err != nil {
		writeInternalError(w, err)
		return
	}

	contacted, err := visitorStore.Count(ctx, store.Filter{ContactedOnly: true})
	if err != nil {
		writeInternalError(w, err)
		return
	}
	successful, err := visitorStore.Count(ctx, store.Filter{SuccessfulOnly: true, ContactedOnly: true})
	if err != nil {
		writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"total":             total,
			"registeredToday":   registeredToday,
			"withSocial":        withSocial,
			"byMigrationStatus": byMigrationStatus,
			"topDepartments":    topDepartments(byDepartment),
			"outreach": map[string]interface{}{
				"contacted":   contacted,
				"successful":  successful,
				"successRate": successRate(successful, contacted),
			},
		},
	})
}

// successRate is successful/contacted as a percentage, one decimal, 0 when
// nobody has been contacted yet.
func successRate(successful, contacted int64) float64 {
	if contacted == 0 {
		return 0
	}
	return math.Round(float64(successful)/float64(contacted)*1000) / 10
}

func topDepartments(counts map[string]int64) []departmentCount {
	out := make([]departmentCount, 0, len(counts))
	for dep, n := range counts {
		out = append(out, departmentCount{Department: dep, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Department < out[j].Department
	})
	if len(out) > topDepartmentsLimit {
		out = out[:topDepartmentsLimit]
	}
	return out
}
