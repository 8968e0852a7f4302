package reports

import (
	"context"
	"net/http"
	"time"

	"parkly/utils"

	"github.com/julienschmidt/httprouter"
)

// GET /api/reports/usage?building=X
func GetUsageReport(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	building := r.URL.Query().Get("building")
	if building == "" {
		http.Error(w, "missing building", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	rep, err := LoadUsageReport(ctx, building)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"report": rep})
}

// GET /api/reports/usage/pdf?building=X[&download=1]
func GetUsageReportPDF(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	building := r.URL.Query().Get("building")
	if building == "" {
		http.Error(w, "missing building", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	rep, err := LoadUsageReport(ctx, building)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	data, err := BuildPDF(rep)
	if err != nil {
		http.Error(w, "Failed to generate PDF", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	if r.URL.Query().Get("download") == "1" {
		w.Header().Set("Content-Disposition", "attachment; filename=usage-"+utils.SanitizeFilename(building)+".pdf")
	} else {
		w.Header().Set("Content-Disposition", "inline")
	}
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
