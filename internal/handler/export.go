package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/budgify/budgify/internal/service"
)

type ExportHandler struct {
	exportService *service.ExportService
}

func NewExportHandler(exportService *service.ExportService) *ExportHandler {
	return &ExportHandler{
		exportService: exportService,
	}
}

// Export returns a download link when object storage is configured, otherwise
// the CSV itself as an attachment.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")

	export, err := h.exportService.Export(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err, "export transactions")
		return
	}

	if export.URL != "" {
		respondData(w, http.StatusOK, export, "Export ready")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(export.Data)))
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(export.Data); err != nil {
		slog.Error("failed to write export", "error", err, "user_id", userID)
	}
}
