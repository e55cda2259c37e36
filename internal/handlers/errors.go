package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"stock-alerts/internal/alerts"
)

// writeStoreError maps a database error onto an HTTP response.
func writeStoreError(w http.ResponseWriter, err error, op string) {
	slog.Error("Store operation failed", "op", op, "error", err)

	var notFound *alerts.NotFoundError
	if errors.As(err, &notFound) {
		writeError(w, http.StatusNotFound, notFound.Error())
		return
	}
	var invalid *alerts.ValidationError
	if errors.As(err, &invalid) {
		writeError(w, http.StatusBadRequest, invalid.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, "Failed to "+op+": "+err.Error())
}
