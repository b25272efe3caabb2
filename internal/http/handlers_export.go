package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"budget/internal/export"
)

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		MethodNotAllowedError("GET").Write(w)
		return
	}

	format := export.Format(r.URL.Query().Get("format"))
	if format == "" {
		format = export.FormatCSV
	}
	if !format.IsValid() {
		BadRequestError("Unknown export format").Write(w)
		return
	}

	data, err := s.renderReport(format)
	if err != nil {
		if errors.Is(err, export.ErrNoFont) {
			UnprocessableEntityError(err.Error()).Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Report rendering failed", "error", err, "format", string(format))
		InternalServerError("Could not generate report").Write(w)
		return
	}

	filename := export.Filename(format, time.Now())
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)

	slog.InfoContext(r.Context(), "Report exported", "format", string(format), "bytes", len(data))
}

// renderReport builds the report for the current ledger state, reusing a
// cached artifact when the ledger has not changed since it was rendered.
func (s *Server) renderReport(format export.Format) ([]byte, error) {
	key := strconv.FormatUint(s.ledger.Revision(), 10) + ":" + string(format)
	if data, found := s.exportCache.Get(key); found {
		return data, nil
	}

	snap := s.ledger.Export()

	var data []byte
	var err error
	switch format {
	case export.FormatCSV:
		data, err = export.WriteCSV(snap)
	case export.FormatXLSX:
		data, err = export.WriteXLSX(snap)
	case export.FormatPDF:
		data, err = s.pdfWriter.Write(snap)
	}
	if err != nil {
		return nil, err
	}

	s.exportCache.Set(key, data)
	return data, nil
}
