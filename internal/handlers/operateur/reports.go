// internal/handlers/operateur/reports.go
// Upload / konfirmasi / review rapport (passthrough)

package operateur

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	hh "drilling-dashboard/internal/handlers/http"
	"drilling-dashboard/internal/util"
)

const defaultMaxUpload = 32 << 20

// Extract: multipart "file" + "puitId" diteruskan ke backend untuk ekstraksi Excel.
func (h *Handler) Extract(w http.ResponseWriter, r *http.Request) {
	limit := h.MaxUpload
	if limit <= 0 {
		limit = defaultMaxUpload
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(limit); err != nil {
		hh.WriteError(w, r, util.BadInput("invalid multipart form: "+err.Error()))
		return
	}
	defer r.MultipartForm.RemoveAll()

	wellID := strings.TrimSpace(r.FormValue("puitId"))
	if wellID == "" {
		hh.WriteError(w, r, util.BadInput("puitId required"))
		return
	}
	f, hdr, err := r.FormFile("file")
	if err != nil {
		hh.WriteError(w, r, util.BadInput("file missing"))
		return
	}
	defer f.Close()

	out, err := h.API.ExtractReport(r.Context(), wellID, hdr.Filename, f)
	if err != nil {
		hh.WriteError(w, r, err)
		return
	}
	hh.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	raw, err := hh.ReadRaw(r)
	if err != nil {
		hh.WriteError(w, r, err)
		return
	}
	out, err := h.API.ConfirmReport(r.Context(), raw)
	if err != nil {
		hh.WriteError(w, r, err)
		return
	}
	hh.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) Review(w http.ResponseWriter, r *http.Request) {
	raw, err := hh.ReadRaw(r)
	if err != nil {
		hh.WriteError(w, r, err)
		return
	}
	out, err := h.API.ReviewReport(r.Context(), chi.URLParam(r, "id"), raw)
	if err != nil {
		hh.WriteError(w, r, err)
		return
	}
	hh.WriteJSON(w, http.StatusOK, out)
}
