// internal/handlers/http/download.go
// Proxy file rapport (décideur & opérateur)

package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"drilling-dashboard/internal/backend"
	"drilling-dashboard/internal/logger"
)

// Downloader = sumber file rapport mentah.
type Downloader interface {
	DownloadReport(ctx context.Context, id string) (*backend.Download, error)
}

// DownloadName = "rapport_{operation}_{id}.xlsx" dengan karakter aman untuk header.
func DownloadName(operation, id string) string {
	safe := func(s string) string {
		return strings.Map(func(c rune) rune {
			switch {
			case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
				return c
			case c == ' ':
				return '_'
			}
			return -1
		}, strings.TrimSpace(s))
	}
	if op := safe(operation); op != "" {
		return fmt.Sprintf("rapport_%s_%s.xlsx", op, safe(id))
	}
	return fmt.Sprintf("rapport_%s.xlsx", safe(id))
}

// ServeDownload menyalin stream backend ke client dengan nama file attachment.
func ServeDownload(w http.ResponseWriter, r *http.Request, files Downloader, id, name string) {
	dl, err := files.DownloadReport(r.Context(), id)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	defer dl.Body.Close()

	w.Header().Set("Content-Type", dl.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	if dl.ContentLength > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(dl.ContentLength, 10))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, dl.Body); err != nil {
		logger.With("report.download").WithField("report_id", id).WithError(err).Warn("copy interrupted")
	}
}

