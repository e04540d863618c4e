package handlers

import (
	"net/http"

	qrcode "github.com/skip2/go-qrcode"
)

// handleQR renders the voting page URL as a PNG so the admin can put it on
// the projector for the audience to scan.
func (h *Handlers) handleQR(w http.ResponseWriter, r *http.Request) {
	if h.baseURL == "" {
		respondError(w, BadRequest("Base URL not configured"))
		return
	}

	png, err := qrcode.Encode(h.baseURL, qrcode.Medium, 512)
	if err != nil {
		respondError(w, InternalError(err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}
