package gate

import (
	"encoding/json"
	"net/http"

	"devport-gateway/internal/log"
	"devport-gateway/middleware/gate/domain"

	"go.uber.org/zap"
)

const rateLimitedMessage = "Too many requests. Please try again later."

type rejectionBody struct {
	Error      string `json:"error"`
	RetryAfter int    `json:"retryAfter"`
}

func writeRejection(w http.ResponseWriter, v domain.RateVerdict) {
	h := w.Header()
	h.Set("Content-Type", "application/json")
	h.Set("Retry-After", formatInt(v.RetryAfter))
	h.Set("X-RateLimit-Limit", formatInt(v.Limit))
	h.Set("X-RateLimit-Remaining", "0")
	h.Set("X-RateLimit-Reset", formatInt64(v.ResetAt.UnixMilli()))
	w.WriteHeader(http.StatusTooManyRequests)

	if err := json.NewEncoder(w).Encode(rejectionBody{Error: rateLimitedMessage, RetryAfter: v.RetryAfter}); err != nil {
		log.Logger().Debug("failed to write rate limit body", zap.Error(err))
	}
}

func writeRedirect(w http.ResponseWriter, location string, status int) {
	w.Header().Set("Location", location)
	w.WriteHeader(status)
}

func applyHeaders(w http.ResponseWriter, headers map[string]string) {
	h := w.Header()
	for k, v := range headers {
		h.Set(k, v)
	}
}

// securityWriter reaplica os headers de segurança com Set no momento em que a
// resposta é escrita. O ReverseProxy copia os headers do upstream com Add;
// sem isso a resposta sairia com X-Frame-Options/CSP duplicados. Os valores
// do gate prevalecem sobre os do downstream.
type securityWriter struct {
	http.ResponseWriter
	headers map[string]string
	wrote   bool
}

func (w *securityWriter) WriteHeader(code int) {
	// 1xx (ex.: 103 Early Hints) não encerra os headers da resposta final
	if !w.wrote && code >= 200 {
		w.wrote = true
		applyHeaders(w.ResponseWriter, w.headers)
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *securityWriter) Write(b []byte) (int, error) {
	if !w.wrote {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

func (w *securityWriter) Flush() {
	if !w.wrote {
		w.WriteHeader(http.StatusOK)
	}
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap permite que http.ResponseController alcance o writer original.
func (w *securityWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }
