package application

const contentSecurityPolicy = "default-src 'self'; " +
	"script-src 'self' 'unsafe-inline' 'unsafe-eval'; " +
	"style-src 'self' 'unsafe-inline'; " +
	"img-src 'self' data: https:; " +
	"font-src 'self' data: https:; " +
	"connect-src 'self' https:; " +
	"frame-ancestors 'none';"

// SecurityHeaders retorna os headers de segurança para a resposta downstream.
// Dependem só do ambiente; o CSP só é emitido em produção.
func SecurityHeaders(isProduction bool) map[string]string {
	h := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"X-XSS-Protection":       "1; mode=block",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
		"Permissions-Policy":     "camera=(), microphone=(), geolocation=()",
	}
	if isProduction {
		h["Content-Security-Policy"] = contentSecurityPolicy
	}
	return h
}
