package application

import (
	"net/url"

	"devport-gateway/middleware/gate/domain"
)

// AccessGate decide redirecionamentos a partir da presença de sessão.
// authPresent é só presença de cookie; a validação fica com quem emite a sessão.
type AccessGate struct {
	Classifier *Classifier
}

// Decide avalia, nesta ordem: protegido sem sessão (vai para o login com
// callbackUrl), auth-only com sessão (vai para o dashboard), senão segue.
// A classificação independe do método.
func (g *AccessGate) Decide(path, rawQuery, method string, authPresent bool) domain.AccessVerdict {
	if g == nil || g.Classifier == nil {
		return domain.AccessVerdict{}
	}

	if g.Classifier.IsProtected(path) && !authPresent {
		callback := path
		if rawQuery != "" {
			callback += "?" + rawQuery
		}
		target := g.Classifier.LoginPath() + "?" + url.Values{"callbackUrl": {callback}}.Encode()
		return domain.AccessVerdict{Redirect: true, Target: target}
	}

	if g.Classifier.IsAuthOnly(path) && authPresent {
		return domain.AccessVerdict{Redirect: true, Target: g.Classifier.DashboardPath()}
	}

	return domain.AccessVerdict{}
}
