package domain

// OtherRoute rotula requisições que não casam com nenhuma rota configurada.
const OtherRoute = "other"

// RouteClass é derivado do path (e do método, para o rate limit). Não é
// armazenado.
type RouteClass struct {
	// Policy só é resolvida para métodos que alteram estado (POST/PUT/DELETE).
	Policy *RoutePolicy
	// Protected exige sessão presente.
	Protected bool
	// AuthOnly é para visitantes sem sessão (login/registro).
	AuthOnly bool
}

// Routes é a configuração estática de classificação.
type Routes struct {
	RatePolicies      []RoutePolicy
	ProtectedPrefixes []string
	AuthOnlyPaths     []string
	LoginPath         string
	DashboardPath     string
}

// AccessVerdict é o resultado do AccessGate.
type AccessVerdict struct {
	Redirect bool
	Target   string
}
