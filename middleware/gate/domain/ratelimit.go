package domain

// Camada de domínio do rate limit.
//
// Regras e contratos (interfaces/tipos) sem dependência de net/http.

import "time"

// Key identifica um contador: um por par (cliente, rota). Não existe contador global.
type Key string

// NewKey compõe a chave a partir do identificador do cliente e do prefixo da política.
func NewKey(clientID, routePrefix string) Key {
	return Key(clientID + "|" + routePrefix)
}

// Entry é o estado de uma janela fixa.
//
// Uma entrada com now > ResetAt está expirada e deve ser tratada como ausente,
// mesmo que ainda esteja fisicamente no store.
type Entry struct {
	Count   int
	ResetAt time.Time
}

// Valid indica se a entrada tem forma utilizável. Entradas inválidas
// (corrompidas) são tratadas como ausentes.
func (e Entry) Valid() bool {
	return e.Count >= 1 && !e.ResetAt.IsZero()
}

// Expired indica se a janela já terminou em relação a now.
func (e Entry) Expired(now time.Time) bool {
	return now.After(e.ResetAt)
}

// Store é o armazenamento de contadores por chave.
//
// Todas as operações devem ser seguras para uso concorrente. Update executa
// leitura, cálculo e escrita de forma indivisível para uma única chave.
// O contrato não coordena processos diferentes: cada instância tem os seus
// próprios contadores, então o limite efetivo escala com o número de instâncias.
type Store interface {
	Get(Key) (Entry, bool)
	Put(Key, Entry)
	// Update chama fn com a entrada atual (ok=false se ausente). Se write for
	// true, next é gravado; caso contrário o store não é alterado.
	Update(key Key, fn func(cur Entry, ok bool) (next Entry, write bool))
	// Sweep remove entradas com ResetAt < now e retorna quantas removeu.
	// É só housekeeping: a corretude nunca depende dele.
	Sweep(now time.Time) int
}

// RoutePolicy é uma entrada estática de configuração do rate limit.
//
// A ordem de declaração importa: a primeira política cujo prefixo casa vence.
type RoutePolicy struct {
	PathPrefix string
	Limit      int
	Window     time.Duration
}

// RateVerdict é o resultado do RateLimiter.
type RateVerdict struct {
	Allowed bool
	// Policy é nil quando nenhuma política se aplica à rota/método.
	Policy *RoutePolicy
	// Os campos abaixo só são preenchidos em rejeições.
	Limit      int
	RetryAfter int // segundos, arredondado para cima
	ResetAt    time.Time
}
