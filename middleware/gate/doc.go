// Package gate fornece os adapters HTTP (net/http) do gate de requisições do
// portfólio e o limite de concorrência.
//
// Visão geral (camadas):
//
//   - domain: contratos e tipos do domínio (sem dependência de net/http)
//   - application: classificação de rotas, rate limit, gate de acesso, headers
//     de segurança e o Pipeline que os compõe (sem net/http, sem I/O)
//   - infra: implementações concretas (store em memória, sweeper, stats, semáforo)
//   - gate (este pacote): middlewares HTTP + extração de cliente/sessão +
//     tradução das decisões para status/headers
//
// Fluxo por requisição:
//
//  1. Extrai o cliente (X-Forwarded-For, X-Real-IP, RemoteAddr) e a presença do
//     cookie de sessão
//  2. Pipeline.Handle decide: rejeitar (429), redirecionar (307) ou seguir
//  3. Se seguir, aplica os headers de segurança e chama o próximo handler
//     (ex: reverse proxy para a aplicação)
//
// Os contadores vivem no processo: com N instâncias o limite efetivo é N×Limit.
package gate
