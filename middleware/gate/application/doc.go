// Package application contém os casos de uso do gate de requisições:
// classificação de rotas, rate limit de janela fixa, gate de acesso por
// presença de sessão, headers de segurança e o pipeline que os compõe.
//
// Ele depende apenas do pacote domain e não conhece net/http. Nada aqui faz
// I/O ou bloqueia: Pipeline.Handle resolve tudo em memória.
package application
