// Package domain define contratos e tipos de domínio do gate de requisições:
// chaves e entradas do rate limit, políticas de rota, veredictos e o resultado
// do pipeline.
//
// Este pacote não depende de net/http nem de implementações concretas.
// A intenção é permitir testes de unidade puros e desacoplar regras de negócio
// de detalhes de infraestrutura.
package domain
