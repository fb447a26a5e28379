// Package infra contém implementações concretas (infraestrutura) para os contratos
// definidos no pacote domain.
//
// Exemplos:
//   - MemoryStore: contadores de janela fixa por chave, em shards, em memória
//   - Sweeper: limpeza probabilística do store, sem agenda fixa
//   - MemoryStatsStore / RedisStatsStore / AsyncStats: estatísticas de decisões
//   - ChanPool: semáforo simples para limite de concorrência
package infra
