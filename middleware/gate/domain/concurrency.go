package domain

import "context"

// SlotPool limita quantas requisições ficam em voo ao mesmo tempo na frente da
// aplicação. Fica fora da decisão do gate (que nunca bloqueia).
//
// Acquire bloqueia até conseguir uma vaga ou até o ctx encerrar. Ao adquirir,
// retorna uma função de release que deve ser chamada exatamente uma vez.
type SlotPool interface {
	Acquire(ctx context.Context) (release func(), ok bool)
	// InUse retorna o número de vagas ocupadas no momento.
	InUse() int
	Cap() int
}
