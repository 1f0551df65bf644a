package service

import "errors"

// Erros de domínio do core de links de compartilhamento.
// Os handlers HTTP mapeiam cada um para um status code via errors.Is.
var (
	// ErrNotFound: código curto ou ID desconhecido
	ErrNotFound = errors.New("arquivo não encontrado")

	// ErrExpiredLink: o link é resolvível mas o download é negado por tempo
	ErrExpiredLink = errors.New("link expirado")

	// ErrUnauthorized: senha ausente ou incorreta
	ErrUnauthorized = errors.New("senha ausente ou incorreta")

	// ErrValidation: requisição malformada (campos obrigatórios ausentes etc.)
	ErrValidation = errors.New("requisição inválida")

	// ErrStorage: falha do backend de armazenamento ao assinar a URL.
	// Retornável como erro de servidor; a mensagem nunca contém a storage key.
	ErrStorage = errors.New("falha no serviço de armazenamento")
)
