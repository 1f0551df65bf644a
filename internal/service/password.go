package service

import (
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
)

// PasswordGate verifica senhas de arquivos contra o hash armazenado.
// Falha de verificação é um resultado normal, não um erro.
type PasswordGate struct{}

// NewPasswordGate cria um novo gate de senha
func NewPasswordGate() *PasswordGate {
	return &PasswordGate{}
}

// Hash gera o hash bcrypt de uma senha (nunca armazene senha em texto plano)
func (g *PasswordGate) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Erro ao gerar hash bcrypt: %v", err)
		return "", fmt.Errorf("erro interno ao processar senha")
	}
	return string(hash), nil
}

// Verify compara a senha enviada com o hash armazenado.
// A comparação do bcrypt é em tempo constante em relação ao hash.
// Nem a senha nem o hash são logados ou retornados.
func (g *PasswordGate) Verify(storedHash, submittedPassword string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(submittedPassword))
	return err == nil
}
