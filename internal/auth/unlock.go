package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// unlockTokenTTL é a validade do token de desbloqueio. Curta de propósito:
// o token só serve para a janela entre verificar a senha e clicar em baixar.
const unlockTokenTTL = 10 * time.Minute

// UnlockTokenService emite e valida tokens de desbloqueio de arquivo.
// O token é devolvido por verifyFilePassword e aceito pelo download no
// lugar da senha em texto plano, sem nenhum estado no servidor.
type UnlockTokenService struct {
	jwtSecret []byte
}

// NewUnlockTokenService cria um novo serviço de token de desbloqueio
func NewUnlockTokenService(secret string) (*UnlockTokenService, error) {
	if secret == "" {
		return nil, fmt.Errorf("segredo JWT não pode ser vazio")
	}
	return &UnlockTokenService{
		jwtSecret: []byte(secret),
	}, nil
}

// NewUnlockToken cria um token de desbloqueio para um arquivo específico
func (s *UnlockTokenService) NewUnlockToken(fileID uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   fileID.String(), // 'subject' (o ID do arquivo, não de um usuário)
		"scope": "unlock",
		"iat":   now.Unix(),
		"exp":   now.Add(unlockTokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateUnlockToken verifica um token e retorna o ID do arquivo que ele
// desbloqueia. Token expirado, adulterado ou com escopo errado é inválido.
func (s *UnlockTokenService) ValidateUnlockToken(tokenString string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Verifica o método de assinatura
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de assinatura inesperado: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})

	if err != nil {
		return uuid.Nil, fmt.Errorf("falha ao parsear token: %w", err)
	}
	if !token.Valid {
		return uuid.Nil, fmt.Errorf("token inválido")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, fmt.Errorf("não foi possível ler claims do token")
	}

	if scope, _ := claims["scope"].(string); scope != "unlock" {
		return uuid.Nil, fmt.Errorf("token com escopo inválido")
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return uuid.Nil, fmt.Errorf("não foi possível obter 'sub' do token: %w", err)
	}

	fileID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, fmt.Errorf("'sub' do token não é um UUID válido: %w", err)
	}

	return fileID, nil
}
