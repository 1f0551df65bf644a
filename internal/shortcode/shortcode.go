package shortcode

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
)

// alphabet contém apenas caracteres seguros para URL (base62).
// Com 8 caracteres o espaço é 62^8 (~2.18e14): colisões são
// praticamente inalcançáveis, mas ainda assim verificadas.
const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

const (
	// DefaultLength é o tamanho padrão do código curto
	DefaultLength = 8

	// maxAttempts limita as tentativas em caso de colisão, para o
	// contrato ser total mesmo num cenário degenerado.
	maxAttempts = 5
)

// ErrGenerationExhausted é retornado quando todas as tentativas colidiram.
// Na prática só acontece se o store estiver saturado ou com defeito.
var ErrGenerationExhausted = errors.New("não foi possível gerar um código único")

// CodeChecker é o pedaço do store que o gerador precisa: saber se um
// candidato já está em uso.
type CodeChecker interface {
	ShortCodeExists(ctx context.Context, shortCode string) (bool, error)
}

// Generator produz códigos curtos únicos, verificando colisões no store
type Generator struct {
	checker CodeChecker
	length  int
}

// NewGenerator cria um novo gerador de códigos curtos.
// Se length <= 0, usa DefaultLength.
func NewGenerator(checker CodeChecker, length int) *Generator {
	if length <= 0 {
		length = DefaultLength
	}
	return &Generator{
		checker: checker,
		length:  length,
	}
}

// Generate produz um código curto aleatório que não existe no store.
// Em caso de colisão, tenta novamente até maxAttempts vezes.
func (g *Generator) Generate(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		code, err := randomCode(g.length)
		if err != nil {
			return "", fmt.Errorf("falha ao gerar código aleatório: %w", err)
		}

		exists, err := g.checker.ShortCodeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("falha ao verificar colisão de código: %w", err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", ErrGenerationExhausted
}

// randomCode sorteia 'length' caracteres do alfabeto com crypto/rand
func randomCode(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	for i, b := range buf {
		buf[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(buf), nil
}
