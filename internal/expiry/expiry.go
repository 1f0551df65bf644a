package expiry

import (
	"time"

	"sharebox-backend/internal/models"
)

// Classification é o resultado de avaliar a expiração de um link.
type Classification struct {
	Status models.FileStatus

	// Days é o número de dias inteiros restantes até a expiração.
	// Negativo quando o link já expirou (dias decorridos desde a expiração).
	// Zero quando o link não tem expiração ou expira em menos de 24h.
	Days int
}

// Classify avalia um link contra o instante 'now'.
// É a ÚNICA fonte de verdade para "ativo vs expirado": tanto o resolve
// quanto o download devem passar por aqui, para nunca divergirem.
//
// Regra: ativo se expiresAt é nil ou está estritamente no futuro.
func Classify(now time.Time, expiresAt *time.Time) Classification {
	if expiresAt == nil {
		return Classification{Status: models.StatusActive}
	}

	diff := expiresAt.Sub(now)
	days := int(diff.Hours() / 24)

	if diff > 0 {
		return Classification{Status: models.StatusActive, Days: days}
	}
	return Classification{Status: models.StatusExpired, Days: days}
}
