package models

import (
	"time"

	"github.com/google/uuid"
)

// FileStatus é o estado derivado de um link de compartilhamento.
// Nunca é armazenado: sempre calculado a partir de ExpiresAt.
type FileStatus string

const (
	StatusActive  FileStatus = "active"
	StatusExpired FileStatus = "expired"
)

// File representa os metadados de um arquivo compartilhado
type File struct {
	ID      uuid.UUID  `json:"id"`
	OwnerID *uuid.UUID `json:"ownerId,omitempty"` // nil = upload de convidado (anônimo)

	// ShortCode é único e imutável; é a chave pública do link (/f/{code})
	ShortCode string `json:"shortCode"`

	// StorageKey é o localizador no backend de armazenamento.
	// Nunca expor em JSON nem em logs.
	StorageKey string `json:"-"`

	Name      string `json:"name"`
	MimeType  string `json:"mimeType"`
	SizeBytes int64  `json:"sizeBytes"`

	IsPasswordProtected bool   `json:"isPasswordProtected"`
	PasswordHash        string `json:"-"` // Nunca expor em JSON

	ExpiresAt *time.Time `json:"expiresAt,omitempty"` // nil = o link nunca expira
	CreatedAt time.Time  `json:"createdAt"`

	// DownloadCount conta URLs assinadas emitidas, não bytes transferidos.
	// Só é mutado pelo incremento atômico do store.
	DownloadCount int64 `json:"downloadCount"`
}
