package repository

import (
	"context"
	"errors"
	"fmt"
	"log"

	"sharebox-backend/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore é a implementação da interface FileStore para o PostgreSQL
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore cria uma nova instância do PostgresStore e pool de conexões
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("não foi possível criar pool de conexão: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("não foi possível pingar o banco de dados: %w", err)
	}

	log.Println("Pool de conexão com PostgreSQL estabelecido.")
	return &PostgresStore{db: pool}, nil
}

// Close fecha o pool de conexões
func (s *PostgresStore) Close() {
	s.db.Close()
}

// RunMigrations executa o script SQL de migração
func (s *PostgresStore) RunMigrations(ctx context.Context, migrationSQL string) error {
	_, err := s.db.Exec(ctx, migrationSQL)
	if err != nil {
		return fmt.Errorf("falha ao executar migração: %w", err)
	}
	return nil
}

const fileColumns = `
        id, owner_id, short_code, storage_key, name, mime_type, size_bytes,
        is_password_protected, password_hash, expires_at, created_at, download_count`

func (s *PostgresStore) CreateFile(ctx context.Context, file *models.File) error {
	sql := `
        INSERT INTO files (id, owner_id, short_code, storage_key, name, mime_type, size_bytes,
                           is_password_protected, password_hash, expires_at, created_at, download_count)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := s.db.Exec(ctx, sql,
		file.ID,
		file.OwnerID,
		file.ShortCode,
		file.StorageKey,
		file.Name,
		file.MimeType,
		file.SizeBytes,
		file.IsPasswordProtected,
		file.PasswordHash,
		file.ExpiresAt,
		file.CreatedAt,
		file.DownloadCount,
	)

	if err != nil {
		// Verifica se é um erro de violação de constraint (código duplicado)
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // 23505 = unique_violation
			return fmt.Errorf("código '%s' já existe", file.ShortCode)
		}
		return fmt.Errorf("falha ao criar arquivo: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetFileByShortCode(ctx context.Context, shortCode string) (*models.File, error) {
	sql := `SELECT` + fileColumns + `
        FROM files
        WHERE short_code = $1`

	return s.scanFile(s.db.QueryRow(ctx, sql, shortCode))
}

func (s *PostgresStore) GetFileByID(ctx context.Context, id uuid.UUID) (*models.File, error) {
	sql := `SELECT` + fileColumns + `
        FROM files
        WHERE id = $1`

	return s.scanFile(s.db.QueryRow(ctx, sql, id))
}

func (s *PostgresStore) ShortCodeExists(ctx context.Context, shortCode string) (bool, error) {
	sql := `SELECT EXISTS (SELECT 1 FROM files WHERE short_code = $1)`

	var exists bool
	if err := s.db.QueryRow(ctx, sql, shortCode).Scan(&exists); err != nil {
		return false, fmt.Errorf("falha ao verificar código: %w", err)
	}
	return exists, nil
}

// IncrementDownloadCount usa um UPDATE único (read-increment-write na mesma
// instrução) para que chamadas concorrentes nunca percam incrementos.
func (s *PostgresStore) IncrementDownloadCount(ctx context.Context, id uuid.UUID) (int64, error) {
	sql := `
        UPDATE files
        SET download_count = download_count + 1
        WHERE id = $1
        RETURNING download_count`

	var newCount int64
	err := s.db.QueryRow(ctx, sql, id).Scan(&newCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrFileNotFound
		}
		return 0, fmt.Errorf("falha ao incrementar contador de downloads: %w", err)
	}
	return newCount, nil
}

func (s *PostgresStore) scanFile(row pgx.Row) (*models.File, error) {
	file := &models.File{}
	err := row.Scan(
		&file.ID,
		&file.OwnerID,
		&file.ShortCode,
		&file.StorageKey,
		&file.Name,
		&file.MimeType,
		&file.SizeBytes,
		&file.IsPasswordProtected,
		&file.PasswordHash,
		&file.ExpiresAt,
		&file.CreatedAt,
		&file.DownloadCount,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("falha ao buscar arquivo: %w", err)
	}
	return file, nil
}
