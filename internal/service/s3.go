// internal/service/s3.go
package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Service encapsula o cliente S3
type S3Service struct {
	s3Client      *s3.Client
	presignClient *s3.PresignClient
	bucketName    string
}

// NewS3Service cria um novo serviço S3
func NewS3Service(s3Client *s3.Client, bucketName string) *S3Service {
	return &S3Service{
		s3Client: s3Client,
		// O PresignClient é o que realmente cria as URLs
		presignClient: s3.NewPresignClient(s3Client),
		bucketName:    bucketName,
	}
}

// GeneratePresignedUploadURL gera uma URL para o cliente fazer upload (PUT)
func (s *S3Service) GeneratePresignedUploadURL(ctx context.Context, storageKey string, lifetime time.Duration) (string, error) {
	if storageKey == "" {
		return "", fmt.Errorf("storageKey não pode ser vazio")
	}

	// Cria a requisição para a operação PutObject
	request, err := s.presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(storageKey),
	}, s3.WithPresignExpires(lifetime)) // Define o tempo de expiração

	if err != nil {
		// Não logar a storage key: o log não deve conter localizadores internos
		log.Printf("Erro ao gerar Presigned PUT URL: %v", err)
		return "", fmt.Errorf("falha ao gerar URL de upload")
	}

	return request.URL, nil
}

// GeneratePresignedDownloadURL gera uma URL assinada de download (GET).
// A URL instrui o navegador a salvar o arquivo (Content-Disposition:
// attachment) em vez de renderizá-lo inline, com o nome original.
// A validade da URL é independente da expiração do link de compartilhamento.
func (s *S3Service) GeneratePresignedDownloadURL(ctx context.Context, storageKey, filename string, lifetime time.Duration) (string, error) {
	if storageKey == "" {
		return "", fmt.Errorf("storageKey não pode ser vazio")
	}

	// Cria a requisição para a operação GetObject
	request, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket:                     aws.String(s.bucketName),
		Key:                        aws.String(storageKey),
		ResponseContentDisposition: aws.String(attachmentDisposition(filename)),
	}, s3.WithPresignExpires(lifetime))

	if err != nil {
		log.Printf("Erro ao gerar Presigned GET URL: %v", err)
		return "", fmt.Errorf("falha ao gerar URL de download")
	}

	return request.URL, nil
}

// attachmentDisposition monta o header Content-Disposition, removendo
// caracteres que quebrariam o valor entre aspas
func attachmentDisposition(filename string) string {
	sanitized := strings.NewReplacer(`"`, "", "\r", "", "\n", "").Replace(filename)
	return fmt.Sprintf(`attachment; filename="%s"`, sanitized)
}
