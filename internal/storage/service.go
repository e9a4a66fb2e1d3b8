package storage

import (
	"context"
	"strings"
	"time"

	"github.com/aayanrashid995/tripsync/internal/db"

	"github.com/google/uuid"
)

type Upload struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	URL       string    `json:"url"`
	FileName  string    `json:"file_name"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}

type Service struct {
	db      db.Querier
	baseURL string
}

func NewService(db db.Querier, baseURL string) *Service {
	return &Service{db: db, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// SaveUpload records an uploaded blob and returns its public URL. The id
// prefix keeps same-named receipts from clobbering each other.
func (s *Service) SaveUpload(ctx context.Context, userID, fileName, kind string) (Upload, error) {
	if fileName == "" {
		fileName = "upload"
	}
	if kind == "" {
		kind = "receipt"
	}

	upload := Upload{
		ID:       uuid.NewString(),
		UserID:   userID,
		FileName: fileName,
		Kind:     kind,
	}
	upload.URL = s.baseURL + "/" + upload.ID + "-" + fileName

	row := s.db.QueryRow(ctx, `
		INSERT INTO uploads (id, user_id, url, file_name, kind)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at
	`, upload.ID, upload.UserID, upload.URL, upload.FileName, upload.Kind)
	if err := row.Scan(&upload.CreatedAt); err != nil {
		return Upload{}, err
	}
	return upload, nil
}
