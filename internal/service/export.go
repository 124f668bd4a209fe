package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/budgify/budgify/internal/model"
	"github.com/budgify/budgify/internal/repository"
	"github.com/budgify/budgify/internal/storage"
)

const exportContentType = "text/csv"

var exportHeader = []string{"id", "type", "date", "time", "amount", "entity", "category"}

// Export is a generated CSV. URL is set when the file was uploaded,
// otherwise Data carries the file for direct download.
type Export struct {
	Filename  string    `json:"filename"`
	Rows      int       `json:"rows"`
	URL       string    `json:"url,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
	Data      []byte    `json:"-"`
}

type ExportService struct {
	ledgerRepository repository.LedgerRepository
	storage          storage.Storage
	presignExpiry    time.Duration
	now              Clock
}

// NewExportService accepts a nil store; exports are then returned inline.
func NewExportService(ledgerRepository repository.LedgerRepository, store storage.Storage, presignExpiry time.Duration) *ExportService {
	return &ExportService{
		ledgerRepository: ledgerRepository,
		storage:          store,
		presignExpiry:    presignExpiry,
		now:              systemClock,
	}
}

func (s *ExportService) Export(ctx context.Context, userID string) (*Export, error) {
	rows, err := s.ledgerRepository.All(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}

	data, err := encodeLedgerCSV(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}

	now := s.now().UTC()
	export := &Export{
		Filename: fmt.Sprintf("budgify-%s.csv", now.Format("20060102-150405")),
		Rows:     len(rows),
		Data:     data,
	}

	if s.storage == nil {
		return export, nil
	}

	path := fmt.Sprintf("exports/%s/%s", userID, export.Filename)
	err = s.storage.Save(ctx, path, bytes.NewReader(data), exportContentType)
	if err != nil {
		return nil, err
	}

	url, err := s.storage.PresignedURL(ctx, path, s.presignExpiry)
	if err != nil {
		return nil, err
	}

	export.URL = url
	export.ExpiresAt = now.Add(s.presignExpiry)
	export.Data = nil
	return export, nil
}

func encodeLedgerCSV(rows []*model.LedgerRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}

	for _, row := range rows {
		record := []string{
			row.ID,
			string(row.Type),
			row.Date.String(),
			row.Time.String(),
			row.Amount.StringFixed(2),
			row.Source,
			row.Category,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
