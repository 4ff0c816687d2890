package worker

// receipt_worker.go
// Processes receipt rendering jobs from QueueReceipts: loads the paid sale,
// resolves catalog descriptions for its lines, and writes a PDF ticket.

import (
	"context"
	"encoding/json"

	"tillpoint/internal/infra"
	"tillpoint/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ReceiptPayload is the job envelope sent to QueueReceipts.
type ReceiptPayload struct {
	SaleID string `json:"sale_id"`
	Change string `json:"change"`
}

// ReceiptWorker renders PDF receipts for paid sales.
type ReceiptWorker struct {
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
	storagePath string
}

func NewReceiptWorker(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	storagePath string,
) *ReceiptWorker {
	return &ReceiptWorker{saleRepo: saleRepo, productRepo: productRepo, storagePath: storagePath}
}

// Process handles a single receipt job. Failures are logged, never retried:
// the sale itself is already committed and a receipt can be re-requested.
func (w *ReceiptWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ReceiptPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("receipt_worker: invalid payload")
		return
	}

	saleID, err := uuid.Parse(payload.SaleID)
	if err != nil {
		log.Error().Str("sale_id", payload.SaleID).Msg("receipt_worker: invalid sale_id")
		return
	}

	sale, err := w.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		log.Error().Err(err).Str("sale_id", payload.SaleID).Msg("receipt_worker: sale not found")
		return
	}

	descriptions := make(map[string]string, len(sale.Lines))
	for _, line := range sale.Lines {
		p, err := w.productRepo.FindByBarcode(ctx, line.Barcode)
		if err != nil {
			// Product deleted after the sale: the barcode is printed instead.
			continue
		}
		descriptions[line.Barcode] = p.Description
	}

	path, err := infra.GenerateReceiptPDF(sale, descriptions, payload.Change, w.storagePath)
	if err != nil {
		log.Error().Err(err).Str("sale_id", payload.SaleID).Msg("receipt_worker: pdf generation failed")
		return
	}

	log.Info().Str("sale_id", payload.SaleID).Str("path", path).Msg("receipt generated")
}
