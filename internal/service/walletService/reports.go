package walletService

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/novortex/wallet-backoffice/internal/service"
	"github.com/novortex/wallet-backoffice/utils"
)

// GenerateCashflowReport builds the monthly cash-flow xlsx from the
// operations history, uploads it to cloud storage and returns the
// download link.
func (s *WalletService) GenerateCashflowReport(ctx context.Context, year int, month time.Month) (downloadLink string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "WalletService.GenerateCashflowReport"

	slog.Debug(
		"GenerateCashflowReport start",
		slog.String("rqID", rqID),
		slog.String("op", op),
		slog.Int("year", year),
		slog.Int("month", int(month)),
	)

	rows, err := s.repo.GetCashflowRows(ctx, year, month)
	if err != nil {
		return "", err
	}

	if len(rows) == 0 {
		return "", service.ErrNotFound
	}

	fileBytes, fileExtension, err := s.reportGenerator.GenerateCashflow(ctx, year, month, rows)
	if err != nil {
		slog.Error("failed on reportGenerator.GenerateCashflow", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return "", err
	}

	filename := fmt.Sprintf("cashflow_%04d_%02d_%s%s", year, int(month), time.Now().Format("20060102_150405"), fileExtension)

	downloadLink, err = s.cloudStorage.UploadFile(ctx, bytes.NewReader(fileBytes), filename)
	if err != nil {
		slog.Error("failed on cloudStorage.UploadFile", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return "", err
	}

	slog.Debug("GenerateCashflowReport completed", slog.String("rqID", rqID), slog.String("op", op))

	return downloadLink, nil
}
