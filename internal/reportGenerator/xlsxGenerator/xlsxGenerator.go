package xlsxGenerator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/novortex/wallet-backoffice/internal/model"
	"github.com/novortex/wallet-backoffice/utils"
	"github.com/xuri/excelize/v2"
)

type XlsxGenerator struct{}

func New() *XlsxGenerator {
	return &XlsxGenerator{}
}

// GenerateCashflow renders the monthly cash-flow/volume report: one row
// per wallet with deposits, withdrawals and traded volume per side.
func (g *XlsxGenerator) GenerateCashflow(ctx context.Context, year int, month time.Month, rows []model.CashflowRow) (fileBytes []byte, fileExtension string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "XlsxGenerator.GenerateCashflow"

	if len(rows) == 0 {
		return nil, "", errors.New("empty cashflow rows")
	}

	slog.Debug("GenerateCashflow start", slog.String("rqID", rqID), slog.String("op", op))

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Error("got error while closing file", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	sheetName := fmt.Sprintf("Cashflow %04d-%02d", year, int(month))
	_, err = f.NewSheet(sheetName)
	if err != nil {
		slog.Error("got error while creating NewSheet", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	err = f.MergeCell(sheetName, "A1", "G1")
	if err != nil {
		return nil, "", err
	}

	f.SetCellValue(sheetName, "A1", fmt.Sprintf("Cash flow and volume — %04d-%02d", year, int(month)))

	styleID, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Font: &excelize.Font{
			Bold: true,
			Size: 11,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{"#cfe2f3"},
		},
	})
	if err != nil {
		return nil, "", err
	}

	if err := f.SetCellStyle(sheetName, "A1", "A1", styleID); err != nil {
		return nil, "", fmt.Errorf("apply style: %w", err)
	}

	_ = f.SetCellStr(sheetName, "A2", "wallet")
	_ = f.SetCellStr(sheetName, "B2", "customer")
	_ = f.SetCellStr(sheetName, "C2", "deposits")
	_ = f.SetCellStr(sheetName, "D2", "withdrawals")
	_ = f.SetCellStr(sheetName, "E2", "buy volume")
	_ = f.SetCellStr(sheetName, "F2", "sell volume")
	_ = f.SetCellStr(sheetName, "G2", "net flow")

	for i, row := range rows {
		rowNum := i + 3
		_ = f.SetCellInt(sheetName, fmt.Sprintf("A%d", rowNum), int(row.WalletID))
		_ = f.SetCellStr(sheetName, fmt.Sprintf("B%d", rowNum), row.CustomerName)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("C%d", rowNum), row.Deposits.InexactFloat64())
		_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", rowNum), row.Withdrawals.InexactFloat64())
		_ = f.SetCellValue(sheetName, fmt.Sprintf("E%d", rowNum), row.BuyVolume.InexactFloat64())
		_ = f.SetCellValue(sheetName, fmt.Sprintf("F%d", rowNum), row.SellVolume.InexactFloat64())
		_ = f.SetCellValue(sheetName, fmt.Sprintf("G%d", rowNum), row.Deposits.Sub(row.Withdrawals).InexactFloat64())
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		slog.Error("got error while deleting Sheet1", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		slog.Error("got error while Saving file to bytes buffer", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	slog.Debug("GenerateCashflow completed", slog.String("rqID", rqID), slog.String("op", op))

	return buf.Bytes(), ".xlsx", nil
}
