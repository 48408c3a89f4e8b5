// Package export writes a user's ledger to an Excel workbook.
package export

import (
	"fmt"
	"io"

	"expense-manager/internal/models"
	"expense-manager/internal/report"

	"github.com/xuri/excelize/v2"
)

const (
	ExpensesSheet = "Expenses"
	SummarySheet  = "Summary"
)

// WriteXLSX writes expenses to w in the order given. A second sheet
// holds the per-category totals.
func WriteXLSX(w io.Writer, username string, expenses []models.Expense) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ExpensesSheet); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	timeStyle, err := f.NewStyle(&excelize.Style{NumFmt: 22})
	if err != nil {
		return fmt.Errorf("create time style: %w", err)
	}
	amountStyle, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return fmt.Errorf("create amount style: %w", err)
	}

	headers := []interface{}{"Time", "Amount", "Category", "Description"}
	if err := f.SetSheetRow(ExpensesSheet, "A1", &headers); err != nil {
		return err
	}
	if err := f.SetCellStyle(ExpensesSheet, "A1", "D1", headerStyle); err != nil {
		return err
	}

	rows := make([]report.Row, 0, len(expenses))
	for i, e := range expenses {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{e.Time, e.Amount, e.Category, e.Description}
		if err := f.SetSheetRow(ExpensesSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
		rows = append(rows, report.Row{Time: e.Time, Amount: e.Amount, Category: e.Category})
	}
	if n := len(expenses); n > 0 {
		last := n + 1
		if err := f.SetCellStyle(ExpensesSheet, "A2", fmt.Sprintf("A%d", last), timeStyle); err != nil {
			return err
		}
		if err := f.SetCellStyle(ExpensesSheet, "B2", fmt.Sprintf("B%d", last), amountStyle); err != nil {
			return err
		}
	}
	for col, width := range map[string]float64{"A": 20, "C": 16, "D": 40} {
		if err := f.SetColWidth(ExpensesSheet, col, col, width); err != nil {
			return fmt.Errorf("set width of column %s: %w", col, err)
		}
	}

	if err := writeSummary(f, username, report.CategoryTotals(report.NewTable(rows)), headerStyle); err != nil {
		return err
	}

	return f.Write(w)
}

func writeSummary(f *excelize.File, username string, totals report.Series, headerStyle int) error {
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return err
	}

	if err := f.SetCellValue(SummarySheet, "A1", "User"); err != nil {
		return err
	}
	if err := f.SetCellValue(SummarySheet, "B1", username); err != nil {
		return err
	}

	headers := []interface{}{"Category", "Total", "Share %"}
	if err := f.SetSheetRow(SummarySheet, "A3", &headers); err != nil {
		return err
	}
	if err := f.SetCellStyle(SummarySheet, "A3", "C3", headerStyle); err != nil {
		return err
	}

	shares := totals.Shares()
	for i, p := range totals.Points {
		row := []interface{}{p.Display, p.Value, fmt.Sprintf("%.1f", shares[i])}
		if err := f.SetSheetRow(SummarySheet, fmt.Sprintf("A%d", i+4), &row); err != nil {
			return err
		}
	}

	totalRow := len(totals.Points) + 4
	row := []interface{}{"Total", totals.Total()}
	return f.SetSheetRow(SummarySheet, fmt.Sprintf("A%d", totalRow), &row)
}
