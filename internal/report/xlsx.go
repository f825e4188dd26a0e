package report

import (
	"bytes"

	"github.com/xuri/excelize/v2"

	"github.com/pulsefin/pulse/internal/reminders"
)

// Workbook собирает xlsx-выгрузку ближайших платежей.
func Workbook(payments []reminders.UpcomingPayment) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := []interface{}{
		"name",
		"type",
		"amount",
		"due_date",
		"days_until",
		"urgency",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}

	row := 2
	for _, p := range payments {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, err
		}
		excelRow := []interface{}{
			p.Name,
			string(p.Type),
			p.Amount,
			p.DueDate,
			p.DaysUntil,
			p.Urgency,
		}
		if err := f.SetSheetRow(sheet, cell, &excelRow); err != nil {
			return nil, err
		}
		row++
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, err
	}
	return buf, nil
}
