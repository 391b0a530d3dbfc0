package export

import (
	"fmt"

	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/xuri/excelize/v2"
)

const xlsxSheet = "Shopping list"

// RenderXLSX writes the title in A1, a header row and one row per item.
func RenderXLSX(title string, items []model.ShoppingListItem) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), xlsxSheet); err != nil {
		return nil, err
	}

	rows := [][]interface{}{
		{title},
		{"#", "Ingredient", "Amount", "Unit"},
	}
	for i, item := range items {
		rows = append(rows, []interface{}{i + 1, item.Name, item.Total, item.MeasurementUnit})
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(xlsxSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}
	if err := f.SetColWidth(xlsxSheet, "B", "B", 32); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
