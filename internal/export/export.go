// Package export renders an aggregated shopping list as a downloadable
// document.
package export

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ikkim/foodgram-backend/internal/app/model"
)

type Format string

const (
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

const DefaultTitle = "Shopping list"

var ErrUnknownFormat = errors.New("unknown document format")

// Document is a rendered file ready to be sent as an attachment.
type Document struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ParseFormat maps a query value to a Format. Empty means PDF.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatPDF:
		return FormatPDF, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Line formats the i-th (1-based) entry as printed in the document.
func Line(i int, item model.ShoppingListItem) string {
	return fmt.Sprintf("%d.  %s - %d, %s", i, item.Name, item.Total, item.MeasurementUnit)
}

func Render(format Format, title string, items []model.ShoppingListItem) (*Document, error) {
	switch format {
	case FormatPDF:
		body, err := RenderPDF(title, items)
		if err != nil {
			return nil, err
		}
		return &Document{
			Filename:    "shopping_list.pdf",
			ContentType: "application/pdf",
			Body:        body,
		}, nil
	case FormatXLSX:
		body, err := RenderXLSX(title, items)
		if err != nil {
			return nil, err
		}
		return &Document{
			Filename:    "shopping_list.xlsx",
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Body:        body,
		}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}
