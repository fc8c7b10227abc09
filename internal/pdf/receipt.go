// Package pdf renders the proof-of-delivery document attached to
// receipt notification emails.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────┐
//	│  LOGO                    Fecha de registro  │
//	│                                             │
//	│              Prueba de entrega              │
//	│                                             │
//	│  Serial / Nombre / Correo / Teléfono        │
//	│  Foto de evidencia                          │
//	│  Firma de recibido                          │
//	└─────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

var colorGray = &props.Color{Red: 100, Green: 100, Blue: 100}

// ImageAsset is an image already loaded from object storage.
type ImageAsset struct {
	Data []byte
	Ext  string
}

// ReceiptData carries everything the proof-of-delivery PDF shows.
type ReceiptData struct {
	SerialCode    string
	CompanyName   string
	ReceiverName  string
	ReceiverEmail string
	ReceiverPhone string
	DeliveredAt   time.Time

	Logo      *ImageAsset
	Photo     *ImageAsset
	Signature *ImageAsset
}

// ReceiptFilename returns the attachment filename for a serial.
func ReceiptFilename(serialCode string) string {
	return fmt.Sprintf("prueba_entrega_%s.pdf", serialCode)
}

// RenderReceipt builds the PDF and returns its bytes.
func RenderReceipt(data ReceiptData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).WithRightMargin(15).
		WithTopMargin(15).WithBottomMargin(15).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 10}).
		WithTitle("Prueba de entrega", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(data))
	m.AddRows(row.New(6))
	m.AddRows(row.New(10).Add(col.New(12).Add(text.New(
		"Prueba de entrega",
		props.Text{Style: fontstyle.Bold, Size: 16, Align: align.Center},
	))))
	m.AddRows(line.NewRow(2, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(detailRows(data)...)

	if data.Photo != nil {
		m.AddRows(evidenceRows("Foto de evidencia:", data.Photo, 90)...)
	}
	if data.Signature != nil {
		m.AddRows(evidenceRows("Firma de recibido:", data.Signature, 40)...)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate delivery receipt: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(data ReceiptData) core.Row {
	left := col.New(6)
	if data.Logo != nil {
		left.Add(image.NewFromBytes(data.Logo.Data, imageExtension(data.Logo.Ext), props.Rect{
			Left: 0, Top: 0, Percent: 80,
		}))
	} else if data.CompanyName != "" {
		left.Add(text.New(data.CompanyName, props.Text{Style: fontstyle.Bold, Size: 12, Top: 4}))
	}

	stamp := data.DeliveredAt
	if stamp.IsZero() {
		stamp = time.Now()
	}
	right := col.New(6).Add(text.New(
		stamp.Format("2006-01-02 15:04:05"),
		props.Text{Size: 9, Align: align.Right, Color: colorGray, Top: 2},
	))

	return row.New(20).Add(left, right)
}

func detailRows(data ReceiptData) []core.Row {
	pair := func(label, value string) core.Row {
		return row.New(7).Add(
			col.New(3).Add(text.New(label, props.Text{Style: fontstyle.Bold, Size: 10, Top: 1})),
			col.New(9).Add(text.New(value, props.Text{Size: 10, Top: 1})),
		)
	}

	rows := []core.Row{
		row.New(3),
		pair("Serial:", data.SerialCode),
		pair("Nombre:", data.ReceiverName),
	}
	if strings.TrimSpace(data.ReceiverEmail) != "" {
		rows = append(rows, pair("Correo:", data.ReceiverEmail))
	}
	if strings.TrimSpace(data.ReceiverPhone) != "" {
		rows = append(rows, pair("Teléfono:", data.ReceiverPhone))
	}
	rows = append(rows, row.New(4))
	return rows
}

func evidenceRows(label string, asset *ImageAsset, height float64) []core.Row {
	return []core.Row{
		row.New(7).Add(col.New(12).Add(text.New(
			label, props.Text{Style: fontstyle.Bold, Size: 10, Top: 1},
		))),
		row.New(height).Add(col.New(12).Add(image.NewFromBytes(
			asset.Data, imageExtension(asset.Ext), props.Rect{Center: true, Percent: 100},
		))),
		row.New(4),
	}
}

func imageExtension(ext string) extension.Type {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "jpg", "jpeg":
		return extension.Jpg
	default:
		return extension.Png
	}
}
