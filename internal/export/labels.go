package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/StockCut/internal/model"
	"github.com/pkg/errors"
	qrcode "github.com/skip2/go-qrcode"
)

// LabelInfo holds the data encoded into each piece label's QR code.
type LabelInfo struct {
	Length     float64 `json:"length_mm"`
	RollIndex  int     `json:"roll"` // 1-based
	CutIndex   int     `json:"cut"`  // 1-based position on the roll
	Offset     float64 `json:"offset_mm"`
	StockLabel string  `json:"stock"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelPageWidth  = 215.9 // US Letter width in mm
	labelPageHeight = 279.4 // US Letter height in mm
	labelMarginTop  = 12.7  // mm
	labelMarginLeft = 4.8   // mm
	labelWidth      = 66.7  // mm per label
	labelHeight     = 25.4  // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// ExportLabels generates a PDF with one QR-coded label per cut piece, laid
// out on Avery 5160 sheets (3 columns x 10 rows on US Letter).
func ExportLabels(path string, result model.Result, stockLabel string) error {
	labels := CollectLabelInfos(result, stockLabel)
	if len(labels) == 0 {
		return errors.New("no cut pieces to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, label); err != nil {
			return errors.Wrapf(err, "failed to render label for roll %d cut %d", label.RollIndex, label.CutIndex)
		}
	}

	return pdf.OutputFileAndClose(path)
}

func renderLabel(pdf *fpdf.Fpdf, x, y float64, info LabelInfo) error {
	// Cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return errors.Wrap(err, "failed to marshal label info")
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return errors.Wrap(err, "failed to generate QR code")
	}

	imgName := fmt.Sprintf("qr_%d_%d", info.RollIndex, info.CutIndex)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)
	pdf.CellFormat(textW, 5, fmt.Sprintf("%g mm", info.Length), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+6)
	pdf.CellFormat(textW, 3.5, fmt.Sprintf("Roll %d, cut %d", info.RollIndex, info.CutIndex), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+10)
	pdf.CellFormat(textW, 3, fmt.Sprintf("@ %.1f mm", info.Offset), "", 1, "L", false, 0, "")

	if info.StockLabel != "" {
		stock := info.StockLabel
		if pdf.GetStringWidth(stock) > textW {
			for len(stock) > 0 && pdf.GetStringWidth(stock+"...") > textW {
				stock = stock[:len(stock)-1]
			}
			stock += "..."
		}
		pdf.SetXY(textX, y+labelPadding+13.5)
		pdf.CellFormat(textW, 3, stock, "", 0, "L", false, 0, "")
	}

	pdf.SetTextColor(0, 0, 0)
	return nil
}

// CollectLabelInfos lists one label per cut piece in plan order, with the
// offset of the piece from the start of its roll.
func CollectLabelInfos(result model.Result, stockLabel string) []LabelInfo {
	var labels []LabelInfo
	for r, roll := range result.Solutions {
		offset := 0.0
		for c, length := range roll.Cuts {
			labels = append(labels, LabelInfo{
				Length:     length,
				RollIndex:  r + 1,
				CutIndex:   c + 1,
				Offset:     offset,
				StockLabel: stockLabel,
			})
			offset += length
		}
	}
	return labels
}
