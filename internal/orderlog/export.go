package orderlog

import (
	"io"
	"time"

	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/fekuna/omnipos-storefront-service/internal/notify"
	"github.com/tealeg/xlsx"
)

const (
	ExportSheetName   = "Commandes"
	ExportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var exportHeaders = []string{
	"Commande", "Date", "Nom Client", "Téléphone", "Adresse", "Ville", "Total (DH)", "Montant", "Produits",
}

// WriteXLSX writes orders as one spreadsheet row each, using the same columns as the order sheet.
func WriteXLSX(w io.Writer, orders []model.OrderDraft, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet(ExportSheetName)
	if err != nil {
		return err
	}

	header := sheet.AddRow()
	for _, h := range exportHeaders {
		header.AddCell().SetValue(h)
	}

	for _, o := range orders {
		rec := notify.NewSheetRecord(o, loc)
		row := sheet.AddRow()
		row.AddCell().SetValue(o.ID)
		row.AddCell().SetValue(rec.Date)
		row.AddCell().SetValue(rec.Customer)
		row.AddCell().SetValue(rec.Phone)
		row.AddCell().SetValue(rec.Address)
		row.AddCell().SetValue(rec.City)
		row.AddCell().SetValue(rec.Total)
		row.AddCell().SetValue(o.Total.StringFixed(2))
		row.AddCell().SetValue(rec.Products)
	}

	return file.Write(w)
}
