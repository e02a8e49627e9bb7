package report

import (
	"bytes"
	"mime/multipart"
	"net/http"

	"PagRecon/api"
	"PagRecon/internal/config"
	"PagRecon/internal/ebu"
	"PagRecon/internal/pag"
	"PagRecon/internal/sessionstore"
	"PagRecon/internal/tabular"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

func openFormFile(r *http.Request, field string) (multipart.File, string, error) {
	file, header, err := r.FormFile(field)
	if err == http.ErrMissingFile {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", err
	}
	return file, header.Filename, nil
}

func readSnapshot(r *http.Request, field string) (*pag.OrderBook, bool, error) {
	file, name, err := openFormFile(r, field)
	if err != nil || file == nil {
		return nil, false, err
	}
	defer file.Close()
	raw, err := tabular.ReadRows(file, name)
	if err != nil {
		return nil, true, err
	}
	book, err := pag.NewOrderBook(tabular.NewTable(raw, 0))
	return book, true, err
}

// DeltaHandler compares two uploaded PAG snapshots and returns the
// Delta_Report / Cumulative / Revenue workbook. An optional EBU upload
// supplies unit prices.
func DeltaHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(config.MaxUploadBytes); err != nil {
		api.RespondWithError(w, http.StatusBadRequest, "Failed to parse multipart form")
		return
	}

	newBook, present, err := readSnapshot(r, "new_pag")
	if !present || err != nil {
		api.RespondWithError(w, http.StatusBadRequest, "new_pag is required and must be a readable PAG snapshot")
		return
	}
	oldBook, present, err := readSnapshot(r, "old_pag")
	if !present || err != nil {
		api.RespondWithError(w, http.StatusBadRequest, "old_pag is required and must be a readable PAG snapshot")
		return
	}

	prices := make(pag.PriceLookup)
	ebuFile, ebuName, err := openFormFile(r, "ebu_file")
	if err != nil {
		api.RespondWithError(w, http.StatusBadRequest, "ebu_file could not be read")
		return
	}
	if ebuFile != nil {
		defer ebuFile.Close()
		wb, err := tabular.OpenWorkbook(ebuFile, ebuName)
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		defer wb.Close()
		data, err := ebu.Parse(wb)
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, "EBU workbook could not be parsed")
			return
		}
		prices = data.Prices
	}

	respondWithDelta(w, newBook, oldBook, prices)
}

// DeltaSessionHandler compares the retained output of an earlier process
// call (by session id) against an uploaded old snapshot.
func DeltaSessionHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(config.MaxUploadBytes); err != nil {
		api.RespondWithError(w, http.StatusBadRequest, "Failed to parse multipart form")
		return
	}

	sessionID := r.FormValue("session_id")
	if sessionID == "" {
		api.RespondWithError(w, http.StatusBadRequest, "session_id is required")
		return
	}
	store := sessionstore.Global()
	if store == nil {
		api.RespondWithError(w, http.StatusInternalServerError, "Session store unavailable")
		return
	}
	artifacts, ok := store.Get(sessionID)
	if !ok {
		api.RespondWithError(w, http.StatusNotFound, "Session not found or expired")
		return
	}

	raw, err := tabular.ReadRows(bytes.NewReader(artifacts.UpdatedPAG), "updated_pag.xlsx")
	if err != nil {
		api.RespondWithError(w, http.StatusInternalServerError, "Retained snapshot could not be read")
		return
	}
	newBook, err := pag.NewOrderBook(tabular.NewTable(raw, 0))
	if err != nil {
		api.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	oldBook, present, err := readSnapshot(r, "old_pag")
	if !present || err != nil {
		api.RespondWithError(w, http.StatusBadRequest, "old_pag is required and must be a readable PAG snapshot")
		return
	}

	prices := make(pag.PriceLookup)
	if artifacts.EBU != nil {
		prices = artifacts.EBU.Prices
	}
	respondWithDelta(w, newBook, oldBook, prices)
}

func respondWithDelta(w http.ResponseWriter, newBook, oldBook *pag.OrderBook, prices pag.PriceLookup) {
	newQty, err := newBook.MonthlyOpenQty()
	if err != nil {
		api.RespondWithError(w, http.StatusBadRequest, "new snapshot: "+err.Error())
		return
	}
	oldQty, err := oldBook.MonthlyOpenQty()
	if err != nil {
		api.RespondWithError(w, http.StatusBadRequest, "old snapshot: "+err.Error())
		return
	}

	rep := BuildDelta(newQty, oldQty)
	out, err := BuildReportWorkbook(rep, prices)
	if err != nil {
		api.RespondWithError(w, http.StatusInternalServerError, "Failed to build report workbook")
		return
	}
	defer out.Close()
	api.SendWorkbook(w, out, "delta_report.xlsx")
}

func writeSheetRow(f *excelize.File, sheet string, rowNum int, vals []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &vals)
}

// BuildReportWorkbook writes the three pivot sheets.
func BuildReportWorkbook(rep *DeltaReport, prices pag.PriceLookup) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", "Delta_Report"); err != nil {
		f.Close()
		return nil, err
	}
	for _, name := range []string{"Cumulative", "Revenue"} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, err
		}
	}

	header := []interface{}{"Material", "Purchasing Document"}
	for _, m := range rep.Months {
		header = append(header, m)
	}
	for _, sheet := range []string{"Delta_Report", "Cumulative", "Revenue"} {
		if err := writeSheetRow(f, sheet, 1, header); err != nil {
			f.Close()
			return nil, err
		}
	}

	for i, row := range rep.Rows {
		deltas := make([]decimal.Decimal, len(rep.Months))
		for j, m := range rep.Months {
			deltas[j] = row.DeltaAt(m)
		}
		cells := map[string][]decimal.Decimal{
			"Delta_Report": deltas,
			"Cumulative":   rep.CumulativeRow(row),
			"Revenue":      rep.RevenueRow(row, prices),
		}
		for sheet, vals := range cells {
			out := []interface{}{row.Key.Material, row.Key.PurchasingDoc}
			for _, v := range vals {
				out = append(out, v.String())
			}
			if err := writeSheetRow(f, sheet, i+2, out); err != nil {
				f.Close()
				return nil, err
			}
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}
