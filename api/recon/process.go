package recon

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"time"

	"PagRecon/api"
	"PagRecon/internal/config"
	"PagRecon/internal/ebu"
	"PagRecon/internal/pag"
	"PagRecon/internal/sessionstore"
	"PagRecon/internal/tabular"
)

// openFormFile returns the named upload, or nil when absent.
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

func readTable(r *http.Request, field string) (*tabular.Table, bool, error) {
	file, name, err := openFormFile(r, field)
	if err != nil {
		return nil, false, err
	}
	if file == nil {
		return nil, false, nil
	}
	defer file.Close()
	raw, err := tabular.ReadRows(file, name)
	if err != nil {
		return nil, true, err
	}
	return tabular.NewTable(raw, 0), true, nil
}

// ProcessHandler reconciles an uploaded PAG against the shipment log and,
// when supplied, the EBU workbook, and returns the updated workbook.
func ProcessHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(config.MaxUploadBytes); err != nil {
		api.RespondWithError(w, http.StatusBadRequest, "Failed to parse multipart form")
		return
	}

	pagTable, ok, err := readTable(r, "pag_file")
	if err != nil || !ok {
		api.RespondWithError(w, http.StatusBadRequest, "pag_file is required and must be a readable spreadsheet")
		return
	}
	book, err := pag.NewOrderBook(pagTable)
	if err != nil {
		api.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	shipTable, ok, err := readTable(r, "ship_file")
	if err != nil || !ok {
		api.RespondWithError(w, http.StatusBadRequest, "ship_file is required and must be a readable spreadsheet")
		return
	}
	shipLog, err := pag.ParseShipmentLog(shipTable)
	if err != nil {
		api.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Round 1: remove everything the shipment log says already went out.
	// Granularity follows the log: by part+PO when the log carries POs,
	// by part alone otherwise.
	shipTotals := shipLog.Totals(shipLog.HasPO)
	book.Downcount(shipTotals, shipLog.HasPO)

	// Round 2: EBU shipments newer than what the log reflects.
	var ebuData *ebu.Data
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
		ebuData, err = ebu.Parse(wb)
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, "EBU workbook could not be parsed")
			return
		}

		var fallbackCutoff time.Time
		if v := r.FormValue("cutoff_date"); v != "" {
			fallbackCutoff, err = time.Parse(config.CutoffDateLayout, v)
			if err != nil {
				api.RespondWithError(w, http.StatusBadRequest, "cutoff_date must be YYYY-MM-DD")
				return
			}
		}
		ebuTotals := ebuData.TotalsAfterCutoff(shipLog.LatestSlipDates(), fallbackCutoff)
		book.Downcount(ebuTotals, true)
	}

	normalizeDateColumns(book.Table)

	out, err := BuildResultWorkbook(book, shipTotals, ebuData)
	if err != nil {
		api.RespondWithError(w, http.StatusInternalServerError, "Failed to build result workbook")
		return
	}
	defer out.Close()

	if r.FormValue("retain") == "true" {
		store := sessionstore.Global()
		if store == nil {
			api.RespondWithError(w, http.StatusInternalServerError, "Session store unavailable")
			return
		}
		var buf bytes.Buffer
		if err := out.Write(&buf); err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, "Failed to retain result")
			return
		}
		id := store.Put(&sessionstore.Artifacts{UpdatedPAG: buf.Bytes(), EBU: ebuData})
		w.Header().Set("X-Recon-Session", id)
		api.LogInfo("retained recon artifacts under session %s", id)
	}

	api.SendWorkbook(w, out, "updated_pag.xlsx")
}
