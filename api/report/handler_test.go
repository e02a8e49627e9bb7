package report

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"PagRecon/api/recon"
	"PagRecon/internal/sessionstore"

	"github.com/xuri/excelize/v2"
)

func snapshotBytes(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	all := [][]interface{}{
		{"Material", "Purchasing Document", "Qty remaining to deliver", "Stat-Rel Delivery Date"},
	}
	all = append(all, rows...)
	for i, row := range all {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("SetSheetRow failed: %v", err)
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("workbook write failed: %v", err)
	}
	return buf.Bytes()
}

func multipartRequest(t *testing.T, target string, fields map[string]string, files map[string][]byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for field, content := range files {
		name := field + ".xlsx"
		if field == "ship_file" {
			name = field + ".csv"
		}
		fw, err := mw.CreateFormFile(field, name)
		if err != nil {
			t.Fatalf("CreateFormFile failed: %v", err)
		}
		fw.Write(content)
	}
	for k, v := range fields {
		mw.WriteField(k, v)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestDeltaHandlerProducesThreeSheets(t *testing.T) {
	newSnap := snapshotBytes(t, [][]interface{}{
		{"P1", "PO1", "100", "2025-01-15"},
	})
	oldSnap := snapshotBytes(t, [][]interface{}{
		{"P1", "PO1", "80", "2025-01-20"},
	})

	req := multipartRequest(t, "/report/delta", nil, map[string][]byte{
		"new_pag": newSnap,
		"old_pag": oldSnap,
	})
	rec := httptest.NewRecorder()
	DeltaHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("response is not a workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Delta_Report")
	if err != nil {
		t.Fatalf("Delta_Report missing: %v", err)
	}
	if rows[0][2] != "2025-01" {
		t.Fatalf("month header = %q", rows[0][2])
	}
	if rows[1][2] != "20" {
		t.Fatalf("delta = %q, want 20", rows[1][2])
	}

	cum, err := f.GetRows("Cumulative")
	if err != nil {
		t.Fatalf("Cumulative missing: %v", err)
	}
	if cum[1][2] != "20" {
		t.Fatalf("cumulative = %q, want 20", cum[1][2])
	}

	rev, err := f.GetRows("Revenue")
	if err != nil {
		t.Fatalf("Revenue missing: %v", err)
	}
	// no price source given, revenue falls back to zero
	if rev[1][2] != "0" {
		t.Fatalf("revenue = %q, want 0", rev[1][2])
	}
}

func TestDeltaHandlerRejectsSnapshotWithoutStatRelColumn(t *testing.T) {
	f := excelize.NewFile()
	row := []interface{}{"Material", "Purchasing Document", "Qty remaining to deliver"}
	f.SetSheetRow("Sheet1", "A1", &row)
	var buf bytes.Buffer
	f.Write(&buf)
	f.Close()

	req := multipartRequest(t, "/report/delta", nil, map[string][]byte{
		"new_pag": buf.Bytes(),
		"old_pag": snapshotBytes(t, nil),
	})
	rec := httptest.NewRecorder()
	DeltaHandler(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestDeltaSessionFlow(t *testing.T) {
	sessionstore.SetGlobal(sessionstore.NewStore(nil))

	// process with retain=true leaves the reconciled snapshot behind
	procReq := multipartRequest(t, "/recon/process",
		map[string]string{"retain": "true"},
		map[string][]byte{
			"pag_file": snapshotBytes(t, [][]interface{}{
				{"P1", "PO1", "10", "2025-01-15"},
			}),
			"ship_file": []byte("(a)P/N&S/N,Total général\nP1,4\n"),
		})
	procRec := httptest.NewRecorder()
	recon.ProcessHandler(procRec, procReq)
	if procRec.Code != http.StatusOK {
		t.Fatalf("process status = %d, body = %s", procRec.Code, procRec.Body.String())
	}
	sessionID := procRec.Header().Get("X-Recon-Session")
	if sessionID == "" {
		t.Fatal("X-Recon-Session header missing")
	}

	// delta against an older snapshot, new side pulled from the session
	deltaReq := multipartRequest(t, "/report/delta/session",
		map[string]string{"session_id": sessionID},
		map[string][]byte{
			"old_pag": snapshotBytes(t, [][]interface{}{
				{"P1", "PO1", "10", "2025-01-15"},
			}),
		})
	deltaRec := httptest.NewRecorder()
	DeltaSessionHandler(deltaRec, deltaReq)
	if deltaRec.Code != http.StatusOK {
		t.Fatalf("delta status = %d, body = %s", deltaRec.Code, deltaRec.Body.String())
	}

	f, err := excelize.OpenReader(bytes.NewReader(deltaRec.Body.Bytes()))
	if err != nil {
		t.Fatalf("response is not a workbook: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows("Delta_Report")
	if err != nil {
		t.Fatalf("Delta_Report missing: %v", err)
	}
	// reconciled 10−4=6 against the old 10 → delta −4
	if rows[1][2] != "-4" {
		t.Fatalf("delta = %q, want -4", rows[1][2])
	}
}

func TestDeltaSessionUnknownID(t *testing.T) {
	sessionstore.SetGlobal(sessionstore.NewStore(nil))
	req := multipartRequest(t, "/report/delta/session",
		map[string]string{"session_id": "missing"},
		map[string][]byte{"old_pag": snapshotBytes(t, nil)})
	rec := httptest.NewRecorder()
	DeltaSessionHandler(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
