package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/yuhfolio/src/config"
	"github.com/username/yuhfolio/src/logger"
	"github.com/username/yuhfolio/src/models"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	config.Cfg = &config.AppConfig{MaxUploadSizeBytes: 10 * 1024 * 1024}
	os.Exit(m.Run())
}

// stubImportService returns canned results for ProcessImport.
type stubImportService struct {
	rows []models.Transaction
	err  error
}

func (s *stubImportService) ProcessImport(fileReader io.Reader, source string) ([]models.Transaction, error) {
	io.Copy(io.Discard, fileReader)
	return s.rows, s.err
}

func multipartUpload(t *testing.T, fieldName, filename, contentType, body string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="`+fieldName+`"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte(body))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return &buf, writer.FormDataContentType()
}

const csvBody = "DATE;ACTIVITY TYPE;ACTIVITY NAME;DEBIT;DEBIT CURRENCY;CREDIT;CREDIT CURRENCY;FEES/COMMISSION;BUY/SELL;QUANTITY;ASSET;PRICE PER UNIT\n" +
	"2024-01-02 10:00:00;INVEST_ORDER_EXECUTED;Buy;100;USD;;;0;BUY;2;PLTR;50\n"

func TestHandleImport_Success(t *testing.T) {
	stub := &stubImportService{rows: []models.Transaction{{Ticker: "PLTR", BuySell: "BUY"}}}
	handler := NewImportHandler(stub)

	buf, contentType := multipartUpload(t, "file", "export.csv", "text/csv", csvBody)
	req := httptest.NewRequest(http.MethodPost, "/api/import", buf)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.HandleImport(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Imported     int                  `json:"imported"`
		Transactions []models.Transaction `json:"transactions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Imported)
	require.Len(t, resp.Transactions, 1)
	assert.Equal(t, "PLTR", resp.Transactions[0].Ticker)
}

func TestHandleImport_MissingFileField(t *testing.T) {
	handler := NewImportHandler(&stubImportService{})

	buf, contentType := multipartUpload(t, "wrongfield", "export.csv", "text/csv", csvBody)
	req := httptest.NewRequest(http.MethodPost, "/api/import", buf)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.HandleImport(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleImport_RejectsNonCSVContentType(t *testing.T) {
	handler := NewImportHandler(&stubImportService{})

	buf, contentType := multipartUpload(t, "file", "export.pdf", "application/pdf", csvBody)
	req := httptest.NewRequest(http.MethodPost, "/api/import", buf)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.HandleImport(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleImport_RejectsBinaryContent(t *testing.T) {
	handler := NewImportHandler(&stubImportService{})

	buf, contentType := multipartUpload(t, "file", "export.csv", "text/csv", "PK\x03\x04\x00\x00binary")
	req := httptest.NewRequest(http.MethodPost, "/api/import", buf)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.HandleImport(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleImport_SchemaErrorIncludesColumnDetails(t *testing.T) {
	stub := &stubImportService{err: &models.SchemaError{
		MissingColumns: []string{"ASSET"},
		FoundColumns:   []string{"DATE"},
	}}
	handler := NewImportHandler(stub)

	buf, contentType := multipartUpload(t, "file", "export.csv", "text/csv", "DATE\n2024\n")
	req := httptest.NewRequest(http.MethodPost, "/api/import", buf)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.HandleImport(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Error   string `json:"error"`
		Details struct {
			MissingColumns []string `json:"missing_columns"`
			FoundColumns   []string `json:"found_columns"`
		} `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"ASSET"}, resp.Details.MissingColumns)
	assert.Equal(t, []string{"DATE"}, resp.Details.FoundColumns)
}
