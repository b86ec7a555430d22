package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"claim-system/internal/entities"
	"claim-system/internal/repositories/repotest"
	"claim-system/internal/services"
	"claim-system/pkg/filestorage"
	"claim-system/pkg/validation"
)

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

// RouterTestSuite гоняет HTTP-запросы через настоящий роутер echo поверх репозиториев в памяти.
type RouterTestSuite struct {
	suite.Suite
	Echo   *echo.Echo
	Orders *repotest.OrderRepo
	Logs   *repotest.LogRepo
}

func (suite *RouterTestSuite) SetupTest() {
	e := echo.New()
	e.Validator = validation.New()

	nopLogger := zap.NewNop()
	appLoggers := &Loggers{
		Main:       nopLogger,
		Order:      nopLogger,
		Import:     nopLogger,
		Attachment: nopLogger,
	}

	suite.Orders = repotest.NewOrderRepo()
	suite.Logs = &repotest.LogRepo{}

	images, err := filestorage.NewImageStorage(suite.T().TempDir())
	suite.Require().NoError(err)

	svc := &Services{
		Orders:      services.NewOrderService(repotest.TxManager{}, suite.Orders, suite.Logs, nil, nopLogger),
		Imports:     services.NewOrderImportService(suite.Orders, services.NewLocalImportLocker(), nil, nil, nopLogger),
		Attachments: services.NewAttachmentService(suite.Orders, images, filestorage.NewOpener(false, nopLogger), nopLogger),
		DB:          fakePinger{},
	}
	InitRouter(e, svc, appLoggers)
	suite.Echo = e

	suite.Orders.Seed(entities.Order{ID: 5, OrderNumber: "ORD5", Mall: "ShopA", Status: "Open"})
}

func (suite *RouterTestSuite) do(method, target string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	suite.Echo.ServeHTTP(rec, req)
	return rec
}

func (suite *RouterTestSuite) doMultipart(target string, fields map[string]string, fileField, fileName string, content []byte) *httptest.ResponseRecorder {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		suite.Require().NoError(writer.WriteField(k, v))
	}
	if fileField != "" {
		part, err := writer.CreateFormFile(fileField, fileName)
		suite.Require().NoError(err)
		_, err = part.Write(content)
		suite.Require().NoError(err)
	}
	suite.Require().NoError(writer.Close())

	req := httptest.NewRequest(http.MethodPost, target, body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	rec := httptest.NewRecorder()
	suite.Echo.ServeHTTP(rec, req)
	return rec
}

func (suite *RouterTestSuite) decode(rec *httptest.ResponseRecorder, target interface{}) {
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), target), rec.Body.String())
}

func (suite *RouterTestSuite) TestUpdateProgressWritesLog() {
	rec := suite.do(http.MethodPatch, "/api/orders/5/progress", `{"progress":"80%"}`)
	suite.Equal(http.StatusOK, rec.Code, rec.Body.String())

	var order map[string]interface{}
	suite.decode(rec, &order)
	suite.Equal("80%", order["progress"])
	suite.Equal("ORD5", order["orderNumber"])

	logs := suite.Logs.Entries()
	suite.Require().Len(logs, 1)
	suite.Equal(uint64(5), logs[0].OrderID.Uint64)
	suite.Equal("progress updated", logs[0].Action)
	suite.Equal("80%", logs[0].Value)

	rec = suite.do(http.MethodGet, "/api/orders/5/logs", "")
	suite.Equal(http.StatusOK, rec.Code)
	var entries []map[string]interface{}
	suite.decode(rec, &entries)
	suite.Require().Len(entries, 1)
	suite.Equal(float64(5), entries[0]["orderId"])
}

func (suite *RouterTestSuite) TestMemoOnMissingOrder() {
	rec := suite.do(http.MethodPatch, "/api/orders/999/memo", `{"memo":"x"}`)
	suite.Equal(http.StatusNotFound, rec.Code)

	var body map[string]interface{}
	suite.decode(rec, &body)
	suite.Equal(false, body["status"])
	suite.NotEmpty(body["message"])
	suite.Empty(suite.Logs.Entries())
}

func (suite *RouterTestSuite) TestFieldPatchValidation() {
	rec := suite.do(http.MethodPatch, "/api/orders/abc/memo", `{"memo":"x"}`)
	suite.Equal(http.StatusBadRequest, rec.Code)

	rec = suite.do(http.MethodPatch, "/api/orders/5/progress", `{}`)
	suite.Equal(http.StatusBadRequest, rec.Code)

	rec = suite.do(http.MethodPatch, "/api/orders/5/processing", `{"processing":`)
	suite.Equal(http.StatusBadRequest, rec.Code)

	suite.Empty(suite.Logs.Entries())
}

func (suite *RouterTestSuite) TestGameCodeStatusAndGenericPatch() {
	rec := suite.do(http.MethodPatch, "/api/orders/5/gameCodeStatus", `{"gameCodeStatus":"sent"}`)
	suite.Equal(http.StatusOK, rec.Code)

	rec = suite.do(http.MethodPatch, "/api/orders/5", `{"status":"Closed","memo":"done"}`)
	suite.Equal(http.StatusOK, rec.Code)

	var order map[string]interface{}
	suite.decode(rec, &order)
	suite.Equal("Closed", order["status"])
	suite.Equal("done", order["memo"])
	suite.Equal("sent", order["gameCodeStatus"])
	suite.Empty(suite.Logs.Entries())
}

func (suite *RouterTestSuite) TestCreateAndGetOrders() {
	valid := `{"mall":"ShopB","gameName":"G","productName":"P","gameCodeStatus":"","buyerName":"B","orderNumber":"NEW-1","status":"Open"}`

	rec := suite.do(http.MethodPost, "/api/orders", valid)
	suite.Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var created map[string]interface{}
	suite.decode(rec, &created)
	suite.Nil(created["memo"])

	rec = suite.do(http.MethodPost, "/api/orders", valid)
	suite.Equal(http.StatusConflict, rec.Code)

	rec = suite.do(http.MethodPost, "/api/orders", `{"mall":"ShopB","orderNumber":"NEW-2"}`)
	suite.Equal(http.StatusBadRequest, rec.Code)

	rec = suite.do(http.MethodPost, "/api/orders", strings.Replace(valid, "NEW-1", "@NEW-3", 1))
	suite.Equal(http.StatusBadRequest, rec.Code)

	rec = suite.do(http.MethodGet, "/api/orders", "")
	suite.Equal(http.StatusOK, rec.Code)
	var list []map[string]interface{}
	suite.decode(rec, &list)
	suite.Len(list, 2)

	rec = suite.do(http.MethodGet, "/api/orders/5", "")
	suite.Equal(http.StatusOK, rec.Code)
	rec = suite.do(http.MethodGet, "/api/orders/404", "")
	suite.Equal(http.StatusNotFound, rec.Code)
}

func workbook(suite *RouterTestSuite, orderNumbers ...string) []byte {
	f := excelize.NewFile()
	defer f.Close()
	suite.Require().NoError(f.SetCellValue("Sheet1", "F1", "Заказы"))
	suite.Require().NoError(f.SetCellValue("Sheet1", "F2", "Номер"))
	for i, n := range orderNumbers {
		cell, err := excelize.CoordinatesToCellName(6, i+3)
		suite.Require().NoError(err)
		suite.Require().NoError(f.SetCellValue("Sheet1", cell, n))
		cell, err = excelize.CoordinatesToCellName(1, i+3)
		suite.Require().NoError(err)
		suite.Require().NoError(f.SetCellValue("Sheet1", cell, "ShopX"))
	}
	buf, err := f.WriteToBuffer()
	suite.Require().NoError(err)
	return buf.Bytes()
}

func (suite *RouterTestSuite) TestUploadExcel() {
	data := workbook(suite, "@ORD5", "ORD6", "ORD7")

	rec := suite.doMultipart("/api/upload-excel", nil, "file", "orders.xlsx", data)
	suite.Equal(http.StatusOK, rec.Code, rec.Body.String())

	var result struct {
		Message      string                   `json:"message"`
		BatchID      string                   `json:"batchId"`
		CreatedCount int                      `json:"createdCount"`
		SkippedCount int                      `json:"skippedCount"`
		Orders       []map[string]interface{} `json:"orders"`
		Skipped      []string                 `json:"skipped"`
	}
	suite.decode(rec, &result)
	suite.NotEmpty(result.Message)
	suite.NotEmpty(result.BatchID)
	suite.Equal(2, result.CreatedCount)
	suite.Equal([]string{"ORD5"}, result.Skipped)
	suite.Equal("ORD6", result.Orders[0]["orderNumber"])

	rec = suite.doMultipart("/api/upload-excel", nil, "file", "orders.xlsx", data)
	suite.Equal(http.StatusOK, rec.Code)
	suite.decode(rec, &result)
	suite.Equal(0, result.CreatedCount)
	suite.Equal([]string{"ORD5", "ORD6", "ORD7"}, result.Skipped)
}

func (suite *RouterTestSuite) TestUploadExcelErrors() {
	rec := suite.doMultipart("/api/upload-excel", map[string]string{"x": "y"}, "", "", nil)
	suite.Equal(http.StatusBadRequest, rec.Code)

	rec = suite.doMultipart("/api/upload-excel", nil, "file", "orders.xlsx", []byte("не таблица"))
	suite.Equal(http.StatusInternalServerError, rec.Code)
	var body map[string]interface{}
	suite.decode(rec, &body)
	suite.Equal(false, body["status"])
}

var jpegBytes = []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}

func (suite *RouterTestSuite) TestImages() {
	rec := suite.doMultipart("/api/save-image", map[string]string{"orderNumber": "ORD5"}, "image", "paste.jpg", jpegBytes)
	suite.Equal(http.StatusOK, rec.Code, rec.Body.String())
	var saved map[string]string
	suite.decode(rec, &saved)
	suite.Equal("01.jpg", saved["filename"])
	suite.NotEmpty(saved["path"])

	rec = suite.doMultipart("/api/save-image", map[string]string{"orderNumber": "ORD5"}, "image", "paste.jpg", jpegBytes)
	suite.decode(rec, &saved)
	suite.Equal("02.jpg", saved["filename"])

	rec = suite.do(http.MethodGet, "/api/images/ORD5", "")
	suite.Equal(http.StatusOK, rec.Code)
	var names []string
	suite.decode(rec, &names)
	suite.Equal([]string{"01.jpg", "02.jpg"}, names)

	rec = suite.do(http.MethodGet, "/api/image-file/ORD5/01.jpg", "")
	suite.Equal(http.StatusOK, rec.Code)
	suite.Equal("image/jpeg", rec.Header().Get(echo.HeaderContentType))
	suite.Equal(jpegBytes, rec.Body.Bytes())

	rec = suite.do(http.MethodGet, "/api/image-file/ORD5/07.jpg", "")
	suite.Equal(http.StatusNotFound, rec.Code)
	rec = suite.do(http.MethodGet, "/api/image-file/ORD5/passwd", "")
	suite.Equal(http.StatusBadRequest, rec.Code)

	rec = suite.do(http.MethodPost, "/api/open-folder/ORD5", "")
	suite.Equal(http.StatusOK, rec.Code)
	rec = suite.do(http.MethodPost, "/api/open-image/ORD5/01.jpg", "")
	suite.Equal(http.StatusOK, rec.Code)

	rec = suite.do(http.MethodGet, "/api/folder-path/ORD5", "")
	suite.Equal(http.StatusOK, rec.Code)
	var folder map[string]string
	suite.decode(rec, &folder)
	suite.True(strings.HasSuffix(folder["path"], "5"))
}

func (suite *RouterTestSuite) TestImagesUnknownOrderAndBadFile() {
	rec := suite.doMultipart("/api/save-image", map[string]string{"orderNumber": "NOPE"}, "image", "a.jpg", jpegBytes)
	suite.Equal(http.StatusNotFound, rec.Code)

	rec = suite.doMultipart("/api/save-image", map[string]string{"orderNumber": "ORD5"}, "image", "a.txt", []byte("plain text"))
	suite.Equal(http.StatusBadRequest, rec.Code)

	rec = suite.doMultipart("/api/save-image", nil, "image", "a.jpg", jpegBytes)
	suite.Equal(http.StatusBadRequest, rec.Code)

	rec = suite.do(http.MethodGet, "/api/images/NOPE", "")
	suite.Equal(http.StatusNotFound, rec.Code)
}

func (suite *RouterTestSuite) TestHealthz() {
	rec := suite.do(http.MethodGet, "/healthz", "")
	suite.Equal(http.StatusOK, rec.Code)
}

func TestRouterTestSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}

func TestHealthzDatabaseDown(t *testing.T) {
	e := echo.New()
	runHealthRouter(e, fakePinger{err: errors.New("connection refused")}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("ожидался 503, получено %d", rec.Code)
	}
}
