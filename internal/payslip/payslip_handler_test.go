package payslip_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-payroll/internal/payslip"
	paysliperrors "go-payroll/internal/payslip/errors"
	payslipMock "go-payroll/internal/payslip/mock"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func newHandlerContext(method, path, body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func TestPayslipHandler_Generate(t *testing.T) {
	t.Run("success caches response and releases lock", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := payslipMock.NewMockService(ctrl)
		rdb, redisMock := redismock.NewClientMock()

		resp := []payslip.PayslipResponse{{ID: "p-1", Status: payslip.StatusPending, Month: 1, Year: 2026}}
		svc.EXPECT().Generate(gomock.Any(), 1, 2026).Return(resp, nil)

		payload, err := json.Marshal(resp)
		require.NoError(t, err)
		redisMock.ExpectSet("idemp:cache", payload, payslip.IdempotencyTTL).SetVal("OK")
		redisMock.ExpectDel("idemp:cache:lock").SetVal(1)

		c, w := newHandlerContext(http.MethodPost, "/payslips/generate", `{"month":1,"year":2026}`)
		c.Set("idempotency_cache_key", "idemp:cache")
		c.Set("idempotency_lock_key", "idemp:cache:lock")
		payslip.NewHandlerWithRedis(svc, rdb).Generate(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w)
		assert.True(t, env.Ok)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("validation error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := payslipMock.NewMockService(ctrl)

		c, w := newHandlerContext(http.MethodPost, "/payslips/generate", `{"month":13,"year":2026}`)
		payslip.NewHandler(svc).Generate(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_INPUT", decodeEnvelope(t, w).Error.Code)
	})

	t.Run("missing rate is a server error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := payslipMock.NewMockService(ctrl)
		svc.EXPECT().Generate(gomock.Any(), 1, 2026).Return(nil, paysliperrors.ErrMissingRate)

		c, w := newHandlerContext(http.MethodPost, "/payslips/generate", `{"month":1,"year":2026}`)
		payslip.NewHandler(svc).Generate(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "CONFIGURATION_ERROR", decodeEnvelope(t, w).Error.Code)
	})
}

func TestPayslipHandler_Approve(t *testing.T) {
	t.Run("uses email claim as approver", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := payslipMock.NewMockService(ctrl)
		svc.EXPECT().
			Approve(gomock.Any(), "p-1", "admin@acme.test").
			DoAndReturn(func(_ context.Context, id, approver string) (payslip.PayslipResponse, error) {
				return payslip.PayslipResponse{ID: id, Status: payslip.StatusPaid, ApprovedBy: &approver}, nil
			})

		c, w := newHandlerContext(http.MethodPost, "/payslips/p-1/approve", "")
		c.Params = gin.Params{{Key: "id", Value: "p-1"}}
		c.Set("email", "admin@acme.test")
		c.Set("user_id", "u-1")
		payslip.NewHandler(svc).Approve(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := payslipMock.NewMockService(ctrl)
		svc.EXPECT().Approve(gomock.Any(), "p-1", "u-1").Return(payslip.PayslipResponse{}, paysliperrors.ErrPayslipNotFound)

		c, w := newHandlerContext(http.MethodPost, "/payslips/p-1/approve", "")
		c.Params = gin.Params{{Key: "id", Value: "p-1"}}
		c.Set("user_id", "u-1")
		payslip.NewHandler(svc).Approve(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "NOT_FOUND", decodeEnvelope(t, w).Error.Code)
	})
}

func TestPayslipHandler_ApproveAll(t *testing.T) {
	t.Run("bad period path", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := payslipMock.NewMockService(ctrl)

		c, w := newHandlerContext(http.MethodPost, "/payslips/period/x/2026/approve", "")
		c.Params = gin.Params{{Key: "month", Value: "x"}, {Key: "year", Value: "2026"}}
		payslip.NewHandler(svc).ApproveAll(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := payslipMock.NewMockService(ctrl)
		svc.EXPECT().ApproveAll(gomock.Any(), 6, 2026, "admin@acme.test").Return([]payslip.PayslipResponse{{ID: "p-1"}, {ID: "p-2"}}, nil)

		c, w := newHandlerContext(http.MethodPost, "/payslips/period/6/2026/approve", "")
		c.Params = gin.Params{{Key: "month", Value: "6"}, {Key: "year", Value: "2026"}}
		c.Set("email", "admin@acme.test")
		payslip.NewHandler(svc).ApproveAll(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var data []payslip.PayslipResponse
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &data))
		assert.Len(t, data, 2)
	})
}

func TestPayslipHandler_GetMine(t *testing.T) {
	t.Run("requires employee claim", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := payslipMock.NewMockService(ctrl)

		c, w := newHandlerContext(http.MethodGet, "/payslips/me", "")
		payslip.NewHandler(svc).GetMine(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("lists own payslips", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := payslipMock.NewMockService(ctrl)
		svc.EXPECT().GetByEmployee(gomock.Any(), "e-1").Return([]payslip.PayslipResponse{{ID: "p-1"}}, nil)

		c, w := newHandlerContext(http.MethodGet, "/payslips/me", "")
		c.Set("employee_id", "e-1")
		payslip.NewHandler(svc).GetMine(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestPayslipHandler_DownloadPDF(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := payslipMock.NewMockService(ctrl)
	svc.EXPECT().RenderPDF(gomock.Any(), "p-1").Return([]byte("%PDF-1.3"), "payslip-EMP-000001-2026-01.pdf", nil)

	c, w := newHandlerContext(http.MethodGet, "/payslips/p-1/pdf", "")
	c.Params = gin.Params{{Key: "id", Value: "p-1"}}
	payslip.NewHandler(svc).DownloadPDF(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "payslip-EMP-000001-2026-01.pdf")
	assert.Equal(t, "%PDF-1.3", w.Body.String())
}
