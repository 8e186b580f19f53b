package deduction_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-payroll/internal/deduction"
	deductionerrors "go-payroll/internal/deduction/errors"
	deductionMock "go-payroll/internal/deduction/mock"

	"github.com/gin-gonic/gin"
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

func TestDeductionHandler_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := deductionMock.NewMockService(ctrl)
		svc.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req deduction.CreateDeductionRequest) (deduction.DeductionResponse, error) {
				assert.Equal(t, "Housing", req.Name)
				assert.Equal(t, "14.5", req.Percentage.String())
				return deduction.DeductionResponse{ID: "d-1", Code: "DED-000001", Name: req.Name, Percentage: "14.50"}, nil
			})

		c, w := newHandlerContext(http.MethodPost, "/deductions", `{"name":"Housing","percentage":14.5}`)
		deduction.NewHandler(svc).Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w)
		assert.True(t, env.Ok)

		var resp deduction.DeductionResponse
		require.NoError(t, json.Unmarshal(env.Data, &resp))
		assert.Equal(t, "DED-000001", resp.Code)
	})

	t.Run("missing name - validation error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := deductionMock.NewMockService(ctrl)

		c, w := newHandlerContext(http.MethodPost, "/deductions", `{"percentage":5}`)
		deduction.NewHandler(svc).Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w)
		assert.False(t, env.Ok)
		assert.Equal(t, "INVALID_INPUT", env.Error.Code)
	})

	t.Run("service conflict", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := deductionMock.NewMockService(ctrl)
		svc.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			Return(deduction.DeductionResponse{}, deductionerrors.ErrDeductionCodeExists)

		c, w := newHandlerContext(http.MethodPost, "/deductions", `{"code":"PENSION","name":"Pension","percentage":6}`)
		deduction.NewHandler(svc).Create(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "CONFLICT", decodeEnvelope(t, w).Error.Code)
	})
}

func TestDeductionHandler_GetByID_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := deductionMock.NewMockService(ctrl)
	svc.EXPECT().
		GetByID(gomock.Any(), "missing").
		Return(deduction.DeductionResponse{}, deductionerrors.ErrDeductionNotFound)

	c, w := newHandlerContext(http.MethodGet, "/deductions/missing", "")
	c.Params = gin.Params{{Key: "id", Value: "missing"}}
	deduction.NewHandler(svc).GetByID(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decodeEnvelope(t, w).Error.Code)
}

func TestDeductionHandler_SeedDefaults(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := deductionMock.NewMockService(ctrl)
	svc.EXPECT().SeedDefaults(gomock.Any()).Return(6, nil)

	c, w := newHandlerContext(http.MethodPost, "/deductions/seed", "")
	deduction.NewHandler(svc).SeedDefaults(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"inserted":6}`, string(decodeEnvelope(t, w).Data))
}
