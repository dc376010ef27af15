package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"erp-system/internal/entities"
	"erp-system/internal/services"
	"erp-system/pkg/types"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type capturingPOService struct {
	services.PurchaseOrderServiceInterface
	filter types.Filter
}

func (s *capturingPOService) GetPurchaseOrders(ctx context.Context, filter types.Filter) ([]entities.PurchaseOrder, uint64, error) {
	s.filter = filter
	return []entities.PurchaseOrder{}, 0, nil
}

func TestPurchaseOrderController_GetPurchaseOrdersSorting(t *testing.T) {
	cases := []struct {
		target string
		want   map[string]string
	}{
		{"/api/purchase-orders?sortBy=totalAmount&sortDir=asc", map[string]string{"totalAmount": "asc"}},
		{"/api/purchase-orders?page=2", map[string]string{"id": "desc"}},
		{"/api/purchase-orders?sortBy=supplierName", map[string]string{"supplierName": "desc"}},
	}
	for _, tc := range cases {
		t.Run(tc.target, func(t *testing.T) {
			svc := &capturingPOService{}
			ctrl := NewPurchaseOrderController(svc, zap.NewNop())

			rec := httptest.NewRecorder()
			c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, tc.target, nil), rec)
			require.NoError(t, ctrl.GetPurchaseOrders(c))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tc.want, svc.filter.Sort)
		})
	}
}
