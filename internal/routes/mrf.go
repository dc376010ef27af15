package routes

import (
	"erp-system/internal/authz"
	"erp-system/internal/controllers"
	"erp-system/pkg/middleware"

	"github.com/labstack/echo/v4"
)

func runMRFRouter(secure *echo.Group, ctrl *controllers.MRFController, authMW *middleware.AuthMiddleware) {
	mrf := secure.Group("/mrf")

	mrf.GET("", ctrl.GetAll, authMW.AuthorizeAny(authz.MRFView))
	mrf.GET("/my", ctrl.GetMine, authMW.AuthorizeAny(authz.MRFView))
	mrf.GET("/number/:mrfNumber", ctrl.GetByNumber, authMW.AuthorizeAny(authz.MRFView))
	mrf.GET("/:id", ctrl.GetByID, authMW.AuthorizeAny(authz.MRFView))

	mrf.POST("", ctrl.Create, authMW.AuthorizeAny(authz.MRFCreate))
	mrf.PUT("/:id", ctrl.Update, authMW.AuthorizeAny(authz.MRFUpdate))
	mrf.DELETE("/:id", ctrl.Delete, authMW.AuthorizeAny(authz.MRFDelete))

	mrf.GET("/pending", ctrl.GetPending, authMW.AuthorizeAny(authz.MRFApprove))
	mrf.GET("/pending/admin", ctrl.GetPendingAdmin, authMW.AuthorizeAny(authz.MRFApprove))
	mrf.GET("/pending/superadmin", ctrl.GetPendingSuperadmin, authMW.AuthorizeAny(authz.MRFApprove))
	mrf.POST("/:id/approve", ctrl.Approve, authMW.AuthorizeAny(authz.MRFApprove))
	mrf.POST("/:id/reject", ctrl.Reject, authMW.AuthorizeAny(authz.MRFApprove))
}
