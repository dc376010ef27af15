package controllers

import (
	"net/http"

	"erp-system/pkg/utils"
	appwebsocket "erp-system/pkg/websocket"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// NewUpgrader пускает только с настроенных origin.
// Пустой список - любой origin.
func NewUpgrader(allowedOrigins []string) websocket.Upgrader {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || len(allowed) == 0 {
				return true
			}
			_, ok := allowed[origin]
			return ok
		},
	}
}

type WebSocketController struct {
	hub      *appwebsocket.Hub
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

func NewWebSocketController(hub *appwebsocket.Hub, upgrader websocket.Upgrader, logger *zap.Logger) *WebSocketController {
	return &WebSocketController{hub: hub, upgrader: upgrader, logger: logger}
}

// ServeWs работает за auth middleware, которое принимает ?token= для браузеров,
// не умеющих ставить заголовки при websocket handshake.
func (c *WebSocketController) ServeWs(ctx echo.Context) error {
	userID, err := utils.GetUserIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	conn, err := c.upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		c.logger.Warn("WebSocket: upgrade failed", zap.Uint64("userID", userID), zap.Error(err))
		return nil
	}

	client := appwebsocket.NewClient(c.hub, conn, userID)
	if !c.hub.Register(client) {
		c.logger.Warn("WebSocket: hub stopped, connection refused", zap.Uint64("userID", userID))
		_ = conn.Close()
		return nil
	}

	go client.WritePump()
	go client.ReadPump()

	c.logger.Info("WebSocket: client connected", zap.Uint64("userID", userID))
	return nil
}
