package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"voting-api/internal/api/interfaces"
	"voting-api/internal/api/models"
	"voting-api/internal/realtime"
	"voting-api/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// LiveTally upgrades to a websocket that receives the current tally on
// connect and a fresh one after every change
func LiveTally(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.FromContext(c, services.GetLogger())
		if !services.GetConfig().Realtime.Enabled {
			respondAPIError(c, models.NewAPIError(models.ErrCodeServiceUnavailable,
				"Live tally is disabled", http.StatusServiceUnavailable))
			return
		}

		tally, err := services.Voting().Tally(c.Request.Context())
		if err != nil {
			respondError(c, services, "live_tally", err)
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Warning("WebSocket upgrade failed", "error", err)
			return
		}

		initial := realtime.NewMessage(realtime.TypeTally, models.ToTally(tally))
		if err := services.Hub().Serve(conn, initial); err != nil {
			log.Warning("WebSocket client rejected", "error", err)
		}
	}
}
