package feed

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSHandler upgrades the request and keeps the client registered until
// it disconnects. Incoming messages are ignored.
func WSHandler(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Ctx(c.Request.Context()).Warn().Err(err).Msg("feed: upgrade failed")
			return
		}

		// Welcome goes out before registration so it never interleaves
		// with a broadcast write on the same connection.
		_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
		_ = ws.WriteJSON(Event{Type: TypeWelcome, Clients: hub.Stats().Clients + 1, At: time.Now().UTC()})

		hub.Add(ws)
		log.Ctx(c.Request.Context()).Info().Msg("feed: client connected")

		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				break
			}
		}

		hub.Remove(ws)
		log.Ctx(c.Request.Context()).Info().Msg("feed: client disconnected")
	}
}
