package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type WSController struct {
	*Srv
	upgrader websocket.Upgrader
}

func NewWSController(s *Srv) *WSController {
	return &WSController{
		Srv: s,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origin == s.Cfg.WebOrigin
			},
		},
	}
}

// GET /ws — registers the connection under the session user; events are
// pushed by the request/approval handlers.
func (wc *WSController) Serve(c *gin.Context) {
	userID := currentUserID(c)
	v, _ := c.Get("role")
	role, _ := v.(string)

	conn, err := wc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the handshake error
		return
	}
	cl := wc.Hub.Register(userID, role, conn)
	wc.Log.Debug().Str("userID", userID).Msg("ws connected")

	// read pump: clients never send anything meaningful, we only watch
	// for close
	go func() {
		defer wc.Hub.Unregister(userID, cl)
		conn.SetReadLimit(512)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
