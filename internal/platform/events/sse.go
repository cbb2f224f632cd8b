package events

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SSEHandler streams changes for one table as server-sent events. The
// subscription lives exactly as long as the client connection.
func SSEHandler(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		table := c.Query("table")
		if table == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "table query parameter is required"})
			return
		}

		changes, unsubscribe := hub.Subscribe(table)
		defer unsubscribe()

		c.Writer.Header().Set("Content-Type", "text/event-stream")
		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Writer.Header().Set("Connection", "keep-alive")

		clientGone := c.Request.Context().Done()
		c.Stream(func(w io.Writer) bool {
			select {
			case <-clientGone:
				return false
			case change, ok := <-changes:
				if !ok {
					return false
				}
				payload, err := json.Marshal(change)
				if err != nil {
					return false
				}
				c.SSEvent("change", string(payload))
				return true
			}
		})
	}
}
