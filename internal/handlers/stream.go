package handlers

import (
	"bufio"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/trentd187/hockey-gamesheet/internal/gamesheet"
	"github.com/trentd187/hockey-gamesheet/internal/live"
	"github.com/trentd187/hockey-gamesheet/internal/middleware"
)

// heartbeatInterval keeps idle streams alive through proxies and lets the
// server notice clients that went away.
const heartbeatInterval = 15 * time.Second

// StreamSheet returns a handler for GET /api/v1/sheets/:gameId/stream.
//
// The response is a server-sent event stream. The first event carries the full
// sheet; after that every change is pushed as it happens (see live.Event).
func StreamSheet(hub *live.Hub) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s := middleware.Sheet(c)
		initial, err := live.Encode(s, gamesheet.Change{GameID: s.GameID(), Kind: gamesheet.ChangeState})
		if err != nil {
			return respondError(c, err)
		}

		c.Set(fiber.HeaderContentType, "text/event-stream")
		c.Set(fiber.HeaderCacheControl, "no-cache")
		c.Set(fiber.HeaderConnection, "keep-alive")

		client := live.NewClient(s.GameID())
		hub.Register(client)

		c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
			defer hub.Unregister(client)

			if err := writeEvent(w, initial); err != nil {
				return
			}
			heartbeat := time.NewTicker(heartbeatInterval)
			defer heartbeat.Stop()

			for {
				select {
				case data, ok := <-client.Send:
					if !ok {
						return
					}
					if err := writeEvent(w, data); err != nil {
						return
					}
				case <-heartbeat.C:
					if _, err := w.WriteString(": ping\n\n"); err != nil {
						return
					}
					if err := w.Flush(); err != nil {
						return
					}
				}
			}
		})
		return nil
	}
}

func writeEvent(w *bufio.Writer, data []byte) error {
	if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
		return err
	}
	return w.Flush()
}
