package websocket

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"papertrader-backend/internal/usecase"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // allow all origins for now
	},
}

// Handler streams the live paper trader's portfolio state to clients.
type Handler struct {
	service *usecase.PaperTraderService
}

func NewHandler(service *usecase.PaperTraderService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println(err)
		return
	}
	defer conn.Close()

	log.Println("New portfolio stream client connected")

	// Read pump: clients never send data, but reading is what surfaces a
	// close frame or dropped peer right away instead of on the next write.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	// Send current state immediately, then on every poll.
	if err := conn.WriteJSON(h.service.State()); err != nil {
		log.Println("Write error:", err)
		return
	}

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			log.Println("Portfolio stream client disconnected")
			return
		case <-ticker.C:
			if err := conn.WriteJSON(h.service.State()); err != nil {
				log.Println("Write error:", err)
				return
			}
		}
	}
}
