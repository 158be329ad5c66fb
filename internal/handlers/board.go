package handlers

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/shiftdesk-dev/shiftdesk/internal/utils"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// Board pushes refresh events to schedule-board clients watching a
// department. Connections register per department; a schedule submission
// broadcasts a refresh to everyone watching that department.
type Board struct {
	departmentClients map[string]map[*websocket.Conn]bool
	mu                sync.RWMutex
	allowedOrigins    []string
}

func NewBoard(allowedOrigins []string) *Board {
	return &Board{
		departmentClients: make(map[string]map[*websocket.Conn]bool),
		allowedOrigins:    allowedOrigins,
	}
}

func (b *Board) BroadcastRefresh(department string) {
	b.mu.RLock()
	clients, exists := b.departmentClients[department]
	if !exists || len(clients) == 0 {
		b.mu.RUnlock()
		return
	}

	// Copy so the lock is not held while writing to sockets.
	clientsCopy := make([]*websocket.Conn, 0, len(clients))
	for conn := range clients {
		clientsCopy = append(clientsCopy, conn)
	}
	b.mu.RUnlock()

	for _, conn := range clientsCopy {
		if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			log.Printf("Failed to set write deadline for broadcast: %v", err)
			continue
		}

		err := conn.WriteJSON(map[string]string{
			"type":       "refresh",
			"message":    "Schedule board updated",
			"department": department,
		})

		if err != nil {
			log.Printf("Failed to broadcast refresh to client: %v", err)
			b.remove(department, conn)
			conn.Close()
		}
	}
}

func (b *Board) remove(department string, conn *websocket.Conn) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if clients, exists := b.departmentClients[department]; exists {
		delete(clients, conn)
		if len(clients) == 0 {
			delete(b.departmentClients, department)
		}
	}
}

func (b *Board) Serve(ctx *gin.Context) {
	department := ctx.Param("department")

	if department == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Department is required"})
		return
	}

	sessionUser, err := utils.GetSessionUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "User not authenticated"})
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			for _, allowed := range b.allowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("Failed to set initial read deadline: %v", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("Failed to set read deadline in pong handler: %v", err)
		}
		return nil
	})

	b.mu.Lock()
	if b.departmentClients[department] == nil {
		b.departmentClients[department] = make(map[*websocket.Conn]bool)
	}
	b.departmentClients[department][conn] = true
	b.mu.Unlock()

	defer func() {
		b.remove(department, conn)
		conn.Close()
		log.Printf("Board connection closed for %s on department %s", sessionUser.Username, department)
	}()

	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		log.Printf("Failed to set write deadline for welcome message: %v", err)
		return
	}

	err = conn.WriteJSON(map[string]string{
		"type":       "connected",
		"message":    "Schedule board connection established",
		"department": department,
	})

	if err != nil {
		log.Printf("Failed to send welcome message: %v", err)
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	go func() {
		for range ticker.C {
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Printf("Failed to set write deadline for department %s: %v", department, err)
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("Ping failed for department %s: %v", department, err)
				return
			}
		}
	}()

	for {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("Failed to set read deadline for department %s: %v", department, err)
			break
		}

		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Board connection error for department %s: %v", department, err)
			}
			break
		}
	}
}
