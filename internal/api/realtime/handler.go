package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/m04kA/MediTime-BookingService/internal/api/handlers"
	"github.com/m04kA/MediTime-BookingService/internal/domain"
	"github.com/m04kA/MediTime-BookingService/internal/infra/changefeed"
	practiceRepo "github.com/m04kA/MediTime-BookingService/internal/infra/storage/practice"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096

	// время на доставку session_ended перед закрытием
	sessionEndGrace = 500 * time.Millisecond
)

const (
	msgUnauthorized   = "Ihre Sitzung ist abgelaufen. Bitte melden Sie sich erneut an"
	msgInvalidMessage = "Ungültige Nachricht"
	msgUnknownTopic   = "Unbekanntes Thema"
	msgForbiddenTopic = "Kein Zugriff auf dieses Thema"
	msgInvalidDate    = "Ungültiges Datum, erwartet JJJJ-MM-TT"
	msgPracticeNeeded = "Bitte wählen Sie eine Praxis"
	msgSessionEnded   = "Sie wurden abgemeldet"
	msgTopicCheckFail = "Zugriff konnte nicht geprüft werden"
)

// Handler GET /api/v1/ws
type Handler struct {
	hub       *Hub
	auth      Authenticator
	practices PracticeRepository
	slots     SlotsUseCase
	feed      Feed
	logger    Logger
	upgrader  websocket.Upgrader
}

// NewHandler создает WebSocket handler. Пустой allowedOrigins разрешает любой Origin.
func NewHandler(
	hub *Hub,
	auth Authenticator,
	practices PracticeRepository,
	slots SlotsUseCase,
	feed Feed,
	allowedOrigins []string,
	logger Logger,
) *Handler {
	return &Handler{
		hub:       hub,
		auth:      auth,
		practices: practices,
		slots:     slots,
		feed:      feed,
		logger:    logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		set[strings.TrimRight(o, "/")] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

// Handle апгрейдит соединение. Токен (необязательный) в access_token или Authorization: Bearer.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var principal *domain.Principal
	if token := tokenFromRequest(r); token != "" {
		p, err := h.auth.Authenticate(r.Context(), token)
		if err != nil {
			h.logger.Warn("GET /ws - Authentication failed: %v", err)
			handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
			return
		}
		principal = p
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("GET /ws - Upgrade failed: %v", err)
		return
	}

	client := NewClient(uuid.NewString(), principal, ws)
	h.hub.Register(client)

	// соединение живет дольше запроса
	ctx, cancel := context.WithCancel(context.Background())

	stopObserve := func() {}
	if principal != nil {
		stopObserve = h.auth.ObserveSession(principal.UserID, func(change, sessionID string) {
			if change != changefeed.SessionSignedOut || sessionID != principal.SessionID {
				return
			}
			h.logger.Info("GET /ws - Session ended, closing client=%s user=%d", client.ID, principal.UserID)
			h.hub.SendTo(client, errorMessageWithType(TypeSessionEnded, "session_ended", msgSessionEnded))
			time.AfterFunc(sessionEndGrace, client.Close)
		})
	}

	h.logger.Info("GET /ws - Client connected: client=%s, authenticated=%t", client.ID, principal != nil)

	go h.writePump(client, ws)
	go h.readPump(ctx, client, ws, func() {
		cancel()
		stopObserve()
	})
}

func tokenFromRequest(r *http.Request) string {
	if token := r.URL.Query().Get("access_token"); token != "" {
		return token
	}
	header := r.Header.Get("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

// connState состояние соединения, используется только в readPump
type connState struct {
	session *AvailabilitySession
	cancel  context.CancelFunc
}

func (st *connState) stop() {
	if st.cancel != nil {
		st.cancel()
	}
	st.session, st.cancel = nil, nil
}

func (h *Handler) readPump(ctx context.Context, client *Client, ws *websocket.Conn, cleanup func()) {
	state := &connState{}
	defer func() {
		state.stop()
		cleanup()
		h.hub.Unregister(client)
		client.Close()
		h.logger.Info("GET /ws - Client disconnected: client=%s", client.ID)
	}()

	ws.SetReadLimit(maxMessageSize)
	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("GET /ws - Read error for client=%s: %v", client.ID, err)
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.hub.SendTo(client, errorMessage("invalid_message", msgInvalidMessage))
			continue
		}

		h.process(ctx, client, state, msg)
	}
}

func (h *Handler) process(ctx context.Context, client *Client, state *connState, msg ClientMessage) {
	switch msg.Action {
	case ActionSubscribe:
		accepted := make([]string, 0, len(msg.Topics))
		for _, topic := range msg.Topics {
			if h.authorizeTopic(ctx, client, topic) {
				accepted = append(accepted, topic)
			}
		}
		if len(accepted) > 0 {
			h.hub.Subscribe(client, accepted...)
			h.hub.SendTo(client, ServerMessage{Type: TypeSubscribed, Topics: accepted})
		}

	case ActionUnsubscribe:
		h.hub.Unsubscribe(client, msg.Topics...)

	case ActionDateSelected:
		if msg.PracticeID <= 0 {
			h.hub.SendTo(client, errorMessage("invalid_practice", msgPracticeNeeded))
			return
		}
		date, err := time.Parse(domain.DateFormat, msg.Date)
		if err != nil {
			h.hub.SendTo(client, errorMessage("invalid_date", msgInvalidDate))
			return
		}

		if state.session == nil || state.session.PracticeID() != msg.PracticeID {
			state.stop()
			sessCtx, cancel := context.WithCancel(ctx)
			state.session = NewAvailabilitySession(msg.PracticeID, h.slots, h.feed, func(m ServerMessage) {
				h.hub.SendTo(client, m)
			}, h.logger)
			state.cancel = cancel
			go state.session.Run(sessCtx)
		}
		state.session.SelectDate(ctx, date)

	default:
		h.hub.SendTo(client, errorMessage("invalid_message", msgInvalidMessage))
	}
}

// authorizeTopic отправляет клиенту ошибку и возвращает false, если топик недоступен
func (h *Handler) authorizeTopic(ctx context.Context, client *Client, topic string) bool {
	practiceID, private, ok := parseTopic(topic)
	if !ok {
		h.hub.SendTo(client, errorMessage("unknown_topic", msgUnknownTopic))
		return false
	}
	if !private {
		return true
	}

	if client.Principal == nil || !client.Principal.IsPractice() {
		h.hub.SendTo(client, errorMessage("forbidden", msgForbiddenTopic))
		return false
	}

	practice, err := h.practices.GetByID(ctx, practiceID)
	if err != nil {
		if errors.Is(err, practiceRepo.ErrPracticeNotFound) {
			h.hub.SendTo(client, errorMessage("forbidden", msgForbiddenTopic))
			return false
		}
		h.logger.Error("GET /ws - Failed to check topic %s for client=%s: %v", topic, client.ID, err)
		h.hub.SendTo(client, errorMessage("internal", msgTopicCheckFail))
		return false
	}
	if !practice.IsOwnedBy(client.Principal.UserID) {
		h.hub.SendTo(client, errorMessage("forbidden", msgForbiddenTopic))
		return false
	}
	return true
}

func (h *Handler) writePump(client *Client, ws *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.Close()
	}()

	for {
		select {
		case message, ok := <-client.Send:
			_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := ws.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func errorMessageWithType(msgType, code, message string) ServerMessage {
	m := errorMessage(code, message)
	m.Type = msgType
	return m
}
