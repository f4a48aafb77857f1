package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"jobLobby/internal/api/middleware"
	"jobLobby/internal/auth"
	"jobLobby/internal/database"
	"jobLobby/internal/worker"
)

const (
	wsAuthTimeout  = 10 * time.Second
	wsPingInterval = 30 * time.Second
	wsWriteTimeout = 5 * time.Second
)

// NotifySource 订阅某个用户的通知频道。返回的 channel 在 stop 调用或 ctx 结束后关闭。
type NotifySource interface {
	Subscribe(ctx context.Context, channel string) (messages <-chan string, stop func(), err error)
}

type redisNotifySource struct {
	client *redis.Client
}

// NewRedisNotifySource 基于 Redis Pub/Sub 的通知来源，worker 在同名频道上发布。
func NewRedisNotifySource(client *redis.Client) NotifySource {
	return &redisNotifySource{client: client}
}

func (s *redisNotifySource) Subscribe(ctx context.Context, channel string) (<-chan string, func(), error) {
	pubsub := s.client.Subscribe(ctx, channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, nil, err
	}

	out := make(chan string)
	go func() {
		defer close(out)
		for msg := range pubsub.Channel() {
			select {
			case out <- msg.Payload:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, func() { _ = pubsub.Close() }, nil
}

// WsHandler 通过 WebSocket 向已登录用户推送投递与状态变更通知。
// 客户端首条消息必须是 {"type":"auth","token":...}。
type WsHandler struct {
	source   NotifySource
	auth     *auth.AuthService
	users    middleware.UserLoader
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

func NewWsHandler(source NotifySource, authService *auth.AuthService, users middleware.UserLoader, logger *slog.Logger, allowedOrigins []string) *WsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WsHandler{
		source: source,
		auth:   authService,
		users:  users,
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: originChecker(allowedOrigins),
		},
	}
}

// originChecker 未配置白名单时只允许同源；"*" 放行所有来源。
func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || slices.Contains(allowed, "*") || slices.Contains(allowed, origin) {
			return true
		}
		if len(allowed) > 0 {
			return false
		}
		u, err := url.Parse(origin)
		return err == nil && strings.EqualFold(u.Host, r.Host)
	}
}

type wsAuthMessage struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

// wsRejection closes the socket with code and reason; err is only logged.
type wsRejection struct {
	code   int
	reason string
	err    error
}

func (r *wsRejection) Error() string { return r.reason }

func (h *WsHandler) HandleConnection(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("upgrade websocket failed", slog.Any("error", err))
		return
	}
	defer conn.Close()

	log := h.logger.With(
		slog.String("client_ip", c.ClientIP()),
		slog.String("correlation_id", middleware.GetCorrelationID(c)),
	)

	user, err := h.authenticate(c.Request.Context(), conn)
	if err != nil {
		var rej *wsRejection
		if errors.As(err, &rej) {
			log.Warn("websocket authentication failed", slog.String("reason", rej.reason), slog.Any("error", rej.err))
			writeClose(conn, rej.code, rej.reason)
		}
		return
	}
	log = log.With(slog.Uint64("user_id", uint64(user.ID)))

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	channel := worker.NotifyChannel(user.ID)
	messages, stop, err := h.source.Subscribe(ctx, channel)
	if err != nil {
		log.Error("subscribe notifications failed", slog.Any("error", err))
		writeClose(conn, websocket.CloseInternalServerErr, "subscribe failed")
		return
	}
	defer stop()

	if err := writeJSON(conn, gin.H{"type": "authenticated"}); err != nil {
		return
	}
	log.Info("websocket authenticated", slog.String("channel", channel))

	// 读循环只负责发现断开；鉴权后的客户端消息被忽略。
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	reason := h.forward(ctx, conn, messages)
	log.Info("websocket connection closed", slog.String("reason", reason))
}

// authenticate 读取首条消息，校验令牌并重新加载账号，与 HTTP 鉴权中间件规则一致。
func (h *WsHandler) authenticate(ctx context.Context, conn *websocket.Conn) (*database.User, error) {
	_ = conn.SetReadDeadline(time.Now().Add(wsAuthTimeout))
	defer conn.SetReadDeadline(time.Time{})

	_, raw, err := conn.ReadMessage()
	if err != nil {
		return nil, err
	}

	var msg wsAuthMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, &wsRejection{code: websocket.ClosePolicyViolation, reason: "invalid auth payload", err: err}
	}
	if msg.Type != "auth" || msg.Token == "" {
		return nil, &wsRejection{code: websocket.ClosePolicyViolation, reason: "auth required"}
	}

	claims, err := h.auth.ValidateToken(msg.Token)
	if err != nil {
		return nil, &wsRejection{code: websocket.ClosePolicyViolation, reason: "unauthorized", err: err}
	}

	user, err := h.users.FindByID(ctx, claims.UserID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, &wsRejection{code: websocket.ClosePolicyViolation, reason: "unauthorized", err: err}
	}
	if err != nil {
		return nil, &wsRejection{code: websocket.CloseInternalServerErr, reason: "server error", err: err}
	}
	if user.MustChangePassword {
		return nil, &wsRejection{code: websocket.ClosePolicyViolation, reason: "password change required"}
	}
	return user, nil
}

// forward 把通知写给客户端并定时 ping，直到 ctx 结束或写失败。只有这个 goroutine 写数据帧。
func (h *WsHandler) forward(ctx context.Context, conn *websocket.Conn, messages <-chan string) string {
	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return "client gone"
		case payload, ok := <-messages:
			if !ok {
				writeClose(conn, websocket.CloseGoingAway, "notifications closed")
				return "subscription closed"
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, []byte(payload)); err != nil {
				return "write failed"
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteTimeout)); err != nil {
				return "ping failed"
			}
		}
	}
}

func writeJSON(conn *websocket.Conn, v any) error {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return conn.WriteJSON(v)
}

func writeClose(conn *websocket.Conn, code int, text string) {
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, text), time.Now().Add(wsWriteTimeout))
}
