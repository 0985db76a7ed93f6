package bot

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/storetycoon/backend/internal/api/response"
	"github.com/storetycoon/backend/internal/model"
	"github.com/storetycoon/backend/internal/services/profile"
)

const welcomeText = "🎮 *Welcome to StoreTycoon!*\n\nTap the button below to start playing:"
const hintText = "Use /start to begin playing!"

// Update is an incoming Telegram webhook update
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message"`
}

// Message is a Telegram chat message
type Message struct {
	Chat Chat   `json:"chat"`
	From *User  `json:"from"`
	Text string `json:"text"`
}

// Chat identifies the conversation; its id doubles as the player id
type Chat struct {
	ID int64 `json:"id"`
}

// User is the sender of a message
type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	Username  string `json:"username"`
}

// Handler processes Telegram webhook updates. The conversation surface
// is deliberately thin: /start hands out a personalized game link, any
// other plain text gets a hint.
type Handler struct {
	client         *Client
	profileService *profile.Service
	gameURL        string
	logger         *slog.Logger
}

// NewHandler creates a webhook handler
func NewHandler(client *Client, profileService *profile.Service, gameURL string, logger *slog.Logger) *Handler {
	return &Handler{
		client:         client,
		profileService: profileService,
		gameURL:        gameURL,
		logger:         logger,
	}
}

// NewRouter mounts the bot endpoints
func NewRouter(h *Handler) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/bot/webhook", h.Webhook).Methods(http.MethodPost)
	r.HandleFunc("/bot/health", h.Health).Methods(http.MethodGet)
	return r
}

// Webhook handles POST /bot/webhook. Telegram retries on non-200, so
// processing failures are logged and acknowledged anyway.
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	var update Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.logger.Warn("invalid webhook payload", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusOK)
		return
	}

	if update.Message != nil {
		if err := h.handleMessage(r, update.Message); err != nil {
			h.logger.Error("failed to handle message",
				slog.Int64("chat_id", update.Message.Chat.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	w.WriteHeader(http.StatusOK)
}

// Health handles GET /bot/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"service":   "telegram-bot",
		"timestamp": time.Now().UTC(),
	})
}

func (h *Handler) handleMessage(r *http.Request, msg *Message) error {
	ctx := r.Context()
	chatID := msg.Chat.ID

	if strings.HasPrefix(msg.Text, "/start") {
		playerID := model.PlayerID(strconv.FormatInt(chatID, 10))
		displayName, handle := "", ""
		if msg.From != nil {
			displayName = msg.From.FirstName
			handle = msg.From.Username
		}
		if _, err := h.profileService.EnsurePlayer(ctx, playerID, displayName, handle); err != nil {
			return err
		}

		keyboard := &InlineKeyboardMarkup{
			InlineKeyboard: [][]InlineKeyboardButton{{
				{Text: "🎮 Play now", URL: fmt.Sprintf("%s?tg=%d", h.gameURL, chatID)},
			}},
		}
		return h.client.SendMessage(ctx, chatID, welcomeText, keyboard)
	}

	if msg.Text != "" && !strings.HasPrefix(msg.Text, "/") {
		return h.client.SendMessage(ctx, chatID, hintText, nil)
	}

	return nil
}
