package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/cors"

	"pathscheduler-bot/internal/config"
	"pathscheduler-bot/internal/models"
	"pathscheduler-bot/internal/scores"
	"pathscheduler-bot/internal/tgbot"
	"pathscheduler-bot/internal/util"
)

func New(cfg config.Config, svc *scores.Service, bot *tgbot.App) *http.Server {
	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: Handler(cfg, svc, bot),
	}
}

// Handler builds the full route tree. Kept separate from New so tests can
// drive it through httptest.
func Handler(cfg config.Config, svc *scores.Service, bot *tgbot.App) http.Handler {
	r := chi.NewRouter()

	r.Get("/leaderboard", func(w http.ResponseWriter, req *http.Request) {
		quizID := req.URL.Query().Get("quizId")
		if quizID == "" {
			http.Error(w, "Missing Quiz ID", http.StatusBadRequest)
			return
		}
		records, err := svc.Leaderboard(req.Context(), quizID)
		if err != nil {
			log.Printf("leaderboard: %v", err)
			http.Error(w, "Error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, records)
	})

	r.Post("/submit-score", func(w http.ResponseWriter, req *http.Request) {
		var rec models.ScoreRecord
		if err := json.NewDecoder(req.Body).Decode(&rec); err != nil {
			http.Error(w, "Error", http.StatusInternalServerError)
			return
		}
		if rec.QuizID == "" || rec.UserID == "" {
			http.Error(w, "Missing parameters", http.StatusBadRequest)
			return
		}
		rec.Date = "" // server-assigned

		switch err := svc.Submit(req.Context(), rec); {
		case errors.Is(err, scores.ErrAlreadySubmitted):
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "Already submitted"})
		case err != nil:
			log.Printf("submit-score: %v", err)
			http.Error(w, "Error", http.StatusInternalServerError)
		default:
			writeJSON(w, http.StatusOK, map[string]bool{"success": true})
		}
	})

	r.Get("/user-status", func(w http.ResponseWriter, req *http.Request) {
		userID := req.URL.Query().Get("userId")
		quizID := req.URL.Query().Get("quizId")
		if userID == "" || quizID == "" {
			http.Error(w, "Missing parameters", http.StatusBadRequest)
			return
		}
		raw, ok, err := svc.UserStatus(req.Context(), quizID, userID)
		if err != nil {
			log.Printf("user-status: %v", err)
			http.Error(w, "Error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if !ok {
			_, _ = w.Write([]byte(`{"status":"not_played"}`))
			return
		}
		// Stored record is served byte for byte, no re-encoding.
		_, _ = w.Write(raw)
	})

	r.Get("/setup", func(w http.ResponseWriter, req *http.Request) {
		resp, err := bot.SetupMenuButton()
		if resp == nil {
			if err == nil {
				http.Error(w, "Error", http.StatusInternalServerError)
				return
			}
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		msg := "Failed to configure Menu Button."
		if resp.Ok {
			msg = "Menu Button configured successfully!"
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success":           resp.Ok,
			"message":           msg,
			"telegram_response": resp,
		})
	})

	r.Post("/", func(w http.ResponseWriter, req *http.Request) {
		if cfg.WebhookSecret != "" &&
			!util.SecureEquals(req.Header.Get("X-Telegram-Bot-Api-Secret-Token"), cfg.WebhookSecret) {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		var upd tgbotapi.Update
		if err := json.NewDecoder(req.Body).Decode(&upd); err != nil {
			http.Error(w, "Error", http.StatusInternalServerError)
			return
		}
		if err := bot.HandleUpdate(upd); err != nil {
			log.Printf("webhook: %v", err)
			http.Error(w, "Error", http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte("OK"))
	})

	// Anything unmatched still answers OK, the webhook host expects 200s.
	fallback := func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte("OK"))
	}
	r.NotFound(fallback)
	r.MethodNotAllowed(fallback)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})
	return c.Handler(r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}
