package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pathscheduler-bot/internal/config"
	"pathscheduler-bot/internal/scores"
	"pathscheduler-bot/internal/store"
	"pathscheduler-bot/internal/tgbot"
)

type countingStore struct {
	inner store.Store
	calls int
}

func (c *countingStore) Get(ctx context.Context, key string) (string, error) {
	c.calls++
	return c.inner.Get(ctx, key)
}

func (c *countingStore) Put(ctx context.Context, key, value string) error {
	c.calls++
	return c.inner.Put(ctx, key, value)
}

func (c *countingStore) List(ctx context.Context, prefix string) ([]string, error) {
	c.calls++
	return c.inner.List(ctx, prefix)
}

type fakeAPI struct {
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	raw      []string
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) MakeRequest(endpoint string, params tgbotapi.Params) (*tgbotapi.APIResponse, error) {
	f.raw = append(f.raw, endpoint)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

type env struct {
	handler http.Handler
	store   *countingStore
	mem     *store.Memory
	api     *fakeAPI
}

func newEnv(cfg config.Config) *env {
	mem := store.NewMemory()
	cs := &countingStore{inner: mem}
	api := &fakeAPI{}
	bot := tgbot.NewWithAPI(cfg, api)
	return &env{
		handler: Handler(cfg, scores.New(cs), bot),
		store:   cs,
		mem:     mem,
		api:     api,
	}
}

func (e *env) do(method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

func TestLeaderboardMissingQuizID(t *testing.T) {
	e := newEnv(config.Config{})

	w := e.do(http.MethodGet, "/leaderboard", "", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing Quiz ID", strings.TrimSpace(w.Body.String()))
	assert.Zero(t, e.store.calls, "store must not be touched on a 400")
}

func TestLeaderboardEmptyQuizIsArray(t *testing.T) {
	e := newEnv(config.Config{})

	w := e.do(http.MethodGet, "/leaderboard?quizId=w1", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestSubmitThenConflict(t *testing.T) {
	e := newEnv(config.Config{})
	body := `{"quizId":"w1","userId":"u1","firstName":"Asha","score":7,"total":10}`

	w := e.do(http.MethodPost, "/submit-score", body, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	again := `{"quizId":"w1","userId":"u1","firstName":"Asha","score":10,"total":10}`
	w = e.do(http.MethodPost, "/submit-score", again, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"Already submitted"}`, w.Body.String())
}

func TestSubmitMissingParams(t *testing.T) {
	e := newEnv(config.Config{})

	w := e.do(http.MethodPost, "/submit-score", `{"quizId":"w1"}`, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing parameters", strings.TrimSpace(w.Body.String()))
}

func TestUserStatusMissingParams(t *testing.T) {
	e := newEnv(config.Config{})

	w := e.do(http.MethodGet, "/user-status?quizId=w1", "", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserStatusSentinelAndVerbatimRecord(t *testing.T) {
	e := newEnv(config.Config{})

	w := e.do(http.MethodGet, "/user-status?userId=u1&quizId=w1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"not_played"}`, w.Body.String())

	body := `{"quizId":"w1","userId":"u1","firstName":"Asha","score":99.5,"total":100}`
	require.Equal(t, http.StatusOK, e.do(http.MethodPost, "/submit-score", body, nil).Code)

	w = e.do(http.MethodGet, "/user-status?userId=u1&quizId=w1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	stored, err := e.mem.Get(context.Background(), store.ScoreKey("w1", "u1"))
	require.NoError(t, err)
	assert.Equal(t, stored, w.Body.String(), "stored record must be served byte for byte")
	assert.Contains(t, w.Body.String(), `"score":99.5`)
}

func TestLeaderboardOrderingOverHTTP(t *testing.T) {
	e := newEnv(config.Config{})

	submit := func(user, score string) {
		body := `{"quizId":"w1","userId":"` + user + `","firstName":"` + user + `","score":` + score + `,"total":10}`
		require.Equal(t, http.StatusOK, e.do(http.MethodPost, "/submit-score", body, nil).Code)
	}
	submit("a", "3")
	submit("b", "9")
	submit("c", "5")

	w := e.do(http.MethodGet, "/leaderboard?quizId=w1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Less(t, strings.Index(body, `"userId":"b"`), strings.Index(body, `"userId":"c"`))
	assert.Less(t, strings.Index(body, `"userId":"c"`), strings.Index(body, `"userId":"a"`))
}

func TestSetupReportsPlatformAck(t *testing.T) {
	e := newEnv(config.Config{WebAppURL: "https://example.com/app/"})

	w := e.do(http.MethodGet, "/setup", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
	assert.Contains(t, w.Body.String(), "Menu Button configured successfully!")
	require.Equal(t, []string{"setChatMenuButton"}, e.api.raw)
}

type failingStore struct{}

func (failingStore) Get(ctx context.Context, key string) (string, error) {
	return "", errors.New("redis: connection refused")
}

func (failingStore) Put(ctx context.Context, key, value string) error {
	return errors.New("redis: connection refused")
}

func (failingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return nil, errors.New("redis: connection refused")
}

func TestStoreFailureIsGeneric500(t *testing.T) {
	api := &fakeAPI{}
	bot := tgbot.NewWithAPI(config.Config{}, api)
	h := Handler(config.Config{}, scores.New(failingStore{}), bot)

	do := func(method, target, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, target, strings.NewReader(body))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w
	}

	w := do(http.MethodGet, "/leaderboard?quizId=w1", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Error", strings.TrimSpace(w.Body.String()))

	submit := `{"quizId":"w1","userId":"u1","firstName":"Asha","score":7,"total":10}`
	w = do(http.MethodPost, "/submit-score", submit)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Error", strings.TrimSpace(w.Body.String()))
	assert.NotContains(t, w.Body.String(), "success")

	w = do(http.MethodGet, "/user-status?userId=u1&quizId=w1", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Error", strings.TrimSpace(w.Body.String()))
}

func TestWebhookStartSendsWelcome(t *testing.T) {
	e := newEnv(config.Config{})
	update := `{"message":{"message_id":1,"text":"/start","chat":{"id":5},"from":{"id":7,"first_name":"Asha"}}}`

	w := e.do(http.MethodPost, "/", update, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
	require.Len(t, e.api.sent, 1)
}

func TestWebhookUnknownCommandStillOK(t *testing.T) {
	e := newEnv(config.Config{})
	update := `{"message":{"message_id":1,"text":"hello","chat":{"id":5}}}`

	w := e.do(http.MethodPost, "/", update, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
	assert.Empty(t, e.api.sent)
}

func TestWebhookMalformedBody(t *testing.T) {
	e := newEnv(config.Config{})

	w := e.do(http.MethodPost, "/", "{not json", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Error", strings.TrimSpace(w.Body.String()))
}

func TestWebhookSecretToken(t *testing.T) {
	e := newEnv(config.Config{WebhookSecret: "s3cret"})
	update := `{"message":{"message_id":1,"text":"/help","chat":{"id":5}}}`

	w := e.do(http.MethodPost, "/", update, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, e.api.sent)

	w = e.do(http.MethodPost, "/", update, map[string]string{
		"X-Telegram-Bot-Api-Secret-Token": "s3cret",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, e.api.sent, 1)
}

func TestFallbackAnswersOK(t *testing.T) {
	e := newEnv(config.Config{})

	for _, target := range []string{"/", "/nope", "/favicon.ico"} {
		w := e.do(http.MethodGet, target, "", nil)
		assert.Equal(t, http.StatusOK, w.Code, target)
		assert.Equal(t, "OK", w.Body.String(), target)
	}
}

func TestCORSPreflight(t *testing.T) {
	e := newEnv(config.Config{})

	w := e.do(http.MethodOptions, "/leaderboard", "", map[string]string{
		"Origin":                        "https://quiz.example.com",
		"Access-Control-Request-Method": http.MethodGet,
	})

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSOnSimpleRequest(t *testing.T) {
	e := newEnv(config.Config{})

	w := e.do(http.MethodGet, "/leaderboard?quizId=w1", "", map[string]string{
		"Origin": "https://quiz.example.com",
	})

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
