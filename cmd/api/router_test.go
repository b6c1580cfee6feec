package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	authdomain "mailreply-backend/internal/auth/domain"
	authRepo "mailreply-backend/internal/auth/repository"
	authUsecase "mailreply-backend/internal/auth/usecase"
	replydomain "mailreply-backend/internal/reply/domain"
	replyRepo "mailreply-backend/internal/reply/repository"
	replyUsecase "mailreply-backend/internal/reply/usecase"
	"mailreply-backend/pkg/ai"
	"mailreply-backend/pkg/config"
	"mailreply-backend/pkg/ratelimit"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type echoProvider struct {
	calls int
}

func (p *echoProvider) Name() string { return "echo" }

func (p *echoProvider) Generate(_ context.Context, _ ai.Prompt) (string, error) {
	p.calls++
	return "\n확인 후 회신드리겠습니다.\n", nil
}

type testServer struct {
	engine   *gin.Engine
	provider *echoProvider
}

func newTestServer(t *testing.T, perMinute int) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&authdomain.User{}, &authdomain.RefreshToken{}, &replydomain.SavedReply{}))

	cfg := config.Default()
	cfg.JWTSecret = "router-test-secret"
	cfg.JWTAccessExpiry = time.Minute
	cfg.JWTRefreshExpiry = time.Hour

	provider := &echoProvider{}
	handler := NewHandler(
		authUsecase.NewAuthUsecase(authRepo.NewUserRepository(db), cfg),
		replyUsecase.NewReplyGenerator(provider, replyUsecase.GeneratorConfig{}, nil),
		replyUsecase.NewHistoryUsecase(replyRepo.NewGormReplyRepository(db), cfg.HistoryDefaultLimit),
		ratelimit.New(perMinute, nil),
		cfg,
		nil,
	)
	return &testServer{engine: handler.Engine(), provider: provider}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *testServer) register(t *testing.T) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"email": "kim@example.com", "password": "secret1", "name": "김민수",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.AccessToken
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, 20)

	w := s.do(t, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_request_duration_seconds")
}

func TestGenerateRequiresAuth(t *testing.T) {
	s := newTestServer(t, 20)

	w := s.do(t, http.MethodPost, "/api/replies/generate", "", gin.H{"originalEmail": "안녕하세요, 회의 가능하신지요?", "tone": "formal"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Zero(t, s.provider.calls)
}

func TestGenerateAndSaveFlow(t *testing.T) {
	s := newTestServer(t, 20)
	token := s.register(t)
	email := "안녕하세요, 다음 주 화요일 오후 2시 미팅 가능하신지요?"

	w := s.do(t, http.MethodPost, "/api/replies/generate", token, gin.H{"originalEmail": email, "tone": "formal"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var generated struct {
		Reply string `json:"reply"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &generated))
	assert.Equal(t, "확인 후 회신드리겠습니다.", generated.Reply)

	w = s.do(t, http.MethodPost, "/api/replies/generate", token, gin.H{"originalEmail": "ok", "tone": "formal"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"error_kind":"validation"`)
	assert.Equal(t, 1, s.provider.calls)

	w = s.do(t, http.MethodPost, "/api/replies", token, gin.H{"originalEmail": email, "generatedReply": generated.Reply, "tone": "formal"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/replies", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Replies []replydomain.SavedReply `json:"replies"`
		Count   int                      `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Equal(t, 1, list.Count)
	assert.Equal(t, generated.Reply, list.Replies[0].GeneratedReply)
}

func TestGenerateRateLimited(t *testing.T) {
	s := newTestServer(t, 1)
	token := s.register(t)
	body := gin.H{"originalEmail": "안녕하세요, 회의 가능하신지요?", "tone": "thanks"}

	w := s.do(t, http.MethodPost, "/api/replies/generate", token, body)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPost, "/api/replies/generate", token, body)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), `"error_kind":"rate_limit"`)
	assert.Equal(t, 1, s.provider.calls)
}

func TestGenerateUnlimitedWhenRateLimitDisabled(t *testing.T) {
	s := newTestServer(t, 0)
	token := s.register(t)
	body := gin.H{"originalEmail": "안녕하세요, 회의 가능하신지요?", "tone": "thanks"}

	for i := 0; i < 5; i++ {
		w := s.do(t, http.MethodPost, "/api/replies/generate", token, body)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}
	assert.Equal(t, 5, s.provider.calls)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, 20)

	req := httptest.NewRequest(http.MethodOptions, "/api/replies/generate", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestAISettings(t *testing.T) {
	s := newTestServer(t, 20)
	token := s.register(t)
	InitRuntimeConfig("http://localhost:11434", "llama3")

	ollama := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"models":[{"name":"llama3:latest","model":"llama3:latest"}]}`))
	}))
	defer ollama.Close()

	w := s.do(t, http.MethodPut, "/api/settings/ai", token, gin.H{"ollama_base_url": ollama.URL, "ollama_model": "qwen2"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, ollama.URL, GetRuntimeOllamaBaseURL())
	assert.Equal(t, "qwen2", GetRuntimeOllamaModel())

	w = s.do(t, http.MethodPut, "/api/settings/ai", token, gin.H{"ollama_base_url": "not a url"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/settings/ai", token, nil)
	assert.Contains(t, w.Body.String(), ollama.URL)

	w = s.do(t, http.MethodPost, "/api/settings/ai/test", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "llama3:latest")
}
