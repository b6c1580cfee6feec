package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	replydomain "mailreply-backend/internal/reply/domain"
	"mailreply-backend/internal/reply/repository"
	"mailreply-backend/internal/reply/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type stubGenerator struct {
	reply string
	err   error
	calls int
}

func (s *stubGenerator) Generate(_ context.Context, _ string, _ replydomain.Tone) (string, error) {
	s.calls++
	return s.reply, s.err
}

func newTestRouter(t *testing.T, gen usecase.ReplyGenerator) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&replydomain.SavedReply{}))

	handler := NewReplyHandler(gen, usecase.NewHistoryUsecase(repository.NewGormReplyRepository(db), 50))

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", c.GetHeader("X-Test-User"))
		c.Next()
	})
	r.GET("/api/tones", handler.GetTones)
	replies := r.Group("/api/replies")
	replies.POST("/generate", handler.GenerateReply)
	replies.POST("", handler.SaveReply)
	replies.GET("", handler.GetReplies)
	replies.GET("/stats", handler.GetReplyStats)
	replies.GET("/:id", handler.GetReplyByID)
	replies.PATCH("/:id", handler.UpdateReply)
	replies.DELETE("/:id", handler.DeleteReply)
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path, user string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Test-User", user)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGenerateReplySuccess(t *testing.T) {
	gen := &stubGenerator{reply: "확인 후 회신드리겠습니다."}
	r := newTestRouter(t, gen)

	w := doJSON(t, r, http.MethodPost, "/api/replies/generate", "user-1", gin.H{
		"originalEmail": "안녕하세요, 다음 주 화요일 오후 2시 미팅 가능하신지요?",
		"tone":          "formal",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "확인 후 회신드리겠습니다.", resp["reply"])
}

func TestGenerateReplyErrorStatus(t *testing.T) {
	cases := []struct {
		kind       replydomain.ErrorKind
		wantStatus int
	}{
		{replydomain.ErrorKindValidation, http.StatusBadRequest},
		{replydomain.ErrorKindConfig, http.StatusInternalServerError},
		{replydomain.ErrorKindQuota, http.StatusTooManyRequests},
		{replydomain.ErrorKindGeneration, http.StatusBadGateway},
	}

	for _, tc := range cases {
		t.Run(string(tc.kind), func(t *testing.T) {
			gen := &stubGenerator{err: &replydomain.GenerationError{Kind: tc.kind, Message: "something went wrong"}}
			r := newTestRouter(t, gen)

			w := doJSON(t, r, http.MethodPost, "/api/replies/generate", "user-1", gin.H{"originalEmail": "x", "tone": "formal"})
			assert.Equal(t, tc.wantStatus, w.Code)

			var resp map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, string(tc.kind), resp["error_kind"])
			assert.Equal(t, "something went wrong", resp["error"])
		})
	}
}

func TestGenerateReplyMalformedBody(t *testing.T) {
	gen := &stubGenerator{}
	r := newTestRouter(t, gen)

	req := httptest.NewRequest(http.MethodPost, "/api/replies/generate", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"error_kind":"validation"`)
	assert.Zero(t, gen.calls)
}

func TestReplyHistoryLifecycle(t *testing.T) {
	r := newTestRouter(t, &stubGenerator{})

	w := doJSON(t, r, http.MethodPost, "/api/replies", "user-1", gin.H{
		"originalEmail":  "회의 일정 확인 부탁드립니다.",
		"generatedReply": "확인 후 회신드리겠습니다.",
		"tone":           "formal",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var saved replydomain.SavedReply
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved))
	require.NotEmpty(t, saved.ID)

	w = doJSON(t, r, http.MethodGet, "/api/replies", "user-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":1`)

	w = doJSON(t, r, http.MethodGet, "/api/replies/"+saved.ID, "user-2", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodPatch, "/api/replies/"+saved.ID, "user-1", gin.H{"tone": "thanks"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"tone":"thanks"`)

	w = doJSON(t, r, http.MethodPatch, "/api/replies/"+saved.ID, "user-1", gin.H{"tone": "rude"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/replies/stats", "user-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats struct {
		Total  int64            `json:"total"`
		ByTone map[string]int64 `json:"by_tone"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, int64(1), stats.Total)
	assert.Equal(t, int64(1), stats.ByTone["thanks"])
	assert.Len(t, stats.ByTone, 4)

	w = doJSON(t, r, http.MethodDelete, "/api/replies/"+saved.ID, "user-1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/replies/"+saved.ID, "user-1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSaveReplyRequiresFields(t *testing.T) {
	r := newTestRouter(t, &stubGenerator{})

	w := doJSON(t, r, http.MethodPost, "/api/replies", "user-1", gin.H{"tone": "formal"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetTones(t *testing.T) {
	r := newTestRouter(t, &stubGenerator{})

	w := doJSON(t, r, http.MethodGet, "/api/tones", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Tones []struct {
			Value string `json:"value"`
			Label string `json:"label"`
		} `json:"tones"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Tones, 4)
	assert.Equal(t, "formal", resp.Tones[0].Value)
	assert.Equal(t, "정중한", resp.Tones[0].Label)
	assert.Equal(t, "감사", resp.Tones[3].Label)
}
