package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chittyapps/chittyinsight/internal/assistant"
	"github.com/chittyapps/chittyinsight/internal/storage"
	"github.com/chittyapps/chittyinsight/pkg/types"
)

type stubScheduler struct {
	mu      sync.Mutex
	userIDs []string
	prompts []string
}

func (s *stubScheduler) Schedule(userID, prompt string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userIDs = append(s.userIDs, userID)
	s.prompts = append(s.prompts, prompt)
}

func (s *stubScheduler) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.userIDs)
}

type fixedPicker struct{ reply string }

func (p fixedPicker) Pick(string) string { return p.reply }

func TestListChatMessages_RequiresUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/chat", ListChatMessagesHandler(storage.NewMemStore()))

	rec := doJSON(t, router, http.MethodGet, "/api/chat", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "missing_parameter", decodeError(t, rec).Error)
}

func TestCreateChatMessage_UserRoleSchedulesReply(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sched := &stubScheduler{}
	pub := &stubPublisher{}
	router := gin.New()
	router.POST("/api/chat", CreateChatMessageHandler(storage.NewMemStore(), sched, pub))

	rec := doJSON(t, router, http.MethodPost, "/api/chat", gin.H{
		"userId":  "user-1",
		"role":    "user",
		"content": "how are my agents doing?",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	var msg types.ChatMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msg))
	assert.Equal(t, types.ChatRoleUser, msg.Role)

	require.Equal(t, 1, sched.calls())
	assert.Equal(t, "user-1", sched.userIDs[0])
	assert.Equal(t, "how are my agents doing?", sched.prompts[0])
	assert.Equal(t, []string{"chat_message"}, pub.frameTypes())
}

func TestCreateChatMessage_AssistantRoleDoesNotSchedule(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sched := &stubScheduler{}
	router := gin.New()
	router.POST("/api/chat", CreateChatMessageHandler(storage.NewMemStore(), sched, nil))

	rec := doJSON(t, router, http.MethodPost, "/api/chat", gin.H{
		"userId":  "user-1",
		"role":    "assistant",
		"content": "imported transcript line",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 0, sched.calls())
}

func TestCreateChatMessage_RejectsUnknownRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/chat", CreateChatMessageHandler(storage.NewMemStore(), nil, nil))

	rec := doJSON(t, router, http.MethodPost, "/api/chat", gin.H{
		"userId":  "user-1",
		"role":    "system",
		"content": "nope",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatConversationRoundTrip(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := storage.NewMemStore()
	responder := assistant.NewResponder(store, fixedPicker{reply: "here is the analysis"},
		assistant.WithDelay(5*time.Millisecond))
	defer responder.Close()

	router := gin.New()
	router.GET("/api/chat", ListChatMessagesHandler(store))
	router.POST("/api/chat", CreateChatMessageHandler(store, responder, nil))

	rec := doJSON(t, router, http.MethodPost, "/api/chat", gin.H{
		"userId":  "user-1",
		"role":    "user",
		"content": "status report please",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// response carries only the user's message; the reply lands later
	responder.Wait()

	rec = doJSON(t, router, http.MethodGet, "/api/chat?userId=user-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var msgs []*types.ChatMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msgs))
	require.Len(t, msgs, 2)
	assert.Equal(t, types.ChatRoleAssistant, msgs[0].Role)
	assert.Equal(t, "here is the analysis", msgs[0].Content)
	assert.Equal(t, "auto", msgs[0].Metadata["responseType"].Str())
	assert.Equal(t, types.ChatRoleUser, msgs[1].Role)
}
