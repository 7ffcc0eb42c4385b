package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parleyhq/parley/ent"
	"github.com/parleyhq/parley/ent/message"
	"github.com/parleyhq/parley/pkg/coordinator"
	"github.com/parleyhq/parley/pkg/engine"
	"github.com/parleyhq/parley/pkg/events"
	"github.com/parleyhq/parley/pkg/provider"
	"github.com/parleyhq/parley/pkg/services"
	"github.com/parleyhq/parley/pkg/tools"
	testdb "github.com/parleyhq/parley/test/database"
)

type apiHarness struct {
	router *gin.Engine
	llm    *provider.ScriptedProvider

	convs    *services.ConversationService
	messages *services.MessageService

	userID string
}

func newAPIHarness(t *testing.T) *apiHarness {
	t.Helper()
	gin.SetMode(gin.TestMode)
	client := testdb.NewTestClient(t)

	users := services.NewUserService(client.Client)
	convs := services.NewConversationService(client.Client)
	messages := services.NewMessageService(client.Client)
	prompts := services.NewPromptService(client.Client)
	blocks := services.NewBlockService(client.Client)
	toolCalls := services.NewToolCallService(client.Client)
	eventsSvc := services.NewEventService(client.Client)

	bus := events.NewBus()
	publisher := events.NewInMemoryPublisher(bus)

	registry := tools.NewRegistry()
	executor := tools.NewExecutor(registry, toolCalls, blocks, publisher)
	llm := provider.NewScriptedProvider()
	eng := engine.New(llm, executor, prompts, blocks, toolCalls, publisher,
		engine.Config{ToolPollPeriod: 20 * time.Millisecond})

	coord := coordinator.New(coordinator.Config{
		PodID:        "api-test-pod",
		DefaultModel: "claude-sonnet-4-5",
	}, eng, convs, messages, prompts, blocks, toolCalls, publisher, bus, registry.ProviderTools())
	t.Cleanup(coord.Stop)

	connMgr := NewConnectionManager(bus, events.NewEventServiceAdapter(eventsSvc), 5*time.Second)
	srv := NewServer(client, coord, users, convs, nil, connMgr)

	user, err := users.GetOrCreateUser(context.Background(), "api@test.local", "API Test")
	require.NoError(t, err)

	return &apiHarness{
		router:   srv.Router(),
		llm:      llm,
		convs:    convs,
		messages: messages,
		userID:   user.ID,
	}
}

func (h *apiHarness) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(userIDHeader, h.userID)
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func TestCreateAndListConversations(t *testing.T) {
	h := newAPIHarness(t)

	rec := h.do(t, http.MethodPost, "/api/conversations", map[string]string{"title": "deploy help"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var conv ent.Conversation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &conv))
	assert.NotEmpty(t, conv.ID)
	require.NotNil(t, conv.Title)
	assert.Equal(t, "deploy help", *conv.Title)

	rec = h.do(t, http.MethodGet, "/api/conversations", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []*ent.Conversation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, conv.ID, list[0].ID)
}

func TestConversationRequiresUserHeader(t *testing.T) {
	h := newAPIHarness(t)

	req := httptest.NewRequest(http.MethodGet, "/api/conversations", nil)
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQueueMessageStreamsToCompletion(t *testing.T) {
	h := newAPIHarness(t)
	h.llm.AddText("All good!")

	rec := h.do(t, http.MethodPost, "/api/conversations", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var conv ent.Conversation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &conv))

	rec = h.do(t, http.MethodPost, "/api/conversations/"+conv.ID+"/messages",
		map[string]string{"content": "is everything ok?"})
	require.Equal(t, http.StatusAccepted, rec.Code)

	require.Eventually(t, func() bool {
		c, err := h.convs.GetConversation(context.Background(), conv.ID)
		return err == nil && c.ActivePromptID == nil
	}, 10*time.Second, 25*time.Millisecond)

	rec = h.do(t, http.MethodGet, "/api/conversations/"+conv.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var snap coordinator.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	require.Len(t, snap.Messages, 2)
	assert.Equal(t, message.StatusCompleted, snap.Messages[1].Status)
	require.NotEmpty(t, snap.Messages[1].Edges.Blocks)
	assert.Equal(t, "All good!", snap.Messages[1].Edges.Blocks[0].Content)
}

func TestSnapshotHidesOtherUsersConversations(t *testing.T) {
	h := newAPIHarness(t)

	rec := h.do(t, http.MethodPost, "/api/conversations", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var conv ent.Conversation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &conv))

	req := httptest.NewRequest(http.MethodGet, "/api/conversations/"+conv.ID, nil)
	req.Header.Set(userIDHeader, "someone-else")
	other := httptest.NewRecorder()
	h.router.ServeHTTP(other, req)
	assert.Equal(t, http.StatusNotFound, other.Code)
}

func TestEditProcessedMessageConflicts(t *testing.T) {
	h := newAPIHarness(t)
	h.llm.AddText("done")

	rec := h.do(t, http.MethodPost, "/api/conversations", nil)
	var conv ent.Conversation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &conv))

	rec = h.do(t, http.MethodPost, "/api/conversations/"+conv.ID+"/messages",
		map[string]string{"content": "hello"})
	require.Equal(t, http.StatusAccepted, rec.Code)
	var msg ent.Message
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msg))

	require.Eventually(t, func() bool {
		m, err := h.messages.GetMessage(context.Background(), msg.ID)
		return err == nil && m.Status == message.StatusCompleted
	}, 10*time.Second, 25*time.Millisecond)

	rec = h.do(t, http.MethodPatch, "/api/conversations/"+conv.ID+"/messages/"+msg.ID,
		map[string]string{"content": "rewritten"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCancelWithoutActivePromptConflicts(t *testing.T) {
	h := newAPIHarness(t)

	rec := h.do(t, http.MethodPost, "/api/conversations", nil)
	var conv ent.Conversation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &conv))

	rec = h.do(t, http.MethodPost, "/api/conversations/"+conv.ID+"/cancel", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestUpdateConversationTitle(t *testing.T) {
	h := newAPIHarness(t)

	rec := h.do(t, http.MethodPost, "/api/conversations", nil)
	var conv ent.Conversation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &conv))

	rec = h.do(t, http.MethodPatch, "/api/conversations/"+conv.ID, map[string]string{"title": "renamed"})
	require.Equal(t, http.StatusOK, rec.Code)

	updated, err := h.convs.GetConversation(context.Background(), conv.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.Title)
	assert.Equal(t, "renamed", *updated.Title)
}

func TestDeleteConversation(t *testing.T) {
	h := newAPIHarness(t)

	rec := h.do(t, http.MethodPost, "/api/conversations", nil)
	var conv ent.Conversation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &conv))

	rec = h.do(t, http.MethodDelete, "/api/conversations/"+conv.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(t, http.MethodGet, "/api/conversations/"+conv.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	h := newAPIHarness(t)

	rec := h.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Contains(t, body, "database")
}
