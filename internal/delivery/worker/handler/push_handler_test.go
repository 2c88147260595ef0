package handler

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ridelink/internal/domain/entity"
	"ridelink/internal/domain/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAccountEventRepo struct {
	mock.Mock
}

func newMockAccountEventRepo(t *testing.T) *mockAccountEventRepo {
	t.Helper()
	m := &mockAccountEventRepo{}
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *mockAccountEventRepo) CreateAccountEvent(ctx context.Context, record *entity.AccountEventRecord) error {
	args := m.Called(ctx, record)

	return args.Error(0)
}

func (m *mockAccountEventRepo) FindAccountEventsByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.AccountEventRecord, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.AccountEventRecord), args.Error(1)
}

func newPushHandlerForTest(repo *mockAccountEventRepo) *PushHandler {
	return &PushHandler{
		verifyPushAuth: false,
		logger:         slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), nil)),
		eventRepo:      repo,
	}
}

func newPushMessage(t *testing.T, event *service.AccountEvent, attributes map[string]string) []byte {
	t.Helper()

	payload, err := json.Marshal(event)
	require.NoError(t, err)

	var msg PubSubMessage
	msg.Message.Data = base64.StdEncoding.EncodeToString(payload)
	msg.Message.Attributes = attributes
	msg.Message.MessageID = "msg-1"
	msg.Message.PublishTime = time.Now().UTC().Format(time.RFC3339)
	msg.Subscription = "projects/test/subscriptions/account-events"

	body, err := json.Marshal(msg)
	require.NoError(t, err)

	return body
}

func servePush(t *testing.T, h *PushHandler, body []byte) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/push", bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.HandlePush(c))

	return rec
}

func TestPushHandler_HandlePush_RecordsEvent(t *testing.T) {
	userID := uuid.New()
	repo := newMockAccountEventRepo(t)
	repo.On("CreateAccountEvent", mock.Anything, mock.MatchedBy(func(record *entity.AccountEventRecord) bool {
		return record.UserID == userID &&
			record.EventType == service.AccountEventRegistered &&
			record.Email == "ada@example.com"
	})).Return(nil)

	body := newPushMessage(t, &service.AccountEvent{
		EventType: service.AccountEventRegistered,
		UserID:    userID.String(),
		Email:     "ada@example.com",
		Roles:     []string{"passenger"},
	}, nil)

	rec := servePush(t, newPushHandlerForTest(repo), body)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPushHandler_HandlePush_AttributeRequestIDWins(t *testing.T) {
	userID := uuid.New()
	repo := newMockAccountEventRepo(t)
	repo.On("CreateAccountEvent", mock.Anything, mock.MatchedBy(func(record *entity.AccountEventRecord) bool {
		return record.RequestID == "attr-request-id"
	})).Return(nil)

	body := newPushMessage(t, &service.AccountEvent{
		RequestID: "event-request-id",
		EventType: service.AccountEventDeleted,
		UserID:    userID.String(),
	}, map[string]string{"request_id": "attr-request-id"})

	rec := servePush(t, newPushHandlerForTest(repo), body)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPushHandler_HandlePush_InvalidUserIDNotRetried(t *testing.T) {
	repo := newMockAccountEventRepo(t)

	body := newPushMessage(t, &service.AccountEvent{
		EventType: service.AccountEventRegistered,
		UserID:    "not-a-uuid",
	}, nil)

	rec := servePush(t, newPushHandlerForTest(repo), body)

	// Acked so Pub/Sub does not redeliver a poison message.
	assert.Equal(t, http.StatusOK, rec.Code)
	repo.AssertNotCalled(t, "CreateAccountEvent", mock.Anything, mock.Anything)
}

func TestPushHandler_HandlePush_DatabaseFailureRetried(t *testing.T) {
	userID := uuid.New()
	repo := newMockAccountEventRepo(t)
	repo.On("CreateAccountEvent", mock.Anything, mock.Anything).
		Return(errors.New("connection reset"))

	body := newPushMessage(t, &service.AccountEvent{
		EventType: service.AccountEventRegistered,
		UserID:    userID.String(),
	}, nil)

	rec := servePush(t, newPushHandlerForTest(repo), body)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestPushHandler_HandlePush_BadBase64Rejected(t *testing.T) {
	repo := newMockAccountEventRepo(t)

	var msg PubSubMessage
	msg.Message.Data = "%%% not base64 %%%"
	body, err := json.Marshal(msg)
	require.NoError(t, err)

	rec := servePush(t, newPushHandlerForTest(repo), body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
