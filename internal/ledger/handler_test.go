package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockLedgerRepo struct{ mock.Mock }

func (m *MockLedgerRepo) GetOrCreateAccount(ctx context.Context, userID int) (*Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Account), args.Error(1)
}

func (m *MockLedgerRepo) GetBalance(ctx context.Context, userID int) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockLedgerRepo) Credit(ctx context.Context, userID, hours int) (int, error) {
	args := m.Called(ctx, userID, hours)
	return args.Int(0), args.Error(1)
}

func (m *MockLedgerRepo) Debit(ctx context.Context, userID, hours int) (int, error) {
	args := m.Called(ctx, userID, hours)
	return args.Int(0), args.Error(1)
}

func (m *MockLedgerRepo) SetBalance(ctx context.Context, userID, hours int) (*Account, error) {
	args := m.Called(ctx, userID, hours)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Account), args.Error(1)
}

func (m *MockLedgerRepo) ListAccounts(ctx context.Context) ([]AccountWithUser, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]AccountWithUser), args.Error(1)
}

func (m *MockLedgerRepo) GetEntries(ctx context.Context, userID, limit, offset int) ([]Entry, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Entry), args.Error(1)
}

func setupLedgerRouter(repo Repository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	router.Use(func(c *gin.Context) {
		c.Set("user_id", 5)
		c.Set("user_role", "student")
		c.Next()
	})

	h := NewHandler(repo)
	router.GET("/user/study_hours", h.GetStudyHours)
	router.PATCH("/admin/ledger/:userID", h.SetBalance)
	router.GET("/admin/ledger/:userID/entries", h.GetEntries)

	return router
}

func TestGetStudyHours_FreshAccountReadsZero(t *testing.T) {
	repo := new(MockLedgerRepo)
	router := setupLedgerRouter(repo)

	repo.On("GetBalance", mock.Anything, 5).Return(0, nil)

	req := httptest.NewRequest("GET", "/user/study_hours", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp BalanceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.StudyHours)
}

func TestSetBalanceHandler_Success(t *testing.T) {
	repo := new(MockLedgerRepo)
	router := setupLedgerRouter(repo)

	repo.On("SetBalance", mock.Anything, 7, 12).
		Return(&Account{ID: 1, UserID: 7, BalanceHours: 12}, nil)

	body, _ := json.Marshal(map[string]int{"study_hours": 12})
	req := httptest.NewRequest("PATCH", "/admin/ledger/7", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var account Account
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &account))
	assert.Equal(t, 12, account.BalanceHours)
}

func TestSetBalanceHandler_ZeroIsValid(t *testing.T) {
	repo := new(MockLedgerRepo)
	router := setupLedgerRouter(repo)

	repo.On("SetBalance", mock.Anything, 7, 0).
		Return(&Account{ID: 1, UserID: 7, BalanceHours: 0}, nil)

	body, _ := json.Marshal(map[string]int{"study_hours": 0})
	req := httptest.NewRequest("PATCH", "/admin/ledger/7", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	repo.AssertExpectations(t)
}

func TestSetBalanceHandler_NegativeRejected(t *testing.T) {
	repo := new(MockLedgerRepo)
	router := setupLedgerRouter(repo)

	repo.On("SetBalance", mock.Anything, 7, -1).Return(nil, ErrNegativeBalance)

	body, _ := json.Marshal(map[string]int{"study_hours": -1})
	req := httptest.NewRequest("PATCH", "/admin/ledger/7", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetEntriesHandler(t *testing.T) {
	repo := new(MockLedgerRepo)
	router := setupLedgerRouter(repo)

	repo.On("GetEntries", mock.Anything, 7, 50, 0).
		Return([]Entry{{ID: 1, AccountID: 3, AmountHours: 10, Type: EntryOrderCredit, BalanceAfter: 10}}, nil)

	req := httptest.NewRequest("GET", "/admin/ledger/7/entries", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var entries []Entry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, EntryOrderCredit, entries[0].Type)
}
