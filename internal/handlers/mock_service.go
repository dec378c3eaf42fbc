package handlers

import (
	"context"
	"net/http"

	"beltsense/internal/models"
	"beltsense/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockAlerts struct {
	list        []models.AlertRecord
	handleResp  []models.AlertRecord
	handleErr   error
	dismissOK   bool
	lastReading models.Reading
	lastDismiss string
	handleCalls int
}

func (m *mockAlerts) HandleReading(ctx context.Context, r models.Reading) ([]models.AlertRecord, error) {
	m.handleCalls++
	m.lastReading = r
	return m.handleResp, m.handleErr
}
func (m *mockAlerts) List() []models.AlertRecord { return m.list }
func (m *mockAlerts) Dismiss(ctx context.Context, source string) bool {
	m.lastDismiss = source
	return m.dismissOK
}

type mockChat struct {
	messages  []models.ChatMessage
	sendResp  models.ChatMessage
	sendErr   error
	lastSent  string
	openCalls int
	closeCall int
}

func (m *mockChat) Open()  { m.openCalls++ }
func (m *mockChat) Close() { m.closeCall++ }
func (m *mockChat) Send(ctx context.Context, text string) (models.ChatMessage, error) {
	m.lastSent = text
	return m.sendResp, m.sendErr
}
func (m *mockChat) Messages() []models.ChatMessage { return m.messages }

type mockChuteStatus struct {
	chutes    []models.Chute
	listErr   error
	getResp   *models.Chute
	getErr    error
	updResp   *models.Chute
	updErr    error
	lastID    int
	lastCode  string
	lastValue string
}

func (m *mockChuteStatus) List(ctx context.Context) ([]models.Chute, error) {
	return m.chutes, m.listErr
}
func (m *mockChuteStatus) GetByID(ctx context.Context, id int) (*models.Chute, error) {
	m.lastID = id
	return m.getResp, m.getErr
}
func (m *mockChuteStatus) GetByBarcode(ctx context.Context, barcode string) (*models.Chute, error) {
	m.lastCode = barcode
	return m.getResp, m.getErr
}
func (m *mockChuteStatus) UpdateStatusByID(ctx context.Context, id int, status string) (*models.Chute, error) {
	m.lastID = id
	m.lastValue = status
	return m.updResp, m.updErr
}
func (m *mockChuteStatus) UpdateStatusByBarcode(ctx context.Context, barcode, status string) (*models.Chute, error) {
	m.lastCode = barcode
	m.lastValue = status
	return m.updResp, m.updErr
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
