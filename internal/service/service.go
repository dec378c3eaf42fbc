package service

import (
	"context"
	"time"

	"beltsense/internal/llm"
	"beltsense/internal/logger"
	"beltsense/internal/models"
	"beltsense/internal/repository"
)

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Alerts owns the active-alert collection and the reading→alert pipeline.
type Alerts interface {
	HandleReading(ctx context.Context, r models.Reading) ([]models.AlertRecord, error)
	List() []models.AlertRecord
	Dismiss(ctx context.Context, source string) bool
}

// Recommendation asks the model endpoint for a structured diagnosis.
type Recommendation interface {
	RequestRecommendation(ctx context.Context, source string, fillLevel int) (models.AlertRecord, error)
}

// Chat manages the conversational session and its inactivity timeout.
type Chat interface {
	Open()
	Send(ctx context.Context, text string) (models.ChatMessage, error)
	Messages() []models.ChatMessage
	Close()
}

// ChuteStatus exposes the chute-status records consumed by the web app.
type ChuteStatus interface {
	List(ctx context.Context) ([]models.Chute, error)
	GetByID(ctx context.Context, id int) (*models.Chute, error)
	GetByBarcode(ctx context.Context, barcode string) (*models.Chute, error)
	UpdateStatusByID(ctx context.Context, id int, status string) (*models.Chute, error)
	UpdateStatusByBarcode(ctx context.Context, barcode, status string) (*models.Chute, error)
}

// Feed runs the background sensor loop that drives the alert pipeline.
// Stop via context cancellation in main() for graceful shutdown.
type Feed interface {
	Run(ctx context.Context, tick time.Duration)
}

// Chatter is the model endpoint capability shared by the recommendation
// and chat services.
type Chatter interface {
	Chat(ctx context.Context, messages []llm.Message) (string, error)
}

// AlertNotifier fires device-level notifications for qualifying alerts.
type AlertNotifier interface {
	MaybeNotify(rec models.AlertRecord)
}

//
// Root Service aggregates all sub-services.
//

type Service struct {
	Alerts
	Recommendation
	Chat
	ChuteStatus
	Feed
	Authorization
}

// Deps carries everything the sub-services are wired from.
type Deps struct {
	Repos          *repository.Repository
	Model          Chatter
	Notifier       AlertNotifier
	OnSessionReset func()
	ChatTimeout    time.Duration
	ChatPoll       time.Duration
	Log            *logger.Logger
}

// NewService wires repositories, the model client and the notifier into
// concrete services.
func NewService(d Deps) *Service {
	rec := NewRecommendationService(d.Model, d.Log)
	alerts := NewAlertsService(rec, d.Notifier, d.Repos.Chutes, d.Log)
	return &Service{
		Alerts:         alerts,
		Recommendation: rec,
		Chat:           NewChatService(d.Model, d.ChatTimeout, d.ChatPoll, d.OnSessionReset, d.Log),
		ChuteStatus:    NewChuteStatusService(d.Repos.Chutes, d.Log),
		Feed:           NewFeedService(d.Repos.Chutes, alerts, d.Log),
		Authorization:  NewAuthService(d.Repos.Auth),
	}
}
