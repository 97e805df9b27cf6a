package event

import (
	"context"
	"log/slog"

	"github.com/danupra/hrisgo/internal/domain"
	pkgkafka "github.com/danupra/hrisgo/pkg/kafka"
	"github.com/danupra/hrisgo/pkg/logger"
)

// Kafka topics for account lifecycle events.
const (
	TopicUserRegistered = "hris.user.registered"
	TopicUserSuspended  = "hris.user.suspended"
)

// Subject type constant.
const SubjectTypeUser = "user"

// Source identifier for events originating from this service.
const SourceHRIS = "hris-service"

// UserRegisteredData is the payload for a user.registered event.
type UserRegisteredData struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	RoleID      string `json:"role_id"`
}

// UserSuspendedData is the payload for a user.suspended event.
type UserSuspendedData struct {
	UserID string `json:"user_id"`
}

// Producer publishes account lifecycle events to Kafka. Publishing is best
// effort: failures are logged and never propagated, so a broker outage does
// not break sign-up or suspension.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, log *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: log,
	}
}

// UserRegistered publishes a user.registered event.
func (p *Producer) UserRegistered(ctx context.Context, user *domain.User) {
	data := UserRegisteredData{
		ID:          user.ID,
		Name:        user.Name,
		Email:       user.Email,
		PhoneNumber: user.PhoneNumber,
		RoleID:      user.Role.ID,
	}

	p.publish(ctx, TopicUserRegistered, user.ID, data)
}

// UserSuspended publishes a user.suspended event.
func (p *Producer) UserSuspended(ctx context.Context, userID string) {
	p.publish(ctx, TopicUserSuspended, userID, UserSuspendedData{UserID: userID})
}

func (p *Producer) publish(ctx context.Context, topic, subjectID string, data any) {
	event, err := pkgkafka.NewEvent(topic, subjectID, SubjectTypeUser, SourceHRIS, data)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to build event",
			slog.String("topic", topic),
			slog.String("error", err.Error()),
		)
		return
	}

	if cid := logger.CorrelationIDFromContext(ctx); cid != "" {
		event.WithCorrelationID(cid)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		p.logger.ErrorContext(ctx, "failed to publish event",
			slog.String("topic", topic),
			slog.String("subject_id", subjectID),
			slog.String("error", err.Error()),
		)
	}
}
