package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/campus-go-api/internal/dto"
	"github.com/noah-isme/campus-go-api/internal/models"
	"github.com/noah-isme/campus-go-api/internal/observability"
	"github.com/noah-isme/campus-go-api/internal/repository"
)

// streamBuffer is the per-subscriber channel depth; slow SSE consumers
// drop messages rather than block publishers.
const streamBuffer = 16

// natsQueueGroup makes every node compete for each fanout message exactly
// once per deployment.
const natsQueueGroup = "campus-notifications"

// NotificationService publishes and streams user notifications.
type NotificationService interface {
	Publish(ctx context.Context, payload dto.NotificationCreateRequest) (dto.NotificationResponse, error)
	List(ctx context.Context, userID string, limit, offset int) ([]dto.NotificationResponse, error)
	MarkRead(ctx context.Context, id uint, userID string) (dto.NotificationResponse, error)
	Subscribe(userID string) (<-chan dto.NotificationResponse, func())
	Start(ctx context.Context)
}

type notificationService struct {
	repo        repository.NotificationRepository
	redis       *redis.Client
	redisStream string
	nats        *nats.Conn
	natsSubject string
	validator   *validator.Validate
	logger      zerolog.Logger
	tracer      trace.Tracer
	sanitizer   *bluemonday.Policy
	hub         *subscriberHub
	nodeID      string
}

// fanoutEnvelope travels over redis pub/sub and NATS so notifications reach
// subscribers connected to other nodes. Origin lets each node skip its own
// messages, which it already delivered locally.
type fanoutEnvelope struct {
	Origin    string                   `json:"origin"`
	Payload   dto.NotificationResponse `json:"payload"`
	EmittedAt time.Time                `json:"emitted_at"`
}

// NewNotificationService constructs a notification service. The channel
// base names both the redis pub/sub channel and the NATS subject; nil
// clients simply disable the corresponding fanout path.
func NewNotificationService(repo repository.NotificationRepository, redisClient *redis.Client, channelBase string, natsConn *nats.Conn, validate *validator.Validate, logger zerolog.Logger) NotificationService {
	stream, subject := "", ""
	if channelBase != "" {
		stream = channelBase + ":notifications"
		subject = strings.ReplaceAll(channelBase, ":", ".") + ".notifications"
	}

	return &notificationService{
		repo:        repo,
		redis:       redisClient,
		redisStream: stream,
		nats:        natsConn,
		natsSubject: subject,
		validator:   validate,
		logger:      logger.With().Str("component", "notification_service").Logger(),
		tracer:      otel.Tracer("github.com/noah-isme/campus-go-api/internal/service/notification"),
		sanitizer:   bluemonday.StrictPolicy(),
		hub:         newSubscriberHub(),
		nodeID:      uuid.NewString(),
	}
}

// Start launches the background fanout consumers. It returns immediately;
// the consumers stop when ctx is cancelled.
func (s *notificationService) Start(ctx context.Context) {
	if s.redis != nil && s.redisStream != "" {
		go s.runRedisConsumer(ctx)
	}
	if s.nats != nil && s.natsSubject != "" {
		s.runNATSConsumer(ctx)
	}
}

func (s *notificationService) Publish(ctx context.Context, payload dto.NotificationCreateRequest) (dto.NotificationResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.NotificationResponse{}, err
	}

	message := strings.TrimSpace(s.sanitizer.Sanitize(payload.Message))
	if message == "" {
		return dto.NotificationResponse{}, errors.New("notification message empty after sanitization")
	}

	spanCtx, span := s.tracer.Start(ctx, "notifications.publish", trace.WithAttributes(
		attribute.String("notification.user_id", payload.UserID),
		attribute.String("notification.type", payload.Type),
	))
	defer span.End()

	record := models.Notification{
		UserID:  payload.UserID,
		Type:    payload.Type,
		Message: message,
	}
	if err := s.repo.Create(spanCtx, &record); err != nil {
		span.RecordError(err)
		return dto.NotificationResponse{}, err
	}

	response := dto.NewNotificationResponse(record)

	s.hub.push(response.UserID, response)
	if err := s.fanout(spanCtx, response); err != nil {
		s.logger.Warn().Err(err).Msg("cross-node notification fanout failed")
	}
	observability.NotificationsPublishedTotal().WithLabelValues(response.Type).Inc()

	return response, nil
}

func (s *notificationService) List(ctx context.Context, userID string, limit, offset int) ([]dto.NotificationResponse, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, errors.New("user id is required")
	}

	notifications, err := s.repo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	return dto.NewNotificationResponseSlice(notifications), nil
}

func (s *notificationService) MarkRead(ctx context.Context, id uint, userID string) (dto.NotificationResponse, error) {
	spanCtx, span := s.tracer.Start(ctx, "notifications.mark_read", trace.WithAttributes(
		attribute.String("notification.user_id", userID),
	))
	defer span.End()

	notification, err := s.repo.MarkRead(spanCtx, id, userID)
	if err != nil {
		span.RecordError(err)
		return dto.NotificationResponse{}, err
	}

	return dto.NewNotificationResponse(notification), nil
}

func (s *notificationService) Subscribe(userID string) (<-chan dto.NotificationResponse, func()) {
	stream := s.hub.add(userID)
	observability.SSEClientsActive().Inc()

	cleanup := func() {
		s.hub.remove(userID, stream)
		observability.SSEClientsActive().Dec()
	}

	return stream, cleanup
}

func (s *notificationService) fanout(ctx context.Context, notification dto.NotificationResponse) error {
	payload, err := json.Marshal(fanoutEnvelope{
		Origin:    s.nodeID,
		Payload:   notification,
		EmittedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	if s.redis != nil && s.redisStream != "" {
		if err := s.redis.Publish(ctx, s.redisStream, payload).Err(); err != nil {
			return err
		}
	}
	if s.nats != nil && s.natsSubject != "" {
		if err := s.nats.Publish(s.natsSubject, payload); err != nil {
			return err
		}
	}

	return nil
}

func (s *notificationService) runRedisConsumer(ctx context.Context) {
	pubsub := s.redis.Subscribe(ctx, s.redisStream)
	defer func() { _ = pubsub.Close() }()

	for {
		msg, err := pubsub.ReceiveMessage(ctx)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				s.logger.Error().Err(err).Msg("notification redis subscription closed")
			}
			return
		}
		s.deliverRemote([]byte(msg.Payload))
	}
}

func (s *notificationService) runNATSConsumer(ctx context.Context) {
	sub, err := s.nats.QueueSubscribe(s.natsSubject, natsQueueGroup, func(msg *nats.Msg) {
		s.deliverRemote(msg.Data)
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to subscribe to nats notifications subject")
		return
	}

	go func() {
		<-ctx.Done()
		if err := sub.Drain(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to drain notification nats subscription")
		}
	}()
}

// deliverRemote hands a fanout message from another node to local
// subscribers. Messages this node originated are skipped.
func (s *notificationService) deliverRemote(payload []byte) {
	var envelope fanoutEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		s.logger.Warn().Err(err).Msg("invalid notification fanout payload")
		return
	}
	if envelope.Origin == s.nodeID {
		return
	}

	notification := envelope.Payload
	if notification.Type == "" {
		notification.Type = "generic"
	}

	observability.NotificationsPublishedTotal().WithLabelValues(notification.Type).Inc()
	s.hub.push(notification.UserID, notification)
}

// subscriberHub routes notifications to the SSE channels of the users they
// target. Channels that cannot keep up are skipped, not blocked on.
type subscriberHub struct {
	mu      sync.RWMutex
	streams map[string]map[chan dto.NotificationResponse]struct{}
}

func newSubscriberHub() *subscriberHub {
	return &subscriberHub{streams: make(map[string]map[chan dto.NotificationResponse]struct{})}
}

func (h *subscriberHub) add(userID string) chan dto.NotificationResponse {
	stream := make(chan dto.NotificationResponse, streamBuffer)

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.streams[userID] == nil {
		h.streams[userID] = make(map[chan dto.NotificationResponse]struct{})
	}
	h.streams[userID][stream] = struct{}{}

	return stream
}

func (h *subscriberHub) remove(userID string, stream chan dto.NotificationResponse) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if subscribers, ok := h.streams[userID]; ok {
		if _, ok := subscribers[stream]; ok {
			delete(subscribers, stream)
			close(stream)
		}
		if len(subscribers) == 0 {
			delete(h.streams, userID)
		}
	}
}

func (h *subscriberHub) push(userID string, notification dto.NotificationResponse) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for stream := range h.streams[userID] {
		select {
		case stream <- notification:
		default:
		}
	}
}
