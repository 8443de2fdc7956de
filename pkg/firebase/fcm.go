package firebase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Messenger is the part of messaging.Client the service uses
type Messenger interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// FCMService handles Firebase Cloud Messaging topic pushes
type FCMService struct {
	client Messenger
	log    *zap.SugaredLogger
	mu     sync.RWMutex
}

// NewFCMService initializes from credJSON (K8s Secret) or credPath.
// With neither usable the service stays uninitialized and pushes are skipped.
func NewFCMService(ctx context.Context, credJSON, credPath string, log *zap.SugaredLogger) *FCMService {
	s := &FCMService{log: log}

	opt, err := credentialsOption(credJSON, credPath)
	if err != nil {
		log.Warnf("[Firebase] %v, push disabled", err)
		return s
	}

	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		log.Errorf("[Firebase] Failed to initialize app: %v", err)
		return s
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		log.Errorf("[Firebase] Failed to get messaging client: %v", err)
		return s
	}

	s.client = client
	log.Info("[Firebase] Successfully initialized")
	return s
}

// NewFCMServiceWithClient wraps an existing messenger
func NewFCMServiceWithClient(client Messenger, log *zap.SugaredLogger) *FCMService {
	return &FCMService{client: client, log: log}
}

func credentialsOption(credJSON, credPath string) (option.ClientOption, error) {
	if credJSON != "" {
		var credMap map[string]interface{}
		if err := json.Unmarshal([]byte(credJSON), &credMap); err != nil {
			return nil, fmt.Errorf("invalid JSON in FIREBASE_CREDENTIALS: %w", err)
		}
		return option.WithCredentialsJSON([]byte(credJSON)), nil
	}

	if credPath == "" {
		return nil, errors.New("no credentials configured")
	}
	if _, err := os.Stat(credPath); err != nil {
		return nil, fmt.Errorf("credentials file not usable: %w", err)
	}
	return option.WithCredentialsFile(credPath), nil
}

// IsInitialized returns whether FCM is ready
func (s *FCMService) IsInitialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.client != nil
}

// SendToTopic pushes a notification to every device subscribed to topic
func (s *FCMService) SendToTopic(ctx context.Context, topic, title, body string, data map[string]string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.client == nil {
		s.log.Debug("[Firebase] Not initialized, skipping push")
		return nil
	}

	message := &messaging.Message{
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data:  data,
		Topic: topic,
	}

	response, err := s.client.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("push to topic %s: %w", topic, err)
	}

	s.log.Debugf("[Firebase] Push sent to topic %s: %s", topic, response)
	return nil
}
