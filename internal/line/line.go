// Package line adapts the conversation engine to the LINE Messaging API.
//
// It parses webhook events into transport-agnostic models.Event values,
// renders abstract outbound messages into LINE messages, and delivers them as
// replies or pushes.
package line

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leadfirst/healthbot/internal/models"
	"github.com/line/line-bot-sdk-go/v7/linebot"
)

// Opts holds configuration options for the LINE service.
type Opts struct {
	ChannelSecret string
	ChannelToken  string
}

// Option defines a configuration option for the LINE service.
type Option func(*Opts)

// WithChannelSecret sets the LINE channel secret used for webhook signature
// verification.
func WithChannelSecret(secret string) Option {
	return func(o *Opts) {
		o.ChannelSecret = secret
	}
}

// WithChannelToken sets the LINE channel access token.
func WithChannelToken(token string) Option {
	return func(o *Opts) {
		o.ChannelToken = token
	}
}

// Service wraps the LINE bot client.
type Service struct {
	bot *linebot.Client
}

// NewService creates a LINE service based on provided options.
func NewService(opts ...Option) (*Service, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.ChannelSecret == "" || cfg.ChannelToken == "" {
		return nil, fmt.Errorf("LINE channel secret and token are required")
	}
	bot, err := linebot.New(cfg.ChannelSecret, cfg.ChannelToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create LINE client: %w", err)
	}
	slog.Debug("line.NewService: created LINE client")
	return &Service{bot: bot}, nil
}

// Reply answers the triggering event directly through its reply token.
func (s *Service) Reply(ctx context.Context, replyToken string, msgs []models.Message) error {
	rendered, err := renderAll(msgs)
	if err != nil {
		return err
	}
	if _, err := s.bot.ReplyMessage(replyToken, rendered...).WithContext(ctx).Do(); err != nil {
		return fmt.Errorf("LINE reply failed: %w", err)
	}
	return nil
}

// Push sends messages addressed to a user, independent of any inbound event.
func (s *Service) Push(ctx context.Context, to string, msgs []models.Message) error {
	rendered, err := renderAll(msgs)
	if err != nil {
		return err
	}
	if _, err := s.bot.PushMessage(to, rendered...).WithContext(ctx).Do(); err != nil {
		return fmt.Errorf("LINE push failed: %w", err)
	}
	return nil
}

// DisplayName looks up a user's profile name, best effort. Returns "" when
// the profile is unavailable.
func (s *Service) DisplayName(ctx context.Context, userID string) string {
	profile, err := s.bot.GetProfile(userID).WithContext(ctx).Do()
	if err != nil {
		slog.Debug("line: profile lookup failed", "userID", userID, "error", err)
		return ""
	}
	return profile.DisplayName
}
