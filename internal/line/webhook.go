package line

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/leadfirst/healthbot/internal/models"
	"github.com/line/line-bot-sdk-go/v7/linebot"
)

// Handler processes one transport-agnostic event and produces the reply.
type Handler interface {
	HandleEvent(ctx context.Context, ev models.Event) (models.Reply, error)
}

// WebhookHandler returns the HTTP handler for the LINE webhook endpoint.
// Engine errors are logged but the webhook is still acknowledged with 200 to
// avoid platform redelivery storms.
func (s *Service) WebhookHandler(h Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		events, err := s.bot.ParseRequest(r)
		if err != nil {
			if err == linebot.ErrInvalidSignature {
				slog.Warn("line: webhook signature invalid")
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			slog.Error("line: failed to parse webhook request", "error", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		ctx := r.Context()
		for _, ev := range events {
			s.processEvent(ctx, h, ev)
		}

		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	}
}

// processEvent translates and dispatches a single webhook event.
func (s *Service) processEvent(ctx context.Context, h Handler, ev *linebot.Event) {
	if ev.Source == nil || ev.Source.UserID == "" {
		slog.Debug("line: skipping event without user source", "type", ev.Type)
		return
	}

	translated, ok := s.translate(ctx, ev)
	if !ok {
		return
	}

	reply, err := h.HandleEvent(ctx, translated)
	if err != nil {
		slog.Error("line: engine failed to handle event", "eventID", translated.ID, "error", err)
		return
	}
	if reply.Empty() {
		return
	}

	if len(reply.Messages) > 0 {
		var sendErr error
		if reply.Push {
			sendErr = s.Push(ctx, translated.UserID, reply.Messages)
		} else {
			sendErr = s.Reply(ctx, ev.ReplyToken, reply.Messages)
		}
		if sendErr != nil {
			slog.Error("line: failed to deliver reply", "eventID", translated.ID, "push", reply.Push, "error", sendErr)
			return
		}
	}

	// Follow-up messages are pushed after the primary delivery, best effort.
	if len(reply.Followup) > 0 {
		if err := s.Push(ctx, translated.UserID, reply.Followup); err != nil {
			slog.Error("line: failed to push follow-up", "eventID", translated.ID, "error", err)
		}
	}
}

// translate maps a LINE webhook event onto the transport-agnostic event
// model. The second result is false for event shapes the bot does not handle.
func (s *Service) translate(ctx context.Context, ev *linebot.Event) (models.Event, bool) {
	out := models.Event{
		ID:     uuid.NewString(),
		UserID: ev.Source.UserID,
	}

	switch ev.Type {
	case linebot.EventTypeMessage:
		msg, ok := ev.Message.(*linebot.TextMessage)
		if !ok {
			slog.Debug("line: ignoring non-text message", "userID", out.UserID)
			return models.Event{}, false
		}
		out.Kind = models.EventText
		out.Text = msg.Text
	case linebot.EventTypePostback:
		if ev.Postback == nil {
			return models.Event{}, false
		}
		out.Kind = models.EventPostback
		out.Data = ev.Postback.Data
	case linebot.EventTypeFollow:
		out.Kind = models.EventFollow
		out.DisplayName = s.DisplayName(ctx, out.UserID)
	case linebot.EventTypeUnfollow:
		out.Kind = models.EventUnfollow
	default:
		slog.Debug("line: ignoring event type", "type", ev.Type)
		return models.Event{}, false
	}

	slog.Debug("line: webhook event received", "eventID", out.ID, "kind", out.Kind, "userID", out.UserID)
	return out, true
}
