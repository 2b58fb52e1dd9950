// Package engine implements the conversation state machine.
//
// For each inbound event it loads the user's persisted state, decides the
// next prompt, validates input, calls out to the points backend where a
// transition requires it, and produces the outbound message sequence together
// with its delivery mode. Backend failures are converted into user-visible
// text replies and never abort a transition; state mutations applied before a
// failed call stay persisted.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/leadfirst/healthbot/internal/backend"
	"github.com/leadfirst/healthbot/internal/models"
	"github.com/leadfirst/healthbot/internal/store"
	"github.com/leadfirst/healthbot/internal/validate"
)

// Gateway is the outbound contract to the points backend. A returned error
// means the call did not complete (network or transport failure); a false
// result means the backend refused the operation.
type Gateway interface {
	LinkAccount(ctx context.Context, idNumber, lineID string) (backend.LinkResult, error)
	SearchAccount(ctx context.Context, idNumber string) (bool, error)
	RegisterAccount(ctx context.Context, name, idNumber, tel string) (bool, error)
	IncrementActivity(ctx context.Context, lineID string, activity string) (count int, ok bool, err error)
	Unlink(ctx context.Context, lineID string) (bool, error)
}

// Engine dispatches inbound events against per-user conversation state.
type Engine struct {
	store   store.Store
	gateway Gateway
	faq     map[string]string

	// locks serializes read-modify-write per user ID. Entries are never
	// removed; the map is bounded by the user population.
	locks sync.Map
}

// New creates an Engine. faq may be nil when no FAQ file is configured.
func New(st store.Store, gw Gateway, faq map[string]string) *Engine {
	slog.Debug("engine.New: creating engine", "faq_entries", len(faq))
	return &Engine{store: st, gateway: gw, faq: faq}
}

// HandleEvent processes one inbound event start to finish and returns the
// outbound reply. An error is returned only for store failures, which are
// fatal to the current request; the transport boundary should still
// acknowledge the event to avoid redelivery storms.
func (e *Engine) HandleEvent(ctx context.Context, ev models.Event) (models.Reply, error) {
	if ev.UserID == "" {
		return models.Reply{}, fmt.Errorf("event %s has no user ID", ev.ID)
	}

	lock := e.userLock(ev.UserID)
	lock.Lock()
	defer lock.Unlock()

	state, err := e.store.GetUserState(ev.UserID)
	if err != nil {
		return models.Reply{}, fmt.Errorf("failed to load state for %s: %w", ev.UserID, err)
	}
	if state == nil {
		fresh := models.NewUserState(ev.UserID)
		if err := e.store.SaveUserState(fresh); err != nil {
			return models.Reply{}, fmt.Errorf("failed to create state for %s: %w", ev.UserID, err)
		}
		state = &fresh
		slog.Debug("engine: created state for new user", "userID", ev.UserID, "eventID", ev.ID)
	}

	slog.Debug("engine: dispatching event", "eventID", ev.ID, "kind", ev.Kind,
		"userID", ev.UserID, "stepType", state.StepType, "step", state.Step)

	switch ev.Kind {
	case models.EventText:
		return e.handleText(ctx, state, ev.Text)
	case models.EventPostback:
		return e.handlePostback(ctx, state, ev.Data)
	case models.EventFollow:
		return e.handleFollow(state, ev.DisplayName)
	case models.EventUnfollow:
		// Retention policy may call for erasing the record; that decision
		// belongs to the operator, not the engine.
		slog.Info("engine: user unfollowed", "userID", ev.UserID, "eventID", ev.ID)
		return models.Reply{}, nil
	default:
		return models.Reply{}, fmt.Errorf("unknown event kind %q", ev.Kind)
	}
}

// userLock returns the mutex serializing events for one user.
func (e *Engine) userLock(userID string) *sync.Mutex {
	v, _ := e.locks.LoadOrStore(userID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// save persists the state record, stamping the update time.
func (e *Engine) save(state *models.UserState) error {
	state.UpdatedAt = time.Now()
	if err := e.store.SaveUserState(*state); err != nil {
		return fmt.Errorf("failed to save state for %s: %w", state.UserID, err)
	}
	return nil
}

// handleText dispatches a free-text message. The whitelisted restart commands
// take precedence even while a flow is active; otherwise the active flow's
// step handling wins over reinterpreting the text as a fresh command.
func (e *Engine) handleText(ctx context.Context, state *models.UserState, text string) (models.Reply, error) {
	switch text {
	case CmdNewMember:
		state.BeginFlow(models.StepTypeNewMember)
		if err := e.save(state); err != nil {
			return models.Reply{}, err
		}
		return reply(models.Text(msgAskName)), nil
	case CmdLinkAccount, CmdLogin:
		state.BeginFlow(models.StepTypeLinkLineID)
		if err := e.save(state); err != nil {
			return models.Reply{}, err
		}
		return reply(models.Text(msgAskIDNumber)), nil
	}

	switch state.StepType {
	case models.StepTypeLinkLineID:
		return e.handleLinkStep(ctx, state, text)
	case models.StepTypeNewMember:
		return e.handleNewMemberStep(ctx, state, text)
	}

	switch text {
	case CmdCollectPoint:
		return e.collectPoint(ctx, state), nil
	case CmdShowAllPoints:
		return models.Reply{Messages: []models.Message{operationOptionsMenu()}, Push: true}, nil
	}

	// Unmatched text: silence for unregistered users, FAQ for the rest.
	if !state.Registered {
		return models.Reply{}, nil
	}
	if answer, ok := e.faq[text]; ok {
		return reply(models.Text(answer)), nil
	}
	return models.Reply{}, nil
}

// handleLinkStep consumes the candidate ID number of the account-link flow.
func (e *Engine) handleLinkStep(ctx context.Context, state *models.UserState, text string) (models.Reply, error) {
	if !validate.IDNumber(text) {
		state.ErrCount++
		if err := e.save(state); err != nil {
			return models.Reply{}, err
		}
		return reply(models.Text(msgIDFormatError)), nil
	}

	res, linkErr := e.gateway.LinkAccount(ctx, text, state.UserID)
	var out string
	switch {
	case linkErr != nil:
		slog.Error("engine: link account call failed", "userID", state.UserID, "error", linkErr)
		out = msgContactAdmin
	case res.OK:
		out = msgLinkOK
	case res.Detail != "":
		out = res.Detail
	default:
		out = msgLinkDup
	}

	// The flow is over either way; the user can retry with a fresh command.
	state.EndFlow()
	if err := e.save(state); err != nil {
		return models.Reply{}, err
	}
	return reply(models.Text(out)), nil
}

// handleNewMemberStep advances the registration flow by one step.
func (e *Engine) handleNewMemberStep(ctx context.Context, state *models.UserState, text string) (models.Reply, error) {
	switch state.Step {
	case 1:
		state.Name = text
		state.Step = 2
		if err := e.save(state); err != nil {
			return models.Reply{}, err
		}
		return reply(models.Text(msgAskIDNumber)), nil

	case 2:
		if !validate.IDNumber(text) {
			state.ErrCount++
			if err := e.save(state); err != nil {
				return models.Reply{}, err
			}
			return reply(models.Text(msgIDFormatError)), nil
		}
		state.IDNumber = text
		state.Step = 3
		if err := e.save(state); err != nil {
			return models.Reply{}, err
		}
		return reply(models.Text(msgAskTel)), nil

	case 3:
		// Stored raw; the upstream registration service tolerates loose
		// phone formats.
		state.Tel = text
		state.Step = 4
		if err := e.save(state); err != nil {
			return models.Reply{}, err
		}
		return reply(confirmationMenu(*state)), nil

	case 4:
		return e.handleLoginStep(ctx, state, text)

	default:
		slog.Warn("engine: registration flow at unknown step, resetting", "userID", state.UserID, "step", state.Step)
		state.EndFlow()
		if err := e.save(state); err != nil {
			return models.Reply{}, err
		}
		return models.Reply{}, nil
	}
}

// handleLoginStep re-validates the ID number after registration and links the
// account when the registrant exists.
func (e *Engine) handleLoginStep(ctx context.Context, state *models.UserState, text string) (models.Reply, error) {
	if !validate.IDNumber(text) {
		state.ErrCount++
		if err := e.save(state); err != nil {
			return models.Reply{}, err
		}
		return reply(models.Text(msgLoginStepError)), nil
	}

	found, searchErr := e.gateway.SearchAccount(ctx, text)
	if searchErr != nil {
		slog.Error("engine: search account call failed", "userID", state.UserID, "error", searchErr)
		return reply(models.Text(msgContactAdmin)), nil
	}
	if !found {
		return reply(models.Text(msgPleaseRegister)), nil
	}

	state.IDNumber = text
	state.EndFlow()
	if err := e.save(state); err != nil {
		return models.Reply{}, err
	}

	// Best effort: the menu is presented regardless of the link outcome.
	if _, linkErr := e.gateway.LinkAccount(ctx, text, state.UserID); linkErr != nil {
		slog.Error("engine: link after login failed", "userID", state.UserID, "error", linkErr)
	}
	return models.Reply{Messages: []models.Message{operationOptionsMenu()}, Push: true}, nil
}

// collectPoint increments the default activity counter. Repeating the command
// repeats the increment; the backend is the system of record and the engine
// never deduplicates.
func (e *Engine) collectPoint(ctx context.Context, state *models.UserState) models.Reply {
	count, ok, err := e.gateway.IncrementActivity(ctx, state.UserID, string(models.ActivityMeasurement))
	if err != nil || !ok {
		if err != nil {
			slog.Error("engine: collect point call failed", "userID", state.UserID, "error", err)
		}
		return reply(models.Text(msgCollectFail))
	}

	info, _ := models.InfoFor(models.ActivityMeasurement)
	card := models.Card(models.ProgressCard{
		Title:   "Point card",
		Body:    "Current progress",
		Current: count,
		Max:     info.Max,
		Color:   info.Color,
	})
	return reply(card, models.Text(collectFeedback(count, info.Max)))
}

// handlePostback dispatches a button click.
func (e *Engine) handlePostback(ctx context.Context, state *models.UserState, data string) (models.Reply, error) {
	switch data {
	case PostbackCorrect:
		return e.confirmRegistration(ctx, state)

	case PostbackIncorrect:
		state.Name = ""
		state.IDNumber = ""
		state.Tel = ""
		state.Registered = false
		state.BeginFlow(models.StepTypeNewMember)
		if err := e.save(state); err != nil {
			return models.Reply{}, err
		}
		return reply(models.Text(msgReenterName)), nil

	case PostbackStart:
		return reply(activityMenu()), nil

	case PostbackLogout:
		return e.logout(ctx, state)

	case PostbackMonitor:
		return e.recordActivity(ctx, state, models.ActivityMeasurement), nil
	case PostbackEducate:
		return e.recordActivity(ctx, state, models.ActivityEducation), nil
	case PostbackExercise:
		return e.recordActivity(ctx, state, models.ActivityExercise), nil

	default:
		// Unknown payloads (for example the welcome menu's "other" choice)
		// are dropped silently.
		slog.Debug("engine: ignoring postback", "userID", state.UserID, "data", data)
		return models.Reply{}, nil
	}
}

// confirmRegistration submits the collected fields to the backend.
func (e *Engine) confirmRegistration(ctx context.Context, state *models.UserState) (models.Reply, error) {
	ok, regErr := e.gateway.RegisterAccount(ctx, state.Name, state.IDNumber, state.Tel)
	if regErr != nil {
		slog.Error("engine: register account call failed", "userID", state.UserID, "error", regErr)
		return reply(models.Text(msgContactAdmin)), nil
	}
	if !ok {
		return reply(models.Text(msgRegisterFail)), nil
	}

	state.Registered = true
	if err := e.save(state); err != nil {
		return models.Reply{}, err
	}
	return reply(models.Text(msgRegisterDone)), nil
}

// logout always resets the conversation state, then attempts the unlink call.
func (e *Engine) logout(ctx context.Context, state *models.UserState) (models.Reply, error) {
	state.EndFlow()
	if err := e.save(state); err != nil {
		return models.Reply{}, err
	}

	ok, unlinkErr := e.gateway.Unlink(ctx, state.UserID)
	switch {
	case unlinkErr != nil:
		slog.Error("engine: unlink call failed", "userID", state.UserID, "error", unlinkErr)
		return reply(models.Text(msgContactAdmin)), nil
	case ok:
		return reply(models.Text(msgLogoutOK)), nil
	default:
		return reply(models.Text(msgLogoutRetry)), nil
	}
}

// recordActivity increments one named activity counter and renders the
// progress card. The follow-up menu is pushed only after a success.
func (e *Engine) recordActivity(ctx context.Context, state *models.UserState, activity models.Activity) models.Reply {
	count, ok, err := e.gateway.IncrementActivity(ctx, state.UserID, string(activity))
	if err != nil || !ok {
		if err != nil {
			slog.Error("engine: activity increment failed", "userID", state.UserID, "activity", activity, "error", err)
		}
		return reply(models.Text(msgCollectFail))
	}

	info, infoErr := models.InfoFor(activity)
	if infoErr != nil {
		slog.Error("engine: unknown activity", "activity", activity, "error", infoErr)
		return reply(models.Text(msgCollectFail))
	}
	card := models.Card(models.ProgressCard{
		Title:   info.Title,
		Body:    "Current progress",
		Current: count,
		Max:     info.Max,
		Color:   info.Color,
	})
	return models.Reply{
		Messages: []models.Message{card, models.Text(msgCollectDone)},
		Followup: []models.Message{otherOptionsMenu()},
	}
}

// handleFollow greets a new follower and offers the registration menu.
func (e *Engine) handleFollow(state *models.UserState, displayName string) (models.Reply, error) {
	welcome := msgWelcome
	if displayName != "" {
		welcome = displayName + ", " + welcome
	}
	slog.Info("engine: user followed", "userID", state.UserID)
	return reply(models.Text(welcome), welcomeMenu()), nil
}

func reply(msgs ...models.Message) models.Reply {
	return models.Reply{Messages: msgs}
}
