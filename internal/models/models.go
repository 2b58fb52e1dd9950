// Package models defines the core data structures for healthbot.
//
// It includes inbound event types, abstract outbound message values, and the
// activity definitions shared across modules.
package models

import "fmt"

// EventKind identifies the kind of inbound chat-platform event.
type EventKind string

const (
	// EventText is a free-text message from the user.
	EventText EventKind = "text"
	// EventPostback is a structured button click carrying a command string.
	EventPostback EventKind = "postback"
	// EventFollow is emitted when the user adds the bot.
	EventFollow EventKind = "follow"
	// EventUnfollow is emitted when the user removes the bot.
	EventUnfollow EventKind = "unfollow"
)

// Event is a transport-agnostic inbound event.
type Event struct {
	ID          string    `json:"id"` // correlation ID assigned at the webhook boundary
	Kind        EventKind `json:"kind"`
	UserID      string    `json:"user_id"`
	Text        string    `json:"text,omitempty"`         // set for EventText
	Data        string    `json:"data,omitempty"`         // set for EventPostback
	DisplayName string    `json:"display_name,omitempty"` // set for EventFollow when the transport knows it
}

// MessageKind identifies the shape of an abstract outbound message.
type MessageKind string

const (
	// MessageText is a plain text message.
	MessageText MessageKind = "text"
	// MessageMenu is a button menu with selectable options.
	MessageMenu MessageKind = "buttonMenu"
	// MessageCard is a rich activity-progress card.
	MessageCard MessageKind = "card"
)

// OptionKind distinguishes how a menu option is delivered back to the bot.
type OptionKind string

const (
	// OptionPostback sends the option's data as a postback event.
	OptionPostback OptionKind = "postback"
	// OptionMessage sends the option's data as a plain text message.
	OptionMessage OptionKind = "message"
)

// MenuOption is one selectable entry in a button menu.
type MenuOption struct {
	Label string     `json:"label"`
	Kind  OptionKind `json:"kind"`
	Data  string     `json:"data"` // postback payload or message text
}

// ProgressCard carries the fields of an activity-progress card.
type ProgressCard struct {
	Title   string `json:"title"`
	Body    string `json:"body"`
	Current int    `json:"current"`
	Max     int    `json:"max"`
	Color   string `json:"color"` // header background, e.g. "#27ACB2"
}

// Message is an abstract outbound message. Exactly the fields implied by Kind
// are populated; the transport adapter renders it into platform messages.
type Message struct {
	Kind    MessageKind   `json:"kind"`
	Text    string        `json:"text,omitempty"`
	Title   string        `json:"title,omitempty"`
	Body    string        `json:"body,omitempty"`
	Options []MenuOption  `json:"options,omitempty"`
	Card    *ProgressCard `json:"card,omitempty"`
}

// Text builds a plain text message.
func Text(s string) Message {
	return Message{Kind: MessageText, Text: s}
}

// Menu builds a button menu message.
func Menu(title, body string, options ...MenuOption) Message {
	return Message{Kind: MessageMenu, Title: title, Body: body, Options: options}
}

// Card builds an activity-progress card message.
func Card(c ProgressCard) Message {
	return Message{Kind: MessageCard, Card: &c}
}

// Reply is the ordered outbound message sequence produced for one inbound
// event, together with its delivery mode. Followup messages are always pushed
// after the primary delivery and are not awaited for correctness.
type Reply struct {
	Messages []Message `json:"messages"`
	Push     bool      `json:"push"` // push instead of replying to the triggering event
	Followup []Message `json:"followup,omitempty"`
}

// Empty reports whether the reply carries no messages at all.
func (r Reply) Empty() bool {
	return len(r.Messages) == 0 && len(r.Followup) == 0
}

// Activity names one of the backend point counters.
type Activity string

const (
	// ActivityMeasurement counts blood-pressure measurements.
	ActivityMeasurement Activity = "healthMeasurement"
	// ActivityEducation counts health-education sessions.
	ActivityEducation Activity = "healthEducation"
	// ActivityExercise counts exercise sessions.
	ActivityExercise Activity = "exercise"
)

// ActivityInfo describes how an activity's progress is presented.
type ActivityInfo struct {
	Title string
	Max   int
	Color string
}

// activityInfos holds the presentation data per activity. The maxima come
// from the backing points program: 15 measurements, 2 education sessions,
// 6 exercise sessions.
var activityInfos = map[Activity]ActivityInfo{
	ActivityMeasurement: {Title: "Blood pressure checks", Max: 15, Color: "#27ACB2"},
	ActivityEducation:   {Title: "Health education", Max: 2, Color: "#A75CB2"},
	ActivityExercise:    {Title: "Exercise", Max: 6, Color: "#0060D0"},
}

// IsValidActivity checks if the given activity is supported.
func IsValidActivity(a Activity) bool {
	_, ok := activityInfos[a]
	return ok
}

// InfoFor returns the presentation info for an activity.
func InfoFor(a Activity) (ActivityInfo, error) {
	info, ok := activityInfos[a]
	if !ok {
		return ActivityInfo{}, fmt.Errorf("unknown activity %q", a)
	}
	return info, nil
}
