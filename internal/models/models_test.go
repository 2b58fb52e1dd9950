package models

import "testing"

func TestMessageConstructors(t *testing.T) {
	msg := Text("hello")
	if msg.Kind != MessageText || msg.Text != "hello" {
		t.Errorf("Text() = %+v", msg)
	}

	menu := Menu("Title", "Pick one", MenuOption{Label: "Yes", Kind: OptionPostback, Data: "yes"})
	if menu.Kind != MessageMenu || menu.Title != "Title" || len(menu.Options) != 1 {
		t.Errorf("Menu() = %+v", menu)
	}

	card := Card(ProgressCard{Title: "Points", Current: 3, Max: 15, Color: "#27ACB2"})
	if card.Kind != MessageCard || card.Card == nil || card.Card.Max != 15 {
		t.Errorf("Card() = %+v", card)
	}
}

func TestReplyEmpty(t *testing.T) {
	var r Reply
	if !r.Empty() {
		t.Error("zero Reply should be empty")
	}
	r = Reply{Messages: []Message{Text("hi")}}
	if r.Empty() {
		t.Error("Reply with messages should not be empty")
	}
	r = Reply{Followup: []Message{Text("later")}}
	if r.Empty() {
		t.Error("Reply with followup should not be empty")
	}
}

func TestActivityInfo(t *testing.T) {
	tests := []struct {
		activity Activity
		valid    bool
		max      int
	}{
		{ActivityMeasurement, true, 15},
		{ActivityEducation, true, 2},
		{ActivityExercise, true, 6},
		{Activity("mystery"), false, 0},
	}
	for _, tt := range tests {
		if got := IsValidActivity(tt.activity); got != tt.valid {
			t.Errorf("IsValidActivity(%q) = %v, want %v", tt.activity, got, tt.valid)
		}
		info, err := InfoFor(tt.activity)
		if (err == nil) != tt.valid {
			t.Errorf("InfoFor(%q) err = %v, want valid=%v", tt.activity, err, tt.valid)
		}
		if err == nil && info.Max != tt.max {
			t.Errorf("InfoFor(%q).Max = %d, want %d", tt.activity, info.Max, tt.max)
		}
	}
}

func TestAPIResponses(t *testing.T) {
	if r := Success("data"); r.Status != string(APIStatusOK) || r.Result != "data" {
		t.Errorf("Success() = %+v", r)
	}
	if r := Error("boom"); r.Status != string(APIStatusError) || r.Message != "boom" {
		t.Errorf("Error() = %+v", r)
	}
	if r := SuccessWithMessage("done", nil); r.Message != "done" || r.Status != string(APIStatusOK) {
		t.Errorf("SuccessWithMessage() = %+v", r)
	}
}
