package line

import (
	"encoding/json"
	"fmt"

	"github.com/leadfirst/healthbot/internal/models"
	"github.com/line/line-bot-sdk-go/v7/linebot"
)

// renderAll turns abstract messages into LINE messages, preserving order.
func renderAll(msgs []models.Message) ([]linebot.SendingMessage, error) {
	rendered := make([]linebot.SendingMessage, 0, len(msgs))
	for _, m := range msgs {
		msg, err := render(m)
		if err != nil {
			return nil, err
		}
		rendered = append(rendered, msg)
	}
	return rendered, nil
}

func render(m models.Message) (linebot.SendingMessage, error) {
	switch m.Kind {
	case models.MessageText:
		return linebot.NewTextMessage(m.Text), nil
	case models.MessageMenu:
		return renderMenu(m), nil
	case models.MessageCard:
		if m.Card == nil {
			return nil, fmt.Errorf("card message without card payload")
		}
		return renderCard(*m.Card)
	default:
		return nil, fmt.Errorf("unknown message kind %q", m.Kind)
	}
}

func renderMenu(m models.Message) linebot.SendingMessage {
	actions := make([]linebot.TemplateAction, 0, len(m.Options))
	for _, o := range m.Options {
		switch o.Kind {
		case models.OptionMessage:
			actions = append(actions, &linebot.MessageAction{Label: o.Label, Text: o.Data})
		default:
			actions = append(actions, &linebot.PostbackAction{Label: o.Label, Data: o.Data})
		}
	}
	return linebot.NewTemplateMessage(m.Title, linebot.NewButtonsTemplate("", m.Title, m.Body, actions...))
}

// renderCard builds a single-bubble carousel with a header progress bar. The
// flex payload is assembled as JSON and unmarshalled into the SDK container
// types, which keeps the layout readable.
func renderCard(c models.ProgressCard) (linebot.SendingMessage, error) {
	progress := 0
	if c.Max > 0 {
		progress = c.Current * 100 / c.Max
	}
	if progress > 100 {
		progress = 100
	}

	barColor, err := scaleColor(c.Color, 0.75)
	if err != nil {
		return nil, err
	}
	trackColor, err := tintColor(c.Color, 0.3)
	if err != nil {
		return nil, err
	}

	bubble := map[string]interface{}{
		"type": "bubble",
		"size": "kilo",
		"header": map[string]interface{}{
			"type":            "box",
			"layout":          "vertical",
			"backgroundColor": c.Color,
			"paddingTop":      "19px",
			"paddingAll":      "12px",
			"paddingBottom":   "16px",
			"contents": []interface{}{
				map[string]interface{}{
					"type": "text", "text": c.Title, "color": "#FFFFFF",
					"size": "md", "align": "start", "gravity": "center",
				},
				map[string]interface{}{
					"type": "text", "text": fmt.Sprintf("%d/%d", c.Current, c.Max), "color": "#FFFFFF",
					"align": "start", "size": "xs", "gravity": "center", "margin": "lg",
				},
				map[string]interface{}{
					"type":   "box",
					"layout": "vertical",
					"contents": []interface{}{
						map[string]interface{}{
							"type":            "box",
							"layout":          "vertical",
							"contents":        []interface{}{map[string]interface{}{"type": "filler"}},
							"width":           fmt.Sprintf("%d%%", progress),
							"backgroundColor": barColor,
							"height":          "9px",
						},
					},
					"backgroundColor": trackColor,
					"height":          "9px",
					"margin":          "sm",
				},
			},
		},
		"body": map[string]interface{}{
			"type":   "box",
			"layout": "vertical",
			"flex":   1,
			"contents": []interface{}{
				map[string]interface{}{
					"type": "text", "text": c.Body, "color": "#8C8C8C", "size": "sm", "wrap": true,
				},
			},
		},
	}
	carousel := map[string]interface{}{
		"type":     "carousel",
		"contents": []interface{}{bubble},
	}

	data, err := json.Marshal(carousel)
	if err != nil {
		return nil, fmt.Errorf("failed to encode progress card: %w", err)
	}
	container, err := linebot.UnmarshalFlexMessageJSON(data)
	if err != nil {
		return nil, fmt.Errorf("failed to build flex container: %w", err)
	}
	return linebot.NewFlexMessage(c.Title, container), nil
}

// scaleColor darkens a #RRGGBB color by the given factor in [0,1].
func scaleColor(color string, factor float64) (string, error) {
	r, g, b, err := parseColor(color)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("#%02x%02x%02x",
		int(float64(r)*factor), int(float64(g)*factor), int(float64(b)*factor)), nil
}

// tintColor lightens a #RRGGBB color toward white by the given factor in [0,1].
func tintColor(color string, factor float64) (string, error) {
	r, g, b, err := parseColor(color)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("#%02x%02x%02x",
		r+int(float64(255-r)*factor), g+int(float64(255-g)*factor), b+int(float64(255-b)*factor)), nil
}

func parseColor(color string) (r, g, b int, err error) {
	if len(color) != 7 || color[0] != '#' {
		return 0, 0, 0, fmt.Errorf("invalid color %q", color)
	}
	if _, err := fmt.Sscanf(color[1:], "%02x%02x%02x", &r, &g, &b); err != nil {
		return 0, 0, 0, fmt.Errorf("invalid color %q: %w", color, err)
	}
	return r, g, b, nil
}
