package engine

import (
	"fmt"

	"github.com/leadfirst/healthbot/internal/models"
)

// Top-level text commands.
const (
	CmdNewMember     = "new member"
	CmdLinkAccount   = "link account"
	CmdLogin         = "login"
	CmdCollectPoint  = "collect point"
	CmdShowAllPoints = "show all points"
)

// Postback command payloads carried by button menus.
const (
	PostbackCorrect   = "correct"
	PostbackIncorrect = "incorrect"
	PostbackStart     = "start"
	PostbackLogout    = "logout"
	PostbackMonitor   = "monitor"
	PostbackEducate   = "educate"
	PostbackExercise  = "exercise"
	PostbackOther     = "idontknow"
)

// User-visible reply texts.
const (
	msgAskName        = "Please enter your name"
	msgAskIDNumber    = "Please enter your ID number"
	msgAskTel         = "Please enter your phone number"
	msgIDFormatError  = "Invalid ID number format. Please enter 1 letter followed by 9 digits."
	msgLinkOK         = "Account linked successfully"
	msgLinkDup        = "Already linked or link error, please check!"
	msgContactAdmin   = "Please contact the administrator"
	msgRegisterDone   = "Registration complete! Enter your ID number to log in."
	msgRegisterFail   = "Registration failed! Please try again later."
	msgReenterName    = "Please re-enter your name"
	msgPleaseRegister = "Please register first!"
	msgLoginStepError = "Login step error or invalid ID number format"
	msgCollectFail    = "Failed to collect a point. Please try again later!"
	msgCollectDone    = "Point collected"
	msgLogoutOK       = "Logged out successfully"
	msgLogoutRetry    = "Please try again"
	msgWelcome        = "Hello! Welcome to the Health Helper. It looks like you are not a member yet; choose New member or Other to get started."
)

// operationOptionsMenu offers the top-level point-collection choices.
func operationOptionsMenu() models.Message {
	return models.Menu("What would you like to do?", "Please tap an option",
		models.MenuOption{Label: "Start collecting", Kind: models.OptionPostback, Data: PostbackStart},
		models.MenuOption{Label: "Nothing right now", Kind: models.OptionPostback, Data: PostbackLogout},
	)
}

// activityMenu offers the per-activity choices after "start".
func activityMenu() models.Message {
	return models.Menu("Which item would you like to handle?", "Please tap an option", activityOptions()...)
}

// otherOptionsMenu is the follow-up menu pushed after a successful
// point collection.
func otherOptionsMenu() models.Message {
	return models.Menu("Anything else you need to handle?", "Please tap an option", activityOptions()...)
}

func activityOptions() []models.MenuOption {
	return []models.MenuOption{
		{Label: "Health monitoring", Kind: models.OptionPostback, Data: PostbackMonitor},
		{Label: "Health education", Kind: models.OptionPostback, Data: PostbackEducate},
		{Label: "Exercise", Kind: models.OptionPostback, Data: PostbackExercise},
		{Label: "Log out", Kind: models.OptionPostback, Data: PostbackLogout},
	}
}

// confirmationMenu asks the user to confirm their collected details.
func confirmationMenu(state models.UserState) models.Message {
	body := fmt.Sprintf("Your name is %s,\nyour ID number is %s,\nyour phone number is %s.\nIs this correct?",
		state.Name, state.IDNumber, state.Tel)
	return models.Menu("Please confirm your details", body,
		models.MenuOption{Label: "Yes", Kind: models.OptionPostback, Data: PostbackCorrect},
		models.MenuOption{Label: "No", Kind: models.OptionPostback, Data: PostbackIncorrect},
	)
}

// welcomeMenu is offered on follow events.
func welcomeMenu() models.Message {
	return models.Menu("Service menu", "Please tap an option",
		models.MenuOption{Label: "New member", Kind: models.OptionMessage, Data: CmdNewMember},
		models.MenuOption{Label: "Other", Kind: models.OptionPostback, Data: PostbackOther},
	)
}

// collectFeedback picks the progress commentary for the default
// point-collection command.
func collectFeedback(count, max int) string {
	switch {
	case count < max:
		return "Point collected, keep it up!"
	case count == max:
		return "All points collected! Show a volunteer to claim your gift."
	default:
		return "Great job keeping up with your blood pressure checks!"
	}
}
