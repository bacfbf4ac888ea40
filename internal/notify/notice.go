package notify

import (
	"context"
	"time"
)

type Icon string

const (
	IconSuccess Icon = "success"
	IconError   Icon = "error"
	IconWarning Icon = "warning"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ThemeFor maps the dark-mode flag to a dialog theme.
func ThemeFor(darkMode bool) Theme {
	if darkMode {
		return ThemeDark
	}
	return ThemeLight
}

// Notice is one modal/toast. A zero Timer means it stays until dismissed.
type Notice struct {
	Title   string        `json:"title"`
	Text    string        `json:"text"`
	Icon    Icon          `json:"icon,omitempty"`
	Theme   Theme         `json:"theme"`
	Timer   time.Duration `json:"-"`
	TimerMS int64         `json:"timer,omitempty"`
	Confirm bool          `json:"showCancelButton,omitempty"`
}

// SuccessTimer is how long success notices stay on screen.
const SuccessTimer = 2 * time.Second

// Success builds an auto-dismissed success notice.
func Success(title, text string, theme Theme) Notice {
	return Notice{Title: title, Text: text, Icon: IconSuccess, Theme: theme, Timer: SuccessTimer}
}

// Failure builds a blocking error notice.
func Failure(title, text string, theme Theme) Notice {
	return Notice{Title: title, Text: text, Icon: IconError, Theme: theme}
}

// Oops is the generic failure notice shown for any failed request.
func Oops(theme Theme) Notice {
	return Failure("Oops...", "Something went wrong", theme)
}

// Warning builds a blocking warning notice.
func Warning(title, text string, theme Theme) Notice {
	return Notice{Title: title, Text: text, Icon: IconWarning, Theme: theme}
}

// Notifier shows notices to one session.
type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

// Confirmer asks the user a yes/no question and reports the answer.
type Confirmer interface {
	Confirm(ctx context.Context, n Notice) bool
}
