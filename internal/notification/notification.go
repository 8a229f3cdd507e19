// Package notification sends desktop notifications for incoming messages.
// It uses the beeep library, which picks the platform mechanism (D-Bus or
// notify-send on Linux, AppleScript on macOS, toast on Windows).
package notification

import (
	"github.com/gen2brain/beeep"
	"github.com/rivo/uniseg"

	"github.com/zhubert/tgterm/internal/logger"
)

// AppName is the notification title prefix
const AppName = "tgterm"

// maxBodyGraphemes bounds the preview so a long message doesn't flood the
// notification daemon.
const maxBodyGraphemes = 120

var notifier = beeep.Notify

// SetNotifier replaces the function used to deliver notifications.
func SetNotifier(fn func(title, message string, icon any) error) {
	notifier = fn
}

// ResetNotifier restores beeep as the delivery function.
func ResetNotifier() {
	notifier = beeep.Notify
}

// Send delivers a desktop notification with the given title and message.
func Send(title, message string) error {
	log := logger.WithComponent("notification")
	log.Debug("sending notification", "title", title)
	err := notifier(title, message, "")
	if err != nil {
		log.Warn("failed to send notification", "error", err)
	}
	return err
}

// NewMessage announces a message from sender in chatTitle.
func NewMessage(chatTitle, sender, text string) error {
	return Send(AppName+": "+chatTitle, sender+": "+preview(text))
}

func preview(text string) string {
	if uniseg.GraphemeClusterCount(text) <= maxBodyGraphemes {
		return text
	}
	out := make([]byte, 0, len(text))
	g := uniseg.NewGraphemes(text)
	for n := 0; n < maxBodyGraphemes && g.Next(); n++ {
		out = append(out, g.Str()...)
	}
	return string(out) + "…"
}
