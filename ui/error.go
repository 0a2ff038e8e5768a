package ui

import (
	"context"
	"errors"
	"os/exec"
	"runtime"
	"time"

	"github.com/ncruces/zenity"

	"github.com/seforimapp/zayit-installer/sentry"
)

// SupportURL is opened by the error dialog's help button. Empty hides it.
var SupportURL = "https://github.com/seforimapp/zayit"

// DisplayError sends err to sentry and shows a blocking pop-up. It is the
// only error the user ever sees.
func DisplayError(ctx context.Context, title string, err error) error {
	if err == nil {
		return nil
	}

	message := err.Error()
	if id := sentry.CaptureErr(ctx, err); id != nil {
		message += "\n\nCode: " + string(*id)
	}
	sentry.Flush(2 * time.Second)

	opts := []zenity.Option{
		zenity.Title(title),
		zenity.OKLabel("Close"),
		zenity.ErrorIcon,
	}
	if SupportURL != "" {
		opts = append(opts, zenity.ExtraButton("Help"))
	}

	choice := zenity.Error(message, opts...)
	if errors.Is(choice, zenity.ErrExtraButton) {
		return openSupportWebsite()
	}
	return nil
}

// openSupportWebsite tries to open SupportURL in the default browser.
func openSupportWebsite() error {
	var err error
	switch runtime.GOOS {
	case "windows":
		err = exec.Command("rundll32", "url.dll,FileProtocolHandler", SupportURL).Run()
	case "linux":
		err = exec.Command("xdg-open", SupportURL).Run()
	case "darwin":
		err = exec.Command("open", SupportURL).Run()
	default:
		err = errors.New("unable to open support page")
	}

	if err != nil {
		// None of the above worked. Show the url instead.
		_ = zenity.Info(
			"Please visit "+SupportURL+" for assistance.",
			zenity.Title("Error"),
			zenity.InfoIcon,
		)
		return err
	}
	return nil
}
