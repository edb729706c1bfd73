package tui

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/sadopc/stempel/internal/auth"
	"github.com/sadopc/stempel/internal/store"
)

type loginForm struct {
	form *huh.Form

	// Form values as pointers (survive value copies)
	email    *string
	password *string
}

func newLoginForm() loginForm {
	e, p := "", ""
	return loginForm{email: &e, password: &p}
}

func (l loginForm) active() bool { return l.form != nil }

func (l *loginForm) open(email string, width int) {
	*l.email = email
	*l.password = ""
	l.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Email").Value(l.email).Validate(required("Email")),
			huh.NewInput().Title("Passwort").
				EchoMode(huh.EchoModePassword).
				Value(l.password).
				Validate(required("Passwort")),
		),
	).WithShowHelp(false).WithShowErrors(true)
	if width > 0 {
		l.form.WithWidth(width)
	}
}

func (l *loginForm) close() {
	l.form = nil
	*l.password = ""
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(field + " fehlt")
		}
		return nil
	}
}

func (a App) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.login.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.login.form = f
	}

	switch a.login.form.State {
	case huh.StateCompleted:
		email, password := strings.TrimSpace(*a.login.email), *a.login.password
		a.login.close()
		a.busy = true
		return a, tea.Batch(a.loginCmd(email, password), a.spinner.Tick)
	case huh.StateAborted:
		a.quitting = true
		return a, tea.Quit
	}
	return a, cmd
}

func (a App) loginCmd(email, password string) tea.Cmd {
	sess := a.session
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return loginDoneMsg{email: email, err: sess.Login(ctx, email, password)}
	}
}

func (a App) loginDone(msg loginDoneMsg) (tea.Model, tea.Cmd) {
	a.busy = false
	if msg.err != nil {
		log.Printf("tui: login as %s: %v", msg.email, msg.err)
		a.login.open(msg.email, a.width)
		return a, tea.Sequence(
			tea.Println(errorStyle.Render(loginErrorText(msg.err))),
			a.login.form.Init(),
		)
	}

	if a.store != nil {
		if err := a.store.SetSetting(store.SettingLastEmail, msg.email); err != nil {
			log.Printf("tui: remember email: %v", err)
		}
	}
	done := tea.Println(successStyle.Render("> Angemeldet als " + msg.email))
	if a.pending != nil {
		cmd := *a.pending
		a.pending = nil
		return a.dispatch(cmd, done)
	}
	return a, tea.Sequence(done, a.input.Focus())
}

func loginErrorText(err error) string {
	var se *auth.StatusError
	var ue *url.Error
	switch {
	case errors.As(err, &se) && (se.Code == http.StatusUnauthorized || se.Code == http.StatusForbidden):
		return "> Email oder Passwort falsch"
	case errors.As(err, &ue):
		return "> Netzwerk Fehler"
	}
	return "> Anmeldung fehlgeschlagen"
}

func lastEmail(s *store.Store) string {
	if s == nil {
		return ""
	}
	email, err := s.GetSettingOr(store.SettingLastEmail, "")
	if err != nil {
		log.Printf("tui: read last email: %v", err)
	}
	return email
}
