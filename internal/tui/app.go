package tui

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/stempel/internal/action"
	"github.com/sadopc/stempel/internal/command"
	"github.com/sadopc/stempel/internal/store"
)

const requestTimeout = 30 * time.Second

// Runner executes parsed commands. *action.Handler implements it.
type Runner interface {
	Run(ctx context.Context, cmd command.Command, width int) action.Result
}

// Authenticator holds the login state. *auth.Session implements it.
type Authenticator interface {
	LoginNeeded() bool
	Login(ctx context.Context, email, password string) error
}

// App is the root Bubble Tea model: a single prompt line that runs one
// command at a time and prints the results above itself.
type App struct {
	runner  Runner
	session Authenticator
	store   *store.Store
	width   int

	input   textinput.Model
	spinner spinner.Model
	help    help.Model
	history history

	busy     bool
	quitting bool
	// pending runs once the login form has been completed.
	pending *command.Command

	login loginForm
}

func NewApp(r Runner, sess Authenticator, s *store.Store) App {
	in := textinput.New()
	in.Prompt = promptStyle.Render("> ")
	in.Placeholder = "Kommando eingeben (help zeigt alle)"
	in.ShowSuggestions = true
	in.SetSuggestions(suggestions)
	in.KeyMap.NextSuggestion = key.NewBinding(key.WithKeys("ctrl+n"))
	in.KeyMap.PrevSuggestion = key.NewBinding(key.WithKeys("ctrl+p"))
	in.Focus()

	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(spinnerStyle))

	h := help.New()
	h.ShowAll = false

	a := App{
		runner:  r,
		session: sess,
		store:   s,
		input:   in,
		spinner: sp,
		help:    h,
		history: loadHistory(s),
		login:   newLoginForm(),
	}
	if sess.LoginNeeded() {
		a.login.open(lastEmail(s), 0)
	}
	return a
}

func (a App) Init() tea.Cmd {
	if a.login.active() {
		return a.login.form.Init()
	}
	return textinput.Blink
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.help.Width = msg.Width
		a.input.Width = max(msg.Width-lipgloss.Width(a.input.Prompt)-1, 0)
		if a.login.active() {
			a.login.form.WithWidth(msg.Width)
		}
		return a, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			a.quitting = true
			return a, tea.Quit
		}

	case loginDoneMsg:
		return a.loginDone(msg)

	case resultMsg:
		return a.showResult(msg.result)

	case spinner.TickMsg:
		if !a.busy {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	if a.busy {
		return a, nil
	}
	if a.login.active() {
		return a.updateLogin(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Enter):
			return a.submit()
		case key.Matches(msg, keys.Up):
			a.input.SetValue(a.history.older(a.input.Value()))
			a.input.CursorEnd()
			return a, nil
		case key.Matches(msg, keys.Down):
			a.input.SetValue(a.history.newer(a.input.Value()))
			a.input.CursorEnd()
			return a, nil
		case key.Matches(msg, keys.Help):
			if a.input.Value() == "" {
				a.help.ShowAll = !a.help.ShowAll
				return a, nil
			}
		}
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// submit parses the prompt line and starts running it.
func (a App) submit() (tea.Model, tea.Cmd) {
	line := strings.TrimSpace(a.input.Value())
	a.input.Reset()
	if line == "" {
		return a, nil
	}

	cmd := command.Parse(line)
	a.history.add(line)
	a.record(line, cmd)
	echo := tea.Println(promptStyle.Render("> ") + line)

	if cmd.Kind == command.Exit {
		a.quitting = true
		return a, tea.Sequence(echo, tea.Quit)
	}
	if needsServer(cmd) && a.session.LoginNeeded() {
		a.pending = &cmd
		a.login.open(lastEmail(a.store), a.width)
		return a, tea.Sequence(echo, a.login.form.Init())
	}
	return a.dispatch(cmd, echo)
}

func (a App) dispatch(cmd command.Command, before ...tea.Cmd) (tea.Model, tea.Cmd) {
	a.busy = true
	a.input.Blur()
	run := a.runCmd(cmd)
	return a, tea.Batch(tea.Sequence(append(before, run)...), a.spinner.Tick)
}

func (a App) runCmd(cmd command.Command) tea.Cmd {
	r, width := a.runner, a.width
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return resultMsg{result: r.Run(ctx, cmd, width)}
	}
}

func (a App) showResult(res action.Result) (tea.Model, tea.Cmd) {
	a.busy = false
	var cmds []tea.Cmd
	if len(res.Lines) > 0 {
		cmds = append(cmds, tea.Println(strings.Join(res.Lines, "\n")))
	}

	switch {
	case res.Quit:
		a.quitting = true
		cmds = append(cmds, tea.Quit)
	case res.LoginRequired:
		a.login.open(lastEmail(a.store), a.width)
		cmds = append(cmds, a.login.form.Init())
	default:
		cmds = append(cmds, a.input.Focus())
	}
	return a, tea.Sequence(cmds...)
}

func (a App) record(line string, cmd command.Command) {
	if a.store == nil {
		return
	}
	if _, err := a.store.AddHistory(line, cmd.Kind.String()); err != nil {
		log.Printf("tui: record history: %v", err)
	}
}

// needsServer reports whether cmd talks to the server and therefore needs a
// valid login.
func needsServer(cmd command.Command) bool {
	switch cmd.Kind {
	case command.Unknown, command.Help, command.Exit:
		return false
	}
	return true
}

func (a App) View() string {
	if a.quitting {
		return ""
	}
	if a.busy {
		return a.spinner.View() + mutedStyle.Render(" bitte warten ...")
	}
	if a.login.active() {
		return lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Anmeldung"), a.login.form.View())
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		a.input.View(),
		footerStyle.Render(a.help.View(keys)),
	)
}
