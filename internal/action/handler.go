// Package action runs parsed commands against the server and turns each
// outcome into lines for the terminal.
package action

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"time"

	"github.com/sadopc/stempel/internal/api"
	"github.com/sadopc/stempel/internal/block"
	"github.com/sadopc/stempel/internal/command"
	"github.com/sadopc/stempel/internal/export"
	"github.com/sadopc/stempel/internal/timeline"
)

// Service is the server API used by the handler. *api.Client implements it.
type Service interface {
	StartBlock(ctx context.Context, homeoffice bool) error
	EndBlock(ctx context.Context) error
	DeleteBlock(ctx context.Context, id int) error
	UpdateBlockStart(ctx context.Context, id int, start string) error
	UpdateBlockEnd(ctx context.Context, id int, end string) error
	UpdateBlockHomeoffice(ctx context.Context, id int, homeoffice bool) error
	CurrentBlock(ctx context.Context) (block.Block, error)
	AllBlocks(ctx context.Context) ([]block.Block, error)

	StartPause(ctx context.Context) error
	EndPause(ctx context.Context) error
	DeletePause(ctx context.Context, id int) error
	UpdatePauseStart(ctx context.Context, id int, start string) error
	UpdatePauseEnd(ctx context.Context, id int, end string) error
}

// Session is dropped when the server rejects its token.
type Session interface {
	Logout() error
}

// Result is what a command produced.
type Result struct {
	Lines []string
	// Quit ends the prompt loop.
	Quit bool
	// LoginRequired asks the caller to log in before the next command.
	LoginRequired bool
}

type Options struct {
	// ExportDir receives "block export" files.
	ExportDir string
	// Location is used for every printed timestamp; nil means time.Local.
	Location *time.Location
	// StatsDays is the number of days shown by "block stats".
	StatsDays int
	Now       func() time.Time
}

type Handler struct {
	svc       Service
	session   Session
	exportDir string
	loc       *time.Location
	statsDays int
	now       func() time.Time
}

func New(svc Service, session Session, opts Options) *Handler {
	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.StatsDays <= 0 {
		opts.StatsDays = 7
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Handler{
		svc:       svc,
		session:   session,
		exportDir: opts.ExportDir,
		loc:       opts.Location,
		statsDays: opts.StatsDays,
		now:       opts.Now,
	}
}

// Run executes cmd. width is the terminal width used for the timeline and
// the stats chart. Run never fails; errors become lines.
func (h *Handler) Run(ctx context.Context, cmd command.Command, width int) Result {
	switch cmd.Kind {
	case command.Exit:
		return Result{Quit: true}
	case command.Help:
		return Result{Lines: helpLines()}

	case command.BlockStart:
		return h.mutation(cmd, h.svc.StartBlock(ctx, cmd.Homeoffice),
			"> Block gestartet", "> Block konnte nicht gestartet werden")
	case command.BlockEnd:
		return h.mutation(cmd, h.svc.EndBlock(ctx),
			"> Block beendet", "> Block konnte nicht beendet werden")
	case command.BlockDelete:
		return h.mutation(cmd, h.svc.DeleteBlock(ctx, cmd.ID),
			fmt.Sprintf("> Block %d gelöscht", cmd.ID), fmt.Sprintf("> Block %d konnte nicht gelöscht werden", cmd.ID))
	case command.BlockUpdateStart:
		return h.mutation(cmd, h.svc.UpdateBlockStart(ctx, cmd.ID, cmd.Value),
			"> Block aktualisiert", "> Block konnte nicht aktualisiert werden")
	case command.BlockUpdateEnd:
		return h.mutation(cmd, h.svc.UpdateBlockEnd(ctx, cmd.ID, cmd.Value),
			"> Block aktualisiert", "> Block konnte nicht aktualisiert werden")
	case command.BlockUpdateHomeoffice:
		return h.mutation(cmd, h.svc.UpdateBlockHomeoffice(ctx, cmd.ID, cmd.Homeoffice),
			"> Block aktualisiert", "> Block konnte nicht aktualisiert werden")
	case command.BlockCurrent:
		return h.current(ctx, cmd)
	case command.BlockAll:
		return h.all(ctx, cmd, width)
	case command.BlockStats:
		return h.stats(ctx, cmd, width)
	case command.BlockExport:
		return h.export(ctx, cmd)

	case command.PauseStart:
		return h.mutation(cmd, h.svc.StartPause(ctx),
			"> Pause gestartet", "> Pause konnte nicht gestartet werden")
	case command.PauseEnd:
		return h.mutation(cmd, h.svc.EndPause(ctx),
			"> Pause beendet", "> Pause konnte nicht beendet werden")
	case command.PauseDelete:
		return h.mutation(cmd, h.svc.DeletePause(ctx, cmd.ID),
			fmt.Sprintf("> Pause %d gelöscht", cmd.ID), fmt.Sprintf("> Pause %d konnte nicht gelöscht werden", cmd.ID))
	case command.PauseUpdateStart:
		return h.mutation(cmd, h.svc.UpdatePauseStart(ctx, cmd.ID, cmd.Value),
			"> Pause aktualisiert", "> Pause konnte nicht aktualisiert werden")
	case command.PauseUpdateEnd:
		return h.mutation(cmd, h.svc.UpdatePauseEnd(ctx, cmd.ID, cmd.Value),
			"> Pause aktualisiert", "> Pause konnte nicht aktualisiert werden")
	}
	return Result{Lines: []string{errorStyle.Render("> Unbekanntes Kommando"), mutedStyle.Render("  help zeigt alle Kommandos")}}
}

func (h *Handler) mutation(cmd command.Command, err error, okMsg, failMsg string) Result {
	if err != nil {
		return h.failure(cmd, err, failMsg)
	}
	return Result{Lines: []string{successStyle.Render(okMsg)}}
}

func (h *Handler) current(ctx context.Context, cmd command.Command) Result {
	b, err := h.svc.CurrentBlock(ctx)
	if err != nil {
		if statusCode(err) == http.StatusNotFound {
			return Result{Lines: []string{mutedStyle.Render("> Kein aktiver Block")}}
		}
		return h.failure(cmd, err, "> Aktueller Block konnte nicht geladen werden")
	}
	lines, err := b.Describe(h.now(), h.loc)
	if err != nil {
		return h.failure(cmd, err, "> Aktueller Block konnte nicht gelesen werden")
	}
	return Result{Lines: append([]string{successStyle.Render("> Aktueller Block")}, lines...)}
}

func (h *Handler) all(ctx context.Context, cmd command.Command, width int) Result {
	blocks, err := h.svc.AllBlocks(ctx)
	if err != nil {
		return h.failure(cmd, err, "> Blöcke konnten nicht geladen werden")
	}
	if len(blocks) == 0 {
		return Result{Lines: []string{mutedStyle.Render("> Keine Blöcke vorhanden")}}
	}

	now := h.now()
	lines := []string{successStyle.Render(fmt.Sprintf("> %d Blöcke", len(blocks)))}
	for _, b := range blocks {
		desc, err := b.Describe(now, h.loc)
		if err != nil {
			return h.failure(cmd, err, fmt.Sprintf("> Block %d konnte nicht gelesen werden", b.ID))
		}
		lines = append(lines, headerStyle.Render(desc[0]))
		lines = append(lines, desc[1:]...)
		lines = append(lines, "")
	}

	tl := timeline.New(width)
	tl.Location = h.loc
	rows, err := tl.Render(block.Closed(blocks))
	if err != nil {
		return h.failure(cmd, err, "> Zeitleiste konnte nicht erstellt werden")
	}
	return Result{Lines: append(lines, rows...)}
}

func (h *Handler) export(ctx context.Context, cmd command.Command) Result {
	blocks, err := h.svc.AllBlocks(ctx)
	if err != nil {
		return h.failure(cmd, err, "> Blöcke konnten nicht geladen werden")
	}

	now := h.now()
	path := filepath.Join(h.exportDir, export.FileName(cmd.Value, now.In(h.loc)))
	switch cmd.Value {
	case "csv":
		err = export.ToCSV(blocks, now, path)
	case "json":
		err = export.ToJSON(blocks, now, path)
	default:
		err = fmt.Errorf("unsupported export format %q", cmd.Value)
	}
	if err != nil {
		return h.failure(cmd, err, "> Export fehlgeschlagen")
	}
	return Result{Lines: []string{successStyle.Render("> Exportiert nach " + path)}}
}

// failure logs err and maps it to a status line. A rejected or missing token
// drops the session and asks for a new login.
func (h *Handler) failure(cmd command.Command, err error, failMsg string) Result {
	log.Printf("action %q: %v", cmd, err)

	switch {
	case api.IsUnauthorized(err):
		if lerr := h.session.Logout(); lerr != nil {
			log.Printf("action: logout: %v", lerr)
		}
		return Result{Lines: []string{errorStyle.Render("> Anmeldung abgelaufen")}, LoginRequired: true}
	case errors.Is(err, api.ErrNoToken):
		return Result{Lines: []string{errorStyle.Render("> Nicht angemeldet")}, LoginRequired: true}
	case api.IsNetwork(err):
		return Result{Lines: []string{errorStyle.Render("> Netzwerk Fehler")}}
	}
	return Result{Lines: []string{errorStyle.Render(failMsg)}}
}

func statusCode(err error) int {
	var se *api.StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}
