package tui

import "github.com/sadopc/stempel/internal/action"

// --- Messages ---

type resultMsg struct {
	result action.Result
}

type loginDoneMsg struct {
	email string
	err   error
}

// suggestions complete the prompt on tab.
var suggestions = []string{
	"block start",
	"block start true",
	"block end",
	"block current",
	"block all",
	"block stats",
	"block export csv",
	"block export json",
	"block delete ",
	"block update ",
	"pause start",
	"pause end",
	"pause delete ",
	"pause update ",
	"help",
	"exit",
}
