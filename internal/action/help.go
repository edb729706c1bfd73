package action

import "strings"

var usage = [][2]string{
	{"block start [true|false]", "Block starten, optional im Homeoffice"},
	{"block end", "laufenden Block beenden"},
	{"block current", "laufenden Block anzeigen"},
	{"block all", "alle Blöcke mit Zeitleiste anzeigen"},
	{"block stats", "Arbeitszeit der letzten Tage"},
	{"block export csv|json", "alle Blöcke exportieren"},
	{"block delete <id>", "Block löschen"},
	{"block update <id> start|end <zeit>", "Start oder Ende ändern (RFC 3339)"},
	{"block update <id> homeoffice true|false", "Homeoffice ändern"},
	{"pause start", "Pause starten"},
	{"pause end", "Pause beenden"},
	{"pause delete <id>", "Pause löschen"},
	{"pause update <id> start|end <zeit>", "Start oder Ende ändern (RFC 3339)"},
	{"help", "diese Übersicht"},
	{"exit", "beenden"},
}

func helpLines() []string {
	width := 0
	for _, u := range usage {
		width = max(width, len(u[0]))
	}
	lines := []string{headerStyle.Render("Kommandos")}
	for _, u := range usage {
		lines = append(lines, "  "+u[0]+strings.Repeat(" ", width-len(u[0])+2)+mutedStyle.Render(u[1]))
	}
	return lines
}
