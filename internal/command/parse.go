package command

import (
	"strconv"
	"strings"
)

// rule maps a token prefix to a command. The first rule whose path prefixes
// the input wins; a rule that then fails to build yields Unknown.
type rule struct {
	path   []string
	tokens int // exact token count required, 0 for any
	build  func(args []string) (Command, bool)
}

var rules = []rule{
	{path: []string{"exit"}, build: fixed(Exit)},
	{path: []string{"help"}, build: fixed(Help)},

	{path: []string{"block", "start"}, build: buildBlockStart},
	{path: []string{"block", "end"}, build: fixed(BlockEnd)},
	{path: []string{"block", "delete"}, build: withID(BlockDelete)},
	{path: []string{"block", "current"}, build: fixed(BlockCurrent)},
	{path: []string{"block", "all"}, build: fixed(BlockAll)},
	{path: []string{"block", "stats"}, build: fixed(BlockStats)},
	{path: []string{"block", "export"}, build: buildExport},
	{path: []string{"block", "update"}, tokens: 5, build: update(BlockUpdateStart, BlockUpdateEnd, true)},

	{path: []string{"pause", "start"}, build: fixed(PauseStart)},
	{path: []string{"pause", "end"}, build: fixed(PauseEnd)},
	{path: []string{"pause", "delete"}, build: withID(PauseDelete)},
	{path: []string{"pause", "update"}, tokens: 5, build: update(PauseUpdateStart, PauseUpdateEnd, false)},
}

// ExportFormats lists the accepted arguments of "block export".
var ExportFormats = []string{"csv", "json"}

// Parse turns one input line into a Command. Tokens are separated by single
// spaces and arguments cannot contain spaces. Malformed input never fails;
// it parses as Unknown.
func Parse(line string) Command {
	tokens := strings.Split(strings.TrimSpace(line), " ")

	for _, r := range rules {
		if !hasPrefix(tokens, r.path) {
			continue
		}
		if r.tokens > 0 && len(tokens) != r.tokens {
			return Command{Kind: Unknown}
		}
		cmd, ok := r.build(tokens[len(r.path):])
		if !ok {
			return Command{Kind: Unknown}
		}
		return cmd
	}
	return Command{Kind: Unknown}
}

func hasPrefix(tokens, path []string) bool {
	if len(tokens) < len(path) {
		return false
	}
	for i, p := range path {
		if tokens[i] != p {
			return false
		}
	}
	return true
}

func fixed(k Kind) func([]string) (Command, bool) {
	return func([]string) (Command, bool) {
		return Command{Kind: k}, true
	}
}

// buildBlockStart never fails: a missing or unparsable flag means false.
func buildBlockStart(args []string) (Command, bool) {
	homeoffice := false
	if len(args) > 0 {
		if b, ok := parseBool(args[0]); ok {
			homeoffice = b
		}
	}
	return Command{Kind: BlockStart, Homeoffice: homeoffice}, true
}

func withID(k Kind) func([]string) (Command, bool) {
	return func(args []string) (Command, bool) {
		if len(args) == 0 {
			return Command{}, false
		}
		id, ok := parseID(args[0])
		if !ok {
			return Command{}, false
		}
		return Command{Kind: k, ID: id}, true
	}
}

func buildExport(args []string) (Command, bool) {
	if len(args) == 0 {
		return Command{}, false
	}
	for _, f := range ExportFormats {
		if args[0] == f {
			return Command{Kind: BlockExport, Value: f}, true
		}
	}
	return Command{}, false
}

// update builds "<id> <field> <value>" commands. Timestamps are passed on
// verbatim; the server validates them.
func update(startKind, endKind Kind, homeoffice bool) func([]string) (Command, bool) {
	return func(args []string) (Command, bool) {
		id, ok := parseID(args[0])
		if !ok {
			return Command{}, false
		}
		field, value := args[1], args[2]
		switch {
		case field == "start":
			return Command{Kind: startKind, ID: id, Value: value}, true
		case field == "end":
			return Command{Kind: endKind, ID: id, Value: value}, true
		case field == "homeoffice" && homeoffice:
			b, ok := parseBool(value)
			if !ok {
				return Command{}, false
			}
			return Command{Kind: BlockUpdateHomeoffice, ID: id, Homeoffice: b}, true
		}
		return Command{}, false
	}
}

func parseID(s string) (int, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, false
	}
	return int(id), true
}

// parseBool only accepts the literals true and false.
func parseBool(s string) (bool, bool) {
	switch strings.TrimSpace(s) {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}
