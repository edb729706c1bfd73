package command

import "fmt"

// Kind identifies what a parsed input line asks for.
type Kind int

const (
	Unknown Kind = iota
	BlockStart
	BlockEnd
	BlockDelete
	BlockCurrent
	BlockAll
	BlockUpdateStart
	BlockUpdateEnd
	BlockUpdateHomeoffice
	BlockStats
	BlockExport
	PauseStart
	PauseEnd
	PauseDelete
	PauseUpdateStart
	PauseUpdateEnd
	Help
	Exit
)

var kindNames = map[Kind]string{
	Unknown:               "unknown",
	BlockStart:            "block start",
	BlockEnd:              "block end",
	BlockDelete:           "block delete",
	BlockCurrent:          "block current",
	BlockAll:              "block all",
	BlockUpdateStart:      "block update start",
	BlockUpdateEnd:        "block update end",
	BlockUpdateHomeoffice: "block update homeoffice",
	BlockStats:            "block stats",
	BlockExport:           "block export",
	PauseStart:            "pause start",
	PauseEnd:              "pause end",
	PauseDelete:           "pause delete",
	PauseUpdateStart:      "pause update start",
	PauseUpdateEnd:        "pause update end",
	Help:                  "help",
	Exit:                  "exit",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Command is one parsed input line. Only the fields relevant to Kind are
// set: ID for deletes and updates, Homeoffice for block start and the
// homeoffice update, Value for timestamp updates and the export format.
type Command struct {
	Kind       Kind
	ID         int
	Homeoffice bool
	Value      string
}

// Mutating reports whether running the command changes server state.
func (c Command) Mutating() bool {
	switch c.Kind {
	case BlockStart, BlockEnd, BlockDelete,
		BlockUpdateStart, BlockUpdateEnd, BlockUpdateHomeoffice,
		PauseStart, PauseEnd, PauseDelete,
		PauseUpdateStart, PauseUpdateEnd:
		return true
	}
	return false
}

func (c Command) String() string {
	switch c.Kind {
	case BlockStart:
		return fmt.Sprintf("%s %t", c.Kind, c.Homeoffice)
	case BlockDelete, PauseDelete:
		return fmt.Sprintf("%s %d", c.Kind, c.ID)
	case BlockUpdateStart, BlockUpdateEnd, PauseUpdateStart, PauseUpdateEnd:
		return fmt.Sprintf("%s %d %s", c.Kind, c.ID, c.Value)
	case BlockUpdateHomeoffice:
		return fmt.Sprintf("%s %d %t", c.Kind, c.ID, c.Homeoffice)
	case BlockExport:
		return fmt.Sprintf("%s %s", c.Kind, c.Value)
	}
	return c.Kind.String()
}
