package main

import "github.com/beevik/prefixtree/v2"

// completion entries resolvable by unambiguous prefix: command names and
// the single-letter polarization tags accepted inside an Annotation block.
type completion struct {
	kind string // "command" or "tag"
	text string
}

var completer = prefixtree.New[*completion]()

func init() {
	for _, c := range cmds.Commands {
		completer.Add(c.Name, &completion{kind: "command", text: c.Name})
	}
	for _, tag := range []string{"H", "V", "D", "A", "L", "R", "P"} {
		completer.Add(tag, &completion{kind: "tag", text: tag})
	}
}

// complete resolves prefix to its unambiguous completion, or returns
// prefix unchanged if it doesn't uniquely identify one.
func complete(prefix string) string {
	c, err := completer.FindValue(prefix)
	if err != nil {
		return prefix
	}
	return c.text
}
