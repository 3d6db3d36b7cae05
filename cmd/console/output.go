package main

import (
	"bufio"
	"fmt"
	"io"

	"github.com/nicovaras/clare/internal/modules/console/domain"
)

// printResult writes a panel result the way the page lays it out: notices
// first, then each section with its conversations or its empty text.
func printResult(w io.Writer, result *domain.PanelResult) error {
	out := bufio.NewWriter(w)
	for _, n := range result.Notices {
		fmt.Fprintf(out, "[%s] %s\n", n.Level, n.Text)
	}
	for _, s := range result.Sections {
		fmt.Fprintf(out, "\n== %s ==\n", s.Title)
		for _, n := range s.Notices {
			fmt.Fprintf(out, "[%s] %s\n", n.Level, n.Text)
		}
		for _, c := range s.Conversations {
			fmt.Fprintf(out, "Conversation ID: %s\n%s\n", c.ConversationID, c.Messages)
		}
		if len(s.Notices) == 0 && len(s.Conversations) == 0 && s.Empty != "" {
			fmt.Fprintf(out, "[%s] %s\n", domain.LevelInfo, s.Empty)
		}
	}
	return out.Flush()
}
