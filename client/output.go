package client

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/sagarc03/roster"
)

// Formatter formats results for output.
type Formatter interface {
	FormatUser(w io.Writer, u roster.User) error
	FormatUsers(w io.Writer, users []roster.User) error
	FormatDelete(w io.Writer, results []DeleteResult) error
	FormatError(w io.Writer, err error) error
}

// NewFormatter returns the appropriate formatter based on flags.
func NewFormatter(jsonOutput, quiet bool) Formatter {
	if jsonOutput {
		return &JSONFormatter{}
	}
	return &HumanFormatter{Quiet: quiet}
}

// HumanFormatter outputs human-readable text. In quiet mode only ids are
// printed.
type HumanFormatter struct {
	Quiet bool
}

// FormatUser formats a single user as human-readable text.
func (f *HumanFormatter) FormatUser(w io.Writer, u roster.User) error {
	if f.Quiet {
		_, _ = fmt.Fprintln(w, u.ID)
		return nil
	}
	_, _ = fmt.Fprintf(w, "ID:       %d\n", u.ID)
	_, _ = fmt.Fprintf(w, "Name:     %s\n", u.Name)
	_, _ = fmt.Fprintf(w, "Fullname: %s\n", u.Fullname)
	_, _ = fmt.Fprintf(w, "Nickname: %s\n", u.Nickname)
	return nil
}

// FormatUsers formats users as a table.
func (f *HumanFormatter) FormatUsers(w io.Writer, users []roster.User) error {
	if f.Quiet {
		for i := range users {
			_, _ = fmt.Fprintln(w, users[i].ID)
		}
		return nil
	}

	if len(users) == 0 {
		_, _ = fmt.Fprintln(w, "No users")
		return nil
	}

	maxNameLen := 4     // "NAME"
	maxFullnameLen := 8 // "FULLNAME"
	for i := range users {
		maxNameLen = max(maxNameLen, len(users[i].Name))
		maxFullnameLen = max(maxFullnameLen, len(users[i].Fullname))
	}
	maxNameLen = min(maxNameLen, 30)
	maxFullnameLen = min(maxFullnameLen, 40)

	_, _ = fmt.Fprintf(w, "%10s  %-*s  %-*s  %s\n", "ID", maxNameLen, "NAME", maxFullnameLen, "FULLNAME", "NICKNAME")
	_, _ = fmt.Fprintf(w, "%s  %s  %s  %s\n", strings.Repeat("-", 10), strings.Repeat("-", maxNameLen), strings.Repeat("-", maxFullnameLen), strings.Repeat("-", 8))

	for i := range users {
		u := &users[i]
		_, _ = fmt.Fprintf(w, "%10d  %-*s  %-*s  %s\n",
			u.ID,
			maxNameLen, truncate(u.Name, maxNameLen),
			maxFullnameLen, truncate(u.Fullname, maxFullnameLen),
			u.Nickname,
		)
	}

	return nil
}

// FormatDelete formats delete results as human-readable text.
func (f *HumanFormatter) FormatDelete(w io.Writer, results []DeleteResult) error {
	for i := range results {
		r := &results[i]
		if r.Err != nil {
			_, _ = fmt.Fprintf(w, "Error: %d - %v\n", r.ID, r.Err)
			continue
		}
		if !f.Quiet {
			_, _ = fmt.Fprintf(w, "Deleted: %d (%s)\n", r.ID, r.User.Name)
		}
	}
	return nil
}

// FormatError formats an error as human-readable text.
func (f *HumanFormatter) FormatError(w io.Writer, err error) error {
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
	return nil
}

// JSONFormatter outputs JSON.
type JSONFormatter struct{}

// FormatUser formats a single user as JSON.
func (f *JSONFormatter) FormatUser(w io.Writer, u roster.User) error {
	return writeJSON(w, u)
}

// FormatUsers formats users as a JSON array.
func (f *JSONFormatter) FormatUsers(w io.Writer, users []roster.User) error {
	if users == nil {
		users = []roster.User{}
	}
	return writeJSON(w, users)
}

// FormatDelete formats delete results as JSON.
func (f *JSONFormatter) FormatDelete(w io.Writer, results []DeleteResult) error {
	// Convert errors to strings for JSON output
	type jsonResult struct {
		ID      int64        `json:"id"`
		Deleted bool         `json:"deleted"`
		User    *roster.User `json:"user,omitempty"`
		Error   string       `json:"error,omitempty"`
	}

	output := struct {
		Results []jsonResult `json:"results"`
	}{
		Results: make([]jsonResult, len(results)),
	}

	for i := range results {
		r := &results[i]
		jr := jsonResult{
			ID:      r.ID,
			Deleted: r.Deleted,
		}
		if r.Err != nil {
			jr.Error = r.Err.Error()
		} else {
			jr.User = &r.User
		}
		output.Results[i] = jr
	}

	return writeJSON(w, output)
}

// FormatError formats an error as JSON.
func (f *JSONFormatter) FormatError(w io.Writer, err error) error {
	output := struct {
		Error string `json:"error"`
	}{
		Error: err.Error(),
	}
	return writeJSON(w, output)
}

// writeJSON writes a value as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
