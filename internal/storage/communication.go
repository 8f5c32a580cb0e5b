package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/valter-silva-au/ai-dev-team/pkg/models"
)

const transcriptTitle = "# Team Communication Log"

// TranscriptStore persists a run's communication log as a markdown
// transcript, one section per entry.
type TranscriptStore interface {
	Write(log []models.Communication) error
	Read() ([]models.Communication, error)
}

type fileTranscriptStore struct {
	path string
}

// NewTranscriptStore creates a TranscriptStore backed by dir/filename.
func NewTranscriptStore(dir, filename string) TranscriptStore {
	return &fileTranscriptStore{path: filepath.Join(dir, filename)}
}

// FormatTranscript renders log entries as markdown.
func FormatTranscript(log []models.Communication) string {
	var sb strings.Builder
	sb.WriteString(transcriptTitle + "\n")
	for _, c := range log {
		sb.WriteString(fmt.Sprintf("\n## %s %s %s\n\n", c.Time.UTC().Format(time.RFC3339), c.Role, c.Action))
		if c.TaskID != "" {
			sb.WriteString(fmt.Sprintf("**Task:** %s\n", c.TaskID))
		}
		if c.Outcome != "" {
			sb.WriteString(fmt.Sprintf("**Outcome:** %s\n", c.Outcome))
		}
		if len(c.TaskIDs) > 0 {
			sb.WriteString(fmt.Sprintf("**Tasks:** %s\n", strings.Join(c.TaskIDs, ", ")))
		}
		sb.WriteString("\n")
		for _, line := range strings.Split(c.Message, "\n") {
			sb.WriteString(escapeHeading(line))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// escapeHeading adds a backslash to message lines that would otherwise read
// as an entry heading. Lines already escaped gain one more so the mapping
// stays reversible.
func escapeHeading(line string) string {
	if strings.HasPrefix(strings.TrimLeft(line, `\`), "## ") {
		return `\` + line
	}
	return line
}

func unescapeHeading(line string) string {
	if strings.HasPrefix(line, `\`) && strings.HasPrefix(strings.TrimLeft(line, `\`), "## ") {
		return line[1:]
	}
	return line
}

// ParseTranscript parses markdown produced by FormatTranscript.
func ParseTranscript(content string) []models.Communication {
	var out []models.Communication
	sections := strings.Split(content, "\n## ")
	for _, section := range sections[1:] {
		out = append(out, parseTranscriptSection(section))
	}
	return out
}

func parseTranscriptSection(section string) models.Communication {
	c := models.Communication{}
	header, body, _ := strings.Cut(section, "\n")

	fields := strings.Fields(header)
	if len(fields) > 0 {
		if t, err := time.Parse(time.RFC3339, fields[0]); err == nil {
			c.Time = t
		}
	}
	if len(fields) > 1 {
		c.Role = models.AgentRole(fields[1])
	}
	if len(fields) > 2 {
		c.Action = models.Action(fields[2])
	}

	var message []string
	for _, line := range strings.Split(strings.TrimLeft(body, "\n"), "\n") {
		switch {
		case message == nil && strings.HasPrefix(line, "**Task:**"):
			c.TaskID = strings.TrimSpace(strings.TrimPrefix(line, "**Task:**"))
		case message == nil && strings.HasPrefix(line, "**Outcome:**"):
			c.Outcome = models.Outcome(strings.TrimSpace(strings.TrimPrefix(line, "**Outcome:**")))
		case message == nil && strings.HasPrefix(line, "**Tasks:**"):
			for _, id := range strings.Split(strings.TrimPrefix(line, "**Tasks:**"), ",") {
				if id = strings.TrimSpace(id); id != "" {
					c.TaskIDs = append(c.TaskIDs, id)
				}
			}
		case message == nil && line == "":
			message = []string{}
		default:
			if message == nil {
				message = []string{}
			}
			message = append(message, unescapeHeading(line))
		}
	}
	c.Message = strings.TrimSpace(strings.Join(message, "\n"))
	return c
}

func (s *fileTranscriptStore) Write(log []models.Communication) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("writing transcript: creating directory: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(FormatTranscript(log)), 0o600); err != nil {
		return fmt.Errorf("writing transcript: %w", err)
	}
	return nil
}

func (s *fileTranscriptStore) Read() ([]models.Communication, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading transcript: %w", err)
	}
	return ParseTranscript(string(data)), nil
}
