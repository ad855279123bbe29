package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cpt/internal/modules/training/domain"
	trainingout "cpt/internal/modules/training/port/out"
	"cpt/internal/platform/markdown"
	"cpt/internal/platform/slug"
)

const indexMaxLines = 50

var indexBlock = markdown.Block{
	Start: "<!-- cpt:sessions:start -->",
	End:   "<!-- cpt:sessions:end -->",
}

type sessionFrontmatter struct {
	SchemaVersion   int    `yaml:"schema_version"`
	ID              string `yaml:"id"`
	Category        string `yaml:"category"`
	StartedAt       string `yaml:"started_at"`
	EndedAt         string `yaml:"ended_at"`
	DurationMinutes int    `yaml:"duration_minutes"`
	LastIndex       int    `yaml:"last_index"`
	Presented       int    `yaml:"presented"`
	Solved          int    `yaml:"solved"`
	Incorrect       int    `yaml:"incorrect"`
	Illegal         int    `yaml:"illegal"`
	Skipped         int    `yaml:"skipped"`
}

// MarkdownSessionLog writes one note per ended session under
// <home>/sessions/YYYY/MM/DD and keeps a list of recent notes in
// <home>/sessions/index.md.
type MarkdownSessionLog struct {
	home string
}

func NewMarkdownSessionLog(home string) trainingout.SessionLog {
	return &MarkdownSessionLog{home: home}
}

func (s *MarkdownSessionLog) Save(_ context.Context, session domain.Session) (string, error) {
	date := session.StartedAt
	dir := filepath.Join(s.home, "sessions", date.Format("2006"), date.Format("01"), date.Format("02"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create session dir: %w", err)
	}
	name := fmt.Sprintf("%s-%s.md", date.Format("150405"), slug.Make(session.Category))
	path := filepath.Join(dir, name)

	duration := int(session.EndedAt.Sub(session.StartedAt).Minutes())
	if duration < 0 {
		duration = 0
	}
	meta := sessionFrontmatter{
		SchemaVersion:   domain.SchemaVersion,
		ID:              session.ID,
		Category:        session.Category,
		StartedAt:       session.StartedAt.Format(time.RFC3339),
		EndedAt:         session.EndedAt.Format(time.RFC3339),
		DurationMinutes: duration,
		LastIndex:       session.Index + 1,
		Presented:       session.Stats.Presented,
		Solved:          session.Stats.Solved,
		Incorrect:       session.Stats.Incorrect,
		Illegal:         session.Stats.Illegal,
		Skipped:         session.Stats.Skipped,
	}
	body := strings.Builder{}
	fmt.Fprintf(&body, "# Session %s\n\n- Category: %s\n- Duration: %d minutes\n- Solved: %d of %d presented\n",
		session.ID, session.Category, duration, session.Stats.Solved, session.Stats.Presented)
	if len(session.Solved) > 0 {
		body.WriteString("\n## Solved\n\n")
		for _, key := range session.Solved {
			fmt.Fprintf(&body, "- `%s`\n", key)
		}
	}
	rendered, err := markdown.RenderFrontmatter(meta, body.String())
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write session note: %w", err)
	}
	if err := s.updateIndex(session, path); err != nil {
		return "", err
	}
	return path, nil
}

func (s *MarkdownSessionLog) updateIndex(session domain.Session, notePath string) error {
	indexPath := filepath.Join(s.home, "sessions", "index.md")
	current := "# Sessions\n"
	if payload, err := os.ReadFile(indexPath); err == nil {
		current = string(payload)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("read session index: %w", err)
	}

	rel, err := filepath.Rel(filepath.Dir(indexPath), notePath)
	if err != nil {
		rel = notePath
	}
	line := fmt.Sprintf("- %s [%s](%s) solved %d/%d",
		session.StartedAt.Format("2006-01-02 15:04"), session.Category, filepath.ToSlash(rel), session.Stats.Solved, session.Stats.Presented)
	lines := append([]string{line}, indexBlock.Lines(current)...)
	if len(lines) > indexMaxLines {
		lines = lines[:indexMaxLines]
	}
	updated := indexBlock.Replace(current, strings.Join(lines, "\n"))
	if err := os.WriteFile(indexPath, []byte(updated), 0o644); err != nil {
		return fmt.Errorf("write session index: %w", err)
	}
	return nil
}
