// Package search evaluates the note query language: free-text substrings
// combined with operator filters, all conjunctive.
package search

import (
	"path"
	"sort"
	"strings"
	"time"

	"github.com/starford/othala/internal/index"
	"github.com/starford/othala/internal/models"
	"github.com/starford/othala/internal/parser"
	"github.com/starford/othala/internal/pathsafe"
	"github.com/starford/othala/internal/storage"
)

// Engine filters the metadata index, loading note bodies on demand for
// free-text and checklist operators.
type Engine struct {
	idx   *index.Index
	files storage.Provider
	now   func() time.Time
}

// NewEngine creates a search engine over the given index and content store.
func NewEngine(idx *index.Index, files storage.Provider) *Engine {
	return &Engine{idx: idx, files: files, now: time.Now}
}

// query is the parsed form of a search string.
type query struct {
	tag         string
	starredOnly bool
	dateWindow  string // "today" | "week" | "month" | ""
	attachments bool
	tasks       bool
	completed   *bool // non-nil: is:completed (true) / is:uncompleted (false)
	terms       []string
}

// parse splits a raw query into operators and free-text terms. Unknown
// `x:y` tokens are treated as free text, matching user expectations for
// literal searches containing colons.
func parse(raw string) query {
	var q query
	for _, part := range strings.Fields(raw) {
		lower := strings.ToLower(part)
		switch {
		case strings.HasPrefix(lower, "tag:"):
			if tag := strings.TrimSpace(lower[len("tag:"):]); tag != "" {
				q.tag = tag
			}
		case lower == "is:starred":
			q.starredOnly = true
		case lower == "is:completed":
			v := true
			q.completed = &v
		case lower == "is:uncompleted":
			v := false
			q.completed = &v
		case lower == "has:tasks":
			q.tasks = true
		case lower == "has:attachments":
			q.attachments = true
		case lower == "date:today", lower == "date:week", lower == "date:month":
			q.dateWindow = lower[len("date:"):]
		default:
			q.terms = append(q.terms, lower)
		}
	}
	return q
}

// Search returns the notes matching every operator and every free-text
// term, most recently updated first, ties broken by id. An empty query
// returns all notes.
func (e *Engine) Search(raw string) ([]models.Note, error) {
	notes := e.idx.Notes()
	q := parse(raw)

	// Window boundaries from the evaluation-time local date.
	now := e.now()
	today := now.Format("2006-01-02")
	weekStart := now.AddDate(0, 0, -7).Format("2006-01-02")
	monthStart := now.AddDate(0, 0, -30).Format("2006-01-02")

	var out []models.Note
	for _, n := range notes {
		if q.tag != "" && !hasTagFold(&n, q.tag) {
			continue
		}
		if q.starredOnly && !n.Important {
			continue
		}
		if q.dateWindow != "" {
			noteDate := n.UpdatedAt.Format("2006-01-02")
			ok := true
			switch q.dateWindow {
			case "today":
				ok = noteDate == today
			case "week":
				ok = noteDate >= weekStart
			case "month":
				ok = noteDate >= monthStart
			}
			if !ok {
				continue
			}
		}
		if q.attachments && len(n.Images) == 0 {
			continue
		}
		if q.tasks || q.completed != nil {
			unchecked, checked := parser.TaskStats(e.body(n.ID))
			if q.tasks && !unchecked && !checked {
				continue
			}
			if q.completed != nil {
				// A note is completed only when it has tasks and none are
				// open; uncompleted needs at least one open task.
				if *q.completed && (!checked || unchecked) {
					continue
				}
				if !*q.completed && !unchecked {
					continue
				}
			}
		}
		if len(q.terms) > 0 {
			title := strings.ToLower(n.Title)
			body := strings.ToLower(e.body(n.ID))
			match := true
			for _, term := range q.terms {
				if !strings.Contains(title, term) && !strings.Contains(body, term) {
					match = false
					break
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, n)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// body loads a note's content, treating a missing file as empty.
func (e *Engine) body(id string) string {
	data, err := e.files.Read(path.Join("notes", pathsafe.SanitizeFilename(id)+".txt"))
	if err != nil {
		return ""
	}
	return string(data)
}

func hasTagFold(n *models.Note, tag string) bool {
	for _, t := range n.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
