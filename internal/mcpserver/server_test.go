package mcpserver

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/othala/internal/attachments"
	"github.com/starford/othala/internal/notestore"
	"github.com/starford/othala/internal/search"
	"github.com/starford/othala/internal/testutil"
	"github.com/starford/othala/internal/versions"
)

func testServer(t *testing.T) (*Server, *notestore.Service) {
	t.Helper()

	_, store, idx := testutil.TestIndex(t)
	svc := notestore.New(store, idx, versions.NewArchive(store),
		attachments.NewStore(store), testutil.Logger())
	srv := New(svc, search.NewEngine(idx, store))
	return srv, svc
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// Since mcp-go doesn't expose a direct "call tool" test helper, we test
	// through the tool handler functions directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "search_notes":
		result, err = srv.searchNotes(ctx, req)
	case "read_note":
		result, err = srv.readNote(ctx, req)
	case "save_note":
		result, err = srv.saveNote(ctx, req)
	case "list_notes":
		result, err = srv.listNotes(ctx, req)
	case "get_backlinks":
		result, err = srv.getBacklinks(ctx, req)
	case "daily_note":
		result, err = srv.dailyNote(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestSaveAndReadNote(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "save_note", map[string]interface{}{
		"title": "Test Note",
		"body":  "hello #mcp",
	})
	text := resultText(r)
	if !strings.HasPrefix(text, "saved: ") {
		t.Fatalf("save result = %q", text)
	}
	id := strings.TrimPrefix(text, "saved: ")

	r = callTool(t, srv, "read_note", map[string]interface{}{"id": id})
	text = resultText(r)
	if !strings.Contains(text, "hello #mcp") || !strings.Contains(text, "Test Note") {
		t.Errorf("read result = %q", text)
	}
}

func TestReadNoteMissing(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "read_note", map[string]interface{}{"id": "nope"})
	if !r.IsError {
		t.Error("expected error for missing note")
	}
}

func TestListNotes(t *testing.T) {
	srv, svc := testServer(t)

	r := callTool(t, srv, "list_notes", map[string]interface{}{})
	if got := resultText(r); got != "no notes" {
		t.Errorf("empty list = %q", got)
	}

	if _, err := svc.SaveNote("", "Alpha", "a"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.SaveNote("", "Beta", "b"); err != nil {
		t.Fatal(err)
	}
	r = callTool(t, srv, "list_notes", map[string]interface{}{})
	text := resultText(r)
	if !strings.Contains(text, "Alpha") || !strings.Contains(text, "Beta") {
		t.Errorf("list = %q", text)
	}
}

func TestSearchNotes(t *testing.T) {
	srv, svc := testServer(t)
	hit, err := svc.SaveNote("", "Grocery Run", "milk and eggs #errand")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.SaveNote("", "Other", "unrelated"); err != nil {
		t.Fatal(err)
	}

	r := callTool(t, srv, "search_notes", map[string]interface{}{"query": "tag:errand"})
	text := resultText(r)
	if !strings.Contains(text, hit.ID) {
		t.Errorf("search result missing hit: %q", text)
	}
	if strings.Contains(text, "unrelated") {
		t.Errorf("search result has non-match: %q", text)
	}
}

func TestGetBacklinks(t *testing.T) {
	srv, svc := testServer(t)
	target, err := svc.SaveNote("", "Target", "target body")
	if err != nil {
		t.Fatal(err)
	}
	linker, err := svc.SaveNote("", "Linker", "see [[Target]]")
	if err != nil {
		t.Fatal(err)
	}

	r := callTool(t, srv, "get_backlinks", map[string]interface{}{"id": target.ID})
	text := resultText(r)
	if !strings.Contains(text, linker.ID) {
		t.Errorf("backlinks = %q, want %s", text, linker.ID)
	}

	r = callTool(t, srv, "get_backlinks", map[string]interface{}{"id": linker.ID})
	if got := resultText(r); got != "no backlinks found" {
		t.Errorf("backlinks for linker = %q", got)
	}
}

func TestDailyNote(t *testing.T) {
	srv, _ := testServer(t)

	first := resultText(callTool(t, srv, "daily_note", map[string]interface{}{}))
	second := resultText(callTool(t, srv, "daily_note", map[string]interface{}{}))
	if first != second {
		t.Errorf("daily note not stable:\n%s\nvs\n%s", first, second)
	}
	if !strings.Contains(first, "daily") {
		t.Errorf("daily note missing tag: %q", first)
	}
}
