package script

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dop251/goja"

	"github.com/smallnest/swarmthing/ipc"
)

// scrapeWordCap bounds the text extracted from a scraped page.
const scrapeWordCap = 200

// registerBuiltins installs the native capability surface. Builtins
// never throw into the calling script: every failure becomes a
// descriptive string so a script always receives something usable.
func (r *Runtime) registerBuiltins() {
	set := func(name string, fn func(call goja.FunctionCall) goja.Value) {
		if err := r.vm.Set(name, fn); err != nil {
			// Set on a fresh runtime only fails if the global object
			// was frozen, which never happens here.
			panic(fmt.Sprintf("register builtin %s: %v", name, err))
		}
	}

	set("read_file", r.builtinReadFile)
	set("write_file", r.builtinWriteFile)
	set("search", r.builtinSearch)
	set("scrape_url", r.builtinScrapeURL)
	set("list_tools", r.builtinListTools)
	set("inspect_tool", r.builtinInspectTool)
	set("send_message", r.builtinSendMessage)
	set("start_server", r.builtinStartServer)
	set("clone_agent", r.builtinCloneAgent)
	set("list_pending_tools", r.builtinListPendingTools)
	set("approve_tool", r.builtinApproveTool)
	set("reject_tool", r.builtinRejectTool)
	set("share_tool", r.builtinShareTool)
}

func (r *Runtime) str(s string) goja.Value {
	return r.vm.ToValue(s)
}

func arg(call goja.FunctionCall, i int) string {
	return call.Argument(i).String()
}

func (r *Runtime) builtinReadFile(call goja.FunctionCall) goja.Value {
	path := arg(call, 0)
	data, err := os.ReadFile(path)
	if err != nil {
		return r.str(fmt.Sprintf("Error reading file: %v", err))
	}
	return r.str(string(data))
}

func (r *Runtime) builtinWriteFile(call goja.FunctionCall) goja.Value {
	path, content := arg(call, 0), arg(call, 1)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return r.str(fmt.Sprintf("Error writing file: %v", err))
	}
	return r.str("File written successfully")
}

// builtinSearch is a mock: a real backend needs an API key and is out
// of scope.
func (r *Runtime) builtinSearch(call goja.FunctionCall) goja.Value {
	query := arg(call, 0)
	r.logger.Info("searching for: %s", query)
	return r.str(fmt.Sprintf(
		"Mock search results for '%s':\n1. Go is a statically typed programming language.\n2. goja is an ECMAScript engine embeddable in Go.",
		query,
	))
}

func (r *Runtime) builtinScrapeURL(call goja.FunctionCall) goja.Value {
	url := arg(call, 0)
	r.logger.Info("scraping URL: %s", url)

	text, err := r.pool.Do(func(ctx context.Context) (string, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return "", err
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return "", err
		}
		defer resp.Body.Close()

		doc, err := goquery.NewDocumentFromReader(resp.Body)
		if err != nil {
			return "", fmt.Errorf("error reading text: %w", err)
		}
		body := doc.Find("body")
		if body.Length() == 0 {
			return "No body found", nil
		}

		words := strings.Fields(body.Text())
		if len(words) > scrapeWordCap {
			words = words[:scrapeWordCap]
		}
		return strings.Join(words, " "), nil
	})
	if err != nil {
		return r.str(fmt.Sprintf("Error fetching URL: %v", err))
	}
	return r.str(text)
}

func (r *Runtime) builtinListTools(call goja.FunctionCall) goja.Value {
	return r.str(strings.Join(r.store.List(), ", "))
}

func (r *Runtime) builtinInspectTool(call goja.FunctionCall) goja.Value {
	name := arg(call, 0)
	code, err := r.store.Inspect(name)
	if err != nil {
		return r.str(fmt.Sprintf("Error: Tool '%s' not found", name))
	}
	return r.str(code)
}

func (r *Runtime) builtinSendMessage(call goja.FunctionCall) goja.Value {
	if r.gateway == nil {
		return r.str("Error: messaging is not configured")
	}
	url, message := arg(call, 0), arg(call, 1)
	return r.str(r.gateway.Send(url, message))
}

func (r *Runtime) builtinShareTool(call goja.FunctionCall) goja.Value {
	if r.gateway == nil {
		return r.str("Error: messaging is not configured")
	}
	target, name := arg(call, 0), arg(call, 1)
	return r.str(r.gateway.Share(target, name))
}

// builtinStartServer spawns an IPC listener. Deliberately not
// idempotent: a second call starts a second listener, possibly on the
// same port with undefined arbitration between them. The repeat is
// logged rather than silently allowed.
func (r *Runtime) builtinStartServer(call goja.FunctionCall) goja.Value {
	if r.gateway == nil {
		return r.str("Error: messaging is not configured")
	}

	port, err := strconv.Atoi(arg(call, 0))
	if err != nil || port <= 0 {
		port = 8080
	}

	if r.listeners > 0 {
		r.logger.Warn("a listener is already running; starting another on port %d with undefined arbitration", port)
	}
	r.listeners++

	srv := ipc.NewServer(r.gateway, fmt.Sprintf("127.0.0.1:%d", port), r.logger)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			r.logger.Error("server error: %v", err)
		}
	}()
	return r.str(fmt.Sprintf("IPC server starting on port %d", port))
}

func (r *Runtime) builtinListPendingTools(call goja.FunctionCall) goja.Value {
	if r.queue == nil {
		return r.str("Error: approval queue is not configured")
	}

	items := r.queue.List()
	if len(items) == 0 {
		return r.str("No pending tools")
	}

	var sb strings.Builder
	for i, t := range items {
		desc := ""
		if t.Description != nil {
			desc = " - " + *t.Description
		}
		sb.WriteString(fmt.Sprintf("%d. %s [%s] from %s%s\n", i+1, t.Name, t.SafetyLevel, t.SourceAgent, desc))
	}
	return r.str(strings.TrimRight(sb.String(), "\n"))
}

// builtinApproveTool runs inside a script call, so the runtime mutex
// is already held; installation must go through installLocked.
func (r *Runtime) builtinApproveTool(call goja.FunctionCall) goja.Value {
	if r.queue == nil {
		return r.str("Error: approval queue is not configured")
	}

	name := arg(call, 0)
	tool, err := r.queue.Take(name)
	if err != nil {
		return r.str(fmt.Sprintf("Error: no pending tool named '%s'", name))
	}
	if err := r.installLocked(tool.Name, tool.Code); err != nil {
		return r.str(fmt.Sprintf("Error installing tool '%s': %v", name, err))
	}
	return r.str(fmt.Sprintf("Tool '%s' approved and installed", name))
}

func (r *Runtime) builtinRejectTool(call goja.FunctionCall) goja.Value {
	if r.queue == nil {
		return r.str("Error: approval queue is not configured")
	}

	name := arg(call, 0)
	if _, err := r.queue.Reject(name); err != nil {
		return r.str(fmt.Sprintf("Error: no pending tool named '%s'", name))
	}
	return r.str(fmt.Sprintf("Tool '%s' rejected", name))
}
