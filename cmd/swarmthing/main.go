// Command swarmthing runs an interactive self-extending agent: a chat
// REPL whose model can write, persist, call, and exchange JavaScript
// tools with peer agents over HTTP.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/smallnest/swarmthing/agent"
	"github.com/smallnest/swarmthing/history"
	"github.com/smallnest/swarmthing/ipc"
	"github.com/smallnest/swarmthing/log"
	"github.com/smallnest/swarmthing/pending"
	"github.com/smallnest/swarmthing/script"
	"github.com/smallnest/swarmthing/store"
)

var (
	bannerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	promptStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	replyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	toolStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	logger := log.NewGologLogger(log.LevelInfo)
	if env("SWARM_DEBUG", "") != "" {
		logger.SetLevel(log.LevelDebug)
	}
	log.SetDefaultLogger(logger)

	if err := run(logger); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("fatal: "+err.Error()))
		os.Exit(1)
	}
}

func run(logger log.Logger) error {
	st, err := store.New(env("SWARM_TOOLS_DIR", "tools"))
	if err != nil {
		return fmt.Errorf("opening tool store: %w", err)
	}

	var msgLog history.Log
	if path := env("SWARM_HISTORY_DB", ""); path != "" {
		sqlLog, err := history.NewSQLiteLog(history.SQLiteOptions{Path: path})
		if err != nil {
			return fmt.Errorf("opening message log: %w", err)
		}
		defer sqlLog.Close()
		msgLog = sqlLog
	} else {
		msgLog = history.NewMemoryLog()
	}

	queue := pending.NewQueue()
	pool := ipc.NewPool(0, 0)
	defer pool.Close()

	gateway := ipc.NewGateway(ipc.GatewayOptions{
		Queue:   queue,
		Tools:   st,
		History: msgLog,
		Pool:    pool,
		Logger:  logger,
	})

	runtime, err := script.NewRuntime(script.Config{
		Store:   st,
		Queue:   queue,
		Gateway: gateway,
		Pool:    pool,
		Logger:  logger,
	})
	if err != nil {
		return err
	}
	queue.Bind(runtime)

	if err := runtime.LoadAll(); err != nil {
		return fmt.Errorf("loading tools: %w", err)
	}

	var llm agent.LLM
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		llm, err = agent.NewOpenAIChat(apiKey, env("SWARM_MODEL", ""))
		if err != nil {
			return err
		}
	}

	a := agent.New(llm, runtime, st, logger)

	fmt.Println(bannerStyle.Render("swarmthing — self-extending agent"))
	fmt.Printf("Loaded %d tool(s) from %s\n", len(st.List()), st.Dir())
	if llm == nil {
		fmt.Println(toolStyle.Render("No OPENAI_API_KEY set: offline mode, input is processed as tool directives."))
	}
	fmt.Println(`Type "exit" to quit.`)

	repl(a, llm != nil)
	return nil
}

// repl reads input lines until EOF or "exit". Tool and network errors
// are printed and the loop continues; only input exhaustion ends it.
func repl(a *agent.Agent, online bool) {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Print(promptStyle.Render("> "))
		if !scanner.Scan() {
			fmt.Println()
			return
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			return
		}

		text := input
		if online {
			reply, err := a.Chat(context.Background(), input)
			if err != nil {
				fmt.Println(errorStyle.Render("Error: " + err.Error()))
				continue
			}
			fmt.Println(replyStyle.Render(reply))
			text = reply
		}

		for _, ev := range a.Process(text) {
			printEvent(ev)
		}
	}
}

func printEvent(ev agent.Event) {
	switch {
	case ev.Err != nil:
		fmt.Println(errorStyle.Render(fmt.Sprintf("[%s] error: %v", ev.Name, ev.Err)))
	case ev.Kind == agent.EventToolCreated:
		fmt.Println(toolStyle.Render(ev.Output))
	default:
		fmt.Println(toolStyle.Render(fmt.Sprintf("[%s] => %s", ev.Name, ev.Output)))
	}
}
