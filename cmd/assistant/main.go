package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/guilhermexp/lifebetter/internal/assistant"
	"github.com/guilhermexp/lifebetter/internal/events"
	"github.com/guilhermexp/lifebetter/internal/interpret"
	"github.com/guilhermexp/lifebetter/internal/model"
	"github.com/guilhermexp/lifebetter/internal/notify"
	"github.com/guilhermexp/lifebetter/internal/schedule"
	"github.com/guilhermexp/lifebetter/internal/setup"
	"github.com/guilhermexp/lifebetter/internal/store"
)

const version = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "setup":
		runSetup(os.Args[2:])
	case "chat":
		runChat(os.Args[2:])
	case "parse":
		runParse(os.Args[2:])
	case "tasks":
		runTasks(os.Args[2:])
	case "conflicts":
		runConflicts(os.Args[2:])
	case "slot":
		runSlot(os.Args[2:])
	case "notify":
		runNotify(os.Args[2:])
	case "version":
		fmt.Printf("lifebetter %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runSetup(args []string) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	dataDir, err := setup.Run(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "setup: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Initialized %s\n", dataDir)
}

func runChat(args []string) {
	conversationID := "default"
	offline := false
	noNotify := false
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--conversation":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "usage: lifebetter chat [--conversation <id>] [--offline] [--no-notify]")
				os.Exit(1)
			}
			i++
			conversationID = args[i]
		case "--offline":
			offline = true
		case "--no-notify":
			noNotify = true
		default:
			fmt.Fprintf(os.Stderr, "unknown flag: %s\nusage: lifebetter chat [--conversation <id>] [--offline] [--no-notify]\n", args[i])
			os.Exit(1)
		}
	}

	dataDir, cfg := mustLoadEnv()
	logger, closeLog := openLogger(dataDir, cfg)
	defer closeLog()

	st, err := store.Open(dataDir, cfg.Store, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open store: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	watcher, err := store.NewWatcher(st, cfg.Store.DebounceSec, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "watch store: %v\n", err)
		os.Exit(1)
	}
	defer watcher.Close()

	bus := events.NewBus(16)
	defer bus.Close()

	if !noNotify {
		n := notify.NewNotifier(nil, logger)
		n.Attach(bus)
		defer n.Detach()
	}

	online := func() bool { return !offline }
	manager := assistant.NewManager(cfg, st, bus, online, logger)

	fmt.Println("Assistente pronto. Digite sua mensagem (ou \"sair\" para encerrar).")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "sair" || line == "exit" || line == "quit" {
			break
		}

		res, err := manager.Handle(conversationID, line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "erro interno: %v\n", err)
			continue
		}
		fmt.Println(res.Message)
	}
	fmt.Println("Até logo!")
}

func runParse(args []string) {
	asJSON := false
	var words []string
	for _, a := range args {
		if a == "--json" {
			asJSON = true
			continue
		}
		words = append(words, a)
	}
	if len(words) == 0 {
		fmt.Fprintln(os.Stderr, "usage: lifebetter parse [--json] <text>")
		os.Exit(1)
	}

	text := strings.Join(words, " ")
	cmd := interpret.Parse(text, nil, time.Now())

	if asJSON {
		out := map[string]any{
			"type":          cmd.Type,
			"original_text": cmd.OriginalText,
		}
		switch {
		case cmd.Create != nil:
			out["create"] = cmd.Create
		case cmd.Update != nil:
			out["update"] = cmd.Update
		case cmd.Delete != nil:
			out["delete"] = cmd.Delete
		case cmd.Query != nil:
			out["query"] = cmd.Query
		case cmd.Summary != nil:
			out["summary"] = cmd.Summary
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "marshal: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
		return
	}

	fmt.Printf("type: %s\n", cmd.Type)
	switch {
	case cmd.Create != nil:
		p := cmd.Create
		fmt.Printf("title: %s\ndate: %s\ntime: %s\nlocation: %s\n", p.Title, p.Date, p.Time, p.Location)
		if p.DurationMin > 0 {
			fmt.Printf("duration_min: %d\n", p.DurationMin)
		}
		if p.Priority != "" {
			fmt.Printf("priority: %s\n", p.Priority)
		}
	case cmd.Update != nil:
		p := cmd.Update
		fmt.Printf("title: %s\ndate: %s\ntime: %s\nlocation: %s\n", p.Title, p.Date, p.Time, p.Location)
	case cmd.Delete != nil:
		fmt.Printf("title: %s\n", cmd.Delete.Title)
	case cmd.Query != nil:
		fmt.Printf("filter: %s\ndate: %s\n", cmd.Query.Filter, cmd.Query.Date)
	case cmd.Summary != nil:
		fmt.Printf("period: %s\n", cmd.Summary.Period)
	}
}

func runTasks(args []string) {
	asJSON := len(args) > 0 && args[0] == "--json"

	_, _, tasks := mustLoadTasks()

	if asJSON {
		data, err := json.MarshalIndent(tasks, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "marshal: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
		return
	}

	if len(tasks) == 0 {
		fmt.Println("Nenhuma tarefa.")
		return
	}
	for _, t := range tasks {
		line := fmt.Sprintf("%s  %s", t.ScheduledDate, t.Title)
		if t.StartTime != "" {
			line = fmt.Sprintf("%s %s  %s", t.ScheduledDate, t.StartTime, t.Title)
		}
		if t.Completed {
			line += "  [feita]"
		}
		fmt.Println(line)
	}
}

func runConflicts(_ []string) {
	_, cfg, tasks := mustLoadTasks()

	detector := schedule.NewDetector(cfg.Schedule)
	found := 0
	for _, t := range tasks {
		for _, c := range detector.Detect(t, tasks) {
			found++
			fmt.Printf("%s x %s [%s/%s]: %s\n",
				c.TaskID, c.ConflictingTaskID, c.Type, c.Severity, c.Suggestion)
		}
	}
	if found == 0 {
		fmt.Println("Nenhum conflito encontrado.")
	}
}

func runSlot(args []string) {
	duration := 0
	for i := 0; i < len(args); i++ {
		if args[i] == "--duration" {
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "usage: lifebetter slot [--duration <minutes>]")
				os.Exit(1)
			}
			i++
			n, err := strconv.Atoi(args[i])
			if err != nil || n <= 0 {
				fmt.Fprintf(os.Stderr, "invalid duration: %s\n", args[i])
				os.Exit(1)
			}
			duration = n
		}
	}

	_, cfg, tasks := mustLoadTasks()

	finder := schedule.NewFinder(cfg.Schedule)
	slot := finder.FindSlot(model.Task{DurationMin: duration}, tasks, time.Now())
	if slot == nil {
		fmt.Println("Nenhum horário livre nos próximos dias.")
		os.Exit(1)
	}
	fmt.Printf("%s %s\n", slot.Date, slot.Time)
}

func runNotify(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: lifebetter notify <title> <message>")
		os.Exit(1)
	}
	if err := notify.Send(args[0], args[1]); err != nil {
		fmt.Fprintf(os.Stderr, "notify: %v\n", err)
		os.Exit(1)
	}
}

// mustLoadEnv locates the data directory and loads its config, exiting
// with a hint when setup has not run yet.
func mustLoadEnv() (string, model.Config) {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "getwd: %v\n", err)
		os.Exit(1)
	}
	dataDir := setup.FindDataDir(cwd)
	if dataDir == "" {
		fmt.Fprintln(os.Stderr, "error: .lifebetter/ directory not found. Run 'lifebetter setup [dir]' first.")
		os.Exit(1)
	}
	cfg, err := setup.LoadConfig(dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	return dataDir, cfg
}

func mustLoadTasks() (string, model.Config, []model.Task) {
	dataDir, cfg := mustLoadEnv()
	st, err := store.Open(dataDir, cfg.Store, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open store: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	tasks, err := st.List()
	if err != nil {
		fmt.Fprintf(os.Stderr, "list tasks: %v\n", err)
		os.Exit(1)
	}
	return dataDir, cfg, tasks
}

func openLogger(dataDir string, cfg model.Config) (*log.Logger, func()) {
	logPath := cfg.Logging.File
	if logPath == "" {
		logPath = filepath.Join(dataDir, "logs", "assistant.log")
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		fmt.Fprintf(os.Stderr, "create log dir: %v\n", err)
		os.Exit(1)
	}
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open log: %v\n", err)
		os.Exit(1)
	}
	return log.New(f, "", 0), func() { f.Close() }
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `lifebetter %s - assistente pessoal de tarefas e agenda

Usage: lifebetter <command> [options]

Setup:
  setup [dir]           Initialize .lifebetter/ data directory

Conversation:
  chat [flags]          Interactive chat (--conversation <id>, --offline, --no-notify)
  parse [--json] <text> Classify an utterance and show extracted parameters

Schedule:
  tasks [--json]        List stored tasks
  conflicts             Report scheduling conflicts among stored tasks
  slot [--duration N]   Find the first free slot in the coming days

Utilities:
  notify <title> <msg>  Desktop notification
  version               Show version
  help                  Show this help

`, version)
}
