package main

import (
	"context"
	"flag"
	"fmt"
	"gloom/internal/ast"
	"gloom/internal/evaluator"
	"gloom/internal/hub"
	"gloom/internal/lexer"
	"gloom/internal/parser"
	"gloom/internal/repl"
	"gloom/internal/sout"
	"gloom/internal/transcript"
	"gloom/internal/util"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var (
	// Version is the current version of the gloom binary, set at build time.
	Version   = "dev"
	BuildDate = "unknown"
	Commit    = "unknown"
	help      bool
	version   bool
	// config
	configFile string
	// logging
	logLevel string
	logFile  string
	// parser config
	debugAST     bool
	debugASTText bool
	// transcript
	transcriptDriver string
	transcriptDSN    string
)

func init() {
	flag.BoolVar(&help, "help", false, "Display help information and exit")
	flag.BoolVar(&help, "h", false, "Display help information and exit")
	flag.BoolVar(&version, "version", false, "Display version information and exit")
	flag.BoolVar(&version, "v", false, "Display version information and exit")
	flag.StringVar(&configFile, "config", "", "Configuration file (.yaml or .toml); defaults to $"+util.ConfigEnv)
	// parser config
	flag.BoolVar(&debugAST, "debug-ast", false, "Write the AST of the program as a JSON file next to it")
	flag.BoolVar(&debugASTText, "debug-ast-text", false, "Print the AST of the program as a tree to stderr")
	// log config
	flag.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error, none")
	flag.StringVar(&logFile, "log-file", "", "Log file path (if not set, logs to stderr)")
	// transcript
	flag.StringVar(&transcriptDriver, "transcript-driver", "", "Record printed output with this database driver: "+strings.Join(transcript.Drivers(), ", "))
	flag.StringVar(&transcriptDSN, "transcript-dsn", "", "Data source name for the transcript database")
}

func main() {
	os.Exit(run())
}

func run() int {
	flag.Parse()

	config, err := util.LoadConfiguration(util.ConfigPath(configFile))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	applyFlags(&config)

	// Creates a new Logger that uses a JSONHandler to write to the log writer
	loggerOptions := &slog.HandlerOptions{
		AddSource: false,
		Level:     logLevelFromString(config.LogLevel),
	}
	logWriter := configureLogWriter(config.LogFile)
	defaultLogger := slog.New(slog.NewJSONHandler(logWriter, loggerOptions))
	slog.SetDefault(defaultLogger)

	if version {
		printVersion()
		return 0
	}

	if help {
		printHelp()
		return 0
	}

	var sink sout.Sink = sout.Writer(os.Stdout)
	if config.Transcript.Driver != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		t, err := transcript.Open(ctx, config.Transcript.Driver, config.Transcript.DSN)
		cancel()
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return 1
		}
		defer t.Close()
		slog.Info("recording transcript",
			slog.String("driver", config.Transcript.Driver),
			slog.String("session", t.Session()))
		sink = sout.Tee(sink, t)
	}

	h := hub.New()

	fileName := flag.Arg(0)
	if fileName == "" {
		history := config.HistoryFile
		if history == "" {
			history = repl.DefaultHistoryPath()
		}
		fmt.Printf("gloom %s. Type :help for commands.\n", config.Version)
		repl.Start(repl.NewSession(h, sink), config.Prompt, history, os.Stdout)
		return 0
	}

	return runFile(config, h, sink, fileName)
}

func applyFlags(config *util.Configuration) {
	config.Version = Version
	config.BuildDate = BuildDate
	config.Commit = Commit
	if logLevel != "" {
		config.LogLevel = logLevel
	}
	if logFile != "" {
		config.LogFile = logFile
	}
	if debugAST {
		config.DebugJsonAST = true
	}
	if debugASTText {
		config.DebugTxtAST = true
	}
	if transcriptDriver != "" {
		config.Transcript.Driver = transcriptDriver
	}
	if transcriptDSN != "" {
		config.Transcript.DSN = transcriptDSN
	}
}

func runFile(config util.Configuration, h *hub.Hub, sink sout.Sink, fileName string) int {
	data, err := os.ReadFile(fileName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	src := string(data)

	p := parser.New(lexer.New(src), src)
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		for _, perr := range errs {
			fmt.Fprintf(os.Stderr, "%s: %v\n%s\n\n", fileName, perr,
				util.GetContextLines(src, perr.Line, perr.Column))
		}
		return 1
	}

	if config.DebugJsonAST {
		if err := writeASTJSON(fileName, program); err != nil {
			slog.Warn("could not write AST", slog.Any("error", err))
		}
	}
	if config.DebugTxtAST {
		fmt.Fprint(os.Stderr, parser.RenderASTAsText(program, 0))
	}

	e := evaluator.New(h, sink)
	if _, err := e.EvalProgram(program, e.Environment()); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", fileName, err)
		return 1
	}
	return 0
}

func writeASTJSON(fileName string, program *ast.Program) error {
	out, err := parser.RenderASTAsJSON(program)
	if err != nil {
		return err
	}
	path := strings.TrimSuffix(fileName, filepath.Ext(fileName)) + ".ast.json"
	return os.WriteFile(path, []byte(out), 0o644)
}

func configureLogWriter(logFile string) *os.File {
	var logWriter *os.File
	var err error
	if logFile != "" {
		// Create parent directories if they don't exist
		if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "failed to create log directory for '%s': %v; falling back to stderr\n", logFile, err)
			return os.Stderr
		}
		logWriter, err = os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file '%s': %v; falling back to stderr\n", logFile, err)
			logWriter = os.Stderr
		}
	} else {
		logWriter = os.Stderr
	}
	return logWriter
}

func printVersion() {
	fmt.Printf("gloom version 'v%s' %s %s\n", Version, BuildDate, Commit)
}

func printHelp() {
	fmt.Printf(`Usage: gloom [options] [filename]

Options:
  -config <path>             Read settings from a .yaml or .toml file. Default is $%s.
  -debug-ast                 Write the AST as JSON to <filename>.ast.json.
  -debug-ast-text            Print the AST as a tree to stderr.
  -help                      Display this help information and exit.
  -version                   Display version information and exit.
  -log-level <level>         Set the log level: debug, info, warn, error, none. Default is 'none'.
  -log-file <path>           Specify a log file to write logs. Default is stderr.
  -transcript-driver <name>  Also record printed output in a database (%s).
  -transcript-dsn <dsn>      Data source name for the transcript database.

Details:
Gloom is a small message passing language. Every statement sends messages to
an object and ends with a period; a statement that starts with a message is
sent to Everything.

Examples:
  gloom                                     Start the interactive shell
  gloom hello.gloom                         Execute the provided Gloom file
  gloom -transcript-driver sqlite3 \
        -transcript-dsn out.db hello.gloom  Execute and record the output

Version Information:
  Version:    %s
  Build Date: %s
  Commit:     %s
`, util.ConfigEnv, strings.Join(transcript.Drivers(), ", "), Version, BuildDate, Commit)
}

func logLevelFromString(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		// "none" and anything unknown: only errors
		return slog.LevelError
	}
}
