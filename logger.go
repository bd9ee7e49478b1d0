package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// --- Globals & Styles ---

var (
	// Level colors
	infoColor  = color.New()
	warnColor  = color.New(color.FgYellow)
	errorColor = color.New(color.FgRed)
	fatalColor = color.New(color.FgRed, color.Bold)

	// Component colors
	databaseColor   = color.New()
	filterColor     = color.New(color.FgMagenta)
	ledgerColor     = color.New(color.FgMagenta)
	escalationColor = color.New(color.FgMagenta)
	scamListColor   = color.New(color.FgMagenta)
	reportColor     = color.New(color.FgMagenta)
	monitorColor    = color.New(color.FgMagenta)

	// Global state
	DefaultTimeFormat = "15:04:05"
	IsSilent          = false
	LogToFile         = false
	Logger            *slog.Logger

	// Internal state
	logFile *os.File
	logMu   sync.Mutex
)

// --- Initialization ---

func init() {
	InitLogger(false, false)
}

// InitLogger initializes the global structured logger
func InitLogger(silent bool, saveToFile bool) {
	logMu.Lock()
	defer logMu.Unlock()

	IsSilent = silent
	LogToFile = saveToFile
	level := slog.LevelInfo
	if strings.ToLower(os.Getenv("DEBUG")) == "true" {
		level = slog.LevelDebug
	}

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}

	var writer io.Writer = os.Stdout
	var err error

	if LogToFile {
		logName := GetProjectName() + ".log"
		logFile, err = os.OpenFile(logName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open %s: %v\n", logName, err)
		} else {
			writer = io.MultiWriter(os.Stdout, NewStripANSIWriter(logFile))
		}
	}

	color.NoColor = false

	handler := NewBotLogHandler(writer, &BotLogHandlerOptions{
		Silent: IsSilent,
		Level:  level,
	})
	Logger = slog.New(handler)
	slog.SetDefault(Logger)
}

func SetSilentMode(silent bool) {
	InitLogger(silent, LogToFile)
}

// --- Public Logging API ---

func LogInfo(format string, v ...any) {
	slog.Info(fmt.Sprintf(format, v...))
}

func LogWarn(format string, v ...any) {
	slog.Warn(fmt.Sprintf(format, v...))
}

func LogError(format string, v ...any) {
	slog.Error(fmt.Sprintf(format, v...))
}

func LogFatal(format string, v ...any) {
	msg := fmt.Sprintf(format, v...)
	slog.Log(context.Background(), slog.LevelError+4, msg)
	panic(msg)
}

func LogDebug(format string, v ...any) {
	slog.Debug(fmt.Sprintf(format, v...))
}

// Component Loggers

func LogDatabase(format string, v ...any) {
	slog.Info(fmt.Sprintf(format, v...), slog.String("component", "database"))
}

func LogFilter(format string, v ...any) {
	slog.Info(fmt.Sprintf(format, v...), slog.String("component", "filter"))
}

func LogLedger(format string, v ...any) {
	slog.Info(fmt.Sprintf(format, v...), slog.String("component", "ledger"))
}

func LogEscalation(format string, v ...any) {
	slog.Info(fmt.Sprintf(format, v...), slog.String("component", "escalation"))
}

func LogScamList(format string, v ...any) {
	slog.Info(fmt.Sprintf(format, v...), slog.String("component", "scamlist"))
}

func LogReport(format string, v ...any) {
	slog.Info(fmt.Sprintf(format, v...), slog.String("component", "report"))
}

func LogMonitor(format string, v ...any) {
	slog.Info(fmt.Sprintf(format, v...), slog.String("component", "monitor"))
}

// --- Log Handler Implementation ---

type BotLogHandlerOptions struct {
	Silent bool
	Level  slog.Leveler
}

type BotLogHandler struct {
	w    io.Writer
	opts *BotLogHandlerOptions
	mu   *sync.Mutex
}

func NewBotLogHandler(w io.Writer, opts *BotLogHandlerOptions) *BotLogHandler {
	if opts == nil {
		opts = &BotLogHandlerOptions{Level: slog.LevelInfo}
	}
	return &BotLogHandler{
		w:    w,
		opts: opts,
		mu:   &sync.Mutex{},
	}
}

func (h *BotLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	if h.opts.Silent {
		return false
	}
	return level >= h.opts.Level.Level()
}

func (h *BotLogHandler) Handle(ctx context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.opts.Silent {
		return nil
	}

	timeStr := time.Now().Format(DefaultTimeFormat)
	var levelStr string
	var levelColor *color.Color

	switch {
	case r.Level >= slog.LevelError+4:
		levelStr = "FATAL"
		levelColor = fatalColor
	case r.Level >= slog.LevelError:
		levelStr = "ERROR"
		levelColor = errorColor
	case r.Level >= slog.LevelWarn:
		levelStr = "WARN"
		levelColor = warnColor
	case r.Level >= slog.LevelInfo:
		levelStr = "INFO"
		levelColor = infoColor
	}

	component := ""
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "component" {
			component = strings.ToUpper(a.Value.String())
			return false
		}
		return true
	})

	fmt.Fprintf(h.w, "%s", timeStr)

	if component != "" {
		if levelStr != "INFO" {
			fmt.Fprintf(h.w, " %s", levelColor.Sprintf("[%s]", levelStr))
		}
		compColor := getComponentColor(component)
		fmt.Fprintf(h.w, " %s\n", compColor.Sprintf("[%s] %s", component, r.Message))
	} else {
		fmt.Fprintf(h.w, " %s\n", levelColor.Sprintf("[%s] %s", levelStr, r.Message))
	}

	return nil
}

func (h *BotLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler { return h }
func (h *BotLogHandler) WithGroup(name string) slog.Handler       { return h }

func getComponentColor(name string) *color.Color {
	switch name {
	case "DATABASE":
		return databaseColor
	case "FILTER":
		return filterColor
	case "LEDGER":
		return ledgerColor
	case "ESCALATION":
		return escalationColor
	case "SCAMLIST":
		return scamListColor
	case "REPORT":
		return reportColor
	case "MONITOR":
		return monitorColor
	default:
		return color.New(color.FgCyan)
	}
}

// --- Utilities & State ---

func GetLogPath() string {
	logMu.Lock()
	defer logMu.Unlock()
	if logFile == nil {
		return ""
	}
	return logFile.Name()
}

// --- ANSI Stripper ---

type StripANSIWriter struct {
	w  io.Writer
	re *regexp.Regexp
}

func NewStripANSIWriter(w io.Writer) *StripANSIWriter {
	return &StripANSIWriter{
		w:  w,
		re: regexp.MustCompile(`\x1b\[[0-9;]*m`),
	}
}

func (s *StripANSIWriter) Write(p []byte) (n int, err error) {
	clean := s.re.ReplaceAll(p, []byte(""))
	_, err = s.w.Write(clean)
	return len(p), err
}

// --- Infrastructure Message Constants ---

const (
	MsgConfigFailedToLoad  = "Failed to load config: %v"
	MsgConfigMissingToken  = "DISCORD_TOKEN is not set in .env file"
	MsgDatabaseInitSuccess = "Database initialized successfully"
	MsgDatabaseTableError  = "Failed to create table: %w"
	MsgDatabasePragmaError = "Failed to set pragma %s: %w"
	MsgDaemonStarting      = "Starting..."
	MsgBotStarting         = "Starting %s..."
	MsgBotReady            = "%s is ready! (ID: %s) (PID: %d) (Took: %dms)"
	MsgBotShutdown         = "Shutting down %s..."
	MsgBotKillingOld       = "Killing running instance... (PID: %d)"
	MsgBotOldTerminated    = "Old instance terminated."
	MsgBotRegisterFail     = "Command registration failed: %v"
	MsgGenericError        = "%v"

	MsgLoaderSyncCommands   = "Syncing %s commands..."
	MsgLoaderCleanup        = "[CLEANUP] Removing commands from previous dev guild: %s"
	MsgLoaderDevStarting    = "[DEV] Registering commands to guild: %s"
	MsgLoaderDevRegistered  = "[DEV] Registered: %s"
	MsgLoaderDevFail        = "[DEV] Registration failed: %v"
	MsgLoaderProdStarting   = "[PROD] Registering commands globally..."
	MsgLoaderProdRegistered = "[PROD] Registered: %s"
	MsgLoaderProdFail       = "[PROD] Global registration failed: %w"
	MsgLoaderPanicRecovered = "Panic recovered in handler: %v"
)
