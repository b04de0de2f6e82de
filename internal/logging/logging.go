package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"screeps-go/internal/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	writerMu sync.RWMutex
	writer   io.Writer = os.Stdout
	logFile  *cappedFile
)

// Init installs the global zerolog logger described by cfg. A log file that
// cannot be opened falls back to stdout.
func Init(cfg config.LogConfig) {
	level := zerolog.InfoLevel
	if v := strings.TrimSpace(cfg.Level); v != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(v)); err == nil {
			level = parsed
		}
	}

	var out io.Writer = os.Stdout
	var fileErr error
	var file *cappedFile
	if path := strings.TrimSpace(cfg.File); path != "" {
		file, fileErr = openCappedFile(path, cfg.MaxMB)
		if fileErr == nil {
			out = file
		}
	}
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: out, NoColor: file != nil}
	}

	writerMu.Lock()
	if logFile != nil {
		_ = logFile.Close()
	}
	logFile = file
	writer = out
	writerMu.Unlock()

	zerolog.SetGlobalLevel(level)
	ctx := zerolog.New(out).With().Timestamp()
	if cfg.Caller {
		ctx = ctx.Caller()
	}
	logger := ctx.Logger()
	if cfg.SampleEvery > 1 {
		logger = logger.Sample(&zerolog.BasicSampler{N: uint32(cfg.SampleEvery)})
	}
	log.Logger = logger

	if fileErr != nil {
		log.Warn().Err(fileErr).Str("path", cfg.File).Msg("log file unavailable, using stdout")
	}
}

// Writer returns the destination chosen by the last Init call.
func Writer() io.Writer {
	writerMu.RLock()
	defer writerMu.RUnlock()
	return writer
}
