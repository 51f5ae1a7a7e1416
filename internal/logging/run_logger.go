package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RunLogger manages the transcript for a single generation run. Each run gets
// its own file under deck_logs/ so a failed generation can be inspected after
// the fact: the shaped prompt, the raw model response and every stage
// transition land here verbatim.
type RunLogger struct {
	runID     string
	logFile   *os.File
	mutex     sync.Mutex
	startTime time.Time
}

// StartRunLogging initializes logging for a new generation run and returns
// the logger together with its run id. The log directory defaults to
// deck_logs/ and can be moved with COMMITDECK_RUN_LOG_DIR.
func StartRunLogging() (*RunLogger, error) {
	runID := uuid.NewString()

	logDir := os.Getenv("COMMITDECK_RUN_LOG_DIR")
	if logDir == "" {
		logDir = "deck_logs"
	}

	timestamp := time.Now().Format("20060102_150405")
	logFileName := fmt.Sprintf("run_%s_%s.log", runID[:8], timestamp)
	logPath := filepath.Join(logDir, logFileName)

	// Ensure directory exists
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	logFile, err := os.Create(logPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	logger := &RunLogger{
		runID:     runID,
		logFile:   logFile,
		startTime: time.Now(),
	}

	logger.Log("======== generation run %s started ========", runID)
	return logger, nil
}

// RunID returns the unique id of this run.
func (r *RunLogger) RunID() string {
	if r == nil {
		return ""
	}
	return r.runID
}

// Log writes a timestamped message to the run log.
func (r *RunLogger) Log(format string, args ...interface{}) {
	if r == nil {
		return
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	timestamp := time.Now().Format("15:04:05.000")
	elapsed := time.Since(r.startTime)
	message := fmt.Sprintf("[%s] [+%v] %s\n",
		timestamp, elapsed.Round(time.Millisecond), fmt.Sprintf(format, args...))
	r.logFile.WriteString(message)
	r.logFile.Sync()
}

// LogSection writes a section header to the log.
func (r *RunLogger) LogSection(title string) {
	if r == nil {
		return
	}
	sep := "================================================================"
	r.Log("%s", sep)
	r.Log("= %s", title)
	r.Log("%s", sep)
}

// LogRequest logs the model request for a run.
func (r *RunLogger) LogRequest(model, systemInstruction, body string) {
	if r == nil {
		return
	}
	r.LogSection("MODEL REQUEST")
	r.Log("Model: %s", model)
	r.Log("System instruction length: %d characters", len(systemInstruction))
	r.Log("Body length: %d characters", len(body))
	r.writeRaw(body)
}

// LogResponse logs the raw model response for a run.
func (r *RunLogger) LogResponse(response string) {
	if r == nil {
		return
	}
	r.LogSection("MODEL RESPONSE")
	r.Log("Response length: %d characters", len(response))
	r.writeRaw(response)
}

func (r *RunLogger) writeRaw(s string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.logFile.WriteString(s + "\n")
	r.logFile.Sync()
}

// Close finalizes the run log.
func (r *RunLogger) Close() {
	if r == nil || r.logFile == nil {
		return
	}
	r.Log("======== generation run %s finished (total %v) ========",
		r.runID, time.Since(r.startTime).Round(time.Millisecond))
	r.logFile.Close()
	r.logFile = nil
}
