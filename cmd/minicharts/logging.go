package main

import (
	"encoding/json"
	"io"
	"log"
	"strings"
	"time"

	"github.com/seenimoa/minicharts/internal/config"
)

// setupLogging configures the standard logger from the logging section.
// Debug adds file and line to text output; the json format writes one
// object per line.
func setupLogging(lc config.LoggingConfig, w io.Writer) {
	flags := log.LstdFlags
	if strings.EqualFold(lc.Level, "debug") {
		flags |= log.Lmicroseconds | log.Lshortfile
	}

	if strings.EqualFold(lc.Format, "json") {
		log.SetFlags(0)
		log.SetOutput(&jsonLogWriter{out: w, now: time.Now})
		return
	}
	log.SetFlags(flags)
	log.SetOutput(w)
}

// jsonLogWriter wraps each log line in a JSON object.
type jsonLogWriter struct {
	out io.Writer
	now func() time.Time
}

type jsonLogLine struct {
	Time      string `json:"time"`
	Component string `json:"component,omitempty"`
	Msg       string `json:"msg"`
}

func (j *jsonLogWriter) Write(p []byte) (int, error) {
	msg := strings.TrimRight(string(p), "\n")
	line := jsonLogLine{
		Time: j.now().UTC().Format(time.RFC3339Nano),
		Msg:  msg,
	}
	// "api: listening on ..." style prefixes become the component.
	if comp, rest, ok := strings.Cut(msg, ": "); ok && !strings.ContainsAny(comp, " /") {
		line.Component, line.Msg = comp, rest
	}
	b, err := json.Marshal(line)
	if err != nil {
		return 0, err
	}
	if _, err := j.out.Write(append(b, '\n')); err != nil {
		return 0, err
	}
	return len(p), nil
}
