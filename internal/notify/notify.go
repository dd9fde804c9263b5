// Package notify delivers run-completion notifications to a webhook. The
// launcher treats delivery as best effort: failures here are reported to the
// caller but must never affect the run's exit status.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"
	"github.com/cenkalti/backoff/v5"
)

// DefaultSubjectTemplate and DefaultBodyTemplate shape the notification when
// the config does not override them.
const (
	DefaultSubjectTemplate = `scanrun: {{ .Script }} exited {{ .ExitCode }}`
	DefaultBodyTemplate    = `Run {{ .RunID | default "(unrecorded)" }} finished at {{ .FinishedAt | date "2006-01-02 15:04:05" }}.
Exit code: {{ .ExitCode }}
Duration: {{ .Duration }}
Log: {{ .LogPath }} ({{ .LogBytes }} bytes appended)`
)

// Event describes a completed run for notification templates and the webhook
// payload.
type Event struct {
	RunID      string        `json:"run_id,omitempty"`
	Script     string        `json:"script"`
	ExitCode   int           `json:"exit_code"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Duration   time.Duration `json:"-"`
	LogPath    string        `json:"log_path"`
	LogBytes   int64         `json:"log_bytes"`
}

// payload is the JSON body POSTed to the webhook.
type payload struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Event
}

// Notifier posts run-completion events to a webhook URL.
type Notifier struct {
	URL string

	// Timeout bounds a single delivery attempt.
	Timeout time.Duration

	// MaxTries is the maximum number of delivery attempts. Retries use
	// exponential backoff; they apply to notification delivery only, never
	// to the run itself.
	MaxTries int

	// SubjectTemplate and BodyTemplate are text/template strings rendered
	// against an Event with the sprig function map. Empty values fall back
	// to the defaults above.
	SubjectTemplate string
	BodyTemplate    string

	// Client defaults to a client with Timeout applied.
	Client *http.Client
}

// Send renders the templates and delivers the event. It blocks until
// delivery succeeds, the attempts are exhausted, or ctx is canceled.
func (n *Notifier) Send(ctx context.Context, event Event) error {
	subject, err := render("subject", n.SubjectTemplate, DefaultSubjectTemplate, event)
	if err != nil {
		return err
	}
	body, err := render("body", n.BodyTemplate, DefaultBodyTemplate, event)
	if err != nil {
		return err
	}

	data, err := json.Marshal(payload{Subject: subject, Body: body, Event: event})
	if err != nil {
		return fmt.Errorf("failed to marshal notification payload: %w", err)
	}

	client := n.Client
	if client == nil {
		client = &http.Client{Timeout: n.timeout()}
	}

	operation := func() (struct{}, error) {
		return struct{}{}, n.post(ctx, client, data)
	}

	tries := n.MaxTries
	if tries <= 0 {
		tries = 3
	}

	_, err = backoff.Retry(ctx, operation, backoff.WithMaxTries(uint(tries)))
	if err != nil {
		return fmt.Errorf("failed to deliver notification after retries: %w", err)
	}
	return nil
}

func (n *Notifier) timeout() time.Duration {
	if n.Timeout > 0 {
		return n.Timeout
	}
	return 10 * time.Second
}

func (n *Notifier) post(ctx context.Context, client *http.Client, data []byte) error {
	attemptCtx, cancel := context.WithTimeout(ctx, n.timeout())
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, n.URL, bytes.NewReader(data))
	if err != nil {
		return backoff.Permanent(fmt.Errorf("failed to create notification request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("notification request failed: %w", err)
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	err = fmt.Errorf("webhook returned status %d", resp.StatusCode)
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		// Client errors will not heal on retry.
		return backoff.Permanent(err)
	}
	return err
}

// render executes a notification template with the sprig function map.
func render(name, templateStr, fallback string, event Event) (string, error) {
	if templateStr == "" {
		templateStr = fallback
	}
	tmpl, err := template.New(name).Funcs(sprig.TxtFuncMap()).Parse(templateStr)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s template: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, event); err != nil {
		return "", fmt.Errorf("failed to execute %s template: %w", name, err)
	}
	return buf.String(), nil
}
