// Package notify delivers alerts about finished jobs to email, slack and webhook destinations.
// Messages are made from text templates, default ones are embedded and custom ones can be loaded from files.
package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/dustin/go-humanize"
	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/notify"

	"github.com/umputun/jobwatch/app/enums"
	"github.com/umputun/jobwatch/app/tracker"
)

//go:generate moq -out mocks/destination.go -pkg mocks -skip-ensure -fmt goimports . Destination

// Destination is a delivery channel, implemented by go-pkgz/notify clients
type Destination interface {
	fmt.Stringer
	Schema() string
	Send(ctx context.Context, destination, text string) error
}

// Params defines what to notify about and how messages look
type Params struct {
	EnabledError       bool   // notify on failed jobs
	EnabledCompletion  bool   // notify on completed jobs
	EnabledCancel      bool   // notify on cancelled jobs
	ErrorTemplate      string // path to custom template of failure message
	CompletionTemplate string // path to custom template of completion and cancel messages
	HostName           string
}

// SendersParams defines destinations
type SendersParams struct {
	notify.SMTPParams
	FromEmail     string
	ToEmails      []string
	SlackToken    string
	SlackChannels []string
	WebhookURLs   []string
	Timeout       time.Duration
}

// Service sends notifications about jobs reaching terminal status
type Service struct {
	Params
	destinations  []Destination
	fromEmail     string
	toEmail       []string
	slackChannels []string
	webhookURLs   []string
	events        chan tracker.Event
}

// MessageData passed to message templates
type MessageData struct {
	ID       string
	Name     string
	Kind     string
	Status   string
	Error    string
	Host     string
	TS       time.Time
	Started  string // humanized time since start
	Duration string
	Progress string // e.g. "45% (450 of 1,000 items)"
}

const defaultErrorTemplate = `Backup job {{.Name}} ({{.Kind}}, id {{.ID}}) failed on {{.Host}} at {{.TS.Format "2006-01-02T15:04:05Z07:00"}}
{{- if .Started}}
Started: {{.Started}}{{end}}
{{- if .Progress}}
Progress: {{.Progress}}{{end}}
{{- if .Error}}

{{.Error}}{{end}}
`

const defaultCompletionTemplate = `Backup job {{.Name}} ({{.Kind}}, id {{.ID}}) {{.Status}} on {{.Host}} at {{.TS.Format "2006-01-02T15:04:05Z07:00"}}
{{- if .Duration}}
Duration: {{.Duration}}{{end}}
{{- if .Progress}}
Progress: {{.Progress}}{{end}}
`

// NewService makes notification service for configured destinations, returns nil if there are none
func NewService(p Params, sp SendersParams) *Service {
	res := &Service{
		Params:        p,
		fromEmail:     sp.FromEmail,
		toEmail:       sp.ToEmails,
		slackChannels: sp.SlackChannels,
		webhookURLs:   sp.WebhookURLs,
		events:        make(chan tracker.Event, 100),
	}
	if res.HostName == "" {
		res.HostName = hostName()
	}

	if len(sp.ToEmails) > 0 {
		smtpParams := sp.SMTPParams
		if smtpParams.ContentType == "" {
			smtpParams.ContentType = "text/plain"
		}
		res.destinations = append(res.destinations, notify.NewEmail(smtpParams))
	}
	if len(sp.SlackChannels) > 0 && sp.SlackToken != "" {
		res.destinations = append(res.destinations, notify.NewSlack(sp.SlackToken))
	}
	if len(sp.WebhookURLs) > 0 {
		res.destinations = append(res.destinations, notify.NewWebhook(notify.WebhookParams{Timeout: sp.Timeout}))
	}

	if len(res.destinations) == 0 {
		return nil
	}
	log.Printf("[INFO] notifications enabled, destinations: %s", res)
	return res
}

// String lists destinations
func (s *Service) String() string {
	names := make([]string, 0, len(s.destinations))
	for _, d := range s.destinations {
		names = append(names, d.String())
	}
	return strings.Join(names, ", ")
}

// IsOnError reports whether failed jobs are notified
func (s *Service) IsOnError() bool { return s.EnabledError }

// IsOnCompletion reports whether completed jobs are notified
func (s *Service) IsOnCompletion() bool { return s.EnabledCompletion }

// OnEvent queues notification about a job turned terminal, to be passed to tracker.Subscribe. Never blocks.
func (s *Service) OnEvent(ev tracker.Event) {
	if ev.Type != enums.EventTypeTerminal || !s.wanted(ev.Job.Status) {
		return
	}
	select {
	case s.events <- ev:
	default:
		log.Printf("[WARN] notification channel full, dropping job %s", ev.JobID)
	}
}

// Run sends queued notifications until ctx is canceled
func (s *Service) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-s.events:
			if err := s.NotifyJob(ctx, ev.Job); err != nil {
				log.Printf("[WARN] failed to notify about job %s, %v", ev.JobID, err)
			}
		}
	}
}

// NotifyJob makes message for the finished job and sends it to all destinations
func (s *Service) NotifyJob(ctx context.Context, v tracker.JobView) error {
	var subj, text string
	var err error
	switch v.Status {
	case enums.JobStatusFailed:
		subj = fmt.Sprintf("backup %q failed on %s", v.Name, s.HostName)
		text, err = s.MakeErrorMessage(v)
	default:
		subj = fmt.Sprintf("backup %q %s on %s", v.Name, v.Status, s.HostName)
		text, err = s.MakeCompletionMessage(v)
	}
	if err != nil {
		return fmt.Errorf("can't make message: %w", err)
	}
	return s.Send(ctx, subj, text)
}

// Send delivers text to all destinations, errors of separate destinations are joined
func (s *Service) Send(ctx context.Context, subj, text string) error {
	var errs []error
	for _, d := range s.destinations {
		for _, dest := range s.addresses(d.Schema(), subj) {
			if err := d.Send(ctx, dest, text); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// MakeErrorMessage makes failure message from custom template if set and valid, default one otherwise
func (s *Service) MakeErrorMessage(v tracker.JobView) (string, error) {
	return s.render(s.ErrorTemplate, defaultErrorTemplate, v)
}

// MakeCompletionMessage makes completion or cancel message
func (s *Service) MakeCompletionMessage(v tracker.JobView) (string, error) {
	return s.render(s.CompletionTemplate, defaultCompletionTemplate, v)
}

func (s *Service) render(file, def string, v tracker.JobView) (string, error) {
	tmpl := template.Must(template.New("msg").Parse(def))
	if file != "" {
		custom, err := template.ParseFiles(file)
		if err != nil {
			log.Printf("[WARN] can't use template %s, using default, %v", file, err)
		} else {
			tmpl = custom
		}
	}

	buf := bytes.Buffer{}
	if err := tmpl.Execute(&buf, s.messageData(v)); err != nil {
		return "", fmt.Errorf("failed to apply template: %w", err)
	}
	return buf.String(), nil
}

func (s *Service) messageData(v tracker.JobView) MessageData {
	res := MessageData{ID: v.ID, Name: v.Name, Kind: v.Kind.String(), Status: v.Status.String(), Error: v.Error,
		Host: s.HostName, TS: time.Now()}
	if !v.StartedAt.IsZero() {
		res.Started = humanize.Time(v.StartedAt)
		if !v.CompletedAt.IsZero() && v.CompletedAt.After(v.StartedAt) {
			res.Duration = v.CompletedAt.Sub(v.StartedAt).Round(time.Second).String()
		}
	}
	if p := v.Progress; p != nil {
		res.Progress = fmt.Sprintf("%.0f%%", p.Percentage)
		if p.TotalItems > 0 {
			res.Progress += fmt.Sprintf(" (%s of %s items)", humanize.Comma(p.ProcessedItems), humanize.Comma(p.TotalItems))
		}
	}
	return res
}

// addresses makes destination strings for the schema of a client
func (s *Service) addresses(schema, subj string) []string {
	switch schema {
	case "mailto":
		if len(s.toEmail) == 0 {
			return nil
		}
		return []string{fmt.Sprintf("mailto:%s?from=%s&subject=%s", strings.Join(s.toEmail, ","), s.fromEmail,
			url.QueryEscape(subj))}
	case "slack":
		res := make([]string, 0, len(s.slackChannels))
		for _, ch := range s.slackChannels {
			res = append(res, fmt.Sprintf("slack:%s?title=%s", ch, url.QueryEscape(subj)))
		}
		return res
	default:
		return s.webhookURLs
	}
}

func (s *Service) wanted(status enums.JobStatus) bool {
	switch status {
	case enums.JobStatusFailed:
		return s.EnabledError
	case enums.JobStatusCompleted:
		return s.EnabledCompletion
	case enums.JobStatusCancelled:
		return s.EnabledCancel
	default:
		return false
	}
}

func hostName() string {
	host, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return host
}
