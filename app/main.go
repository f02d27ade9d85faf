package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"sync"
	"syscall"
	"time"

	log "github.com/go-pkgz/lgr"
	ntf "github.com/go-pkgz/notify"
	"github.com/go-pkgz/repeater"
	"github.com/go-pkgz/repeater/strategy"
	"github.com/robfig/cron/v3"
	"github.com/umputun/go-flags"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/umputun/jobwatch/app/backend"
	"github.com/umputun/jobwatch/app/history"
	"github.com/umputun/jobwatch/app/notify"
	"github.com/umputun/jobwatch/app/schedule"
	"github.com/umputun/jobwatch/app/schedule/conditions"
	"github.com/umputun/jobwatch/app/tracker"
	"github.com/umputun/jobwatch/app/web"
)

var opts struct {
	Backend struct {
		URL           string        `long:"url" env:"URL" description:"backend jobs api url"`
		Token         string        `long:"token" env:"TOKEN" description:"bearer token"`
		Timeout       time.Duration `long:"timeout" env:"TIMEOUT" default:"30s" description:"backend request timeout"`
		NoBatch       bool          `long:"no-batch" env:"NO_BATCH" description:"fetch progress per job instead of batch"`
		Concurrency   int           `long:"concurrency" env:"CONCURRENCY" default:"4" description:"max parallel progress requests"`
		WaitAttempts  int           `long:"wait-attempts" env:"WAIT_ATTEMPTS" default:"5" description:"health check attempts on startup"`
		WaitDuration  time.Duration `long:"wait-duration" env:"WAIT_DURATION" default:"1s" description:"initial delay between health checks"`
		WaitFactor    float64       `long:"wait-factor" env:"WAIT_FACTOR" default:"2" description:"health check backoff factor"`
		ContinueAfter bool          `long:"continue" env:"CONTINUE" description:"start even if backend is not healthy"`
	} `group:"backend" namespace:"backend" env-namespace:"JOBWATCH_BACKEND"`

	Poll struct {
		Interval     time.Duration `long:"interval" env:"INTERVAL" default:"3s" description:"poll interval with active jobs"`
		IdleInterval time.Duration `long:"idle-interval" env:"IDLE_INTERVAL" description:"poll interval without active jobs, 0 stops polling"`
	} `group:"poll" namespace:"poll" env-namespace:"JOBWATCH_POLL"`

	Web struct {
		Enabled       bool          `long:"enabled" env:"ENABLED" description:"enable local api"`
		Address       string        `long:"address" env:"ADDRESS" default:"127.0.0.1:8080" description:"api listen address"`
		ActionTimeout time.Duration `long:"action-timeout" env:"ACTION_TIMEOUT" default:"30s" description:"timeout of user actions"`
		ActionLimit   float64       `long:"action-limit" env:"ACTION_LIMIT" default:"10" description:"action requests per second per client"`
	} `group:"web" namespace:"web" env-namespace:"JOBWATCH_WEB"`

	History struct {
		DB        string        `long:"db" env:"DB" description:"sqlite file of finished jobs journal, disabled if empty"`
		Retention time.Duration `long:"retention" env:"RETENTION" default:"720h" description:"keep journal records for, 0 keeps forever"`
	} `group:"history" namespace:"history" env-namespace:"JOBWATCH_HISTORY"`

	Schedule struct {
		File         string        `long:"file" env:"FILE" description:"yaml file with scheduled jobs, disabled if empty"`
		Update       bool          `long:"update" env:"UPDATE" description:"reload schedule file on changes"`
		Jitter       time.Duration `long:"jitter" env:"JITTER" description:"random delay before scheduled start"`
		StartTimeout time.Duration `long:"start-timeout" env:"START_TIMEOUT" default:"30s" description:"timeout of scheduled start request"`
		MaxChecks    int           `long:"max-checks" env:"MAX_CHECKS" default:"4" description:"max concurrent condition checks"`
	} `group:"schedule" namespace:"schedule" env-namespace:"JOBWATCH_SCHEDULE"`

	Notify struct {
		EnabledError       bool          `long:"enabled-error" env:"ENABLED_ERROR" description:"notify about failed jobs"`
		EnabledCompletion  bool          `long:"enabled-complete" env:"ENABLED_COMPLETE" description:"notify about completed jobs"`
		EnabledCancel      bool          `long:"enabled-cancel" env:"ENABLED_CANCEL" description:"notify about cancelled jobs"`
		ErrorTemplate      string        `long:"err-template" env:"ERR_TEMPLATE" description:"error message template file"`
		CompletionTemplate string        `long:"complete-template" env:"COMPLETE_TEMPLATE" description:"completion message template file"`
		SMTPHost           string        `long:"smtp-host" env:"SMTP_HOST" description:"SMTP host"`
		SMTPPort           int           `long:"smtp-port" env:"SMTP_PORT" description:"SMTP port"`
		SMTPUsername       string        `long:"smtp-username" env:"SMTP_USERNAME" description:"SMTP user name"`
		SMTPPassword       string        `long:"smtp-password" env:"SMTP_PASSWORD" description:"SMTP password"`
		SMTPTLS            bool          `long:"smtp-tls" env:"SMTP_TLS" description:"enable SMTP TLS"`
		SMTPStartTLS       bool          `long:"smtp-starttls" env:"SMTP_STARTTLS" description:"enable SMTP StartTLS"`
		SMTPTimeOut        time.Duration `long:"smtp-timeout" env:"SMTP_TIMEOUT" default:"10s" description:"SMTP TCP connection timeout"`
		FromEmail          string        `long:"from" env:"FROM" description:"SMTP from email"`
		ToEmails           []string      `long:"to" env:"TO" description:"SMTP to email(s)" env-delim:","`
		SlackToken         string        `long:"slack-token" env:"SLACK_TOKEN" description:"slack token"`
		SlackChannels      []string      `long:"slack-channel" env:"SLACK_CHANNEL" description:"slack channel(s)" env-delim:","`
		WebhookURLs        []string      `long:"webhook-url" env:"WEBHOOK_URL" description:"webhook url(s)" env-delim:","`
		Timeout            time.Duration `long:"timeout" env:"TIMEOUT" default:"10s" description:"webhook timeout"`
		HostName           string        `long:"host" env:"HOSTNAME" description:"host name running jobwatch"`
	} `group:"notify" namespace:"notify" env-namespace:"JOBWATCH_NOTIFY"`

	Log struct {
		Enabled         bool   `long:"enabled" env:"ENABLED" description:"enable logging to file"`
		Filename        string `long:"filename" env:"FILENAME" default:"jobwatch.log" description:"file to log to"`
		MaxSize         int    `long:"max-size" env:"MAX_SIZE" default:"100" description:"max size of log file in MB"`
		MaxBackups      int    `long:"max-backups" env:"MAX_BACKUPS" default:"7" description:"max number of rotated files"`
		MaxAge          int    `long:"max-age" env:"MAX_AGE" default:"0" description:"max age of rotated files in days, 0 keeps all"`
		EnabledCompress bool   `long:"enabled-compress" env:"ENABLED_COMPRESS" description:"compress rotated files"`
	} `group:"log" namespace:"log" env-namespace:"JOBWATCH_LOG"`

	Schema bool `long:"schema" description:"print json schema of schedule file and exit"`
	Dbg    bool `long:"dbg" env:"JOBWATCH_DEBUG" description:"debug mode"`
}

var revision = "unknown"

func main() {
	fmt.Printf("jobwatch %s\n", revision)

	if _, err := flags.Parse(&opts); err != nil {
		os.Exit(2)
	}

	if opts.Schema {
		if err := printSchema(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "can't make schema, %v\n", err)
			os.Exit(1)
		}
		return
	}

	setupLogger(setupLogs(), opts.Dbg)

	defer func() {
		if x := recover(); x != nil {
			log.Printf("[WARN] run time panic:\n%v", x)
			panic(x)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	signals(cancel) // handle SIGQUIT, SIGINT and SIGTERM

	if err := run(ctx); err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}
}

// run wires all components and blocks until ctx is canceled
func run(ctx context.Context) error {
	if opts.Backend.URL == "" {
		return errors.New("backend url is required")
	}

	client := backend.New(backend.Params{
		BaseURL:       opts.Backend.URL,
		Token:         opts.Backend.Token,
		Timeout:       opts.Backend.Timeout,
		BatchProgress: !opts.Backend.NoBatch,
		Concurrency:   opts.Backend.Concurrency,
	})

	if err := waitForBackend(ctx, client); err != nil {
		if !opts.Backend.ContinueAfter {
			return err
		}
		log.Printf("[WARN] %v, continue anyway", err)
	}

	trk := tracker.New(client, tracker.Opts{Interval: opts.Poll.Interval, IdleInterval: opts.Poll.IdleInterval})
	defer trk.Stop()

	var store *history.Store
	if opts.History.DB != "" {
		var err error
		if store, err = history.NewStore(opts.History.DB); err != nil {
			return fmt.Errorf("can't open history: %w", err)
		}
		defer func() {
			if err := store.Close(); err != nil {
				log.Printf("[WARN] can't close history, %v", err)
			}
		}()
	}

	// background workers are stopped and waited for before the store is closed
	var wg sync.WaitGroup
	defer wg.Wait()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if store != nil {
		rec := history.NewRecorder(store, 100, opts.History.Retention)
		unsubscribe := trk.Subscribe(rec.OnEvent)
		defer unsubscribe()
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec.Run(ctx)
		}()
	}

	if notifier := makeNotifier(); notifier != nil {
		unsubscribe := trk.Subscribe(notifier.OnEvent)
		defer unsubscribe()
		wg.Add(1)
		go func() {
			defer wg.Done()
			notifier.Run(ctx)
		}()
	}

	if opts.Schedule.File != "" {
		sched := makeScheduler(trk)
		wg.Add(1)
		go func() {
			defer wg.Done()
			sched.Do(ctx)
		}()
	}

	if opts.Web.Enabled {
		srv, err := web.New(web.Config{Tracker: trk, History: store, Version: revision,
			ActionTimeout: opts.Web.ActionTimeout, ActionLimit: opts.Web.ActionLimit})
		if err != nil {
			return fmt.Errorf("can't make web server: %w", err)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := srv.Run(ctx, opts.Web.Address); err != nil {
				log.Printf("[WARN] %v", err)
			}
		}()
	}

	trk.Run(ctx)
	log.Print("[INFO] jobwatch terminated")
	return nil
}

// waitForBackend checks backend health with backoff until it reports anything but unreachable
func waitForBackend(ctx context.Context, client *backend.Client) error {
	rptr := repeater.New(&strategy.Backoff{Repeats: opts.Backend.WaitAttempts, Duration: opts.Backend.WaitDuration,
		Factor: opts.Backend.WaitFactor, Jitter: true})
	err := rptr.Do(ctx, func() error {
		h, err := client.Health(ctx)
		if err != nil {
			log.Printf("[DEBUG] backend health check failed, %v", err)
			return err
		}
		log.Printf("[INFO] backend %s is %s, %s", opts.Backend.URL, h.Status, h.Message)
		return nil
	})
	if err != nil {
		return fmt.Errorf("backend %s is not available: %w", opts.Backend.URL, err)
	}
	return nil
}

func makeScheduler(trk *tracker.Tracker) *schedule.Scheduler {
	return &schedule.Scheduler{
		Cron:             cron.New(),
		Starter:          trk,
		Loader:           schedule.NewFileLoader(opts.Schedule.File, 10*time.Second),
		UpdatesEnabled:   opts.Schedule.Update,
		Jitter:           opts.Schedule.Jitter,
		ConditionChecker: conditions.NewChecker(opts.Schedule.MaxChecks),
		DeDup:            schedule.NewDeDup(),
		StartTimeout:     opts.Schedule.StartTimeout,
	}
}

func makeNotifier() *notify.Service {
	if !opts.Notify.EnabledError && !opts.Notify.EnabledCompletion && !opts.Notify.EnabledCancel {
		return nil
	}

	if opts.Notify.FromEmail == "" {
		opts.Notify.FromEmail = "jobwatch@" + makeHostName()
	}

	return notify.NewService(
		notify.Params{
			EnabledError:       opts.Notify.EnabledError,
			EnabledCompletion:  opts.Notify.EnabledCompletion,
			EnabledCancel:      opts.Notify.EnabledCancel,
			ErrorTemplate:      opts.Notify.ErrorTemplate,
			CompletionTemplate: opts.Notify.CompletionTemplate,
			HostName:           makeHostName(),
		},
		notify.SendersParams{
			SMTPParams: ntf.SMTPParams{
				Host:     opts.Notify.SMTPHost,
				Port:     opts.Notify.SMTPPort,
				TLS:      opts.Notify.SMTPTLS,
				StartTLS: opts.Notify.SMTPStartTLS,
				Username: opts.Notify.SMTPUsername,
				Password: opts.Notify.SMTPPassword,
				TimeOut:  opts.Notify.SMTPTimeOut,
			},
			FromEmail:     opts.Notify.FromEmail,
			ToEmails:      opts.Notify.ToEmails,
			SlackToken:    opts.Notify.SlackToken,
			SlackChannels: opts.Notify.SlackChannels,
			WebhookURLs:   opts.Notify.WebhookURLs,
			Timeout:       opts.Notify.Timeout,
		},
	)
}

func makeHostName() string {
	if opts.Notify.HostName != "" {
		return opts.Notify.HostName
	}
	host, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return host
}

func printSchema(w io.Writer) error {
	data, err := json.MarshalIndent(schedule.GenerateSchema(), "", "  ")
	if err != nil {
		return fmt.Errorf("can't marshal schema: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// setupLogs returns log destination, rotated file if enabled or stdout
func setupLogs() io.Writer {
	if !opts.Log.Enabled {
		return os.Stdout
	}
	return &lumberjack.Logger{
		Filename:   opts.Log.Filename,
		MaxSize:    opts.Log.MaxSize,
		MaxBackups: opts.Log.MaxBackups,
		MaxAge:     opts.Log.MaxAge,
		Compress:   opts.Log.EnabledCompress,
	}
}

func setupLogger(out io.Writer, dbg bool) {
	errOut := io.Writer(os.Stderr)
	if out != os.Stdout {
		errOut = io.MultiWriter(out, os.Stderr)
	}
	if dbg {
		log.Setup(log.Debug, log.Msec, log.CallerFunc, log.CallerPkg, log.CallerFile, log.Out(out), log.Err(errOut))
		return
	}
	log.Setup(log.Msec, log.Out(out), log.Err(errOut))
}

func signals(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	go func() {
		stacktrace := make([]byte, 8192)
		for sig := range sigChan {
			if sig == syscall.SIGQUIT { // catch SIGQUIT and print stack traces
				length := runtime.Stack(stacktrace, true)
				fmt.Println(string(stacktrace[:length]))
				continue
			}
			log.Printf("[INFO] %s received, shutting down", strings.ToLower(sig.String()))
			cancel()
		}
	}()
	signal.Notify(sigChan, syscall.SIGQUIT, syscall.SIGINT, syscall.SIGTERM)
}
