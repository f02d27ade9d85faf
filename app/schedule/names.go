package schedule

import (
	"fmt"
	"slices"
	"strings"
	"text/template"
	"time"
)

// NameTemplate expands date templates in job names, like "nightly-{{.YYYYMMDD}}".
// EOD variants point to the last business day finished before the end-of-day hour,
// W variants to the current day or the previous business day if today is a weekend.
type NameTemplate struct {
	tz       *time.Location
	eodHour  int
	skipDays []time.Weekday
	fields   dateFields
}

type dateFields struct {
	YYYYMMDD    string
	YYYYMMDDEOD string
	YYYY        string
	YYYYMM      string
	YYMMDD      string
	ISODATE     string
	MM          string
	DD          string
	YY          string
	HHMM        string

	WYYYYMMDD string
	WYYYYMM   string
	WISODATE  string

	UNIX     int64
	UNIXMSEC int64
}

// NameOption customizes NameTemplate
type NameOption func(n *NameTemplate)

// NameTimeZone sets location used for date fields, local by default
func NameTimeZone(tz *time.Location) NameOption {
	return func(n *NameTemplate) { n.tz = tz }
}

// NameEndOfDay sets the hour business day is considered finished, 17 by default
func NameEndOfDay(hour int) NameOption {
	return func(n *NameTemplate) { n.eodHour = hour }
}

// NameSkipWeekDays sets non-business weekdays, Saturday and Sunday by default
func NameSkipWeekDays(days ...time.Weekday) NameOption {
	return func(n *NameTemplate) {
		if days != nil {
			n.skipDays = days
		}
	}
}

// NewNameTemplate makes name template for given moment
func NewNameTemplate(ts time.Time, options ...NameOption) *NameTemplate {
	res := &NameTemplate{tz: time.Local, eodHour: 17, skipDays: []time.Weekday{time.Saturday, time.Sunday}}
	for _, opt := range options {
		opt(res)
	}

	ts = ts.In(res.tz)
	day := res.midnight(ts)
	eodDay := res.businessDayBackward(day)
	if ts.Hour() < res.eodHour {
		eodDay = res.businessDayBackward(day.AddDate(0, 0, -1))
	}
	wday := res.businessDayBackward(day)

	res.fields = dateFields{
		YYYYMMDD:    day.Format("20060102"),
		YYYYMMDDEOD: eodDay.Format("20060102"),
		YYYY:        day.Format("2006"),
		YYYYMM:      day.Format("200601"),
		YYMMDD:      day.Format("060102"),
		ISODATE:     day.Format("2006-01-02"),
		MM:          day.Format("01"),
		DD:          day.Format("02"),
		YY:          day.Format("06"),
		HHMM:        ts.Format("1504"),
		WYYYYMMDD:   wday.Format("20060102"),
		WYYYYMM:     wday.Format("200601"),
		WISODATE:    wday.Format("2006-01-02"),
		UNIX:        ts.Unix(),
		UNIXMSEC:    ts.UnixMilli(),
	}
	return res
}

// Expand returns name with all templates replaced. Names without templates returned as is.
func (n *NameTemplate) Expand(name string) (string, error) {
	if !strings.Contains(name, "{{") {
		return name, nil
	}
	tmpl, err := template.New("name").Option("missingkey=error").Parse(name)
	if err != nil {
		return "", fmt.Errorf("can't parse name template %q: %w", name, err)
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, n.fields); err != nil {
		return "", fmt.Errorf("can't expand name template %q: %w", name, err)
	}
	return sb.String(), nil
}

func (n *NameTemplate) midnight(ts time.Time) time.Time {
	yy, mm, dd := ts.Date()
	return time.Date(yy, mm, dd, 0, 0, 0, 0, n.tz)
}

func (n *NameTemplate) businessDayBackward(day time.Time) time.Time {
	d := day
	for range 7 {
		if !slices.Contains(n.skipDays, d.Weekday()) {
			return d
		}
		d = d.AddDate(0, 0, -1)
	}
	return day // every weekday skipped
}
