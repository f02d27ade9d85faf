package schedule

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/umputun/jobwatch/app/enums"
	"github.com/umputun/jobwatch/app/schedule/conditions"
)

// Config is the root of schedule yaml file
type Config struct {
	Jobs []JobSpec `yaml:"jobs" json:"jobs" jsonschema:"required,description=scheduled backup jobs"`
}

// JobSpec defines one scheduled backup. Either Spec or Sched is set.
type JobSpec struct {
	Name         string             `yaml:"name" json:"name" jsonschema:"required,description=job name sent to the backend. Date templates like {{.YYYYMMDD}} are expanded on start"`
	Kind         string             `yaml:"kind" json:"kind" jsonschema:"required,enum=full,enum=incremental,enum=differential,enum=restore"`
	Spec         string             `yaml:"spec,omitempty" json:"spec,omitempty" jsonschema:"description=cron spec like '0 2 * * *' or '@daily'"`
	Sched        Schedule           `yaml:"sched,omitempty" json:"sched,omitempty" jsonschema:"description=structured schedule as alternative to spec"`
	SkipIfActive bool               `yaml:"skip_if_active,omitempty" json:"skip_if_active,omitempty" jsonschema:"description=don't start if a job with the same name is still active"`
	Conditions   *conditions.Config `yaml:"conditions,omitempty" json:"conditions,omitempty" jsonschema:"description=host conditions to start the job"`
}

// Schedule is the structured form of cron spec, empty fields mean "*"
type Schedule struct {
	Minute  string `yaml:"minute,omitempty" json:"minute,omitempty"`
	Hour    string `yaml:"hour,omitempty" json:"hour,omitempty"`
	Day     string `yaml:"day,omitempty" json:"day,omitempty"`
	Month   string `yaml:"month,omitempty" json:"month,omitempty"`
	Weekday string `yaml:"weekday,omitempty" json:"weekday,omitempty"`
}

// IsEmpty reports whether no field of schedule is set
func (s Schedule) IsEmpty() bool {
	return s.Minute == "" && s.Hour == "" && s.Day == "" && s.Month == "" && s.Weekday == ""
}

// String returns standard 5-fields cron spec
func (s Schedule) String() string {
	field := func(v string) string {
		if v == "" {
			return "*"
		}
		return v
	}
	return strings.Join([]string{field(s.Minute), field(s.Hour), field(s.Day), field(s.Month), field(s.Weekday)}, " ")
}

// CronSpec returns effective cron spec of the job
func (j JobSpec) CronSpec() string {
	if j.Spec != "" {
		return j.Spec
	}
	return j.Sched.String()
}

// JobKind returns parsed kind, valid after Validate
func (j JobSpec) JobKind() enums.JobKind {
	kind, err := enums.ParseJobKind(j.Kind)
	if err != nil {
		return enums.JobKindFull
	}
	return kind
}

// Load reads and validates schedule file
func Load(file string) (*Config, error) {
	data, err := os.ReadFile(file) //nolint:gosec // file name comes from cli options
	if err != nil {
		return nil, fmt.Errorf("can't read schedule file %s: %w", file, err)
	}
	return Parse(data)
}

// Parse decodes and validates schedule yaml
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("can't parse schedule yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("schedule validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate checks all jobs. Empty jobs list is valid, scheduler runs with zero jobs.
func (c *Config) Validate() error {
	names := map[string]bool{}
	for i, job := range c.Jobs {
		num := i + 1
		if strings.TrimSpace(job.Name) == "" {
			return fmt.Errorf("job %d: name is required", num)
		}
		if names[job.Name] {
			return fmt.Errorf("job %d: duplicate name %q", num, job.Name)
		}
		names[job.Name] = true
		if _, err := NewNameTemplate(time.Now()).Expand(job.Name); err != nil {
			return fmt.Errorf("job %d: %w", num, err)
		}

		if _, err := enums.ParseJobKind(job.Kind); err != nil {
			return fmt.Errorf("job %d: invalid kind %q", num, job.Kind)
		}

		hasSpec, hasSched := job.Spec != "", !job.Sched.IsEmpty()
		if !hasSpec && !hasSched {
			return fmt.Errorf("job %d: either 'spec' or 'sched' field is required", num)
		}
		if hasSpec && hasSched {
			return fmt.Errorf("job %d: 'spec' and 'sched' fields are mutually exclusive", num)
		}
		if hasSched {
			if err := validateSchedFields(job.Sched, num); err != nil {
				return err
			}
		}
		if _, err := cron.ParseStandard(job.CronSpec()); err != nil {
			return fmt.Errorf("job %d: invalid schedule %q: %w", num, job.CronSpec(), err)
		}
		if job.Conditions != nil {
			if err := validateConditions(*job.Conditions, num); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateConditions(c conditions.Config, num int) error {
	percents := []struct {
		name string
		v    *int
	}{{"cpu_below", c.CPUBelow}, {"memory_below", c.MemoryBelow}, {"disk_free_above", c.DiskFreeAbove}}
	for _, p := range percents {
		if p.v != nil && (*p.v < 0 || *p.v > 100) {
			return fmt.Errorf("job %d: conditions.%s must be between 0 and 100", num, p.name)
		}
	}
	if c.LoadAvgBelow != nil && *c.LoadAvgBelow < 0 {
		return fmt.Errorf("job %d: conditions.load_avg_below must not be negative", num)
	}
	if c.MaxPostpone != nil && *c.MaxPostpone <= 0 {
		return fmt.Errorf("job %d: conditions.max_postpone must be positive", num)
	}
	if c.CheckInterval != nil && *c.CheckInterval <= 0 {
		return fmt.Errorf("job %d: conditions.check_interval must be positive", num)
	}
	return nil
}

// validateSchedFields validates the Schedule struct fields
func validateSchedFields(sched Schedule, jobNum int) error {
	fields := []struct {
		name     string
		value    string
		min, max int
	}{
		{"minute", sched.Minute, 0, 59},
		{"hour", sched.Hour, 0, 23},
		{"day", sched.Day, 1, 31},
		{"month", sched.Month, 1, 12},
		{"weekday", sched.Weekday, 0, 6},
	}
	for _, f := range fields {
		if f.value == "" || f.value == "*" {
			continue
		}
		if f.name == "weekday" && isWeekdayName(f.value) {
			continue
		}
		if err := validateCronField(f.value, f.min, f.max, f.name); err != nil {
			return fmt.Errorf("job %d: invalid %s field '%s': %w", jobNum, f.name, f.value, err)
		}
	}
	return nil
}

var weekdayPattern = regexp.MustCompile(`^(MON|TUE|WED|THU|FRI|SAT|SUN)([-,](MON|TUE|WED|THU|FRI|SAT|SUN))*$`)

func isWeekdayName(s string) bool {
	return weekdayPattern.MatchString(strings.ToUpper(s))
}

// validateCronField validates a single cron field value
func validateCronField(value string, minVal, maxVal int, fieldName string) error {
	switch {
	case strings.HasPrefix(value, "*/"):
		return validateStepValue(value[2:])
	case strings.Contains(value, ","):
		for part := range strings.SplitSeq(value, ",") {
			if err := validateCronField(strings.TrimSpace(part), minVal, maxVal, fieldName); err != nil {
				return err
			}
		}
		return nil
	case strings.Contains(value, "-"):
		return validateRange(value, minVal, maxVal)
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid %s value", fieldName)
	}
	if val < minVal || val > maxVal {
		return fmt.Errorf("%s value %d out of bounds (%d-%d)", fieldName, val, minVal, maxVal)
	}
	return nil
}

func validateStepValue(stepStr string) error {
	step, err := strconv.Atoi(stepStr)
	if err != nil || step <= 0 {
		return fmt.Errorf("invalid step value")
	}
	return nil
}

// validateRange validates range values like 1-5 or 1-5/2
func validateRange(value string, minVal, maxVal int) error {
	rangeStr, stepStr, hasStep := strings.Cut(value, "/")
	if hasStep {
		if err := validateStepValue(stepStr); err != nil {
			return fmt.Errorf("invalid step value in range")
		}
	}

	startStr, endStr, ok := strings.Cut(rangeStr, "-")
	if !ok {
		return fmt.Errorf("invalid range format")
	}
	start, err1 := strconv.Atoi(startStr)
	end, err2 := strconv.Atoi(endStr)
	if err1 != nil || err2 != nil {
		return fmt.Errorf("invalid range values")
	}
	if start < minVal || start > maxVal || end < minVal || end > maxVal || start > end {
		return fmt.Errorf("range values out of bounds (%d-%d)", minVal, maxVal)
	}
	return nil
}

// GenerateSchema makes JSON schema of the schedule file
func GenerateSchema() *jsonschema.Schema {
	schema := jsonschema.Reflect(&Config{})
	schema.Title = "Jobwatch schedule configuration"
	schema.Description = "Schema for jobwatch backup schedule yaml file"
	return schema
}
