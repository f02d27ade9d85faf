// Package conditions checks host load before a scheduled backup starts.
// Supported checks are CPU and memory usage, load average, free disk space and a custom shell script.
package conditions

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
)

// Config defines conditions of a scheduled job. Nil thresholds are not checked.
type Config struct {
	CPUBelow      *int           `yaml:"cpu_below,omitempty" json:"cpu_below,omitempty" jsonschema:"minimum=1,maximum=100,description=start only if CPU usage percent is below"`
	MemoryBelow   *int           `yaml:"memory_below,omitempty" json:"memory_below,omitempty" jsonschema:"minimum=1,maximum=100,description=start only if memory usage percent is below"`
	LoadAvgBelow  *float64       `yaml:"load_avg_below,omitempty" json:"load_avg_below,omitempty" jsonschema:"minimum=0,description=start only if 1m load average is below"`
	DiskFreeAbove *int           `yaml:"disk_free_above,omitempty" json:"disk_free_above,omitempty" jsonschema:"minimum=0,maximum=100,description=start only if free disk percent is above"`
	DiskFreePath  string         `yaml:"disk_free_path,omitempty" json:"disk_free_path,omitempty" jsonschema:"description=path for disk check (default /)"`
	Custom        string         `yaml:"custom,omitempty" json:"custom,omitempty" jsonschema:"description=shell command (exit code 0 allows start)"`
	MaxPostpone   *time.Duration `yaml:"max_postpone,omitempty" json:"max_postpone,omitempty" jsonschema:"type=string,description=wait for conditions up to this duration (skip if not set)"`
	CheckInterval *time.Duration `yaml:"check_interval,omitempty" json:"check_interval,omitempty" jsonschema:"type=string,description=recheck interval while postponed (default 30s)"`
}

// IsEmpty reports whether no condition is set
func (c Config) IsEmpty() bool {
	return c.CPUBelow == nil && c.MemoryBelow == nil && c.LoadAvgBelow == nil && c.DiskFreeAbove == nil && c.Custom == ""
}

// Checker verifies conditions with limited number of concurrent checks.
// CPU sampling takes a second, so many jobs firing at the same minute would otherwise skew each other.
type Checker struct {
	maxConcurrent int
	semaphore     chan struct{}

	cpuPercent func() (float64, error)
	memPercent func() (float64, error)
	loadAvg    func() (float64, error)
	diskUsed   func(path string) (float64, error)
}

// NewChecker makes checker with given concurrency limit, 0 means default of 4
func NewChecker(maxConcurrent int) *Checker {
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}
	return &Checker{
		maxConcurrent: maxConcurrent,
		semaphore:     make(chan struct{}, maxConcurrent),
		cpuPercent: func() (float64, error) {
			v, err := cpu.Percent(time.Second, false)
			if err != nil {
				return 0, err
			}
			if len(v) == 0 {
				return 0, fmt.Errorf("no CPU data available")
			}
			return v[0], nil
		},
		memPercent: func() (float64, error) {
			v, err := mem.VirtualMemory()
			if err != nil {
				return 0, err
			}
			return v.UsedPercent, nil
		},
		loadAvg: func() (float64, error) {
			v, err := load.Avg()
			if err != nil {
				return 0, err
			}
			return v.Load1, nil
		},
		diskUsed: func(path string) (float64, error) {
			v, err := disk.Usage(path)
			if err != nil {
				return 0, err
			}
			return v.UsedPercent, nil
		},
	}
}

// Check verifies all conditions. Returns true if satisfied, false with the reason otherwise.
func (c *Checker) Check(cfg Config) (bool, string) {
	c.semaphore <- struct{}{}
	defer func() { <-c.semaphore }()

	if cfg.CPUBelow != nil {
		if ok, reason := c.checkCPU(*cfg.CPUBelow); !ok {
			return false, reason
		}
	}
	if cfg.MemoryBelow != nil {
		if ok, reason := c.checkMemory(*cfg.MemoryBelow); !ok {
			return false, reason
		}
	}
	if cfg.LoadAvgBelow != nil {
		if ok, reason := c.checkLoadAvg(*cfg.LoadAvgBelow); !ok {
			return false, reason
		}
	}
	if cfg.DiskFreeAbove != nil {
		path := cfg.DiskFreePath
		if path == "" {
			path = "/"
		}
		if ok, reason := c.checkDiskFree(*cfg.DiskFreeAbove, path); !ok {
			return false, reason
		}
	}
	if cfg.Custom != "" {
		if ok, reason := c.checkCustom(cfg.Custom); !ok {
			return false, reason
		}
	}
	return true, ""
}

func (c *Checker) checkCPU(threshold int) (bool, string) {
	v, err := c.cpuPercent()
	if err != nil {
		return false, fmt.Sprintf("failed to get CPU: %v", err)
	}
	if current := int(v); current >= threshold {
		return false, fmt.Sprintf("CPU at %d%%, threshold %d%%", current, threshold)
	}
	return true, ""
}

func (c *Checker) checkMemory(threshold int) (bool, string) {
	v, err := c.memPercent()
	if err != nil {
		return false, fmt.Sprintf("failed to get memory: %v", err)
	}
	if current := int(v); current >= threshold {
		return false, fmt.Sprintf("memory at %d%%, threshold %d%%", current, threshold)
	}
	return true, ""
}

func (c *Checker) checkLoadAvg(threshold float64) (bool, string) {
	v, err := c.loadAvg()
	if err != nil {
		return false, fmt.Sprintf("failed to get load average: %v", err)
	}
	if v >= threshold {
		return false, fmt.Sprintf("load at %.2f, threshold %.2f", v, threshold)
	}
	return true, ""
}

func (c *Checker) checkDiskFree(minFreePercent int, path string) (bool, string) {
	used, err := c.diskUsed(path)
	if err != nil {
		return false, fmt.Sprintf("failed to get disk usage for %s: %v", path, err)
	}
	if free := 100 - int(used); free < minFreePercent {
		return false, fmt.Sprintf("disk free at %d%%, need %d%% on %s", free, minFreePercent, path)
	}
	return true, ""
}

// checkCustom runs the script with sh, exit code 0 means ok
func (c *Checker) checkCustom(script string) (bool, string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := exec.CommandContext(ctx, "sh", "-c", script).Run(); err != nil { //nolint:gosec // script comes from trusted config
		return false, fmt.Sprintf("custom check failed: %v", err)
	}
	return true, ""
}
