package types

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

// Environment is a snapshot of the machine a run executed on, captured
// once when the report is created.
type Environment struct {
	Platform    string
	NumCPU      int
	TotalMemory uint64 // bytes
	WorkDir     string
	Timestamp   time.Time
}

// CaptureEnvironment snapshots the current host. Probe failures degrade
// to runtime defaults rather than failing the run.
func CaptureEnvironment(workDir string) Environment {
	env := Environment{
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
		NumCPU:    runtime.NumCPU(),
		WorkDir:   workDir,
		Timestamp: time.Now(),
	}

	if info, err := host.Info(); err == nil && info.Platform != "" {
		env.Platform = fmt.Sprintf("%s %s (%s)", info.Platform, info.PlatformVersion, info.KernelArch)
	}
	if count, err := cpu.Counts(true); err == nil && count > 0 {
		env.NumCPU = count
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		env.TotalMemory = vm.Total
	}
	if env.WorkDir == "" {
		if wd, err := os.Getwd(); err == nil {
			env.WorkDir = wd
		}
	}

	return env
}

// MemoryGB returns total memory in gigabytes for display purposes.
func (e Environment) MemoryGB() float64 {
	return float64(e.TotalMemory) / (1 << 30)
}
