package profile

import (
	"os"
	"path/filepath"
	"time"
)

// Variant is the closed set of sample runtime layouts the harness knows
// how to bring up.
type Variant string

const (
	// InterpretedScript samples ship a main.py entry point; dependencies
	// are installed from requirements.txt and the script is run directly.
	InterpretedScript Variant = "interpreted-script"
	// CompiledProject samples ship a *.csproj with a Program.cs entry
	// point; they are built once and then launched without rebuilding.
	CompiledProject Variant = "compiled-project"
	// Unsupported marks directory layouts the harness cannot classify.
	Unsupported Variant = "unsupported"
)

// RuntimeProfile carries the build/run/timeout strategy selected for a
// sample directory. Command slices are argv vectors run with the sample
// directory as working directory.
type RuntimeProfile struct {
	Variant  Variant
	Language string

	InstallCmd []string
	BuildCmd   []string
	RunCmd     []string

	BuildTimeout   time.Duration
	StartupTimeout time.Duration
}

// Build-side timeouts are strictly larger than the startup timeouts.
const (
	interpretedStartupTimeout = 30 * time.Second
	compiledStartupTimeout    = 60 * time.Second
	installTimeout            = 10 * time.Minute
	compiledBuildTimeout      = 10 * time.Minute
)

// Resolve inspects a sample directory's marker files and selects a runtime
// profile. Unknown layouts resolve to Unsupported; Resolve itself never
// fails, classification problems are for the caller to report.
func Resolve(sampleDir string) RuntimeProfile {
	if fileExists(filepath.Join(sampleDir, "main.py")) {
		return RuntimeProfile{
			Variant:        InterpretedScript,
			Language:       "python",
			InstallCmd:     []string{"python3", "-m", "pip", "install", "-r", "requirements.txt", "-q"},
			RunCmd:         []string{"python3", "main.py"},
			BuildTimeout:   installTimeout,
			StartupTimeout: interpretedStartupTimeout,
		}
	}

	if csproj := findCsproj(sampleDir); csproj != "" {
		return RuntimeProfile{
			Variant:        CompiledProject,
			Language:       "csharp",
			BuildCmd:       []string{"dotnet", "build", "-c", "Release"},
			RunCmd:         []string{"dotnet", "run", "--project", csproj, "--no-build"},
			BuildTimeout:   compiledBuildTimeout,
			StartupTimeout: compiledStartupTimeout,
		}
	}

	return RuntimeProfile{Variant: Unsupported}
}

// HasEntryPoint reports whether the resolved variant's entry file is
// actually present (Program.cs for compiled projects). Interpreted
// profiles are only resolved off the entry file, so they always pass.
func (p RuntimeProfile) HasEntryPoint(sampleDir string) bool {
	if p.Variant == CompiledProject {
		return fileExists(filepath.Join(sampleDir, "Program.cs"))
	}
	return p.Variant == InterpretedScript
}

func findCsproj(dir string) string {
	matches, err := filepath.Glob(filepath.Join(dir, "*.csproj"))
	if err != nil || len(matches) == 0 {
		return ""
	}
	return filepath.Base(matches[0])
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
