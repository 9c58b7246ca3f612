package discovery

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/agent-samples/harness/api"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/puzpuzpuz/xsync/v3"
	"golang.org/x/sync/errgroup"
)

// languageRoot describes where one language's hosted agent samples live
// and which marker files make a directory a valid sample.
type languageRoot struct {
	language         string
	defaultFramework string
	valid            func(sampleDir string) bool
}

var languageRoots = []languageRoot{
	{
		language:         "python",
		defaultFramework: "unknown",
		valid: func(dir string) bool {
			return fileExists(filepath.Join(dir, "main.py")) &&
				fileExists(filepath.Join(dir, "requirements.txt"))
		},
	},
	{
		language:         "csharp",
		defaultFramework: "csharp",
		valid: func(dir string) bool {
			matches, _ := filepath.Glob(filepath.Join(dir, "*.csproj"))
			return len(matches) > 0 && fileExists(filepath.Join(dir, "Program.cs"))
		},
	},
}

// SupportedLanguages returns the closed set of languages discovery
// understands.
func SupportedLanguages() mapset.Set[string] {
	s := mapset.NewSet[string]()
	for _, r := range languageRoots {
		s.Add(r.language)
	}
	return s
}

// Discover walks the per-language sample roots under repoRoot and
// returns descriptors for every valid hosted agent sample, sorted by
// path. languages restricts the scan; nil means all supported ones.
// Roots are scanned concurrently, one walker per language.
func Discover(repoRoot string, languages mapset.Set[string]) ([]api.SampleDescriptor, error) {
	if languages == nil {
		languages = SupportedLanguages()
	}

	unknown := languages.Difference(SupportedLanguages())
	if unknown.Cardinality() > 0 {
		return nil, fmt.Errorf("unsupported languages: %v", unknown.ToSlice())
	}

	found := xsync.NewMapOf[string, api.SampleDescriptor]()
	g := errgroup.Group{}
	for _, root := range languageRoots {
		if !languages.Contains(root.language) {
			continue
		}
		g.Go(func() error {
			return scanRoot(repoRoot, root, found)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	samples := make([]api.SampleDescriptor, 0, found.Size())
	found.Range(func(_ string, desc api.SampleDescriptor) bool {
		samples = append(samples, desc)
		return true
	})
	sort.Slice(samples, func(i, j int) bool { return samples[i].Path < samples[j].Path })
	return samples, nil
}

func scanRoot(repoRoot string, root languageRoot, found *xsync.MapOf[string, api.SampleDescriptor]) error {
	base := filepath.Join(repoRoot, "samples", root.language, "hosted-agents")
	if _, err := os.Stat(base); os.IsNotExist(err) {
		return nil
	}

	return filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || d.Name() != "agent.yaml" {
			return nil
		}

		sampleDir := filepath.Dir(path)
		if !root.valid(sampleDir) {
			return nil
		}

		relToBase, err := filepath.Rel(base, sampleDir)
		if err != nil {
			return err
		}
		framework := root.defaultFramework
		if parts := strings.Split(filepath.ToSlash(relToBase), "/"); len(parts) > 1 {
			framework = parts[0]
		}

		relToRepo, err := filepath.Rel(repoRoot, sampleDir)
		if err != nil {
			return err
		}
		samplePath := filepath.ToSlash(relToRepo)

		found.Store(samplePath, api.SampleDescriptor{
			Path:      samplePath,
			Name:      filepath.Base(sampleDir),
			Framework: framework,
			Language:  root.language,
		})
		return nil
	})
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
