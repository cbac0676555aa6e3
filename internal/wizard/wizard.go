// Package wizard collects project settings interactively and renders the
// .prepscore.yaml configuration file.
package wizard

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/template"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/spboyer/prepscore/internal/projectconfig"
)

// ProjectSpec holds all fields collected during the interactive wizard.
type ProjectSpec struct {
	ModelPath    string
	DatabasePath string
	OutputPath   string
	Engine       string
	Port         int
	Workers      int
}

const configTemplate = `paths:
  model: {{ .ModelPath }}
  database: {{ .DatabasePath }}
  output: {{ .OutputPath }}
scoring:
  engine: {{ .Engine }}
server:
  port: {{ .Port }}
export:
  workers: {{ .Workers }}
`

// RunProjectWizard runs an interactive huh form to collect project
// settings. Fields start at the projectconfig defaults.
func RunProjectWizard(in io.Reader, out io.Writer) (*ProjectSpec, error) {
	var (
		modelPath    = projectconfig.DefaultModelPath
		databasePath = projectconfig.DefaultDatabasePath
		outputPath   = projectconfig.DefaultOutputPath
		engine       = projectconfig.DefaultEngine
		portRaw      = strconv.Itoa(projectconfig.DefaultServerPort)
		workersRaw   = strconv.Itoa(projectconfig.DefaultExportWorkers)
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Model artifact path").
				Description("Where the trained model artifact lives (.json or .json.gz)").
				Value(&modelPath),
			huh.NewInput().
				Title("Profile database path").
				Description("SQLite database holding stored profiles").
				Value(&databasePath),
			huh.NewInput().
				Title("Training output path").
				Description("CSV file written by the export command").
				Value(&outputPath),
			huh.NewSelect[string]().
				Title("Scoring engine").
				Description("The model engine falls back to rules when no artifact is available").
				Options(
					huh.NewOption("rule", "rule"),
					huh.NewOption("model", "model"),
				).
				Value(&engine),
			huh.NewInput().
				Title("Server port").
				Value(&portRaw).
				Validate(validatePositiveInt),
			huh.NewInput().
				Title("Export workers").
				Value(&workersRaw).
				Validate(validatePositiveInt),
		),
	).
		WithInput(in).
		WithOutput(out)

	// Use accessible mode for non-TTY input (e.g., tests, piped input).
	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		form = form.WithAccessible(true)
	}

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("wizard failed: %w", err)
	}

	port, _ := strconv.Atoi(strings.TrimSpace(portRaw))
	workers, _ := strconv.Atoi(strings.TrimSpace(workersRaw))

	return &ProjectSpec{
		ModelPath:    strings.TrimSpace(modelPath),
		DatabasePath: strings.TrimSpace(databasePath),
		OutputPath:   strings.TrimSpace(outputPath),
		Engine:       engine,
		Port:         port,
		Workers:      workers,
	}, nil
}

// GenerateConfigYAML renders a .prepscore.yaml from the given spec.
func GenerateConfigYAML(spec *ProjectSpec) (string, error) {
	tmpl, err := template.New("config").Parse(configTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, spec); err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}
	return buf.String(), nil
}

func validatePositiveInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("must be a number")
	}
	if n <= 0 {
		return fmt.Errorf("must be positive")
	}
	return nil
}
