package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/equidrill/drillbook/internal/api"
	"github.com/equidrill/drillbook/internal/config"
	"github.com/equidrill/drillbook/internal/georef"
	"github.com/equidrill/drillbook/internal/logging"
	"github.com/equidrill/drillbook/internal/storage"
)

var (
	exportOutput string
	exportFormat string
	uploadURL    string
	uploadSecret string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved drills",
	RunE:  runList,
}

var exportCmd = &cobra.Command{
	Use:   "export [drill-id]",
	Short: "Export a saved drill",
	Long: `Export a saved drill from the configured storage backend.

Formats:
  json     gzipped JSON export written by the storage backend
  geojson  GPS tracks per rider, georeferenced via the configured arena
           origin and heading

Examples:
  drillbook export 4f7c... -o spring.json.gz
  drillbook export 4f7c... --format geojson -o spring.geojson
  drillbook export 4f7c... --upload https://drills.example.com --secret s3cret`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path (defaults next to the backend's export)")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "Export format (json, geojson)")
	exportCmd.Flags().StringVar(&uploadURL, "upload", "", "Upload the export to a remote drillbook server at this base URL")
	exportCmd.Flags().StringVar(&uploadSecret, "secret", "", "Secret for the remote drillbook server")
}

func openBackend() (storage.Backend, error) {
	if err := config.Load(configDir); err != nil {
		return nil, err
	}
	backend, err := storage.NewBackend(config.GetStorageConfig(), logging.NewSlogManager())
	if err != nil {
		return nil, fmt.Errorf("failed to create storage backend: %w", err)
	}
	if err := backend.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize storage backend: %w", err)
	}
	return backend, nil
}

func runList(cmd *cobra.Command, args []string) error {
	backend, err := openBackend()
	if err != nil {
		return err
	}
	defer backend.Close()

	summaries, err := backend.ListDrills()
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		fmt.Println("No saved drills found.")
		return nil
	}

	fmt.Printf("%-36s  %-24s  %6s  %8s\n", "ID", "Name", "Frames", "Duration")
	for _, s := range summaries {
		fmt.Printf("%-36s  %-24s  %6d  %7.1fs\n", s.ID, s.Name, s.Frames, s.Duration)
	}
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	drillID := args[0]

	backend, err := openBackend()
	if err != nil {
		return err
	}
	defer backend.Close()

	var path string
	switch exportFormat {
	case "json":
		path, err = exportJSON(backend, drillID)
	case "geojson":
		path, err = exportGeoJSON(backend, drillID)
	default:
		return fmt.Errorf("unknown export format: %s", exportFormat)
	}
	if err != nil {
		return err
	}
	fmt.Printf("Exported: %s\n", path)

	if uploadURL == "" {
		return nil
	}

	d, err := backend.LoadDrill(drillID)
	if err != nil {
		return err
	}
	summary := d.Summarize()

	client := api.New(uploadURL, uploadSecret)
	if err := client.Healthcheck(); err != nil {
		return fmt.Errorf("upload server unreachable: %w", err)
	}
	if err := client.Upload(path, api.UploadMetadata{
		DrillName:       summary.Name,
		DurationSeconds: summary.Duration,
		Frames:          summary.Frames,
	}); err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}
	fmt.Printf("Uploaded to %s\n", uploadURL)
	return nil
}

// exportJSON delegates to the backend's own export writer and optionally
// moves the result to --output.
func exportJSON(backend storage.Backend, drillID string) (string, error) {
	exporter, ok := backend.(storage.Exportable)
	if !ok {
		return "", fmt.Errorf("the configured storage backend cannot export files")
	}
	path, err := exporter.ExportDrill(drillID)
	if err != nil {
		return "", err
	}
	if exportOutput == "" || exportOutput == path {
		return path, nil
	}
	if err := os.Rename(path, exportOutput); err != nil {
		return "", fmt.Errorf("failed to move export: %w", err)
	}
	return exportOutput, nil
}

// exportGeoJSON projects the arena onto the globe and writes one LineString
// track per rider label.
func exportGeoJSON(backend storage.Backend, drillID string) (string, error) {
	d, err := backend.LoadDrill(drillID)
	if err != nil {
		return "", err
	}

	projector := georef.NewProjector(config.GetGeoRefConfig())
	raw, err := georef.ExportGeoJSON(*d, projector)
	if err != nil {
		return "", err
	}

	path := exportOutput
	if path == "" {
		path = drillID + ".geojson"
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return "", fmt.Errorf("failed to write geojson: %w", err)
	}
	return path, nil
}
