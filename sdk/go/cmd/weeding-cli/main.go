// weeding-cli uploads wedding photos and videos from the command line.
package main

import (
	"fmt"
	"os"

	weeding "github.com/Charlelielataste/weeding/sdk/go"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	baseURL string
	verbose bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "weeding-cli",
		Short: "Wedding media CLI - upload and browse the shared gallery",
		Long: `weeding-cli uploads photos and videos to the wedding media service
and browses the shared gallery.

Configuration:
  Set WEEDING_URL, or use the --url flag.

Examples:
  weeding-cli upload ceremony.jpg
  weeding-cli upload --kind video first-dance.mp4 --thumbnail poster.jpg
  weeding-cli upload reception/*.jpg
  weeding-cli list --kind video
  weeding-cli health`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", os.Getenv("WEEDING_URL"), "Service URL (or WEEDING_URL env)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(uploadCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(healthCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// checkConfig validates that required configuration is present.
func checkConfig() error {
	if baseURL == "" {
		return fmt.Errorf("service URL is required (use --url or WEEDING_URL environment variable)")
	}
	return nil
}

// parseKind maps the --kind flag to a media kind.
func parseKind(kind string) (weeding.MediaKind, error) {
	switch kind {
	case "photo":
		return weeding.KindPhoto, nil
	case "video":
		return weeding.KindVideo, nil
	default:
		return "", fmt.Errorf("invalid kind %q (use photo or video)", kind)
	}
}
