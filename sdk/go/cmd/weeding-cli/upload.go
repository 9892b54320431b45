package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	weeding "github.com/Charlelielataste/weeding/sdk/go"
	"github.com/spf13/cobra"
)

func uploadCmd() *cobra.Command {
	var (
		kindFlag      string
		thumbnailPath string
		noProgress    bool
	)

	cmd := &cobra.Command{
		Use:   "upload <file>...",
		Short: "Upload photos or videos to the gallery",
		Long: `Upload one or more files to the gallery. Large files are split into
chunks automatically.

Examples:
  weeding-cli upload ceremony.jpg
  weeding-cli upload reception-01.jpg reception-02.jpg reception-03.jpg
  weeding-cli upload --kind video first-dance.mp4 --thumbnail poster.jpg`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkConfig(); err != nil {
				return err
			}

			kind, err := parseKind(kindFlag)
			if err != nil {
				return err
			}

			client, err := weeding.NewClient(weeding.ClientConfig{BaseURL: baseURL})
			if err != nil {
				return err
			}

			opts := &weeding.UploadOptions{}
			if thumbnailPath != "" {
				if kind != weeding.KindVideo || len(args) != 1 {
					return fmt.Errorf("--thumbnail applies to a single video upload")
				}
				data, err := os.ReadFile(thumbnailPath)
				if err != nil {
					return fmt.Errorf("reading thumbnail: %w", err)
				}
				opts.ThumbnailData = "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data)
			}
			if !noProgress {
				opts.OnProgress = func(p weeding.UploadProgress) {
					status := fmt.Sprintf("\r%s %3d%% (%s/%s)",
						progressBar(p.Percentage),
						p.Percentage,
						formatBytes(p.BytesUploaded),
						formatBytes(p.TotalBytes),
					)
					if p.TotalChunks > 0 {
						status += fmt.Sprintf(" [chunk %d/%d]", p.CurrentChunk, p.TotalChunks)
					}
					fmt.Print(status)
				}
			}

			ctx := context.Background()

			if len(args) == 1 {
				info, err := os.Stat(args[0])
				if err != nil {
					return fmt.Errorf("file not found: %s", args[0])
				}
				fmt.Printf("Uploading: %s (%s)\n", args[0], formatBytes(info.Size()))

				result, err := client.Upload(ctx, args[0], kind, opts)
				if err != nil {
					fmt.Println()
					return err
				}
				fmt.Println()
				printUploaded(result)
				return nil
			}

			fmt.Printf("Uploading %d files\n", len(args))
			batch, err := client.UploadBatch(ctx, args, kind, opts)
			if err != nil {
				return err
			}
			fmt.Println()
			fmt.Println(strings.Repeat("─", 50))
			fmt.Printf("Uploaded %d of %d files\n", batch.Succeeded(), len(args))
			for _, f := range batch.Failed {
				fmt.Printf("  failed: %s: %v\n", f.Path, f.Err)
			}
			if verbose {
				for _, r := range batch.Uploaded {
					printUploaded(&r)
				}
			}
			if batch.Outcome == weeding.BatchAllFailed {
				return fmt.Errorf("no file uploaded")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&kindFlag, "kind", "k", "photo", "Media kind: photo or video")
	cmd.Flags().StringVar(&thumbnailPath, "thumbnail", "", "Poster image for a single video upload (JPEG)")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "Disable the progress bar")

	return cmd
}

func printUploaded(result *weeding.UploadResult) {
	fmt.Println(strings.Repeat("─", 50))
	fmt.Printf("Name:  %s\n", result.File.Name)
	fmt.Printf("Size:  %s\n", formatBytes(result.File.Size))
	fmt.Printf("Type:  %s\n", result.File.Type)
	fmt.Printf("URL:   %s\n", result.File.URL)
	if result.File.ThumbnailURL != result.File.URL {
		fmt.Printf("Poster: %s\n", result.File.ThumbnailURL)
	}
}

func progressBar(percentage int) string {
	width := 30
	filled := percentage * width / 100
	empty := width - filled
	return fmt.Sprintf("[%s%s]", strings.Repeat("█", filled), strings.Repeat("░", empty))
}

func formatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}
