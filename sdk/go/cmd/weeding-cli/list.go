package main

import (
	"context"
	"fmt"
	"strings"

	weeding "github.com/Charlelielataste/weeding/sdk/go"
	"github.com/spf13/cobra"
)

func listCmd() *cobra.Command {
	var (
		kindFlag string
		limit    int
		cursor   string
		all      bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List gallery files, newest first",
		Long: `List files in the shared gallery.

Examples:
  weeding-cli list
  weeding-cli list --kind video
  weeding-cli list --limit 50 --all`,
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

			ctx := context.Background()
			total := 0
			for {
				var page *weeding.ListPage
				if kind == weeding.KindVideo {
					page, err = client.ListVideos(ctx, limit, cursor)
				} else {
					page, err = client.ListPhotos(ctx, limit, cursor)
				}
				if err != nil {
					return err
				}

				for _, f := range page.Files {
					total++
					fmt.Printf("\n%-9s %s\n", "Name:", f.Name)
					fmt.Printf("%-9s %s\n", "Size:", formatBytes(f.Size))
					fmt.Printf("%-9s %s\n", "Type:", f.Type)
					fmt.Printf("%-9s %s\n", "URL:", f.URL)
					if f.ThumbnailURL != "" && f.ThumbnailURL != f.URL {
						fmt.Printf("%-9s %s\n", "Poster:", f.ThumbnailURL)
					}
					fmt.Println(strings.Repeat("─", 60))
				}

				if !all || !page.HasMore {
					if page.HasMore {
						fmt.Printf("\nMore files available. Continue with --cursor %s\n", page.NextCursor)
					}
					break
				}
				cursor = page.NextCursor
			}

			if total == 0 {
				fmt.Println("No files found.")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&kindFlag, "kind", "k", "photo", "Media kind: photo or video")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Files per page (0 uses the server default, max 100)")
	cmd.Flags().StringVar(&cursor, "cursor", "", "Resume from a previous page")
	cmd.Flags().BoolVar(&all, "all", false, "Follow pagination to the end")

	return cmd
}
