package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/uncovr/uncovr/internal/client/api"
)

// Releases lists the latest catalog releases.
func (a *App) Releases(ctx context.Context) error {
	releases, err := a.api.Releases(ctx)
	if err != nil {
		log.Printf("Failed to fetch releases: %s", err.Error())
		return err
	}
	printReleases(releases)
	return nil
}

// Featured lists the featured releases.
func (a *App) Featured(ctx context.Context) error {
	releases, err := a.api.FeaturedReleases(ctx)
	if err != nil {
		log.Printf("Failed to fetch releases: %s", err.Error())
		return err
	}
	printReleases(releases)
	return nil
}

func printReleases(releases []api.Release) {
	if len(releases) == 0 {
		printlnFn("No releases")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TITLE\tARTIST\tTYPE\tRELEASED")
	for _, r := range releases {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Title, r.Artist.Name, r.Type, r.ReleaseDate)
	}
	_ = w.Flush()
}
