package times

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ValentinKolb/timesman/lib/handle"
	"github.com/ValentinKolb/timesman/lib/store"
	"github.com/spf13/cobra"
)

var (
	listCmd = &cobra.Command{
		Use:   "list",
		Short: "Lists all times with their latest entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()

			collections, err := handle.WithLock(ctx, shared, "list_collections", func(ctx context.Context, s store.IStore) ([]store.Collection, error) {
				return s.ListCollections(ctx)
			})
			if err != nil {
				return err
			}
			for _, c := range collections {
				var latest store.Entry
				var ok bool
				if err := shared.Do(ctx, "latest_entry", func(ctx context.Context, s store.IStore) (err error) {
					latest, ok, err = s.LatestEntry(ctx, c.ID)
					return err
				}); err != nil {
					return err
				}
				fmt.Printf("%d\t%s\t%s", c.ID, formatTime(c.CreatedAt), c.Title)
				if ok {
					fmt.Printf("\t%s (%s)", latest.Body, formatTime(latest.CreatedAt))
				}
				fmt.Println()
			}
			return nil
		},
	}
	createCmd = &cobra.Command{
		Use:   "create [title]",
		Short: "Creates a new times",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()

			c, err := create(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Printf("created id=%d, title=%s\n", c.ID, c.Title)
			return nil
		},
	}
	todayCmd = &cobra.Command{
		Use:   "today",
		Short: "Prints the times of today, creates it if it does not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()

			title := time.Now().Format("20060102")
			collections, err := handle.WithLock(ctx, shared, "list_collections", func(ctx context.Context, s store.IStore) ([]store.Collection, error) {
				return s.ListCollections(ctx)
			})
			if err != nil {
				return err
			}
			for _, c := range collections {
				if c.Title == title {
					fmt.Printf("id=%d, title=%s\n", c.ID, c.Title)
					return nil
				}
			}
			c, err := create(ctx, title)
			if err != nil {
				return err
			}
			fmt.Printf("created id=%d, title=%s\n", c.ID, c.Title)
			return nil
		},
	}
	latestCmd = &cobra.Command{
		Use:   "latest [id]",
		Short: "Prints the latest entry of a times",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()

			var latest store.Entry
			var ok bool
			if err := shared.Do(ctx, "latest_entry", func(ctx context.Context, s store.IStore) (err error) {
				latest, ok, err = s.LatestEntry(ctx, id)
				return err
			}); err != nil {
				return err
			}
			if !ok {
				fmt.Printf("id=%d, found=false\n", id)
				return nil
			}
			fmt.Printf("%s\t%s\n", formatTime(latest.CreatedAt), latest.Body)
			return nil
		},
	}
	appendCmd = &cobra.Command{
		Use:   "append [id] [text]",
		Short: "Appends an entry to a times",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()

			body := strings.Join(args[1:], " ")
			entry, err := handle.WithLock(ctx, shared, "append_entry", func(ctx context.Context, s store.IStore) (store.Entry, error) {
				return s.AppendEntry(ctx, id, body)
			})
			if err != nil {
				return err
			}
			fmt.Printf("appended id=%d at %s\n", entry.ID, formatTime(entry.CreatedAt))
			return nil
		},
	}
	entriesCmd = &cobra.Command{
		Use:   "entries [id]",
		Short: "Prints all entries of a times",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()

			entries, err := handle.WithLock(ctx, shared, "list_entries", func(ctx context.Context, s store.IStore) ([]store.Entry, error) {
				return s.ListEntries(ctx, id)
			})
			if err != nil {
				return err
			}
			for _, e := range entries {
				fmt.Printf("%s\t%s\n", formatTime(e.CreatedAt), e.Body)
			}
			return nil
		},
	}
)

func create(ctx context.Context, title string) (store.Collection, error) {
	return handle.WithLock(ctx, shared, "create_collection", func(ctx context.Context, s store.IStore) (store.Collection, error) {
		return s.CreateCollection(ctx, title)
	})
}

func parseID(arg string) (uint64, error) {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("id must be a number: %w", err)
	}
	return id, nil
}

func formatTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04:05")
}
