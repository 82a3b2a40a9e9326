package times

import (
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/ValentinKolb/timesman/cmd/util"
	"github.com/ValentinKolb/timesman/lib/handle"
	"github.com/ValentinKolb/timesman/lib/store"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	perfTestCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for timesman backends",
		Long:    "Runs parallel benchmarks against the configured backend. All calls go through the shared handle, so the results include the wait for the store lock.",
		RunE:    runPerf,
		PreRunE: processPerfConfig,
	}
	perfNumThreads = 10
	perfEntries    = 100
	perfSkip       = make([]string, 0)
)

func init() {
	// add flags
	key := "skip"
	perfTestCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. append,list)"))
	key = "threads"
	perfTestCmd.Flags().Int(key, 10, util.WrapString("Number of threads to use for the benchmark"))
	key = "entries"
	perfTestCmd.Flags().Int(key, 100, util.WrapString("How many entries the read benchmarks find in their times"))
	key = "csv"
	perfTestCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	perfNumThreads = max(1, viper.GetInt("threads"))
	perfEntries = max(1, viper.GetInt("entries"))
	perfSkip = strings.Split(viper.GetString("skip"), ",")
	return nil
}

func runPerf(cmd *cobra.Command, _ []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	fmt.Println("Performance testing tool for timesman backends")

	// Print configuration
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println(cmdConfig.String())
	fmt.Printf("Threads: %d\n", perfNumThreads)
	fmt.Println()

	// every run works on its own times, titles are unique
	prefix := "__perf-" + uuid.NewString()[:8]
	full, err := create(ctx, prefix+"-read")
	if err != nil {
		return fmt.Errorf("failed to prepare the read benchmarks: %w", err)
	}
	for i := 0; i < perfEntries; i++ {
		if _, err := appendEntry(ctx, full.ID, fmt.Sprintf("entry %d", i)); err != nil {
			return fmt.Errorf("failed to prepare the read benchmarks: %w", err)
		}
	}
	target, err := create(ctx, prefix+"-append")
	if err != nil {
		return fmt.Errorf("failed to prepare the append benchmark: %w", err)
	}

	fmt.Println("starting tests...")

	benchmarks := []struct {
		name string
		fn   func(ctx context.Context) error
	}{
		{"append", func(ctx context.Context) error {
			_, err := appendEntry(ctx, target.ID, "perf")
			return err
		}},
		{"latest", func(ctx context.Context) error {
			return shared.Do(ctx, "latest_entry", func(ctx context.Context, s store.IStore) error {
				_, _, err := s.LatestEntry(ctx, full.ID)
				return err
			})
		}},
		{"entries", func(ctx context.Context) error {
			return shared.Do(ctx, "list_entries", func(ctx context.Context, s store.IStore) error {
				_, err := s.ListEntries(ctx, full.ID)
				return err
			})
		}},
		{"list", func(ctx context.Context) error {
			return shared.Do(ctx, "list_collections", func(ctx context.Context, s store.IStore) error {
				_, err := s.ListCollections(ctx)
				return err
			})
		}},
	}

	results := make(map[string]testing.BenchmarkResult)
	for _, bm := range benchmarks {
		result := testing.Benchmark(func(b *testing.B) {
			if shouldSkip(bm.name) {
				return
			}
			b.SetParallelism(perfNumThreads)
			b.ResetTimer()
			b.RunParallel(func(pb *testing.PB) {
				for pb.Next() {
					if err := bm.fn(ctx); err != nil {
						Logger.Warningf("(%s) - error: %v", bm.name, err)
					}
				}
			})
		})
		results[bm.name] = result
		printResult(bm.name, result)
	}

	stats := shared.Stats()
	fmt.Printf("\nbackend calls: %d, errors: %d\n", stats.Calls, stats.Errors)

	if csvPath := viper.GetString("csv"); csvPath != "" {
		if err := writeResultsToCSV(csvPath, results); err != nil {
			return err
		}
		fmt.Printf("results written to %s\n", csvPath)
	}
	return nil
}

func appendEntry(ctx context.Context, id uint64, body string) (store.Entry, error) {
	return handle.WithLock(ctx, shared, "append_entry", func(ctx context.Context, s store.IStore) (store.Entry, error) {
		return s.AppendEntry(ctx, id, body)
	})
}

func shouldSkip(test string) bool {
	return slices.Contains(perfSkip, test)
}

func printResult(test string, result testing.BenchmarkResult) {
	if result.NsPerOp() == 0 {
		fmt.Printf("%-20sskipped\n", test)
		return
	}

	nsPerOp := math.Max(float64(result.NsPerOp()), 1) // prevent division by zero
	opsPerSec := 1.0 / (nsPerOp / 1e9)

	fmt.Printf("%-20s%.0fns/op (%s/op)\t%.0f ops/sec\n", test, nsPerOp, time.Duration(nsPerOp), opsPerSec)
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results map[string]testing.BenchmarkResult) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{
		"Test", "NsPerOp", "DurationPerOp", "OpsPerSec", "Skipped",
		"StoreType", "StoreParam", "Serializer", "Transport",
		"Threads", "Entries",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	for test, result := range results {
		skipped := "true"
		var nsPerOp, opsPerSec float64
		if result.NsPerOp() != 0 {
			skipped = "false"
			nsPerOp = math.Max(float64(result.NsPerOp()), 1)
			opsPerSec = 1.0 / (nsPerOp / 1e9)
		}

		row := []string{
			test,
			fmt.Sprintf("%.0f", nsPerOp),
			time.Duration(nsPerOp).String(),
			fmt.Sprintf("%.0f", opsPerSec),
			skipped,
			cmdConfig.StoreType,
			cmdConfig.StoreParam,
			cmdConfig.Serializer,
			cmdConfig.Transport,
			strconv.Itoa(perfNumThreads),
			strconv.Itoa(perfEntries),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %v", test, err)
		}
	}
	return nil
}
