// Package benchmark measures per-operation latency of the cipher and the
// anonymization pipeline, with percentile statistics and CSV export for
// the CLI bench subcommand.
package benchmark

import (
	"fmt"
	"math/rand"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"

	"ipcrypt-go/pkg/ipcrypt"
	"ipcrypt-go/pkg/log"
	"ipcrypt-go/pkg/transform"
)

// Component specifies which part of the system to benchmark.
type Component int

const (
	ComponentCipher    Component = iota // raw encrypt+decrypt of one value
	ComponentTransform                  // address rewriting over a text payload
	ComponentPipeline                   // rewrite plus zstd compression round trip
)

func (c Component) String() string {
	switch c {
	case ComponentCipher:
		return "Cipher"
	case ComponentTransform:
		return "Transform"
	case ComponentPipeline:
		return "Pipeline"
	default:
		return "Unknown"
	}
}

// ParseComponent maps a CLI component name to a Component.
func ParseComponent(s string) (Component, error) {
	switch strings.ToLower(s) {
	case "cipher":
		return ComponentCipher, nil
	case "transform":
		return ComponentTransform, nil
	case "pipeline":
		return ComponentPipeline, nil
	default:
		return 0, fmt.Errorf("unknown component: %s", s)
	}
}

// LatencyResults holds the results of a latency benchmark.
type LatencyResults struct {
	MinLatency    time.Duration
	MaxLatency    time.Duration
	AvgLatency    time.Duration
	MedianLatency time.Duration
	P95Latency    time.Duration
	P99Latency    time.Duration
	Iterations    int
	TotalTime     time.Duration
	PayloadSize   int
	Component     Component
}

// Options provides configuration for benchmarks.
type Options struct {
	Component   Component
	Iterations  int
	PayloadSize int // bytes of synthetic log text for transform/pipeline runs
	Key         ipcrypt.Key
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() *Options {
	return &Options{
		Component:   ComponentCipher,
		Iterations:  10000,
		PayloadSize: 4096,
		Key:         ipcrypt.KeyFromPassphrase("benchmark"),
	}
}

// Run measures latency for the component selected in opts.
func Run(opts *Options) (*LatencyResults, error) {
	switch opts.Component {
	case ComponentCipher:
		return benchmarkCipher(opts)
	case ComponentTransform:
		return benchmarkTransform(opts)
	case ComponentPipeline:
		return benchmarkPipeline(opts)
	default:
		return nil, fmt.Errorf("unknown component: %d", opts.Component)
	}
}

// RunAll runs benchmarks for every component with the given base options.
func RunAll(baseOpts *Options) ([]*LatencyResults, error) {
	var results []*LatencyResults
	var firstErr error

	for _, component := range []Component{ComponentCipher, ComponentTransform, ComponentPipeline} {
		opts := *baseOpts
		opts.Component = component

		log.Printf("running benchmark for %s...", component)
		result, err := Run(&opts)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("benchmarking %s: %w", component, err)
			}
			continue
		}
		results = append(results, result)
	}

	return results, firstErr
}

func benchmarkCipher(opts *Options) (*LatencyResults, error) {
	latencies := make([]time.Duration, 0, opts.Iterations)
	v := uint32(0x7f000001)

	startTime := time.Now()
	for i := 0; i < opts.Iterations; i++ {
		opStart := time.Now()
		enc := ipcrypt.EncryptUint32(v, opts.Key)
		v = ipcrypt.DecryptUint32(enc, opts.Key)
		latencies = append(latencies, time.Since(opStart))
	}
	totalTime := time.Since(startTime)

	results := calculateStats(latencies, opts.Iterations, totalTime)
	results.PayloadSize = 4
	results.Component = opts.Component
	return results, nil
}

func benchmarkTransform(opts *Options) (*LatencyResults, error) {
	tr := transform.NewIPCryptTransform(opts.Key)
	payload := syntheticLog(opts.PayloadSize)

	latencies := make([]time.Duration, 0, opts.Iterations)
	startTime := time.Now()
	for i := 0; i < opts.Iterations; i++ {
		opStart := time.Now()
		if _, err := tr.Apply(payload); err != nil {
			return nil, fmt.Errorf("transform apply failed: %w", err)
		}
		latencies = append(latencies, time.Since(opStart))
	}
	totalTime := time.Since(startTime)

	results := calculateStats(latencies, opts.Iterations, totalTime)
	results.PayloadSize = len(payload)
	results.Component = opts.Component
	return results, nil
}

func benchmarkPipeline(opts *Options) (*LatencyResults, error) {
	ztr, err := transform.NewZstdTransform(zstd.SpeedFastest)
	if err != nil {
		return nil, err
	}
	pipeline, err := transform.NewPipeline([]transform.Transform{
		transform.NewIPCryptTransform(opts.Key),
		ztr,
	})
	if err != nil {
		return nil, err
	}
	payload := syntheticLog(opts.PayloadSize)

	latencies := make([]time.Duration, 0, opts.Iterations)
	startTime := time.Now()
	for i := 0; i < opts.Iterations; i++ {
		opStart := time.Now()
		applied, err := pipeline.Apply(payload)
		if err != nil {
			return nil, fmt.Errorf("pipeline apply failed: %w", err)
		}
		if _, err := pipeline.Reverse(applied); err != nil {
			return nil, fmt.Errorf("pipeline reverse failed: %w", err)
		}
		latencies = append(latencies, time.Since(opStart))
	}
	totalTime := time.Since(startTime)

	results := calculateStats(latencies, opts.Iterations, totalTime)
	results.PayloadSize = len(payload)
	results.Component = opts.Component
	return results, nil
}

// syntheticLog builds access-log-like text of roughly size bytes with a
// random IPv4 address on every line.
func syntheticLog(size int) []byte {
	rng := rand.New(rand.NewSource(42))
	var b strings.Builder
	for b.Len() < size {
		fmt.Fprintf(&b, "%d.%d.%d.%d - - \"GET /item/%d HTTP/1.1\" 200 %d\n",
			rng.Intn(224), rng.Intn(256), rng.Intn(256), rng.Intn(256),
			rng.Intn(10000), rng.Intn(65536))
	}
	return []byte(b.String())
}

// calculateStats calculates statistics from latency measurements.
func calculateStats(latencies []time.Duration, iterations int, totalTime time.Duration) *LatencyResults {
	if len(latencies) == 0 {
		return &LatencyResults{
			Iterations: iterations,
			TotalTime:  totalTime,
		}
	}

	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	var sum time.Duration
	for _, latency := range latencies {
		sum += latency
	}

	p95Index := (len(latencies) * 95) / 100
	p99Index := (len(latencies) * 99) / 100
	if p95Index >= len(latencies) {
		p95Index = len(latencies) - 1
	}
	if p99Index >= len(latencies) {
		p99Index = len(latencies) - 1
	}

	return &LatencyResults{
		MinLatency:    latencies[0],
		MaxLatency:    latencies[len(latencies)-1],
		AvgLatency:    sum / time.Duration(len(latencies)),
		MedianLatency: latencies[len(latencies)/2],
		P95Latency:    latencies[p95Index],
		P99Latency:    latencies[p99Index],
		Iterations:    iterations,
		TotalTime:     totalTime,
	}
}

// PrintResults prints the results of a latency benchmark.
func PrintResults(results *LatencyResults) {
	fmt.Printf("=== Latency Benchmark: %s ===\n", results.Component)
	fmt.Printf("Payload Size: %d bytes\n", results.PayloadSize)
	fmt.Printf("Iterations: %d\n", results.Iterations)
	fmt.Printf("Total Time: %v\n", results.TotalTime)
	fmt.Printf("Min Latency: %v\n", results.MinLatency)
	fmt.Printf("Avg Latency: %v\n", results.AvgLatency)
	fmt.Printf("Median Latency: %v\n", results.MedianLatency)
	fmt.Printf("95th Percentile: %v\n", results.P95Latency)
	fmt.Printf("99th Percentile: %v\n", results.P99Latency)
	fmt.Printf("Max Latency: %v\n", results.MaxLatency)
	fmt.Println("==========================================")
}

// SaveResultsToFile saves benchmark results to a CSV file.
func SaveResultsToFile(results []*LatencyResults, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	f.WriteString("Component,PayloadSize,Iterations,MinLatency,AvgLatency,MedianLatency,P95Latency,P99Latency,MaxLatency,TotalTime\n")
	for _, r := range results {
		f.WriteString(fmt.Sprintf("%s,%d,%d,%d,%d,%d,%d,%d,%d,%d\n",
			r.Component,
			r.PayloadSize,
			r.Iterations,
			r.MinLatency.Nanoseconds(),
			r.AvgLatency.Nanoseconds(),
			r.MedianLatency.Nanoseconds(),
			r.P95Latency.Nanoseconds(),
			r.P99Latency.Nanoseconds(),
			r.MaxLatency.Nanoseconds(),
			r.TotalTime.Nanoseconds()))
	}

	return nil
}
