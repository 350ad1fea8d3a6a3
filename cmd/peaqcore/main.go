// Command peaqcore runs a reference/test signal pair through the MOV
// pipeline and prints the resulting Model Output Variables.
package main

import (
	"context"
	"encoding/binary"
	"flag"
	"fmt"
	"log"
	"math"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cwsl/peaqcore/earmodel"
	"github.com/cwsl/peaqcore/internal/config"
	"github.com/cwsl/peaqcore/internal/fixtureear"
	"github.com/cwsl/peaqcore/internal/metrics"
	"github.com/cwsl/peaqcore/peaq"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	refPath := flag.String("ref", "", "Path to the reference signal (raw float64 samples, little-endian)")
	testPath := flag.String("test", "", "Path to the test signal (raw float64 samples, little-endian)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if cfg.LogLevel == config.LogDebug {
		log.Println("debug logging enabled")
	}

	if *refPath == "" || *testPath == "" {
		log.Fatalf("both -ref and -test are required")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
		go serveMetrics(cfg.MetricsAddr)
	}

	refSamples, err := readSamples(*refPath)
	if err != nil {
		log.Fatalf("read reference signal: %v", err)
	}
	testSamples, err := readSamples(*testPath)
	if err != nil {
		log.Fatalf("read test signal: %v", err)
	}

	values, err := runComparison(ctx, cfg, refSamples, testSamples, m)
	if err != nil {
		log.Fatalf("comparison failed: %v", err)
	}

	for _, name := range []string{
		peaq.RmsModDiffA, peaq.WinModDiff1B,
		peaq.RmsNoiseLoudB, peaq.RmsNoiseLoudAsymA, peaq.AvgLinDistA,
		peaq.BandwidthRefB, peaq.BandwidthTestB,
		peaq.TotalNMRB, peaq.RelDistFramesB,
		peaq.ADBB, peaq.MFPDB,
		peaq.EHSB,
	} {
		fmt.Printf("%-18s %v\n", name, values[name])
	}
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	log.Printf("serving metrics on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
		log.Printf("metrics server stopped: %v", err)
	}
}

// runComparison drives the reference and test signals frame by frame
// through a single-channel fixture ear model and Orchestrator, returning
// the final MOV readout.
func runComparison(ctx context.Context, cfg *config.Config, refSamples, testSamples []float64, m *metrics.Metrics) (map[string]float64, error) {
	ear := fixtureear.New()
	o := peaq.New(cfg.Channels)

	frames := len(refSamples) / fixtureear.FrameSize
	if frames == 0 {
		return nil, fmt.Errorf("signal shorter than one frame (%d samples)", fixtureear.FrameSize)
	}

	for frame := 0; frame < frames; frame++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		start := frame * fixtureear.FrameSize
		end := start + fixtureear.FrameSize

		refState := ear.Analyze(refSamples[start:end])
		testState := ear.Analyze(testSamples[start:end])
		refExc := ear.Excitation(refState)

		o.ProcessFrame(peaq.FrameInputs{
			Ear:            ear,
			RefState:       []earmodel.State{refState},
			TestState:      []earmodel.State{testState},
			RefModulation:  []earmodel.ModulationProcessor{fixtureear.NewModulationTracker(refExc)},
			TestModulation: []earmodel.ModulationProcessor{fixtureear.NewModulationTracker(ear.Excitation(testState))},
			Level:          []earmodel.LevelAdapter{fixtureear.NewLevelAdapter(refExc)},
		})

		if m != nil {
			m.RecordFrame(cfg.Comparison)
		}
	}

	values := o.Values()
	if m != nil {
		m.RecordValues(cfg.Comparison, values)
	}
	return values, nil
}

// readSamples loads a signal as little-endian float64 samples, padded with
// silence to a whole number of frames.
func readSamples(path string) ([]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(data)%8 != 0 {
		return nil, fmt.Errorf("%s: length %d is not a multiple of 8 bytes", path, len(data))
	}

	n := len(data) / 8
	samples := make([]float64, n)
	for i := 0; i < n; i++ {
		bits := binary.LittleEndian.Uint64(data[i*8 : i*8+8])
		samples[i] = math.Float64frombits(bits)
	}

	if rem := len(samples) % fixtureear.FrameSize; rem != 0 {
		samples = append(samples, make([]float64, fixtureear.FrameSize-rem)...)
	}
	return samples, nil
}
