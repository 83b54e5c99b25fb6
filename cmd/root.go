// cmd/root.go
package cmd

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/irmasim/irmasim/config"
	"github.com/irmasim/irmasim/loader"
	"github.com/irmasim/irmasim/sim"
	"github.com/irmasim/irmasim/sim/trace"
)

var opts = config.DefaultOptions()

var wmConfigFile string

var rootCmd = &cobra.Command{
	Use:   "irmasim",
	Short: "Discrete-event simulator for HPC job-scheduling policies",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a simulated trajectory against a platform and workload",
	RunE:  runSimulation,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	runCmd.Flags().StringVar(&opts.WorkloadFile, "workload", "", "Path to the workload JSON file (required)")
	runCmd.Flags().StringVar(&opts.PlatformFile, "platform", "", "Path to the platform JSON file (required)")
	runCmd.Flags().StringVar(&wmConfigFile, "workload-manager-config", "", "Optional YAML workload-manager configuration, overlaid under explicit flags")
	runCmd.Flags().Int64Var(&opts.Seed, "seed", 0, "RNG seed")
	runCmd.Flags().StringVar(&opts.TrajectoryOrigin, "trajectory-origin", "0", "Trajectory origin: an integer job index, or \"random\"")
	runCmd.Flags().StringVar(&opts.TrajectoryLength, "trajectory-length", "0", "Trajectory length: an integer job count, \"0\" for all remaining, or \"random\"")
	runCmd.Flags().IntVar(&opts.NBTrajectories, "nbtrajectories", 1, "Number of independent trajectories to simulate")
	runCmd.Flags().StringVar(&opts.WorkloadManagerType, "workload-manager", "Backfill", "Workload manager: Minimal, Basic, Heuristic, Energy, or Backfill")
	runCmd.Flags().StringVar(&opts.ResourceSelection, "resource-selection", "first", "Node ordering criterion consumed by the workload manager")
	runCmd.Flags().StringVar(&opts.JobSelection, "job-selection", "first", "Pending-queue ordering criterion consumed by the workload manager")
	runCmd.Flags().BoolVar(&opts.AdmitZeroReqTime, "admit-zero-req-time", false, "Treat a zero requested runtime as immediately satisfiable rather than unschedulable")
	runCmd.Flags().StringVar(&opts.OutputDir, "output-dir", ".", "Directory for simulation.log, jobs.log, and resources.log")
	runCmd.Flags().StringVar(&opts.LogLevel, "log", "info", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(runCmd)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	if wmConfigFile != "" {
		cfg, err := sim.LoadWorkloadManagerConfig(wmConfigFile)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		explicit := map[string]string{}
		for _, name := range []string{"seed", "trajectory-origin", "trajectory-length", "nbtrajectories", "workload-manager", "resource-selection", "job-selection", "admit-zero-req-time"} {
			if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
				explicit[name] = f.Value.String()
			}
		}
		opts.OverlayYAML(cfg)
		for name, value := range explicit {
			if err := cmd.Flags().Set(name, value); err != nil {
				return err
			}
		}
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	level, err := logrus.ParseLevel(opts.LogLevel)
	if err != nil {
		return &sim.ConfigError{Msg: fmt.Sprintf("invalid log level %q", opts.LogLevel)}
	}

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	logFile, err := os.Create(filepath.Join(opts.OutputDir, "simulation.log"))
	if err != nil {
		return fmt.Errorf("creating simulation.log: %w", err)
	}
	defer logFile.Close()

	log := logrus.New()
	log.SetLevel(level)
	log.SetOutput(logFile)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	rng := rand.New(rand.NewSource(opts.Seed))

	for trajectory := 0; trajectory < opts.NBTrajectories; trajectory++ {
		log.Infof("trajectory %d/%d: loading platform %s", trajectory+1, opts.NBTrajectories, opts.PlatformFile)
		platform, err := loader.LoadPlatform(opts.PlatformFile)
		if err != nil {
			return err
		}

		sel := loader.TrajectorySelection{Origin: opts.TrajectoryOrigin, Length: opts.TrajectoryLength}
		queue, err := loader.LoadWorkload(opts.WorkloadFile, sel, 0, rng)
		if err != nil {
			return err
		}

		tr := trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevelDecisions})

		s := sim.NewSimulator(queue, platform, nil)
		s.Log = log
		nodes := platform.Nodes()
		s.Manager = sim.NewWorkloadManager(opts.WorkloadManagerType, s, nodes,
			opts.ResourceSelection, opts.JobSelection, opts.AdmitZeroReqTime, rng, tr)

		jobsWriter, jobsFile, err := newCSVLog(opts.OutputDir, "jobs.log", []string{"id", "submit_time", "start_time", "finish_time", "slowdown", "bounded_slowdown", "waiting_time"})
		if err != nil {
			return err
		}
		defer jobsFile.Close()

		s.OnTaskFinish = func(task *sim.Task) {
			if !task.Job.IsFinished() {
				return
			}
			j := task.Job
			jobsWriter.Write([]string{
				task.ID(),
				ftoa(j.SubmitTime), ftoa(j.StartTime), ftoa(j.FinishTime),
				ftoa(j.Slowdown()), ftoa(j.BoundedSlowdown()), ftoa(j.WaitingTime()),
			})
		}

		if header, _ := sim.ResourceLogRows(nodes); header != nil {
			resourcesWriter, resourcesFile, err := newCSVLog(opts.OutputDir, "resources.log", append([]string{"time"}, header...))
			if err != nil {
				return err
			}
			defer resourcesFile.Close()
			s.OnTaskFinish = chainOnTaskFinish(s.OnTaskFinish, func(*sim.Task) {
				_, rows := sim.ResourceLogRows(nodes)
				for _, row := range rows {
					resourcesWriter.Write(append([]string{ftoa(s.Time)}, row...))
				}
			})
			defer resourcesWriter.Flush()
		}

		makespan := s.Run()
		jobsWriter.Flush()

		stats := sim.Summarize(log, s.Queue.Finished(), s.Energy)
		log.Infof("trajectory %d: makespan=%.6f energy=%.6f jobs=%d", trajectory+1, makespan, stats.TotalEnergy, len(s.Queue.Finished()))

		summary := trace.Summarize(tr)
		log.Infof("trajectory %d: admitted=%d rejected=%d mean_regret=%.6f", trajectory+1, summary.AdmittedCount, summary.RejectedCount, summary.MeanRegret)

		fmt.Printf("trajectory %d/%d: makespan=%.6f energy=%.6f slowdown_avg=%.6f\n",
			trajectory+1, opts.NBTrajectories, makespan, stats.TotalEnergy, stats.Slowdown.Avg)
	}

	return nil
}

func newCSVLog(dir, name string, header []string) (*csv.Writer, *os.File, error) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, nil, fmt.Errorf("creating %s: %w", name, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("writing %s header: %w", name, err)
	}
	return w, f, nil
}

func ftoa(f float64) string {
	return fmt.Sprintf("%.9f", f)
}

// chainOnTaskFinish runs both hooks in sequence, tolerating a nil first hook.
func chainOnTaskFinish(first, second func(*sim.Task)) func(*sim.Task) {
	return func(t *sim.Task) {
		if first != nil {
			first(t)
		}
		second(t)
	}
}
