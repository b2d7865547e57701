// Command x366run loads a "Go Cats!" binary container and runs it. It is
// adapted from the reference ARM emulator's flag-based main.go — which wires one CPU
// core to debugger/trace/API-server modes
// behind a handful of top-level flags — restructured onto cobra
// subcommands the way oisee/z80-optimizer structures its CLI: "run"
// executes to completion, "step" launches the bubbletea debugger, "trace"
// logs register state every step, and "serve" exposes the run over a
// websocket event stream for an external UI.
package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"x366/config"
	"x366/debugger"
	"x366/display"
	"x366/exec"
	"x366/hostsrv"
	"x366/isa"
	"x366/loader"
	"x366/syscall"
)

// diskStore is a vfs.SyncBlobStore rooted at a directory, the concrete host
// filesystem backend for READ_FILE.
type diskStore struct {
	root string
}

func (d diskStore) Read(path string) ([]byte, bool) {
	full := path
	if d.root != "" {
		// Cleaning the path as if it were absolute drops any leading "..",
		// so the joined result always stays under root.
		full = filepath.Join(d.root, filepath.Clean("/"+path))
	}
	data, err := os.ReadFile(full) // #nosec G304 -- sandboxed under the configured fsroot
	if err != nil {
		return nil, false
	}
	return data, true
}

func loadEngine(binPath string, cmdLine string, cfg *config.Config, fsRoot string) (*exec.Engine, loader.Report, error) {
	bin, err := os.ReadFile(binPath) // #nosec G304 -- user-specified program path
	if err != nil {
		return nil, loader.Report{}, fmt.Errorf("reading %s: %w", binPath, err)
	}

	mem, regs, report, err := loader.Load(loader.Options{Binary: bin, CommandLine: cmdLine})
	if err != nil {
		return nil, loader.Report{}, err
	}

	stdin := bufio.NewScanner(os.Stdin)
	host := &syscall.Host{
		Output: func(s string) { fmt.Print(s) },
		Input: func() (string, bool) {
			if !stdin.Scan() {
				return "", false
			}
			return stdin.Text(), true
		},
		FS:      diskStore{root: fsRoot},
		Display: display.NewHeadless(),
	}

	engine := exec.New(mem, regs, host, cfg.Execution.Strict, cfg.Execution.EnableUndo, cfg.Execution.UndoDepth)
	return engine, report, nil
}

func main() {
	var fsRoot, cmdLine string

	rootCmd := &cobra.Command{
		Use:   "x366run",
		Short: "Run X366 binary containers",
	}
	rootCmd.PersistentFlags().StringVar(&fsRoot, "fsroot", "", "restrict READ_FILE to this directory")
	rootCmd.PersistentFlags().StringVar(&cmdLine, "arg", "", "command-line string passed to the program")

	runCmd := &cobra.Command{
		Use:   "run <binary>",
		Short: "Execute a binary to completion or halt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			engine, _, err := loadEngine(args[0], cmdLine, cfg, fsRoot)
			if err != nil {
				return err
			}
			steps, err := engine.Run(cfg.Execution.StepBudget)
			if err != nil {
				return fmt.Errorf("after %d steps: %w", steps, err)
			}
			if !engine.Halted() {
				return fmt.Errorf("step budget of %d exhausted without halting", cfg.Execution.StepBudget)
			}
			return nil
		},
	}

	stepCmd := &cobra.Command{
		Use:   "step <binary>",
		Short: "Launch the interactive step/step-back debugger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			engine, report, err := loadEngine(args[0], cmdLine, cfg, fsRoot)
			if err != nil {
				return err
			}
			dbg := debugger.New(engine, report.DebugInfo)
			return debugger.RunTUI(dbg)
		},
	}

	traceCmd := &cobra.Command{
		Use:   "trace <binary>",
		Short: "Run to completion, logging register state every step",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			engine, _, err := loadEngine(args[0], cmdLine, cfg, fsRoot)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			filter := filterSet(cfg.Trace.FilterRegs)
			entries := 0
			for !engine.Halted() && entries < cfg.Trace.MaxEntries {
				fmt.Fprintln(out, traceLine(engine, filter, cfg.Trace.IncludeFlags))
				if err := engine.Step(); err != nil {
					return fmt.Errorf("after %d traced steps: %w", entries, err)
				}
				entries++
			}
			return nil
		},
	}

	var serveAddr string
	serveCmd := &cobra.Command{
		Use:   "serve <binary>",
		Short: "Run a binary behind a websocket event stream for an external UI",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			engine, _, err := loadEngine(args[0], cmdLine, cfg, fsRoot)
			if err != nil {
				return err
			}
			addr := serveAddr
			if addr == "" {
				addr = cfg.Server.Addr
			}
			srv := hostsrv.New(engine)
			fmt.Fprintf(cmd.OutOrStdout(), "serving %s on %s\n", args[0], addr)
			return srv.ListenAndServe(addr)
		},
	}
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")

	rootCmd.AddCommand(runCmd, stepCmd, traceCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func filterSet(csv string) map[string]bool {
	if csv == "" {
		return nil
	}
	set := make(map[string]bool)
	for _, name := range strings.Split(csv, ",") {
		set[strings.TrimSpace(strings.ToUpper(name))] = true
	}
	return set
}

func traceLine(e *exec.Engine, filter map[string]bool, includeFlags bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "PC=%s", hex16(e.Regs.PC))
	for _, name := range []string{"AX", "BX", "CX", "DX", "EX", "FX", "SP", "FP"} {
		if filter != nil && !filter[name] {
			continue
		}
		reg, ok := lookupReg(name)
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, " %s=%s", name, hex16(e.Regs.Get(reg)))
	}
	if includeFlags {
		f := e.Regs.Flags
		fmt.Fprintf(&sb, " [Z=%s S=%s C=%s O=%s]", bit(f.ZF), bit(f.SF), bit(f.CF), bit(f.OF))
	}
	return sb.String()
}

func bit(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func hex16(v uint16) string {
	return "0x" + strconv.FormatUint(uint64(v), 16)
}

func lookupReg(name string) (isa.Reg, bool) {
	reg, isByte, ok := isa.LookupRegister(name)
	if isByte {
		return 0, false
	}
	return reg, ok
}
