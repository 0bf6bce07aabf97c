// Command iosef is the control-plane CLI and agent-protocol server for the
// iOS Simulator. Invoked with a tool name it performs one-shot dispatch and
// prints the result; invoked with `serve` it runs the long-lived
// agent-protocol server over stdio.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/riwsky/iosef/internal/agentserver"
	"github.com/riwsky/iosef/internal/cache"
	"github.com/riwsky/iosef/internal/config"
	"github.com/riwsky/iosef/internal/native"
	"github.com/riwsky/iosef/internal/session"
	"github.com/riwsky/iosef/internal/simctl"
	"github.com/riwsky/iosef/internal/tools"
)

// Exit codes per the CLI's documented convention: 0 success, 1 tool/check
// failure, 2 usage error.
const (
	exitOK        = 0
	exitToolError = 1
	exitUsage     = 2
)

var (
	deviceFlag     string
	xFlag, yFlag   float64
	xsFlag, ysFlag float64
	xeFlag, yeFlag float64
	roleFlag       string
	nameFlag       string
	identFlag      string
	textFlag       string
	depthFlag      int
	timeoutFlag    float64
	pathFlag       string
	bundleIDFlag   string
	outputPathFlag string
	terminateFlag  bool
	predicateFlag  string
	durationFlag   float64
	lastFlag       float64
	jsonArgsFlag   string
)

func main() {
	os.Exit(run())
}

func run() int {
	root := &cobra.Command{
		Use:           "iosef",
		Short:         "A native control plane for the iOS Simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&deviceFlag, "device", "", "target device UDID or name")
	root.PersistentFlags().Float64Var(&timeoutFlag, "timeout", 0, "per-operation timeout in seconds")
	root.PersistentFlags().StringVar(&jsonArgsFlag, "json", "", "raw JSON object of tool arguments, merged over named flags")

	root.AddCommand(serveCmd())
	root.AddCommand(toolCmd("get-booted-sim-id", nil))
	root.AddCommand(toolCmd("describe", withFlags("x", "y", "depth")))
	root.AddCommand(toolCmd("tap", withFlags("x", "y", "role", "name", "identifier")))
	root.AddCommand(toolCmd("type", withFlags("text")))
	root.AddCommand(toolCmd("swipe", withFlags("x_start", "y_start", "x_end", "y_end")))
	root.AddCommand(toolCmd("view", withFlags("output_path")))
	root.AddCommand(toolCmd("install-app", withFlags("path")))
	root.AddCommand(toolCmd("launch-app", withFlags("bundle_id", "terminate_existing")))
	root.AddCommand(toolCmd("find", withFlags("role", "name", "identifier", "depth")))
	root.AddCommand(toolCmd("exists", withFlags("role", "name", "identifier", "depth")))
	root.AddCommand(toolCmd("count", withFlags("role", "name", "identifier", "depth")))
	root.AddCommand(toolCmd("text", withFlags("role", "name", "identifier")))
	root.AddCommand(toolCmd("tap-element", withFlags("role", "name", "identifier")))
	root.AddCommand(toolCmd("input", withFlags("role", "name", "identifier", "text")))
	root.AddCommand(toolCmd("wait", withFlags("role", "name", "identifier", "depth")))
	root.AddCommand(toolCmd("log-show", withFlags("predicate", "last_seconds")))
	root.AddCommand(toolCmd("log-stream", withFlags("predicate", "duration_seconds")))

	root.Flags().StringVar(&roleFlag, "role", "", "accessibility role filter")
	root.Flags().StringVar(&nameFlag, "name", "", "accessibility name filter")
	root.Flags().StringVar(&identFlag, "identifier", "", "accessibility identifier filter")
	root.Flags().StringVar(&textFlag, "text", "", "text to type or enter")
	root.Flags().Float64Var(&xFlag, "x", 0, "x coordinate, iOS points")
	root.Flags().Float64Var(&yFlag, "y", 0, "y coordinate, iOS points")
	root.Flags().Float64Var(&xsFlag, "x_start", 0, "swipe start x, iOS points")
	root.Flags().Float64Var(&ysFlag, "y_start", 0, "swipe start y, iOS points")
	root.Flags().Float64Var(&xeFlag, "x_end", 0, "swipe end x, iOS points")
	root.Flags().Float64Var(&yeFlag, "y_end", 0, "swipe end y, iOS points")
	root.Flags().IntVar(&depthFlag, "depth", 0, "max tree depth, 0 = unlimited")
	root.Flags().StringVar(&pathFlag, "path", "", "path to an .app bundle")
	root.Flags().StringVar(&bundleIDFlag, "bundle_id", "", "app bundle identifier")
	root.Flags().StringVar(&outputPathFlag, "output_path", "", "output file path")
	root.Flags().BoolVar(&terminateFlag, "terminate_existing", false, "terminate a running instance before launch")
	root.Flags().StringVar(&predicateFlag, "predicate", "", "log predicate filter")
	root.Flags().Float64Var(&durationFlag, "duration_seconds", 0, "log stream duration, 1-30 seconds")
	root.Flags().Float64Var(&lastFlag, "last_seconds", 0, "log show lookback window, seconds")

	// Attach each tool's relevant flags to its subcommand; cobra does not
	// pass a parent's local flags down to its children.
	for _, sub := range root.Commands() {
		for _, name := range strings.Split(sub.Annotations["flags"], ",") {
			if f := root.Flags().Lookup(name); f != nil {
				sub.Flags().AddFlag(f)
			}
		}
	}

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "iosef: %v\n", err)
		return exitUsage
	}
	return lastExitCode
}

// lastExitCode carries the exit code decided by a tool command's RunE back
// out to main, since cobra's own convention only distinguishes err/no-err.
var lastExitCode = exitOK

// withFlags names which of the shared flag set a given tool's argument
// schema actually uses, so each subcommand's --help only shows relevant
// flags.
func withFlags(names ...string) []string { return names }

func toolCmd(name string, relevantFlags []string) *cobra.Command {
	return &cobra.Command{
		Use:         name,
		Short:       fmt.Sprintf("Invoke the %q tool", name),
		Annotations: map[string]string{"flags": strings.Join(relevantFlags, ",")},
		RunE: func(cmd *cobra.Command, _ []string) error {
			args, err := buildArgs(relevantFlags)
			if err != nil {
				lastExitCode = exitUsage
				return err
			}
			lastExitCode = dispatchOneShot(name, args)
			return nil
		},
	}
}

// buildArgs assembles the tool-argument map from the shared flag variables
// named in relevantFlags, then overlays any keys present in --json.
func buildArgs(relevantFlags []string) (map[string]interface{}, error) {
	args := map[string]interface{}{}
	if deviceFlag != "" {
		args["device"] = deviceFlag
	}
	if timeoutFlag != 0 {
		args["timeout"] = timeoutFlag
	}

	for _, flag := range relevantFlags {
		switch flag {
		case "x":
			args["x"] = xFlag
		case "y":
			args["y"] = yFlag
		case "x_start":
			args["x_start"] = xsFlag
		case "y_start":
			args["y_start"] = ysFlag
		case "x_end":
			args["x_end"] = xeFlag
		case "y_end":
			args["y_end"] = yeFlag
		case "role":
			if roleFlag != "" {
				args["role"] = roleFlag
			}
		case "name":
			if nameFlag != "" {
				args["name"] = nameFlag
			}
		case "identifier":
			if identFlag != "" {
				args["identifier"] = identFlag
			}
		case "text":
			args["text"] = textFlag
		case "depth":
			if depthFlag != 0 {
				args["depth"] = float64(depthFlag)
			}
		case "path":
			args["path"] = pathFlag
		case "bundle_id":
			args["bundle_id"] = bundleIDFlag
		case "terminate_existing":
			args["terminate_existing"] = terminateFlag
		case "output_path":
			if outputPathFlag != "" {
				args["output_path"] = outputPathFlag
			}
		case "predicate":
			if predicateFlag != "" {
				args["predicate"] = predicateFlag
			}
		case "last_seconds":
			if lastFlag != 0 {
				args["last_seconds"] = lastFlag
			}
		case "duration_seconds":
			if durationFlag != 0 {
				args["duration_seconds"] = durationFlag
			}
		}
	}

	if jsonArgsFlag != "" {
		var overlay map[string]interface{}
		if err := json.Unmarshal([]byte(jsonArgsFlag), &overlay); err != nil {
			return nil, fmt.Errorf("--json: %w", err)
		}
		for k, v := range overlay {
			args[k] = v
		}
	}
	return args, nil
}

// dispatchOneShot builds the process-wide singletons, runs exactly one tool
// call, prints its result, and returns the exit code to use.
func dispatchOneShot(name string, args map[string]interface{}) int {
	d, err := buildDispatcher()
	if err != nil {
		fmt.Fprintf(os.Stderr, "iosef: %v\n", err)
		return exitUsage
	}
	defer d.Cache.Shutdown()

	result := d.Dispatch(context.Background(), name, args)
	printResult(result)
	if result.IsError {
		return exitToolError
	}
	return exitOK
}

func printResult(result tools.ToolResult) {
	for _, item := range result.Content {
		switch item.Type {
		case "image", "audio":
			fmt.Printf("[%s %s, %d bytes base64]\n", item.Type, item.MimeType, len(item.Data))
		default:
			fmt.Println(item.Text)
		}
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the agent-protocol server over stdio",
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := buildDispatcher()
			if err != nil {
				lastExitCode = exitUsage
				return err
			}
			srv := agentserver.New(d)
			if err := srv.Start(); err != nil {
				lastExitCode = exitToolError
				return err
			}
			lastExitCode = exitOK
			return nil
		},
	}
}

// buildDispatcher wires together the native bridge, simctl client,
// persisted config, and session-directory hint into a ready-to-dispatch
// Dispatcher. Shared by one-shot invocation and `serve`.
func buildDispatcher() (*tools.Dispatcher, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	env := config.LoadEnvironment()

	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getwd: %w", err)
	}
	defaultDeviceName := cfg.GetDefaultDeviceName()
	if defaultDeviceName == "" {
		defaultDeviceName = session.DefaultDeviceNameHint(wd)
	}

	devRoot, err := xcodeDeveloperDir()
	if err != nil {
		return nil, fmt.Errorf("resolve Xcode developer directory: %w", err)
	}
	nb := native.NewBridge(devRoot)

	sc := simctl.NewClient()
	c := cache.New(nb, sc, defaultDeviceName)

	return tools.New(c, sc, env), nil
}

// xcodeDeveloperDir shells out to `xcode-select -p`, the standard way to
// find the active Xcode developer directory the private frameworks live
// under.
func xcodeDeveloperDir() (string, error) {
	out, err := exec.Command("xcode-select", "-p").Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
