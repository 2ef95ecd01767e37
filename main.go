package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/valyala/fasttemplate"

	"github.com/universal-debloater-alliance/uad-go/adb"
	"github.com/universal-debloater-alliance/uad-go/utils"
)

// Config holds all the configuration values from command line arguments
type Config struct {
	Backend string `json:"backend"`
	Device  string `json:"device"`
	User    int    `json:"user"`
	JSON    bool   `json:"json"`
	Format  string `json:"format"`
	DryRun  bool   `json:"dry_run"`
	Debug   bool   `json:"debug"`
}

var config = &Config{}

// backend is resolved from config.Backend before any subcommand runs.
var backend adb.Backend

var rootCmd = &cobra.Command{
	Use:   "uad",
	Short: "Universal Android Debloater - Command Line Interface",
	Long: `uad issues package-management commands against Android devices,
either through the local ADB server directly (builtin backend) or through
the system-installed adb binary.`,
	Example: `  # List connected devices
  uad devices

  # List disabled packages on a specific device
  uad list --device emulator-5554 --state disabled

  # Uninstall packages for user 0
  uad uninstall --user 0 com.example.bloat com.example.more

  # Use the system adb binary instead of the builtin client
  uad --backend system devices

  # Machine-readable output
  uad devices --json

  # Custom line format
  uad devices --format "{serial} [{status}]"`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Helper function to get environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func setup(cmd *cobra.Command, args []string) error {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if config.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	// Short run id so concurrent invocations are distinguishable in logs.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Str("run_id", uuid.NewString()[:8]).Logger()

	b, err := adb.ParseBackend(config.Backend)
	if err != nil {
		return err
	}
	backend = b
	return nil
}

// shellCmd starts a fresh builder for the configured backend and device.
// Builders are single-use, so every operation gets its own.
func shellCmd() adb.ShellCommand {
	return adb.WithBackend(backend).Shell(config.Device)
}

// outputTemplate compiles the --format template, or def when unset.
func outputTemplate(def string) (*fasttemplate.Template, error) {
	f := config.Format
	if f == "" {
		f = def
	}
	tpl, err := fasttemplate.NewTemplate(f, "{", "}")
	if err != nil {
		return nil, fmt.Errorf("invalid --format template: %w", err)
	}
	return tpl, nil
}

// parsePackageArg validates a user-supplied package name. The bare "android"
// framework package fails the ID grammar but is a real, known package.
func parsePackageArg(name string) (adb.PackageID, error) {
	if name == "android" {
		return adb.AndroidPackage, nil
	}
	pkg, ok := adb.NewPackageID(name)
	if !ok {
		return adb.PackageID{}, fmt.Errorf("invalid package name: %q", name)
	}
	return pkg, nil
}

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List connected Android devices",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		devices, err := adb.WithBackend(backend).Devices()
		if err != nil {
			return err
		}
		if config.JSON {
			fmt.Println(utils.JsonIndent(devices))
			return nil
		}
		if len(devices) == 0 {
			log.Info().Msg("No devices connected.")
			return nil
		}
		tpl, err := outputTemplate("{serial}\t{status}")
		if err != nil {
			return err
		}
		for _, d := range devices {
			fmt.Println(tpl.ExecuteString(map[string]any{
				"serial": d.Serial,
				"status": d.Status,
			}))
		}
		return nil
	},
}

var (
	listState       string
	listUninstalled bool
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List packages on a device",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flag := adb.PmListAny
		switch listState {
		case "", "all":
		case "enabled":
			flag = adb.PmListOnlyEnabled
		case "disabled":
			flag = adb.PmListOnlyDisabled
		default:
			return fmt.Errorf("invalid --state %q (want all, enabled or disabled)", listState)
		}
		if listUninstalled {
			if flag != adb.PmListAny {
				return fmt.Errorf("--uninstalled cannot be combined with --state")
			}
			flag = adb.PmListIncludeUninstalled
		}

		packs, err := shellCmd().Pm().ListPackagesSys(flag, config.User)
		if err != nil {
			return err
		}
		if config.JSON {
			fmt.Println(utils.JsonIndent(packs))
			return nil
		}
		tpl, err := outputTemplate("{package}")
		if err != nil {
			return err
		}
		for _, p := range packs {
			fmt.Println(tpl.ExecuteString(map[string]any{"package": p}))
		}
		return nil
	},
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List users on a device",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		users, err := shellCmd().Pm().ListUsers()
		if err != nil {
			return err
		}
		ids := lo.Map(users, func(u adb.UserInfo, _ int) uint16 { return u.ID() })
		if config.JSON {
			fmt.Println(utils.JsonIndent(ids))
			return nil
		}
		tpl, err := outputTemplate("{id}")
		if err != nil {
			return err
		}
		for _, id := range ids {
			fmt.Println(tpl.ExecuteString(map[string]any{
				"id": strconv.FormatUint(uint64(id), 10),
			}))
		}
		return nil
	},
}

// changePackages applies one pm round-trip per package. Partial failure is
// reported per package and the loop continues; the device may change state
// between iterations and that is visible to the caller.
func changePackages(verb string, names []string, apply func(adb.PmCommand, adb.PackageID) error) error {
	failed := 0
	for _, name := range names {
		pkg, err := parsePackageArg(name)
		if err != nil {
			log.Error().Err(err).Str("package", name).Msg("skipping")
			failed++
			continue
		}
		if config.DryRun {
			log.Info().Str("package", name).Msgf("would %s", verb)
			continue
		}
		if err := apply(shellCmd().Pm(), pkg); err != nil {
			log.Error().Err(err).Str("package", name).Msgf("%s failed", verb)
			failed++
			continue
		}
		log.Info().Str("package", name).Msgf("%s done", verb)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d packages failed", failed, len(names))
	}
	return nil
}

func newStateCmd(verb, short string, aliases []string, apply func(adb.PmCommand, adb.PackageID) error) *cobra.Command {
	cmd := &cobra.Command{
		Use:     verb + " <package>...",
		Aliases: aliases,
		Short:   short,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return changePackages(verb, args, apply)
		},
	}
	cmd.Flags().BoolVar(&config.DryRun, "dry-run", false,
		"Show what would be done without actually doing it")
	return cmd
}

var enableCmd = newStateCmd("enable", "Enable (restore) packages", []string{"restore"},
	func(pm adb.PmCommand, pkg adb.PackageID) error { return pm.Enable(pkg, config.User) })

var disableCmd = newStateCmd("disable", "Disable packages (keeps data but prevents execution)", nil,
	func(pm adb.PmCommand, pkg adb.PackageID) error { return pm.Disable(pkg, config.User) })

var uninstallCmd = newStateCmd("uninstall", "Uninstall packages", []string{"rm"},
	func(pm adb.PmCommand, pkg adb.PackageID) error { return pm.Uninstall(pkg, config.User) })

var clearCmd = newStateCmd("clear", "Clear package data", nil,
	func(pm adb.PmCommand, pkg adb.PackageID) error { return pm.Clear(pkg) })

var getpropCmd = &cobra.Command{
	Use:   "getprop <key>",
	Short: "Query a device property value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := shellCmd().GetProp(args[0])
		if err != nil {
			return err
		}
		fmt.Println(value)
		return nil
	},
}

var rebootCmd = &cobra.Command{
	Use:   "reboot",
	Short: "Reboot the device",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := shellCmd().Reboot()
		if err != nil {
			return err
		}
		if out != "" {
			fmt.Println(out)
		}
		return nil
	},
}

var runCmd = &cobra.Command{
	Use:   "run <action>...",
	Short: "Run a raw action on the device's default shell",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := shellCmd().Raw(strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	},
}

var adbCmd = &cobra.Command{
	Use:   "adb",
	Short: "Show ADB backend and version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		version, err := adb.WithBackend(backend).Version()
		if err != nil {
			return err
		}
		if config.JSON {
			fmt.Println(utils.JsonIndent(map[string]string{
				"backend": backend.String(),
				"version": version,
			}))
			return nil
		}
		available := lo.Map(adb.Backends[:], func(b adb.Backend, _ int) string { return b.String() })
		fmt.Printf("Backend: %s (available: %s)\n", backend, strings.Join(available, ", "))
		fmt.Println(version)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&config.Backend, "backend", "B",
		getEnv("UAD_BACKEND", "builtin"),
		"ADB backend to use: builtin (default, no dependencies) or system (uses adb binary)")

	rootCmd.PersistentFlags().StringVarP(&config.Device, "device", "d",
		getEnv("UAD_DEVICE_ID", ""),
		"Device serial number (empty lets ADB choose the default device)")

	rootCmd.PersistentFlags().IntVarP(&config.User, "user", "u", -1,
		"Android user ID (-1 means unset)")

	rootCmd.PersistentFlags().BoolVar(&config.JSON, "json", false,
		"Print results as JSON")

	rootCmd.PersistentFlags().StringVar(&config.Format, "format", "",
		"Line template for output, e.g. \"{serial} [{status}]\"")

	rootCmd.PersistentFlags().BoolVar(&config.Debug, "debug", false,
		"Enable debug logging")

	listCmd.Flags().StringVar(&listState, "state", "all",
		"Filter by package state: all, enabled or disabled")
	listCmd.Flags().BoolVar(&listUninstalled, "uninstalled", false,
		"Include uninstalled packages")

	rootCmd.AddCommand(devicesCmd, listCmd, usersCmd,
		enableCmd, disableCmd, uninstallCmd, clearCmd,
		getpropCmd, rebootCmd, runCmd, adbCmd)
}

func main() {
	cobra.CheckErr(rootCmd.Execute())
}
