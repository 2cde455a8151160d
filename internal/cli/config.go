package cli

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/tessro/crate/internal/config"
	crerrors "github.com/tessro/crate/internal/errors"
	"github.com/tessro/crate/internal/wizard"
)

var configInitDefaults bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Commands for viewing and editing crate configuration.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the effective configuration, after defaults and environment overrides.`,
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the configuration file path",
	RunE:  runConfigPath,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit configuration file",
	Long:  `Open the configuration file in your default editor.`,
	RunE:  runConfigEdit,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Long: `Create a new configuration file. In a terminal, asks for the library
location, playlist format and player command; --defaults skips the questions.`,
	RunE: runConfigInit,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the configuration file.

Supported keys:
  ` + strings.Join(config.Keys(), "\n  ") + `

Examples:
  crate config set library.root ~/Music
  crate config set library.extensions .mp3,.flac
  crate config set player.command "mpv --no-video"`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitDefaults, "defaults", false, "write defaults without asking")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	if JSONOutput() {
		return printJSON(cfg)
	}

	encoder := toml.NewEncoder(os.Stdout)
	encoder.Indent = "  "
	return encoder.Encode(cfg)
}

// getConfigPath returns the file commands read and write: --config, an
// existing config file, or the default location for a new one.
func getConfigPath() (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	if path := config.FindConfigFile(); path != "" {
		return path, nil
	}
	return config.DefaultPath()
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}
	_, statErr := os.Stat(path)
	found := statErr == nil

	if JSONOutput() {
		return printJSON(map[string]any{"path": path, "exists": found})
	}
	if found {
		fmt.Println(path)
	} else {
		fmt.Printf("%s (not created yet)\n", path)
	}
	return nil
}

// requireConfigFile returns the config path, failing if the file is missing.
func requireConfigFile() (string, error) {
	path, err := getConfigPath()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return "", fmt.Errorf("%w at %s", crerrors.ErrConfigNotFound, path)
	}
	return path, nil
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	configPath, err := requireConfigFile()
	if err != nil {
		return err
	}

	// Find editor
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		for _, e := range []string{"nano", "vim", "vi", "notepad"} {
			if _, err := exec.LookPath(e); err == nil {
				editor = e
				break
			}
		}
	}
	if editor == "" {
		return crerrors.WithSuggestion(fmt.Errorf("no editor found"), "Set the EDITOR environment variable")
	}

	editorCmd := exec.Command(editor, configPath)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	return editorCmd.Run()
}

// askConfig fills the most important settings interactively.
func askConfig(c *config.Config) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Music library").
				Description("Directory scanned by 'crate scan' and 'crate watch'").
				Value(&c.Library.Root),
			huh.NewConfirm().
				Title("Scan subdirectories?").
				Value(&c.Library.Recursive),
			huh.NewSelect[string]().
				Title("Playlist format").
				Options(
					huh.NewOption("JSON (one file per playlist)", config.FormatJSON),
					huh.NewOption("M3U (readable by other players)", config.FormatM3U),
					huh.NewOption("SQLite (single database)", config.FormatSQLite),
				).
				Value(&c.Playlists.Format),
			huh.NewInput().
				Title("Player command").
				Description("Run with the track path appended; leave empty to simulate playback").
				Placeholder("mpv --no-video").
				Value(&c.Player.Command),
		),
	)
	return form.Run()
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := cfgFile
	if configPath == "" {
		var err error
		if configPath, err = config.DefaultPath(); err != nil {
			return err
		}
	}

	if _, err := os.Stat(configPath); err == nil {
		return crerrors.WithSuggestion(
			fmt.Errorf("config file already exists at %s", configPath),
			"Use 'crate config set' or 'crate config edit' to change it")
	}

	newCfg := config.Default()
	if !configInitDefaults && !JSONOutput() && wizard.IsTerminal() {
		if err := askConfig(newCfg); err != nil {
			return fmt.Errorf("setup cancelled: %w", err)
		}
	}
	if err := newCfg.Validate(); err != nil {
		return fmt.Errorf("%w: %w", crerrors.ErrInvalidConfig, err)
	}

	if err := config.Save(newCfg, configPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	if JSONOutput() {
		return printJSON(map[string]string{"status": "created", "path": configPath})
	}
	fmt.Printf("Created config file: %s\n", configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Run 'crate scan -r --playlist Library' to build your first playlist")
	fmt.Println("  2. Run 'crate ui' to browse it")
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	configPath, err := requireConfigFile()
	if err != nil {
		return err
	}

	// Decode the file alone so defaults and environment overrides are not
	// written back.
	fileCfg := &config.Config{}
	if _, err := toml.DecodeFile(configPath, fileCfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	if err := fileCfg.Set(key, value); err != nil {
		return crerrors.WithSuggestion(
			fmt.Errorf("%w: %w", crerrors.ErrInvalidConfig, err),
			"Run 'crate config set --help' for the supported keys")
	}

	check := *fileCfg
	check.ApplyDefaults()
	if err := check.Validate(); err != nil {
		return fmt.Errorf("%w: %w", crerrors.ErrInvalidConfig, err)
	}

	if err := config.Save(fileCfg, configPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	if JSONOutput() {
		return printJSON(map[string]string{"status": "updated", "key": key, "value": value})
	}
	fmt.Printf("Set %s = %s\n", key, value)
	return nil
}
