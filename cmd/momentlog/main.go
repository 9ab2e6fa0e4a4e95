package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"momentlog/internal/app"
	"momentlog/internal/config"
	"momentlog/internal/encryption"
	"momentlog/internal/journal"
	"momentlog/internal/model"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates an App. The caller must defer a.Close().
// operation identifies the CLI command being run (e.g. "AddMoment").
func newApp(operation string) (*app.App, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewApp(cfg, operation, promptPassphrase)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

// promptPassphrase reads a passphrase from the terminal without echo.
func promptPassphrase(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	pass, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	return string(pass), nil
}

func parseTags(raw []string) ([]model.Tag, error) {
	var tags []model.Tag
	for _, r := range raw {
		tag := model.Tag(r)
		if !tag.Valid() {
			return nil, fmt.Errorf("unknown tag %q (valid: %s)", r, tagList())
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func tagList() string {
	names := make([]string, len(model.AllTags))
	for i, t := range model.AllTags {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

// parseWhen accepts either a date (2006-01-02) or an RFC 3339 timestamp.
func parseWhen(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q (use 2006-01-02 or RFC 3339)", raw)
	}
	return t, nil
}

var rootCmd = &cobra.Command{
	Use:   "momentlog",
	Short: "Event journal with AI daily recaps",
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Base Dir:   %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:    %s\n", cfg.LogDir)
		fmt.Printf("Storage:    %s\n", cfg.Storage.Type)
		fmt.Printf("Media:      %s\n", cfg.Media.Type)
		fmt.Printf("Encryption: %s\n", cfg.Encryption.Type)
		return nil
	},
}

// keys command
var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage snapshot encryption keys",
}

var keysInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate an encryption key pair",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}
		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		enc := encryption.NewAgeEncryptor(cfg.Encryption)
		if enc.IsConfigured() {
			return fmt.Errorf("key pair already exists at %s", cfg.Encryption.PublicKeyPath)
		}

		pass, err := promptPassphrase("New passphrase: ")
		if err != nil {
			return err
		}
		confirm, err := promptPassphrase("Confirm passphrase: ")
		if err != nil {
			return err
		}
		if pass != confirm {
			return fmt.Errorf("passphrases do not match")
		}

		if err := enc.Setup(pass); err != nil {
			return fmt.Errorf("generating keys: %w", err)
		}

		fmt.Printf("Key pair written to %s\n", cfg.Encryption.PublicKeyPath)
		fmt.Println("Set encryption type to \"age\" in the config to encrypt snapshots.")
		return nil
	},
}

// event command
var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Manage events",
}

var eventCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an event",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		location, _ := cmd.Flags().GetString("location")
		purpose, _ := cmd.Flags().GetString("purpose")
		startRaw, _ := cmd.Flags().GetString("start")
		endRaw, _ := cmd.Flags().GetString("end")
		coverPath, _ := cmd.Flags().GetString("cover")

		start, err := parseWhen(startRaw)
		if err != nil {
			return err
		}
		end, err := parseWhen(endRaw)
		if err != nil {
			return err
		}

		a, err := newApp("CreateEvent")
		if err != nil {
			return err
		}
		defer a.Close()

		var cover io.Reader
		if coverPath != "" {
			f, err := os.Open(coverPath)
			if err != nil {
				return fmt.Errorf("opening cover photo: %w", err)
			}
			defer f.Close()
			cover = f
		}

		e, err := a.Service().CreateEvent(name, location, purpose, start, end, cover)
		if err != nil {
			return fmt.Errorf("creating event: %w", err)
		}

		fmt.Printf("Created event %s (%s)\n", e.Name, e.ID)
		return nil
	},
}

var eventListCmd = &cobra.Command{
	Use:   "list",
	Short: "List events",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ListEvents")
		if err != nil {
			return err
		}
		defer a.Close()

		events := a.Store().Events()
		if len(events) == 0 {
			fmt.Println("No events.")
			return nil
		}

		for _, e := range events {
			fmt.Printf("%s  %s - %s  %-25s %s\n",
				e.ID[:8],
				e.StartDate.Format("2006-01-02"),
				e.EndDate.Format("2006-01-02"),
				e.Name,
				e.Location,
			)
		}
		return nil
	},
}

var eventDeleteCmd = &cobra.Command{
	Use:   "delete EVENT_ID",
	Short: "Delete an event and everything it owns",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("DeleteEvent")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Service().DeleteEvent(args[0]); err != nil {
			return fmt.Errorf("deleting event: %w", err)
		}

		fmt.Println("Event deleted.")
		return nil
	},
}

// moment command
var momentCmd = &cobra.Command{
	Use:   "moment",
	Short: "Capture and browse moments",
}

var momentAddCmd = &cobra.Command{
	Use:   "add EVENT_ID",
	Short: "Capture a moment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eventID := args[0]
		content, _ := cmd.Flags().GetString("content")
		rawTags, _ := cmd.Flags().GetStringArray("tag")
		photoPath, _ := cmd.Flags().GetString("photo")
		voicePath, _ := cmd.Flags().GetString("voice")
		whenRaw, _ := cmd.Flags().GetString("time")

		tags, err := parseTags(rawTags)
		if err != nil {
			return err
		}

		var at time.Time
		if whenRaw != "" {
			at, err = parseWhen(whenRaw)
			if err != nil {
				return err
			}
		}

		a, err := newApp("AddMoment")
		if err != nil {
			return err
		}
		defer a.Close()

		var m model.Moment
		switch {
		case photoPath != "":
			f, err := os.Open(photoPath)
			if err != nil {
				return fmt.Errorf("opening photo: %w", err)
			}
			defer f.Close()
			m, err = a.Service().CapturePhotoMoment(eventID, f, content, tags, at)
			if err != nil {
				return fmt.Errorf("capturing photo moment: %w", err)
			}
		case voicePath != "":
			f, err := os.Open(voicePath)
			if err != nil {
				return fmt.Errorf("opening recording: %w", err)
			}
			defer f.Close()
			format := strings.TrimPrefix(strings.ToLower(filepath.Ext(voicePath)), ".")
			if format == "" {
				format = "m4a"
			}
			m, err = a.Service().CaptureVoiceMoment(context.Background(), eventID, f, format, tags, at)
			if err != nil {
				return fmt.Errorf("capturing voice moment: %w", err)
			}
		default:
			m, err = a.Service().CaptureTextMoment(eventID, content, tags, at)
			if err != nil {
				return fmt.Errorf("capturing moment: %w", err)
			}
		}

		fmt.Printf("Captured %s moment %s\n", m.Type, m.ID[:8])
		if m.Type == model.MomentVoice {
			fmt.Printf("Transcript: %s\n", m.Content)
		}
		return nil
	},
}

var momentListCmd = &cobra.Command{
	Use:   "list EVENT_ID",
	Short: "List moments, optionally filtered",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		search, _ := cmd.Flags().GetString("search")
		rawTags, _ := cmd.Flags().GetStringArray("tag")
		fromRaw, _ := cmd.Flags().GetString("from")
		toRaw, _ := cmd.Flags().GetString("to")

		tags, err := parseTags(rawTags)
		if err != nil {
			return err
		}

		filter := journal.MomentFilter{Search: search, Tags: tags}
		if fromRaw != "" {
			from, err := parseWhen(fromRaw)
			if err != nil {
				return err
			}
			filter.From = &from
		}
		if toRaw != "" {
			to, err := parseWhen(toRaw)
			if err != nil {
				return err
			}
			filter.To = &to
		}

		a, err := newApp("ListMoments")
		if err != nil {
			return err
		}
		defer a.Close()

		moments := a.Store().FilterMoments(args[0], filter)
		if len(moments) == 0 {
			fmt.Println("No moments found.")
			return nil
		}

		for _, m := range moments {
			tagNames := make([]string, len(m.Tags))
			for i, t := range m.Tags {
				tagNames[i] = string(t)
			}
			fmt.Printf("%s  %s  %-5s  %s",
				m.ID[:8],
				m.Timestamp.Format("2006-01-02 15:04"),
				m.Type,
				m.Content,
			)
			if len(tagNames) > 0 {
				fmt.Printf("  [%s]", strings.Join(tagNames, ", "))
			}
			fmt.Println()
		}
		return nil
	},
}

var momentEditCmd = &cobra.Command{
	Use:   "edit MOMENT_ID",
	Short: "Edit a moment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var patch journal.MomentPatch

		if cmd.Flags().Changed("content") {
			content, _ := cmd.Flags().GetString("content")
			patch.Content = &content
		}
		if cmd.Flags().Changed("tag") {
			rawTags, _ := cmd.Flags().GetStringArray("tag")
			tags, err := parseTags(rawTags)
			if err != nil {
				return err
			}
			patch.Tags = &tags
		}
		if cmd.Flags().Changed("time") {
			whenRaw, _ := cmd.Flags().GetString("time")
			at, err := parseWhen(whenRaw)
			if err != nil {
				return err
			}
			patch.Timestamp = &at
		}

		a, err := newApp("UpdateMoment")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Store().UpdateMoment(args[0], patch); err != nil {
			return fmt.Errorf("updating moment: %w", err)
		}

		fmt.Println("Moment updated.")
		return nil
	},
}

var momentDeleteCmd = &cobra.Command{
	Use:   "delete MOMENT_ID",
	Short: "Delete a moment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("DeleteMoment")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Service().DeleteMoment(args[0]); err != nil {
			return fmt.Errorf("deleting moment: %w", err)
		}

		fmt.Println("Moment deleted.")
		return nil
	},
}

// recap command
var recapCmd = &cobra.Command{
	Use:   "recap",
	Short: "Generate and browse daily recaps",
}

var recapGenerateCmd = &cobra.Command{
	Use:   "generate EVENT_ID",
	Short: "Generate a recap for one day",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dateRaw, _ := cmd.Flags().GetString("date")
		save, _ := cmd.Flags().GetBool("save")

		day := time.Now().UTC()
		if dateRaw != "" {
			var err error
			day, err = parseWhen(dateRaw)
			if err != nil {
				return err
			}
		}

		a, err := newApp("GenerateRecap")
		if err != nil {
			return err
		}
		defer a.Close()

		if existing, ok := a.Store().FindRecapForDate(args[0], day); ok {
			fmt.Printf("Recap already exists for %s:\n\n", journal.DayKey(day))
			printRecap(existing)
			return nil
		}

		recap, err := a.Service().GenerateDailyRecap(context.Background(), args[0], day)
		if err != nil {
			if errors.Is(err, journal.ErrNotFound) {
				return fmt.Errorf("nothing to recap: %w", err)
			}
			return fmt.Errorf("generating recap: %w", err)
		}

		printRecap(*recap)

		if save {
			if err := a.Service().SaveDailyRecap(*recap); err != nil {
				return fmt.Errorf("saving recap: %w", err)
			}
			fmt.Println("\nRecap saved.")
		} else {
			fmt.Println("\nNot saved. Re-run with --save to keep it.")
		}
		return nil
	},
}

var recapListCmd = &cobra.Command{
	Use:   "list EVENT_ID",
	Short: "List saved recaps",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ListRecaps")
		if err != nil {
			return err
		}
		defer a.Close()

		recaps := a.Store().GetEventRecaps(args[0])
		if len(recaps) == 0 {
			fmt.Println("No recaps generated.")
			return nil
		}

		for _, r := range recaps {
			fmt.Printf("%s  %s  %s\n", r.ID[:8], journal.DayKey(r.Date), r.EmotionalTone)
		}
		return nil
	},
}

// report command
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate and view the final report",
}

var reportGenerateCmd = &cobra.Command{
	Use:   "generate EVENT_ID",
	Short: "Generate the final report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		save, _ := cmd.Flags().GetBool("save")

		a, err := newApp("GenerateReport")
		if err != nil {
			return err
		}
		defer a.Close()

		report, err := a.Service().GenerateFinalReport(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("generating report: %w", err)
		}

		printReport(*report)

		if save {
			if err := a.Service().SaveFinalReport(*report); err != nil {
				return fmt.Errorf("saving report: %w", err)
			}
			fmt.Println("\nReport saved.")
		} else {
			fmt.Println("\nNot saved. Re-run with --save to keep it.")
		}
		return nil
	},
}

var reportShowCmd = &cobra.Command{
	Use:   "show EVENT_ID",
	Short: "Show the saved final report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ShowReport")
		if err != nil {
			return err
		}
		defer a.Close()

		report, ok := a.Store().GetEventReport(args[0])
		if !ok {
			fmt.Println("No report saved for this event.")
			return nil
		}

		printReport(report)
		return nil
	},
}

func printRecap(r model.DailyRecap) {
	fmt.Println(r.Summary)
	printSection("Key Takeaways", r.KeyTakeaways)
	printSection("Top Moments", r.TopMoments)
	fmt.Printf("\nEmotional Tone: %s\n", r.EmotionalTone)
	if len(r.PeopleMet) > 0 {
		fmt.Printf("People Met: %s\n", strings.Join(r.PeopleMet, ", "))
	}
}

func printReport(r model.FinalReport) {
	fmt.Println(r.Summary)
	printSection("Highlights", r.Highlights)
	printSection("Key Connections", r.KeyConnections)
	printSection("Lessons Learned", r.LessonsLearned)
	fmt.Printf("\nOverall: %s\n", r.OverallExperience)
}

func printSection(title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Printf("\n%s:\n", title)
	for _, item := range items {
		fmt.Printf("  - %s\n", item)
	}
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	// keys subcommands
	keysCmd.AddCommand(keysInitCmd)

	// event subcommands
	eventCmd.AddCommand(eventCreateCmd)
	eventCreateCmd.Flags().String("name", "", "Event name (required)")
	eventCreateCmd.Flags().String("location", "", "Event location (required)")
	eventCreateCmd.Flags().String("purpose", "", "Why you are attending")
	eventCreateCmd.Flags().String("start", "", "Start date (required)")
	eventCreateCmd.Flags().String("end", "", "End date (required)")
	eventCreateCmd.Flags().String("cover", "", "Cover photo file")
	eventCreateCmd.MarkFlagRequired("name")
	eventCreateCmd.MarkFlagRequired("location")
	eventCreateCmd.MarkFlagRequired("start")
	eventCreateCmd.MarkFlagRequired("end")
	eventCmd.AddCommand(eventListCmd)
	eventCmd.AddCommand(eventDeleteCmd)

	// moment subcommands
	momentCmd.AddCommand(momentAddCmd)
	momentAddCmd.Flags().String("content", "", "Moment text (or photo description)")
	momentAddCmd.Flags().StringArray("tag", nil, "Tag (repeatable)")
	momentAddCmd.Flags().String("photo", "", "Photo file to attach")
	momentAddCmd.Flags().String("voice", "", "Audio file to transcribe and attach")
	momentAddCmd.Flags().String("time", "", "Moment time (defaults to now)")
	momentCmd.AddCommand(momentListCmd)
	momentListCmd.Flags().String("search", "", "Substring to match in content")
	momentListCmd.Flags().StringArray("tag", nil, "Tag filter (repeatable, any match)")
	momentListCmd.Flags().String("from", "", "Earliest timestamp, inclusive")
	momentListCmd.Flags().String("to", "", "Latest timestamp, inclusive")
	momentCmd.AddCommand(momentEditCmd)
	momentEditCmd.Flags().String("content", "", "New content")
	momentEditCmd.Flags().StringArray("tag", nil, "New tag set (repeatable)")
	momentEditCmd.Flags().String("time", "", "New moment time")
	momentCmd.AddCommand(momentDeleteCmd)

	// recap subcommands
	recapCmd.AddCommand(recapGenerateCmd)
	recapGenerateCmd.Flags().String("date", "", "Day to recap (defaults to today)")
	recapGenerateCmd.Flags().Bool("save", false, "Persist the generated recap")
	recapCmd.AddCommand(recapListCmd)

	// report subcommands
	reportCmd.AddCommand(reportGenerateCmd)
	reportGenerateCmd.Flags().Bool("save", false, "Persist the generated report")
	reportCmd.AddCommand(reportShowCmd)

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(eventCmd)
	rootCmd.AddCommand(momentCmd)
	rootCmd.AddCommand(recapCmd)
	rootCmd.AddCommand(reportCmd)
}
