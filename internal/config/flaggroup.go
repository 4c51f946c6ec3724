package config

import (
	"flag"
	"fmt"
	"io"
	"text/tabwriter"
)

// FlagType represents the type of a flag value
type FlagType int

const (
	BoolType FlagType = iota
	StringType
	IntType
)

// FlagDef holds metadata for a single flag (short + long names, type, default, description)
type FlagDef struct {
	Short       string
	Long        string
	Type        FlagType
	Default     interface{}
	Description string
}

// FlagGroup is a named category containing related flags
type FlagGroup struct {
	Name  string
	Flags []FlagDef
}

// HelpFormatter holds the tool info and ordered flag groups for custom help rendering
type HelpFormatter struct {
	ToolName    string
	Description string
	Groups      []*FlagGroup
}

// addBoolFlag registers a bool flag with both short and long names and appends it to the group
func addBoolFlag(group *FlagGroup, p *bool, short, long string, value bool, usage string) {
	if short != "" {
		flag.BoolVar(p, short, value, usage)
	}
	if long != "" {
		flag.BoolVar(p, long, value, usage)
	}
	group.Flags = append(group.Flags, FlagDef{
		Short:       short,
		Long:        long,
		Type:        BoolType,
		Default:     value,
		Description: usage,
	})
}

// addStringFlag registers a string flag with both short and long names and appends it to the group
func addStringFlag(group *FlagGroup, p *string, short, long string, value string, usage string) {
	if short != "" {
		flag.StringVar(p, short, value, usage)
	}
	if long != "" {
		flag.StringVar(p, long, value, usage)
	}
	group.Flags = append(group.Flags, FlagDef{
		Short:       short,
		Long:        long,
		Type:        StringType,
		Default:     value,
		Description: usage,
	})
}

// addIntFlag registers an int flag with both short and long names and appends it to the group
func addIntFlag(group *FlagGroup, p *int, short, long string, value int, usage string) {
	if short != "" {
		flag.IntVar(p, short, value, usage)
	}
	if long != "" {
		flag.IntVar(p, long, value, usage)
	}
	group.Flags = append(group.Flags, FlagDef{
		Short:       short,
		Long:        long,
		Type:        IntType,
		Default:     value,
		Description: usage,
	})
}

// RegisterFlags creates all flag groups, registers every flag with the
// standard flag package, and returns a populated HelpFormatter.
func RegisterFlags(cfg *Config) *HelpFormatter {
	formatter := &HelpFormatter{
		ToolName:    "livecheck",
		Description: "check hosts for live web servers on common ports",
	}

	// INPUT
	input := &FlagGroup{Name: "INPUT"}
	addStringFlag(input, &cfg.InputFile, "i", "input", "", "Input file with hostnames, one per line (required)")
	formatter.Groups = append(formatter.Groups, input)

	// OUTPUT
	output := &FlagGroup{Name: "OUTPUT"}
	addStringFlag(output, &cfg.OutputFile, "o", "output", "", "Base name for output files, e.g. example_live.txt (required)")
	addStringFlag(output, &cfg.TitlesFile, "t", "titles", "", "Output file for root page titles")
	addStringFlag(output, &cfg.FingerprintFile, "f", "fingerprint", "", "Output file for server fingerprints")
	addStringFlag(output, &cfg.JSONFile, "j", "json", "", "Output file for JSON probe records")
	formatter.Groups = append(formatter.Groups, output)

	// PROBES
	probes := &FlagGroup{Name: "PROBES"}
	addBoolFlag(probes, &cfg.TechDetect, "td", "tech-detect", false, "Enable technology detection using wappalyzer")
	addBoolFlag(probes, &cfg.Screenshots, "s", "screenshots", false, "Take screenshots of discovered web servers")
	addIntFlag(probes, &cfg.ScreenshotParallel, "", "screenshot-parallel", 4, "Max concurrent browser sessions")
	formatter.Groups = append(formatter.Groups, probes)

	// CONCURRENCY
	concurrency := &FlagGroup{Name: "CONCURRENCY"}
	addIntFlag(concurrency, &cfg.Threads, "", "threads", 100, "Number of worker threads")
	formatter.Groups = append(formatter.Groups, concurrency)

	// DEBUG
	debug := &FlagGroup{Name: "DEBUG"}
	addBoolFlag(debug, &cfg.Debug, "d", "debug", false, "Debug mode (per-stage failures logged to stderr)")
	addBoolFlag(debug, &cfg.Silent, "", "silent", false, "Silent mode (errors only)")
	formatter.Groups = append(formatter.Groups, debug)

	// MISCELLANEOUS
	misc := &FlagGroup{Name: "MISCELLANEOUS"}
	addBoolFlag(misc, &cfg.Version, "v", "version", false, "Show version information")
	formatter.Groups = append(formatter.Groups, misc)

	return formatter
}

// PrintUsage writes the grouped help output to w
func (h *HelpFormatter) PrintUsage(w io.Writer) {
	fmt.Fprintf(w, "%s - %s\n\n", h.ToolName, h.Description)
	fmt.Fprintf(w, "Usage:\n  %s [flags]\n\nFlags:\n", h.ToolName)

	for _, group := range h.Groups {
		fmt.Fprintf(w, "\n%s:\n", group.Name)

		tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
		for _, f := range group.Flags {
			name := formatFlagName(f)
			typeSuffix := formatFlagType(f)
			defaultStr := formatFlagDefault(f)

			desc := f.Description
			if defaultStr != "" {
				desc += " " + defaultStr
			}

			fmt.Fprintf(tw, "   %s%s\t%s\n", name, typeSuffix, desc)
		}
		tw.Flush()
	}
}

// formatFlagName builds the "-short, -long" or just "-long" name string
func formatFlagName(f FlagDef) string {
	if f.Short != "" && f.Long != "" {
		return fmt.Sprintf("-%s, -%s", f.Short, f.Long)
	}
	if f.Short != "" {
		return fmt.Sprintf("-%s", f.Short)
	}
	return fmt.Sprintf("-%s", f.Long)
}

// formatFlagType returns the type suffix for non-bool flags
func formatFlagType(f FlagDef) string {
	switch f.Type {
	case StringType:
		return " string"
	case IntType:
		return " int"
	default:
		return ""
	}
}

// formatFlagDefault returns a parenthesized default value string for non-zero defaults
func formatFlagDefault(f FlagDef) string {
	switch f.Type {
	case BoolType:
		if v, ok := f.Default.(bool); ok && v {
			return "(default true)"
		}
	case IntType:
		if v, ok := f.Default.(int); ok && v != 0 {
			return fmt.Sprintf("(default %d)", v)
		}
	case StringType:
		if v, ok := f.Default.(string); ok && v != "" {
			return fmt.Sprintf("(default %q)", v)
		}
	}
	return ""
}
