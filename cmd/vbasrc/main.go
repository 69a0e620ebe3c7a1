package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vbatools/vbasrc/internal/extract"
)

const version = "0.1.0"

func main() {
	cfg, err := extract.FromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	rootCmd := &cobra.Command{
		Use:     "vbasrc [flags] MS_OFFICE_FILE...",
		Short:   "Extract VBA source files from MS Office files with macros",
		Long:    `Extract VBA source files from MS Office files with macros.`,
		Version: version,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			logger := extract.NewLogger(cfg.LogLevel, os.Stderr)
			ex, err := extract.New(cfg, logger)
			if err != nil {
				return err
			}
			return ex.Run(args)
		},
	}

	rootCmd.Flags().StringVar(&cfg.Dest, "dest", cfg.Dest, "Destination directory path to output vba source files")
	rootCmd.Flags().BoolVar(&cfg.UseOrigExtension, "orig-extension", cfg.UseOrigExtension, "Use the original extension (.bas, .cls, .frm) for extracted vba source files instead of .vb")
	rootCmd.Flags().StringVar(&cfg.SrcEncoding, "src-encoding", cfg.SrcEncoding, "Encoding for vba source files in an MS Office file")
	rootCmd.Flags().StringVar(&cfg.OutEncoding, "out-encoding", cfg.OutEncoding, "Encoding for generated vba source files")
	rootCmd.Flags().BoolVar(&cfg.Recursive, "recursive", cfg.Recursive, "Find sub directories recursively when a directory is specified as a source")
	rootCmd.Flags().BoolVar(&cfg.Strict, "strict", cfg.Strict, "Abort on dir stream fields that do not match the format specification")
	rootCmd.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (trace, debug, info, warn, error)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
