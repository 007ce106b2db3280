package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/shandysiswandi/bankocr/internal/app"
	"github.com/shandysiswandi/bankocr/internal/ocr/engine"
	"github.com/shandysiswandi/bankocr/internal/pkg/pkglog"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "bankocr:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "bankocr",
		Short:         "Decode seven-segment account number scans",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(*cobra.Command, []string) error {
			serve()
			return nil
		},
	}

	root.AddCommand(newServeCmd(), newDecodeCmd())

	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP service",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			serve()
			return nil
		},
	}
}

func serve() {
	application := app.New()    // Initialize the application
	wait := application.Start() // Start the application and wait for the termination signal
	<-wait                      // Wait for the application to receive a termination signal

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	application.Stop(ctx) // Stop the application gracefully
}

func newDecodeCmd() *cobra.Command {
	var (
		annotate bool
		marker   string
	)

	cmd := &cobra.Command{
		Use:   "decode [file]",
		Short: "Decode a scan file (or stdin) and print one account number per line",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pkglog.InitLoggingTo(cmd.ErrOrStderr())

			if len(marker) != 1 || !engine.ValidMarker(marker[0]) {
				return fmt.Errorf("marker must be a single printable non-digit character, got %q", marker)
			}

			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			return runDecode(in, cmd.OutOrStdout(), marker[0], annotate)
		},
	}

	cmd.Flags().BoolVar(&annotate, "annotate", false, "append ERR/ILL status to each account number")
	cmd.Flags().StringVar(&marker, "marker", string(engine.DefaultMarker), "character printed for an unrecognized digit")

	return cmd
}

func runDecode(in io.Reader, out io.Writer, marker byte, annotate bool) error {
	report, err := engine.NewDecoder(engine.WithMarker(marker)).DecodeReader(in)
	if err != nil {
		return err
	}

	body := report.String()
	if annotate {
		body = report.Annotated()
	}
	if body == "" {
		return nil
	}

	_, err = fmt.Fprintln(out, body)
	return err
}
