package cli

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"rknnc/internal/arrays"
	"rknnc/internal/common/fsutil"
	"rknnc/internal/config"
	"rknnc/internal/convert"
	"rknnc/internal/explain"
)

// loadConfig checks the file exists before parsing it.
func loadConfig(path string) (config.Configuration, error) {
	p, err := fsutil.RequireFile(path)
	if err != nil {
		return config.Configuration{}, err
	}
	return config.LoadFile(p)
}

func convertCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "convert <config>",
		Short:   "Run configure, load, build and export with the RKNN toolkit",
		Example: "  rknnc convert rknn.toml\n  rknnc --python .venv/bin/python convert model.yaml",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(args[0])
			if err != nil {
				return err
			}
			log := a.logger()
			reg := prometheus.NewRegistry()
			metrics := convert.NewMetrics(reg)

			tk, err := a.newToolkit(cmd.Context(), a.opts, log)
			if err != nil {
				return err
			}
			runErr := convert.New(tk, arrays.FileLoader{}, log, metrics).Run(cmd.Context(), cfg)
			closeErr := tk.Close()

			if a.opts.MetricsFile != "" {
				if err := prometheus.WriteToTextfile(a.opts.MetricsFile, reg); err != nil {
					log.Warn().Err(err).Str("path", a.opts.MetricsFile).Msg("write metrics file")
				}
			}
			if runErr != nil {
				return runErr
			}
			if closeErr != nil {
				return closeErr
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Exported %s\n", cfg.Export.Destination(config.ModelPath(cfg.Load)))
			return err
		},
	}
}

func explainCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "explain <config>",
		Short: "Show every setting with its default and whether it was set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(args[0])
			if err != nil {
				return err
			}
			return explain.Write(cmd.OutOrStdout(), cfg)
		},
	}
}

func defaultsCmd() *cobra.Command {
	var format string
	c := &cobra.Command{
		Use:   "defaults",
		Short: "Print a configuration document holding all defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := config.ParseFormat(format)
			if err != nil {
				return err
			}
			return config.Encode(cmd.OutOrStdout(), config.Defaults(), f)
		},
	}
	c.Flags().StringVar(&format, "format", string(config.FormatTOML), "Output format: toml|yaml|json")
	return c
}
