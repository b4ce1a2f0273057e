package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fr0stylo/geocatalog/internal/convert"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "geojsonconvert",
		Short: "Convert JSON records with coordinates into a GeoJSON file",
		Long: `Convert a JSON array of flat records into a GeoJSON FeatureCollection of points.

Records without usable coordinates (missing, empty, unparsable or zero) are skipped.
All remaining fields become feature properties.

Examples:
  geojsonconvert --input housing.json --output provider-data/housing.geojson
  geojsonconvert --config convert.yaml
  GEOJSONCONVERT_INPUT=registry.json geojsonconvert --output provider-data/registry.geojson`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(v, cmd.Flag("config").Value.String())
			if err != nil {
				return err
			}
			stats, err := convert.File(cmd.Context(), cfg.Input, cfg.Output, convert.Options{
				LatitudeField:  cfg.LatitudeField,
				LongitudeField: cfg.LongitudeField,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Converted %d of %d records (%d skipped) into %s\n",
				stats.Converted, stats.Read, stats.Skipped, cfg.Output)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.String("config", "", "path to YAML config")
	flags.String("input", "", "input JSON file (array of records)")
	flags.String("output", "", "output GeoJSON file")
	flags.String("lat-field", convert.DefaultLatitudeField, "record field holding the latitude")
	flags.String("lon-field", convert.DefaultLongitudeField, "record field holding the longitude")

	_ = v.BindPFlag("input", flags.Lookup("input"))
	_ = v.BindPFlag("output", flags.Lookup("output"))
	_ = v.BindPFlag("lat_field", flags.Lookup("lat-field"))
	_ = v.BindPFlag("lon_field", flags.Lookup("lon-field"))
	v.SetEnvPrefix("geojsonconvert")
	v.AutomaticEnv()

	return cmd
}

func loadConfig(v *viper.Viper, path string) (config, error) {
	if path = strings.TrimSpace(path); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg config
	if err := v.Unmarshal(&cfg); err != nil {
		return config{}, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.Input = strings.TrimSpace(cfg.Input)
	cfg.Output = strings.TrimSpace(cfg.Output)
	cfg.LatitudeField = strings.TrimSpace(cfg.LatitudeField)
	cfg.LongitudeField = strings.TrimSpace(cfg.LongitudeField)

	if cfg.Input == "" {
		return config{}, fmt.Errorf("input is required")
	}
	if cfg.Output == "" {
		return config{}, fmt.Errorf("output is required")
	}
	return cfg, nil
}
