package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gocrud/scrapekit"
	"github.com/gocrud/scrapekit/textutil"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "scrapekit",
		Short:         "Configuration check and text helpers for the scraper",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newConfigCmd(), newCleanCmd(), newNumCmd(), newJoinCmd())
	return root
}

func newConfigCmd() *cobra.Command {
	var envFile, yamlFile string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Resolve settings from the environment and print them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []scrapekit.Option
			if envFile != "" {
				opts = append(opts, scrapekit.WithDotEnv(envFile))
			}
			if yamlFile != "" {
				opts = append(opts, scrapekit.WithYamlFile(yamlFile))
			}

			settings, err := scrapekit.LoadSettings(opts...)
			if err != nil {
				return err
			}

			values := settings.Redacted()
			keys := make([]string, 0, len(values))
			for k := range values {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			out := cmd.OutOrStdout()
			for _, k := range keys {
				fmt.Fprintf(out, "%s=%s\n", k, values[k])
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&envFile, "env-file", "", "load a .env file before the process environment")
	cmd.Flags().StringVar(&yamlFile, "yaml", "", "load a YAML settings file before the process environment")
	return cmd
}

func newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean <text...>",
		Short: "Collapse whitespace",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), textutil.CleanSpaces(strings.Join(args, " ")))
		},
	}
}

func newNumCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "num <text>",
		Short: "Parse a number written with a decimal comma",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := textutil.ToNum(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	}
}

func newJoinCmd() *cobra.Command {
	var sep string

	cmd := &cobra.Command{
		Use:   "join <parts...>",
		Short: "Join non-empty parts with a separator",
		Run: func(cmd *cobra.Command, args []string) {
			parts := make([]any, len(args))
			for i, a := range args {
				parts[i] = a
			}
			fmt.Fprintln(cmd.OutOrStdout(), textutil.SafeJoin(parts, sep))
		},
	}
	cmd.Flags().StringVar(&sep, "sep", " ", "separator")
	return cmd
}
