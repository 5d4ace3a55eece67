// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"github.com/z5labs/zconfig/config"

	"github.com/spf13/cobra"
)

func newConvertCmd(flags *rootFlags) *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "convert FILE",
		Short: "Write a document as resolved JSON or YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load(cmd.Context(), cmd, args[0])
			if err != nil {
				return err
			}
			return config.Encode(cmd.OutOrStdout(), cfg, config.Format(to))
		},
	}
	cmd.Flags().StringVar(&to, "to", string(config.YAML), "output format: json or yaml")
	return cmd
}
