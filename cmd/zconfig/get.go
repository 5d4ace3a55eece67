// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"fmt"

	"github.com/z5labs/zconfig/config"
	"github.com/z5labs/zconfig/node"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newGetCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "get FILE PATH",
		Short: "Print the value or subtree at a dot path",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load(cmd.Context(), cmd, args[0])
			if err != nil {
				return err
			}

			n, err := cfg.Find(args[1])
			if err != nil {
				return err
			}

			if n.Kind() == node.KindValue {
				v := n.Value()
				if n.Encrypted() && flags.password != "" {
					v, err = cfg.Decrypt(n)
					if err != nil {
						return err
					}
				}
				fmt.Fprintln(cmd.OutOrStdout(), v)
				return nil
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			err = enc.Encode(config.EncodeNode(n))
			if err != nil {
				return err
			}
			return enc.Close()
		},
	}
}
