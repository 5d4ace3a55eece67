// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"errors"
	"fmt"

	"github.com/z5labs/zconfig/secret"

	"github.com/spf13/cobra"
)

var errPasswordRequired = errors.New("--password is required")

func newEncryptCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "encrypt VALUE",
		Short: "Print the ciphertext of VALUE for use as an encrypted value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.password == "" {
				return errPasswordRequired
			}
			c, err := secret.New(flags.password)
			if err != nil {
				return err
			}
			ciphertext, err := c.Encrypt(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ciphertext)
			return nil
		},
	}
}
