// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var errInvalidDocuments = errors.New("one or more documents are invalid")

func newValidateCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE...",
		Short: "Parse documents and report every failure",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			results := make([]error, len(args))

			var g errgroup.Group
			for i, loc := range args {
				g.Go(func() error {
					_, results[i] = flags.load(ctx, cmd, loc)
					return nil
				})
			}
			g.Wait()

			failed := false
			for i, loc := range args {
				if results[i] != nil {
					failed = true
					fmt.Fprintf(cmd.OutOrStdout(), "FAIL %s: %s\n", loc, results[i])
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "ok   %s\n", loc)
			}
			if failed {
				return errInvalidDocuments
			}
			return nil
		},
	}
}
